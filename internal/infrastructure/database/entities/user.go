package entities

import "github.com/slopify/slopify-api/internal/domain/user"

// User is the users table.
type User struct {
	ID          string  `gorm:"type:varchar(64);primaryKey"`
	Username    string  `gorm:"type:varchar(255);not null;index:idx_users_username"`
	AvatarURL   *string `gorm:"type:text"`
	AccessToken *string `gorm:"type:text"`
	DisplayName *string `gorm:"type:varchar(255)"`
	IsPublic    bool    `gorm:"not null;default:false;index:idx_users_public"`
	CreatedAt   int64   `gorm:"not null;autoCreateTime:false"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

// NewSchemaUser maps the domain user onto its row.
func NewSchemaUser(u *user.User) *User {
	return &User{
		ID:          u.ID,
		Username:    u.Username,
		AvatarURL:   u.AvatarURL,
		AccessToken: u.AccessToken,
		DisplayName: u.DisplayName,
		IsPublic:    u.IsPublic,
		CreatedAt:   u.CreatedAt,
	}
}

// EtoD converts the row to the domain user.
func (u *User) EtoD() *user.User {
	return &user.User{
		ID:          u.ID,
		Username:    u.Username,
		AvatarURL:   u.AvatarURL,
		AccessToken: u.AccessToken,
		DisplayName: u.DisplayName,
		IsPublic:    u.IsPublic,
		CreatedAt:   u.CreatedAt,
	}
}
