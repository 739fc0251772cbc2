package entities

import "github.com/slopify/slopify-api/internal/domain/appdata"

// AppData is one key of one app for one user.
type AppData struct {
	UserID    string `gorm:"type:varchar(64);primaryKey"`
	AppID     string `gorm:"type:varchar(255);primaryKey"`
	Key       string `gorm:"type:varchar(255);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt int64  `gorm:"not null;autoUpdateTime:false"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for AppData.
func (AppData) TableName() string {
	return "app_data"
}

func NewSchemaAppData(e appdata.Entry) *AppData {
	return &AppData{
		UserID:    e.UserID,
		AppID:     e.AppID,
		Key:       e.Key,
		Value:     e.Value,
		UpdatedAt: e.UpdatedAt,
	}
}

func (a *AppData) EtoD() appdata.Entry {
	return appdata.Entry{
		UserID:    a.UserID,
		AppID:     a.AppID,
		Key:       a.Key,
		Value:     a.Value,
		UpdatedAt: a.UpdatedAt,
	}
}
