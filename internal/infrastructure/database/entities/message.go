package entities

import "github.com/slopify/slopify-api/internal/domain/message"

// Message is an immutable row of the message log.
type Message struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	FromUserID string `gorm:"type:varchar(64);not null;index:idx_messages_pair_created,priority:1"`
	ToUserID   string `gorm:"type:varchar(64);not null;index:idx_messages_pair_created,priority:2"`
	Content    string `gorm:"type:text;not null"`
	CreatedAt  int64  `gorm:"not null;autoCreateTime:milli;index:idx_messages_pair_created,priority:3"`

	FromUser *User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ToUser   *User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

func NewSchemaMessage(m *message.Message) *Message {
	return &Message{
		FromUserID: m.FromUserID,
		ToUserID:   m.ToUserID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}

// ConversationRow is a message joined with both participants.
type ConversationRow struct {
	ID            uint64
	FromUserID    string
	FromUsername  string
	FromAvatarURL *string
	ToUserID      string
	ToUsername    string
	Content       string
	CreatedAt     int64
}

func (r *ConversationRow) EtoD() *message.Message {
	return &message.Message{
		ID:            r.ID,
		FromUserID:    r.FromUserID,
		FromUsername:  r.FromUsername,
		FromAvatarURL: r.FromAvatarURL,
		ToUserID:      r.ToUserID,
		ToUsername:    r.ToUsername,
		Content:       r.Content,
		CreatedAt:     r.CreatedAt,
	}
}
