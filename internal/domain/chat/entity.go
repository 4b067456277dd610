package chat

import (
	"database/sql"
	"time"
)

// MaxContentLength bounds a single chat message.
const MaxContentLength = 2000

// Message is a single chat utterance. The room key is the service request
// the conversation belongs to; the recipient is derived from the request's
// parties, never chosen by the sender (null for administrative senders).
type Message struct {
	ID          string        `gorm:"column:id;primaryKey" json:"id"`
	RequestID   int64         `gorm:"column:request_id;index" json:"request_id"`
	SenderID    int64         `gorm:"column:sender_id" json:"sender_id"`
	RecipientID sql.NullInt64 `gorm:"column:recipient_id" json:"recipient_id,omitempty"`
	Content     string        `gorm:"column:content" json:"content"`
	SentAt      time.Time     `gorm:"column:sent_at;index" json:"sent_at"`
	IsRead      bool          `gorm:"column:is_read" json:"is_read"`
	ReadAt      sql.NullTime  `gorm:"column:read_at" json:"read_at,omitempty"`
}

func (Message) TableName() string { return "messages" }
