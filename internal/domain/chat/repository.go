package chat

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository handles all DB operations for chat messages
type Repository interface {
	Create(ctx context.Context, msg *Message) error
	ListByRequest(ctx context.Context, requestID int64, limit, offset int) ([]*Message, error)

	// HasMessageFrom reports whether the given sender has any stored message
	// in the room. Used for the client access gate.
	HasMessageFrom(ctx context.Context, requestID, senderID int64) (bool, error)

	MarkConversationRead(ctx context.Context, requestID, readerID int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)

	// GetRequestIDForMessage feeds notification redirect resolution.
	GetRequestIDForMessage(ctx context.Context, messageID string) (int64, bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, msg *Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListByRequest returns messages in submission order; sent_at is the
// authoritative order for history reconciliation.
func (r *repository) ListByRequest(ctx context.Context, requestID int64, limit, offset int) ([]*Message, error) {
	var msgs []*Message
	q := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("sent_at ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	err := q.Find(&msgs).Error
	return msgs, err
}

func (r *repository) HasMessageFrom(ctx context.Context, requestID, senderID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("request_id = ? AND sender_id = ?", requestID, senderID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) MarkConversationRead(ctx context.Context, requestID, readerID int64) error {
	return r.db.WithContext(ctx).
		Model(&Message{}).
		Where("request_id = ? AND recipient_id = ? AND is_read = ?", requestID, readerID, false).
		Updates(map[string]any{"is_read": true, "read_at": time.Now()}).Error
}

func (r *repository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *repository) GetRequestIDForMessage(ctx context.Context, messageID string) (int64, bool, error) {
	var msg Message
	err := r.db.WithContext(ctx).
		Select("request_id").
		Where("id = ?", messageID).
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return msg.RequestID, true, nil
}
