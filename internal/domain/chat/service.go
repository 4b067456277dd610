package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestSource exposes the parties and title of a service request.
// Implemented by the request repository.
type RequestSource interface {
	GetParties(ctx context.Context, requestID int64) (clientID int64, expertID *int64, err error)
	GetRequestTitle(ctx context.Context, requestID int64) (string, error)
}

// Notifier is implemented by the notification service. A failure here never
// fails the message send; it is logged and the message stays persisted.
type Notifier interface {
	NotifyNewMessage(ctx context.Context, recipientID int64, messageID, senderName, requestTitle string) error
}

// UserSource resolves display names, implemented by the auth repository.
type UserSource interface {
	GetUserName(ctx context.Context, id int64) (string, error)
}

// Service handles conversation business logic: per-room authorization,
// recipient derivation and durable message persistence.
type Service struct {
	repo     Repository
	requests RequestSource
	notifier Notifier
	users    UserSource
	logger   *zap.Logger
}

func NewService(repo Repository, requests RequestSource, notifier Notifier, users UserSource, logger *zap.Logger) *Service {
	return &Service{repo: repo, requests: requests, notifier: notifier, users: users, logger: logger}
}

// Authorize decides whether the user may open the conversation room for the
// request. Parties are the request's client and assigned expert; admins
// always pass. A client is additionally gated on the expert having sent at
// least one message: this is an access-control rule, not a UX nicety.
func (s *Service) Authorize(ctx context.Context, userID int64, role string, requestID int64) error {
	clientID, expertID, err := s.requests.GetParties(ctx, requestID)
	if err != nil {
		return ErrRequestNotFound
	}

	if role == "admin" {
		return nil
	}

	if expertID != nil && userID == *expertID {
		return nil
	}

	if userID == clientID {
		if expertID == nil {
			return ErrExpertNotEngaged
		}
		engaged, err := s.repo.HasMessageFrom(ctx, requestID, *expertID)
		if err != nil {
			return err
		}
		if !engaged {
			return ErrExpertNotEngaged
		}
		return nil
	}

	return ErrNotAuthorized
}

// SaveMessage validates, derives the recipient as the other authorized
// party (nil for administrative senders), persists the message, and records
// a new-message notification for the recipient. The notification is
// best-effort: its failure never unwinds the stored message.
func (s *Service) SaveMessage(ctx context.Context, senderID int64, role string, requestID int64, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if len(content) > MaxContentLength {
		return nil, ErrMessageTooLong
	}

	clientID, expertID, err := s.requests.GetParties(ctx, requestID)
	if err != nil {
		return nil, ErrRequestNotFound
	}

	var recipientID *int64
	switch {
	case senderID == clientID:
		recipientID = expertID
	case expertID != nil && senderID == *expertID:
		recipientID = &clientID
	case role == "admin":
		recipientID = nil // broadcast-only
	default:
		return nil, ErrNotAuthorized
	}

	msg := &Message{
		ID:        uuid.New().String(),
		RequestID: requestID,
		SenderID:  senderID,
		Content:   content,
		SentAt:    time.Now(),
	}
	if recipientID != nil {
		msg.RecipientID.Int64 = *recipientID
		msg.RecipientID.Valid = true
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if recipientID != nil {
		senderName, err := s.users.GetUserName(ctx, senderID)
		if err != nil {
			senderName = "a participant"
		}
		title, _ := s.requests.GetRequestTitle(ctx, requestID)
		if err := s.notifier.NotifyNewMessage(ctx, *recipientID, msg.ID, senderName, title); err != nil {
			s.logger.Warn("new-message notification failed",
				zap.String("message_id", msg.ID),
				zap.Int64("recipient_id", *recipientID),
				zap.Error(err))
		}
	}

	return msg, nil
}

// History returns the room's messages in submission order. Parties and
// admins may read history; the expert-engagement gate applies only to
// opening the live conversation.
func (s *Service) History(ctx context.Context, userID int64, role string, requestID int64, limit, offset int) ([]*Message, error) {
	if err := s.authorizeParty(ctx, userID, role, requestID); err != nil {
		return nil, err
	}
	return s.repo.ListByRequest(ctx, requestID, limit, offset)
}

// MarkRead flips the read flag on every message addressed to the reader.
func (s *Service) MarkRead(ctx context.Context, userID int64, role string, requestID int64) error {
	if err := s.authorizeParty(ctx, userID, role, requestID); err != nil {
		return err
	}
	return s.repo.MarkConversationRead(ctx, requestID, userID)
}

// UnreadCount returns the total unread messages addressed to the user.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) authorizeParty(ctx context.Context, userID int64, role string, requestID int64) error {
	clientID, expertID, err := s.requests.GetParties(ctx, requestID)
	if err != nil {
		return ErrRequestNotFound
	}
	if role == "admin" || userID == clientID || (expertID != nil && userID == *expertID) {
		return nil
	}
	return ErrNotAuthorized
}
