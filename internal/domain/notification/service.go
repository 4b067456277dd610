package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"expertdesk/internal/mailer"
)

// UserDirectory resolves email recipients. Implemented by the auth repository.
type UserDirectory interface {
	GetEmailAndName(ctx context.Context, userID int64) (email, name string, err error)
}

// Service records in-app notifications and attempts best-effort email.
// Record creation errors are returned so the caller can surface a warning;
// they never roll back the triggering action. Email failures are logged and
// suppressed entirely.
type Service struct {
	repo   Repository
	users  UserDirectory
	mailer mailer.Mailer
	logger *zap.Logger
}

func NewService(repo Repository, users UserDirectory, m mailer.Mailer, logger *zap.Logger) *Service {
	return &Service{repo: repo, users: users, mailer: m, logger: logger}
}

// Notify creates the in-app notification record synchronously.
func (s *Service) Notify(ctx context.Context, userID int64, typ Type, title, body string, ref BackRef) (*Notification, error) {
	n := &Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if ref.RequestID != nil {
		n.RequestID = sql.NullInt64{Int64: *ref.RequestID, Valid: true}
	}
	if ref.AppointmentID != nil {
		n.AppointmentID = sql.NullInt64{Int64: *ref.AppointmentID, Valid: true}
	}
	if ref.MessageID != nil {
		n.MessageID = sql.NullString{String: *ref.MessageID, Valid: true}
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// NotifyStatusUpdate records a status-change notification for one user and
// sends the matching email.
func (s *Service) NotifyStatusUpdate(ctx context.Context, userID, requestID int64, requestTitle, newStatus string) error {
	_, err := s.Notify(ctx, userID, TypeStatusUpdate,
		"Request status updated",
		fmt.Sprintf("The status of the request %q is now %q.", requestTitle, newStatus),
		RequestRef(requestID))
	if err != nil {
		return err
	}

	go s.sendEmail(userID, "status_update", map[string]any{
		"RequestTitle": requestTitle,
		"NewStatus":    newStatus,
	})
	return nil
}

// NotifyAssignment records an expert-assignment notification.
func (s *Service) NotifyAssignment(ctx context.Context, userID, requestID int64, requestTitle, expertName string) error {
	_, err := s.Notify(ctx, userID, TypeAssignment,
		"Expert assigned",
		fmt.Sprintf("%s has been assigned to the request %q.", expertName, requestTitle),
		RequestRef(requestID))
	if err != nil {
		return err
	}

	go s.sendEmail(userID, "assignment", map[string]any{
		"RequestTitle": requestTitle,
		"ExpertName":   expertName,
	})
	return nil
}

// NotifyNewMessage records a chat-message notification for the recipient.
func (s *Service) NotifyNewMessage(ctx context.Context, recipientID int64, messageID, senderName, requestTitle string) error {
	_, err := s.Notify(ctx, recipientID, TypeNewMessage,
		"New message",
		fmt.Sprintf("You have a new message from %s regarding the request %q.", senderName, requestTitle),
		MessageRef(messageID))
	if err != nil {
		return err
	}

	go s.sendEmail(recipientID, "new_message", map[string]any{
		"SenderName":   senderName,
		"RequestTitle": requestTitle,
	})
	return nil
}

// NotifyAppointmentUpdate records an appointment change for one user.
func (s *Service) NotifyAppointmentUpdate(ctx context.Context, userID, appointmentID int64, when time.Time, change string) error {
	_, err := s.Notify(ctx, userID, TypeAppointmentUpdate,
		"Appointment update",
		fmt.Sprintf("Your appointment on %s has been %s.", when.Format("2006-01-02 15:04"), change),
		AppointmentRef(appointmentID))
	if err != nil {
		return err
	}

	go s.sendEmail(userID, "appointment_update", map[string]any{
		"DateTime": when.Format("2006-01-02 15:04"),
		"Change":   change,
	})
	return nil
}

// sendEmail is fire-and-forget: lookup or delivery failures are logged only.
func (s *Service) sendEmail(userID int64, template string, data map[string]any) {
	email, name, err := s.users.GetEmailAndName(context.Background(), userID)
	if err != nil {
		s.logger.Warn("email recipient lookup failed",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return
	}

	data["RecipientName"] = name
	if err := s.mailer.Send(email, template, data); err != nil {
		s.logger.Warn("email delivery failed",
			zap.Int64("user_id", userID),
			zap.String("template", template),
			zap.Error(err))
	}
}

// ---- Read API ----

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]*Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	list, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}
	return list, unread, nil
}

func (s *Service) Get(ctx context.Context, id, userID int64) (*Notification, error) {
	return s.repo.GetByID(ctx, id, userID)
}

func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
