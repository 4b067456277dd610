package request

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Notifier is implemented by the notification service. Failures never roll
// back the triggering change; they surface as warnings.
type Notifier interface {
	NotifyStatusUpdate(ctx context.Context, userID, requestID int64, requestTitle, newStatus string) error
	NotifyAssignment(ctx context.Context, userID, requestID int64, requestTitle, expertName string) error
}

// UserSource resolves display names, implemented by the auth repository.
type UserSource interface {
	GetUserName(ctx context.Context, id int64) (string, error)
}

// Service handles service-request business logic.
type Service struct {
	repo     Repository
	notifier Notifier
	users    UserSource
	logger   *zap.Logger
}

func NewService(repo Repository, notifier Notifier, users UserSource, logger *zap.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, users: users, logger: logger}
}

type CreateInput struct {
	Title       string
	Description string
	Priority    Priority
}

// Create opens a new request for the client with status "new".
func (s *Service) Create(ctx context.Context, clientID int64, in CreateInput) (*ServiceRequest, error) {
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	now := time.Now()
	req := &ServiceRequest{
		ClientID:    clientID,
		Title:       in.Title,
		Description: in.Description,
		Status:      StatusNew,
		Priority:    in.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Get returns a request the actor is allowed to see.
func (s *Service) Get(ctx context.Context, actorID int64, role string, id int64) (*ServiceRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != "admin" && !req.IsParty(actorID) {
		return nil, ErrForbidden
	}
	return req, nil
}

// List returns the requests visible to the actor: clients see their own,
// experts their assignments, admins everything.
func (s *Service) List(ctx context.Context, actorID int64, role string) ([]*ServiceRequest, error) {
	switch role {
	case "admin":
		return s.repo.ListAll(ctx)
	case "expert":
		return s.repo.ListByExpert(ctx, actorID)
	default:
		return s.repo.ListByClient(ctx, actorID)
	}
}

// UpdateStatus applies a status transition. Only the assigned expert or an
// admin may transition a request. On success the client and, when assigned,
// the expert are notified; a notification failure is returned as a warning
// alongside the already-committed result.
func (s *Service) UpdateStatus(ctx context.Context, actorID int64, role string, id int64, newStatus Status) (*ServiceRequest, string, error) {
	if !newStatus.IsValid() {
		return nil, "", ErrInvalidStatus
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if role != "admin" {
		if role != "expert" || !req.ExpertID.Valid || req.ExpertID.Int64 != actorID {
			return nil, "", ErrForbidden
		}
	}

	if !req.Status.CanTransitionTo(newStatus) {
		return nil, "", ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, "", err
	}
	req.Status = newStatus
	req.UpdatedAt = time.Now()

	warning := ""
	if err := s.notifier.NotifyStatusUpdate(ctx, req.ClientID, req.ID, req.Title, string(newStatus)); err != nil {
		s.logger.Warn("status notification failed",
			zap.Int64("request_id", req.ID),
			zap.Int64("user_id", req.ClientID),
			zap.Error(err))
		warning = "status updated, but the client notification could not be recorded"
	}
	if req.ExpertID.Valid && req.ExpertID.Int64 != actorID {
		if err := s.notifier.NotifyStatusUpdate(ctx, req.ExpertID.Int64, req.ID, req.Title, string(newStatus)); err != nil {
			s.logger.Warn("status notification failed",
				zap.Int64("request_id", req.ID),
				zap.Int64("user_id", req.ExpertID.Int64),
				zap.Error(err))
			if warning == "" {
				warning = "status updated, but the expert notification could not be recorded"
			}
		}
	}

	return req, warning, nil
}

// Assign attaches an expert to a request. Experts self-assign; admins may
// assign anyone. Assignment is rejected once the request is terminal.
func (s *Service) Assign(ctx context.Context, actorID int64, role string, id, expertID int64) (*ServiceRequest, string, error) {
	if role != "admin" {
		if role != "expert" || actorID != expertID {
			return nil, "", ErrForbidden
		}
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if req.Status.IsTerminal() {
		return nil, "", ErrTerminalStatus
	}
	if req.ExpertID.Valid {
		return nil, "", ErrAlreadyAssigned
	}

	if err := s.repo.SetExpert(ctx, id, expertID); err != nil {
		return nil, "", err
	}
	req.ExpertID.Int64 = expertID
	req.ExpertID.Valid = true
	req.UpdatedAt = time.Now()

	expertName, err := s.users.GetUserName(ctx, expertID)
	if err != nil {
		expertName = "An expert"
	}

	warning := ""
	if err := s.notifier.NotifyAssignment(ctx, req.ClientID, req.ID, req.Title, expertName); err != nil {
		s.logger.Warn("assignment notification failed",
			zap.Int64("request_id", req.ID),
			zap.Int64("user_id", req.ClientID),
			zap.Error(err))
		warning = "expert assigned, but the client notification could not be recorded"
	}
	if err := s.notifier.NotifyAssignment(ctx, expertID, req.ID, req.Title, expertName); err != nil {
		s.logger.Warn("assignment notification failed",
			zap.Int64("request_id", req.ID),
			zap.Int64("user_id", expertID),
			zap.Error(err))
		if warning == "" {
			warning = "expert assigned, but the expert notification could not be recorded"
		}
	}

	return req, warning, nil
}
