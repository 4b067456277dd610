package appointment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Notifier is implemented by the notification service. Delivery problems
// come back as errors that callers surface as warnings; the appointment
// change itself stands.
type Notifier interface {
	NotifyAppointmentUpdate(ctx context.Context, userID, appointmentID int64, when time.Time, change string) error
}

type Service struct {
	repo     Repository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger, now: time.Now}
}

type ScheduleInput struct {
	ClientID        int64
	ExpertID        int64
	RequestID       *int64
	ScheduledAt     time.Time
	DurationMinutes int
	Type            ConsultationType
	Notes           string
}

// Schedule books a consultation slot and notifies both participants.
func (s *Service) Schedule(ctx context.Context, actorID int64, role string, in ScheduleInput) (*Appointment, string, error) {
	if !in.Type.IsValid() {
		return nil, "", ErrInvalidType
	}
	if in.DurationMinutes <= 0 {
		in.DurationMinutes = 60
	}
	if in.ScheduledAt.Before(s.now()) {
		return nil, "", ErrPastTime
	}

	// Clients book for themselves; experts may book on behalf of a client.
	switch role {
	case "client":
		in.ClientID = actorID
	case "expert":
		in.ExpertID = actorID
	case "admin":
	default:
		return nil, "", ErrForbidden
	}
	if in.ClientID == 0 || in.ExpertID == 0 {
		return nil, "", ErrForbidden
	}

	end := in.ScheduledAt.Add(time.Duration(in.DurationMinutes) * time.Minute)
	taken, err := s.repo.HasOverlap(ctx, in.ExpertID, in.ScheduledAt, end, 0)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", ErrSlotTaken
	}

	a := &Appointment{
		ClientID:        in.ClientID,
		ExpertID:        in.ExpertID,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
		Type:            in.Type,
		Status:          StatusScheduled,
		Notes:           in.Notes,
	}
	if in.RequestID != nil {
		a.RequestID.Int64 = *in.RequestID
		a.RequestID.Valid = true
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, "", err
	}

	warning := s.fanOut(ctx, a, actorID, true, "scheduled")
	return a, warning, nil
}

// UpdateStatus moves the appointment to a new status and notifies the other
// party. Terminal appointments refuse further changes.
func (s *Service) UpdateStatus(ctx context.Context, actorID int64, role string, id int64, newStatus Status) (*Appointment, string, error) {
	if !newStatus.IsValid() {
		return nil, "", ErrInvalidStatus
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if role != "admin" && !a.IsParty(actorID) {
		return nil, "", ErrForbidden
	}
	if a.Status.IsTerminal() {
		return nil, "", ErrTerminalStatus
	}

	a.Status = newStatus
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, "", err
	}

	warning := s.fanOut(ctx, a, actorID, false, string(a.Status))
	return a, warning, nil
}

// Reschedule moves the slot to a new time, rechecking the expert's calendar.
func (s *Service) Reschedule(ctx context.Context, actorID int64, role string, id int64, newTime time.Time, durationMinutes int) (*Appointment, string, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if role != "admin" && !a.IsParty(actorID) {
		return nil, "", ErrForbidden
	}
	if a.Status.IsTerminal() {
		return nil, "", ErrTerminalStatus
	}
	if newTime.Before(s.now()) {
		return nil, "", ErrPastTime
	}
	if durationMinutes <= 0 {
		durationMinutes = a.DurationMinutes
	}

	end := newTime.Add(time.Duration(durationMinutes) * time.Minute)
	taken, err := s.repo.HasOverlap(ctx, a.ExpertID, newTime, end, a.ID)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", ErrSlotTaken
	}

	a.ScheduledAt = newTime
	a.DurationMinutes = durationMinutes
	a.Status = StatusScheduled
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, "", err
	}

	warning := s.fanOut(ctx, a, actorID, false,
		fmt.Sprintf("moved to %s", a.ScheduledAt.Format("2006-01-02 15:04")))
	return a, warning, nil
}

// Get returns a single appointment visible to the caller.
func (s *Service) Get(ctx context.Context, userID int64, role string, id int64) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != "admin" && !a.IsParty(userID) {
		return nil, ErrForbidden
	}
	return a, nil
}

// List returns the caller's calendar; admins see everything.
func (s *Service) List(ctx context.Context, userID int64, role string) ([]*Appointment, error) {
	switch role {
	case "admin":
		return s.repo.ListAll(ctx)
	case "expert":
		return s.repo.ListByExpert(ctx, userID)
	default:
		return s.repo.ListByClient(ctx, userID)
	}
}

// fanOut records an appointment_update notification for each affected party,
// skipping the actor unless both sides need to hear about a fresh booking.
// Failures never unwind the appointment change; they come back as a warning.
func (s *Service) fanOut(ctx context.Context, a *Appointment, actorID int64, includeActor bool, change string) string {
	recipients := make([]int64, 0, 2)
	for _, id := range []int64{a.ClientID, a.ExpertID} {
		if id != actorID || includeActor {
			recipients = append(recipients, id)
		}
	}

	var warning string
	for _, id := range recipients {
		if err := s.notifier.NotifyAppointmentUpdate(ctx, id, a.ID, a.ScheduledAt, change); err != nil {
			s.logger.Warn("appointment notification failed",
				zap.Int64("appointment_id", a.ID),
				zap.Int64("user_id", id),
				zap.Error(err))
			warning = "appointment saved, but a notification could not be delivered"
		}
	}
	return warning
}
