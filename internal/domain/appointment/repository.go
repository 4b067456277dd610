package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	ListByClient(ctx context.Context, clientID int64) ([]*Appointment, error)
	ListByExpert(ctx context.Context, expertID int64) ([]*Appointment, error)
	ListAll(ctx context.Context) ([]*Appointment, error)
	HasOverlap(ctx context.Context, expertID int64, start, end time.Time, excludeID int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	var a Appointment
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Update(ctx context.Context, a *Appointment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) ListByClient(ctx context.Context, clientID int64) ([]*Appointment, error) {
	var list []*Appointment
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("scheduled_at ASC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListByExpert(ctx context.Context, expertID int64) ([]*Appointment, error) {
	var list []*Appointment
	err := r.db.WithContext(ctx).
		Where("expert_id = ?", expertID).
		Order("scheduled_at ASC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListAll(ctx context.Context) ([]*Appointment, error) {
	var list []*Appointment
	err := r.db.WithContext(ctx).
		Order("scheduled_at ASC").
		Find(&list).Error
	return list, err
}

// HasOverlap checks the expert's calendar for a live appointment crossing
// the window. The end of a slot is derived from its duration column, so the
// range check runs in Go; this keeps the query identical on postgres and
// sqlite. Two ranges overlap when start1 < end2 and end1 > start2.
func (r *repository) HasOverlap(ctx context.Context, expertID int64, start, end time.Time, excludeID int64) (bool, error) {
	var candidates []*Appointment
	q := r.db.WithContext(ctx).
		Where("expert_id = ?", expertID).
		Where("status IN ?", []string{string(StatusScheduled), string(StatusConfirmed)}).
		Where("scheduled_at < ?", end)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Find(&candidates).Error; err != nil {
		return false, err
	}
	for _, a := range candidates {
		if a.ScheduledAt.Before(end) && a.End().After(start) {
			return true, nil
		}
	}
	return false, nil
}
