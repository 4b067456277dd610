package request

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository handles all DB operations for service requests
type Repository interface {
	Create(ctx context.Context, r *ServiceRequest) error
	GetByID(ctx context.Context, id int64) (*ServiceRequest, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	SetExpert(ctx context.Context, id, expertID int64) error
	ListByClient(ctx context.Context, clientID int64) ([]*ServiceRequest, error)
	ListByExpert(ctx context.Context, expertID int64) ([]*ServiceRequest, error)
	ListAll(ctx context.Context) ([]*ServiceRequest, error)

	// GetParties and GetRequestTitle expose request data to the chat layer
	// without importing this package's entity.
	GetParties(ctx context.Context, requestID int64) (clientID int64, expertID *int64, err error)
	GetRequestTitle(ctx context.Context, requestID int64) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *ServiceRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*ServiceRequest, error) {
	var req ServiceRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &req, err
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	return r.db.WithContext(ctx).
		Model(&ServiceRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

func (r *repository) SetExpert(ctx context.Context, id, expertID int64) error {
	return r.db.WithContext(ctx).
		Model(&ServiceRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"expert_id":  sql.NullInt64{Int64: expertID, Valid: true},
			"updated_at": time.Now(),
		}).Error
}

func (r *repository) ListByClient(ctx context.Context, clientID int64) ([]*ServiceRequest, error) {
	var list []*ServiceRequest
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListByExpert(ctx context.Context, expertID int64) ([]*ServiceRequest, error) {
	var list []*ServiceRequest
	err := r.db.WithContext(ctx).
		Where("expert_id = ?", expertID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListAll(ctx context.Context) ([]*ServiceRequest, error) {
	var list []*ServiceRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) GetParties(ctx context.Context, requestID int64) (int64, *int64, error) {
	req, err := r.GetByID(ctx, requestID)
	if err != nil {
		return 0, nil, err
	}
	var expertID *int64
	if req.ExpertID.Valid {
		id := req.ExpertID.Int64
		expertID = &id
	}
	return req.ClientID, expertID, nil
}

func (r *repository) GetRequestTitle(ctx context.Context, requestID int64) (string, error) {
	req, err := r.GetByID(ctx, requestID)
	if err != nil {
		return "", err
	}
	return req.Title, nil
}
