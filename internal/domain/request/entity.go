package request

import (
	"database/sql"
	"time"
)

// Priority of a service request.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ServiceRequest is one client-initiated unit of work. ExpertID stays null
// until an assignment happens; requests are never physically deleted.
type ServiceRequest struct {
	ID          int64         `gorm:"column:id;primaryKey" json:"id"`
	ClientID    int64         `gorm:"column:client_id;index" json:"client_id"`
	ExpertID    sql.NullInt64 `gorm:"column:expert_id;index" json:"expert_id,omitempty"`
	Title       string        `gorm:"column:title" json:"title"`
	Description string        `gorm:"column:description" json:"description"`
	Status      Status        `gorm:"column:status" json:"status"`
	Priority    Priority      `gorm:"column:priority" json:"priority"`
	CreatedAt   time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (ServiceRequest) TableName() string { return "service_requests" }

// IsParty reports whether the user is the client or the assigned expert.
func (r *ServiceRequest) IsParty(userID int64) bool {
	if r.ClientID == userID {
		return true
	}
	return r.ExpertID.Valid && r.ExpertID.Int64 == userID
}

// OtherParty returns the counterpart of the given party, or nil when the
// user is neither party or no counterpart exists yet.
func (r *ServiceRequest) OtherParty(userID int64) *int64 {
	if userID == r.ClientID {
		if r.ExpertID.Valid {
			id := r.ExpertID.Int64
			return &id
		}
		return nil
	}
	if r.ExpertID.Valid && r.ExpertID.Int64 == userID {
		id := r.ClientID
		return &id
	}
	return nil
}
