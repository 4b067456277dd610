package appointment

import (
	"database/sql"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCancelled, StatusCompleted, StatusMissed:
		return true
	}
	return false
}

// IsTerminal reports whether the appointment can no longer change state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusMissed:
		return true
	}
	return false
}

type ConsultationType string

const (
	TypeInPerson ConsultationType = "in_person"
	TypeVideo    ConsultationType = "video"
	TypePhone    ConsultationType = "phone"
)

func (t ConsultationType) IsValid() bool {
	switch t {
	case TypeInPerson, TypeVideo, TypePhone:
		return true
	}
	return false
}

// Appointment is a consultation slot between a client and an expert,
// optionally tied to a service request.
type Appointment struct {
	ID              int64            `gorm:"primaryKey" json:"id"`
	ClientID        int64            `gorm:"not null;index" json:"client_id"`
	ExpertID        int64            `gorm:"not null;index" json:"expert_id"`
	RequestID       sql.NullInt64    `gorm:"index" json:"-"`
	ScheduledAt     time.Time        `gorm:"not null" json:"scheduled_at"`
	DurationMinutes int              `gorm:"not null;default:60" json:"duration_minutes"`
	Type            ConsultationType `gorm:"type:varchar(20);not null" json:"type"`
	Status          Status           `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`
	Notes           string           `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func (Appointment) TableName() string { return "appointments" }

// End returns the moment the slot finishes.
func (a *Appointment) End() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsParty reports whether the user is the client or the expert of the slot.
func (a *Appointment) IsParty(userID int64) bool {
	return userID == a.ClientID || userID == a.ExpertID
}

// OtherParty returns the counterpart of the given participant.
func (a *Appointment) OtherParty(userID int64) int64 {
	if userID == a.ClientID {
		return a.ExpertID
	}
	return a.ClientID
}
