package notification

import (
	"database/sql"
	"time"
)

// Type enumerates notification kinds. The document type is emitted by the
// document-verification collaborators, not by this core.
type Type string

const (
	TypeStatusUpdate      Type = "status_update"
	TypeAssignment        Type = "assignment"
	TypeNewMessage        Type = "new_message"
	TypeAppointmentUpdate Type = "appointment_update"
	TypeDocument          Type = "document"
)

// Notification is a fan-out record for one user. At most one back-reference
// is populated, and it must stay consistent with Type.
type Notification struct {
	ID        int64        `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64        `gorm:"column:user_id;index:idx_notifications_user_unread" json:"user_id"`
	Type      Type         `gorm:"column:type" json:"type"`
	Title     string       `gorm:"column:title" json:"title"`
	Body      string       `gorm:"column:body" json:"body"`
	IsRead    bool         `gorm:"column:is_read;index:idx_notifications_user_unread" json:"is_read"`
	ReadAt    sql.NullTime `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time    `gorm:"column:created_at" json:"created_at"`

	// Back-references to the object that caused the notification.
	RequestID     sql.NullInt64  `gorm:"column:request_id" json:"request_id,omitempty"`
	AppointmentID sql.NullInt64  `gorm:"column:appointment_id" json:"appointment_id,omitempty"`
	MessageID     sql.NullString `gorm:"column:message_id" json:"message_id,omitempty"`
}

func (Notification) TableName() string { return "notifications" }

// MarkAsRead flips the read flag with a timestamp.
func (n *Notification) MarkAsRead() {
	n.IsRead = true
	n.ReadAt = sql.NullTime{Time: time.Now(), Valid: true}
}

// BackRef selects the object a notification points back to.
type BackRef struct {
	RequestID     *int64
	AppointmentID *int64
	MessageID     *string
}

// RequestRef builds a back-reference to a service request.
func RequestRef(id int64) BackRef { return BackRef{RequestID: &id} }

// AppointmentRef builds a back-reference to an appointment.
func AppointmentRef(id int64) BackRef { return BackRef{AppointmentID: &id} }

// MessageRef builds a back-reference to a chat message.
func MessageRef(id string) BackRef { return BackRef{MessageID: &id} }
