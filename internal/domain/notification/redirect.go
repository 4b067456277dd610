package notification

import (
	"context"
	"fmt"
)

// MessageSource maps a chat message to the service request that owns it.
// Implemented by the chat repository.
type MessageSource interface {
	GetRequestIDForMessage(ctx context.Context, messageID string) (int64, bool, error)
}

// Resolver materializes the canonical UI location for a notification from
// its type and populated back-reference. Callers never need to know
// type-specific routing rules.
type Resolver struct {
	messages MessageSource
}

func NewResolver(messages MessageSource) *Resolver {
	return &Resolver{messages: messages}
}

// Resolve returns the redirect path for the given notification. The audience
// is the viewer's role; experts and clients land on different route trees.
func (r *Resolver) Resolve(ctx context.Context, n *Notification, role string) string {
	isExpert := role == "expert"

	switch n.Type {
	case TypeStatusUpdate, TypeAssignment:
		if n.RequestID.Valid {
			return requestDetailPath(n.RequestID.Int64, isExpert)
		}
		if isExpert {
			return "/expert/requests"
		}
		return "/requests"

	case TypeAppointmentUpdate:
		if n.AppointmentID.Valid {
			if isExpert {
				return fmt.Sprintf("/expert/appointments/%d", n.AppointmentID.Int64)
			}
			return fmt.Sprintf("/appointments/%d", n.AppointmentID.Int64)
		}
		if isExpert {
			return "/expert/appointments"
		}
		return "/appointments"

	case TypeNewMessage:
		if n.MessageID.Valid && r.messages != nil {
			if reqID, ok, err := r.messages.GetRequestIDForMessage(ctx, n.MessageID.String); err == nil && ok {
				return requestDetailPath(reqID, isExpert)
			}
		}
		if isExpert {
			return "/expert/messages"
		}
		return "/messages"

	case TypeDocument:
		if n.RequestID.Valid {
			return requestDetailPath(n.RequestID.Int64, isExpert)
		}
		if isExpert {
			return "/expert/documents"
		}
		return "/documents"
	}

	// fallback: role dashboard
	if isExpert {
		return "/expert/dashboard"
	}
	return "/dashboard"
}

func requestDetailPath(id int64, isExpert bool) string {
	if isExpert {
		return fmt.Sprintf("/expert/requests/%d", id)
	}
	return fmt.Sprintf("/requests/%d", id)
}
