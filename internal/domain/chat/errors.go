package chat

import "errors"

var (
	ErrNotAuthorized    = errors.New("you are not authorized for this conversation")
	ErrExpertNotEngaged = errors.New("the expert has not opened this conversation yet")
	ErrRequestNotFound  = errors.New("service request not found")
	ErrEmptyMessage     = errors.New("message content is required")
	ErrMessageTooLong   = errors.New("message content exceeds the maximum length")
)
