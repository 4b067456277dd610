package request

import "errors"

var (
	ErrNotFound          = errors.New("service request not found")
	ErrForbidden         = errors.New("you do not have access to this request")
	ErrInvalidStatus     = errors.New("unknown status value")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrTerminalStatus    = errors.New("request is in a terminal status")
	ErrAlreadyAssigned   = errors.New("request already has an assigned expert")
)
