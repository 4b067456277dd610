package appointment

import "errors"

var (
	ErrNotFound       = errors.New("appointment not found")
	ErrForbidden      = errors.New("not a participant of this appointment")
	ErrInvalidStatus  = errors.New("unknown appointment status")
	ErrInvalidType    = errors.New("unknown consultation type")
	ErrTerminalStatus = errors.New("appointment is in a terminal status")
	ErrPastTime       = errors.New("appointment time is in the past")
	ErrSlotTaken      = errors.New("expert already has an appointment in this slot")
)
