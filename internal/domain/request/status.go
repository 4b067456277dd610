package request

// Status of a service request. Completed, cancelled and rejected are
// terminal: no outbound transitions exist for them.
type Status string

const (
	StatusNew         Status = "new"
	StatusPendingInfo Status = "pending_info"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusRejected    Status = "rejected"
)

// allowedTransitions is the full status state machine. Absence of a target
// means the transition is rejected without mutating the request.
var allowedTransitions = map[Status][]Status{
	StatusNew:         {StatusInProgress, StatusPendingInfo, StatusRejected},
	StatusPendingInfo: {StatusInProgress, StatusRejected},
	StatusInProgress:  {StatusCompleted, StatusPendingInfo},
	StatusCompleted:   {},
	StatusCancelled:   {},
	StatusRejected:    {},
}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether s -> target is in the allowed table.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range allowedTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}
