package leave

import "fmt"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no action can leave s.
func (s Status) IsTerminal() bool {
	for key := range transitions {
		if key.from == s {
			return false
		}
	}
	return true
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
)

type transitionKey struct {
	from   Status
	action Action
}

// transitions is the complete table. A pair missing here is invalid.
var transitions = map[transitionKey]Status{
	{StatusPending, ActionApprove}: StatusApproved,
	{StatusPending, ActionReject}:  StatusRejected,
	{StatusPending, ActionCancel}:  StatusCancelled,
}

// Transition returns the status reached by applying action to from.
func Transition(from Status, action Action) (Status, error) {
	to, ok := transitions[transitionKey{from, action}]
	if !ok {
		return from, fmt.Errorf("%w: cannot %s a %s request", ErrInvalidTransition, action, from)
	}
	return to, nil
}
