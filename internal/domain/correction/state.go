package correction

import "fmt"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

type transitionKey struct {
	from   Status
	action Action
}

var transitions = map[transitionKey]Status{
	{StatusPending, ActionApprove}: StatusApproved,
	{StatusPending, ActionReject}:  StatusRejected,
}

// Transition returns the status reached by applying action to from.
func Transition(from Status, action Action) (Status, error) {
	to, ok := transitions[transitionKey{from, action}]
	if !ok {
		return from, fmt.Errorf("%w: cannot %s a %s correction", ErrInvalidTransition, action, from)
	}
	return to, nil
}
