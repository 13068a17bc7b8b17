package clock

import "errors"

var (
	// ErrInvalidSequence is returned when an event would break the
	// CHECK_IN, CHECK_OUT alternation of an employee's day.
	ErrInvalidSequence = errors.New("clock event out of sequence")
	ErrDuplicateEvent  = errors.New("clock event already recorded")
	ErrInvalidKind     = errors.New("clock event kind must be CHECK_IN or CHECK_OUT")
	// ErrManualEntryForbidden is returned when a caller without attendance
	// management rights supplies its own timestamp.
	ErrManualEntryForbidden = errors.New("only attendance managers may set occurred_at")
)
