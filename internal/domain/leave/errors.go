package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrInvalidTransition    = errors.New("invalid leave request transition")
	// ErrNotRequester is returned when someone other than the requester, and
	// without approval rights, tries to cancel a request.
	ErrNotRequester   = errors.New("only the requesting employee can cancel this request")
	ErrNoBusinessDays = errors.New("leave range contains no business days")
	ErrForbidden      = errors.New("not allowed to act on this leave request")
	// ErrOverlappingLeave is returned when the range intersects a pending or
	// approved request of the same employee.
	ErrOverlappingLeave = errors.New("leave request overlaps an existing pending or approved request")
)
