package correction

import "errors"

var (
	ErrCorrectionNotFound = errors.New("attendance correction not found")
	ErrInvalidTransition  = errors.New("invalid attendance correction transition")
	// ErrPendingCorrection is returned when the day already has a correction
	// awaiting review.
	ErrPendingCorrection = errors.New("a correction for this day is already pending")
	ErrFutureCorrection  = errors.New("a correction cannot be dated in the future")
)
