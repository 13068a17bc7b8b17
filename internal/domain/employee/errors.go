package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrUnknownEmployee means the profile store does not know the ID or
	// reports the employee as no longer active.
	ErrUnknownEmployee = errors.New("unknown or inactive employee")
)
