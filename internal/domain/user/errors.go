package user

import "errors"

var (
	ErrMissingIdentity         = errors.New("caller identity is missing")
	ErrInvalidRole             = errors.New("invalid role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
