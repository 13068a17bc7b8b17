package balance

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	// ErrInconsistentState signals a broken invariant upstream (for example a
	// commit larger than what is pending). It is a server fault, never a user error.
	ErrInconsistentState = errors.New("leave balance in inconsistent state")
	ErrBalanceNotFound   = errors.New("leave balance not found")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrInvalidPeriod     = errors.New("accrual period must look like 2024, 2024-06 or 2024-W23")
)
