package correction

import (
	"context"
	"time"
)

// CorrectionRepository - interface for attendance_corrections table
type CorrectionRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Request, error)
	UpdateReview(ctx context.Context, request Request) error
	GetByEmployeeID(ctx context.Context, employeeID string, status *Status) ([]Request, error)
	GetByStatus(ctx context.Context, status Status) ([]Request, error)
	// HasPending reports whether the employee's work day already has a
	// PENDING correction.
	HasPending(ctx context.Context, employeeID string, workDate time.Time) (bool, error)
}
