package leave

import (
	"context"
	"time"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetAll(ctx context.Context) ([]LeaveType, error)
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Request, error)
	UpdateDecision(ctx context.Context, request Request) error
	GetByEmployeeID(ctx context.Context, employeeID string, status *Status) ([]Request, error)
	// GetApprovedCovering returns approved requests overlapping [from, to].
	GetApprovedCovering(ctx context.Context, employeeID string, from, to time.Time) ([]Request, error)

	// LockEmployee serializes submissions for one employee until the
	// surrounding transaction ends.
	LockEmployee(ctx context.Context, employeeID string) error
	// HasOverlapping reports whether a PENDING or APPROVED request of the
	// employee intersects [start, end].
	HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
}
