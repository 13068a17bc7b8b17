package clock

import (
	"context"
	"time"
)

// EventRepository persists clock events. Mutating calls are expected to run
// inside a transaction that holds the day lock taken by LockDay.
type EventRepository interface {
	// LockDay serializes writers for one employee's day until the surrounding
	// transaction ends.
	LockDay(ctx context.Context, employeeID string, workDate time.Time) error
	Exists(ctx context.Context, employeeID string, occurredAt time.Time, kind Kind) (bool, error)
	// LastOfDay returns the latest event of the day, or nil when the day is empty.
	LastOfDay(ctx context.Context, employeeID string, workDate time.Time) (*Event, error)
	Create(ctx context.Context, event Event) (Event, error)
	ListByDay(ctx context.Context, employeeID string, workDate time.Time) ([]Event, error)
}
