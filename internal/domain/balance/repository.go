package balance

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceRepository holds one row per (employee, leave type). Every mutator
// is a single conditional statement so the check and the write cannot be
// separated by a concurrent writer.
type BalanceRepository interface {
	// Ensure lazily creates a zero balance row.
	Ensure(ctx context.Context, employeeID, leaveTypeID string) error
	Get(ctx context.Context, employeeID, leaveTypeID string) (Balance, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]Balance, error)

	// MarkAccrualPeriod records that period was applied. It returns false
	// when the marker already existed.
	MarkAccrualPeriod(ctx context.Context, employeeID, leaveTypeID, period string, units decimal.Decimal) (bool, error)
	AddAccrued(ctx context.Context, employeeID, leaveTypeID string, units decimal.Decimal) (Balance, error)

	// AddPending fails with ErrInsufficientBalance when days exceed Available.
	AddPending(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal) (Balance, error)
	// MovePendingToUsed fails with ErrInconsistentState when Pending < days.
	MovePendingToUsed(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal) (Balance, error)
	// RemovePending fails with ErrInconsistentState when Pending < days.
	RemovePending(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal) (Balance, error)

	AppendEntry(ctx context.Context, entry Entry) error
	GetEntries(ctx context.Context, employeeID, leaveTypeID string) ([]Entry, error)
}
