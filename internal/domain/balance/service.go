package balance

import (
	"context"

	"github.com/shopspring/decimal"
)

// LedgerService is the only writer of leave balances.
type LedgerService interface {
	// Accrue credits units once per (employee, leave type, period). A repeated
	// period is a no-op and reports applied == false.
	Accrue(ctx context.Context, employeeID, leaveTypeID string, units decimal.Decimal, period string) (applied bool, err error)
	Reserve(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal, requestID string) (Balance, error)
	Commit(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal, requestID string) (Balance, error)
	Release(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal, requestID string) (Balance, error)

	GetBalance(ctx context.Context, employeeID, leaveTypeID string) (Balance, error)
	ListBalances(ctx context.Context, employeeID string) ([]Balance, error)
	ListEntries(ctx context.Context, employeeID, leaveTypeID string) ([]Entry, error)
}
