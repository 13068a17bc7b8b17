package balance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the running leave position of one employee for one leave type.
// Accrued >= Used + Pending holds after every committed mutation.
type Balance struct {
	EmployeeID  string
	LeaveTypeID string
	Accrued     decimal.Decimal
	Used        decimal.Decimal
	Pending     decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b Balance) Available() decimal.Decimal {
	return b.Accrued.Sub(b.Used).Sub(b.Pending)
}

// Consistent reports whether the counters satisfy the ledger invariant.
func (b Balance) Consistent() bool {
	if b.Accrued.IsNegative() || b.Used.IsNegative() || b.Pending.IsNegative() {
		return false
	}
	return b.Accrued.GreaterThanOrEqual(b.Used.Add(b.Pending))
}

type EntryKind string

const (
	EntryAccrue  EntryKind = "accrue"
	EntryReserve EntryKind = "reserve"
	EntryCommit  EntryKind = "commit"
	EntryRelease EntryKind = "release"
)

// Entry is one line of the append-only history written next to every
// balance mutation. It is never read back to compute a balance.
type Entry struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Kind        EntryKind
	Days        decimal.Decimal
	Period      *string
	RequestID   *string
	CreatedAt   time.Time
}
