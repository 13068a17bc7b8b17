package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/balance"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepository struct {
	s *Store
}

func NewLeaveBalanceRepository(s *Store) balance.BalanceRepository {
	return &leaveBalanceRepository{s: s}
}

func (r *leaveBalanceRepository) Ensure(ctx context.Context, employeeID, leaveTypeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := balanceKey{employeeID, leaveTypeID}
	if _, ok := r.s.balances[key]; ok {
		return nil
	}
	now := r.s.now()
	r.s.balances[key] = balance.Balance{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	record(ctx, func() { delete(r.s.balances, key) })
	return nil
}

func (r *leaveBalanceRepository) Get(_ context.Context, employeeID, leaveTypeID string) (balance.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.balances[balanceKey{employeeID, leaveTypeID}]
	if !ok {
		return balance.Balance{}, balance.ErrBalanceNotFound
	}
	return b, nil
}

func (r *leaveBalanceRepository) GetByEmployee(_ context.Context, employeeID string) ([]balance.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	balances := make([]balance.Balance, 0)
	for key, b := range r.s.balances {
		if key.employeeID == employeeID {
			balances = append(balances, b)
		}
	}
	slices.SortFunc(balances, func(a, b balance.Balance) int { return strings.Compare(a.LeaveTypeID, b.LeaveTypeID) })
	return balances, nil
}

func (r *leaveBalanceRepository) MarkAccrualPeriod(ctx context.Context, employeeID, leaveTypeID, period string, units decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bk := balanceKey{employeeID, leaveTypeID}
	if _, ok := r.s.balances[bk]; !ok {
		return false, balance.ErrBalanceNotFound
	}
	key := periodKey{bk, period}
	if _, ok := r.s.periods[key]; ok {
		return false, nil
	}
	r.s.periods[key] = units
	record(ctx, func() { delete(r.s.periods, key) })
	return true, nil
}

// update applies fn to the row when allowed reports true, mirroring an
// UPDATE ... WHERE <condition> RETURNING.
func (r *leaveBalanceRepository) update(ctx context.Context, employeeID, leaveTypeID string, allowed func(balance.Balance) bool, fn func(*balance.Balance), failure error) (balance.Balance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := balanceKey{employeeID, leaveTypeID}
	prev, ok := r.s.balances[key]
	if !ok {
		return balance.Balance{}, balance.ErrBalanceNotFound
	}
	if !allowed(prev) {
		return balance.Balance{}, failure
	}

	next := prev
	fn(&next)
	next.UpdatedAt = r.s.now()
	r.s.balances[key] = next
	record(ctx, func() { r.s.balances[key] = prev })
	return next, nil
}

func (r *leaveBalanceRepository) AddAccrued(ctx context.Context, employeeID, leaveTypeID string, units decimal.Decimal) (balance.Balance, error) {
	return r.update(ctx, employeeID, leaveTypeID,
		func(balance.Balance) bool { return true },
		func(b *balance.Balance) { b.Accrued = b.Accrued.Add(units) },
		nil,
	)
}

func (r *leaveBalanceRepository) AddPending(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal) (balance.Balance, error) {
	return r.update(ctx, employeeID, leaveTypeID,
		func(b balance.Balance) bool { return b.Available().Sub(days).GreaterThanOrEqual(decimal.Zero) },
		func(b *balance.Balance) { b.Pending = b.Pending.Add(days) },
		balance.ErrInsufficientBalance,
	)
}

func (r *leaveBalanceRepository) MovePendingToUsed(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal) (balance.Balance, error) {
	return r.update(ctx, employeeID, leaveTypeID,
		func(b balance.Balance) bool { return b.Pending.GreaterThanOrEqual(days) },
		func(b *balance.Balance) {
			b.Pending = b.Pending.Sub(days)
			b.Used = b.Used.Add(days)
		},
		balance.ErrInconsistentState,
	)
}

func (r *leaveBalanceRepository) RemovePending(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal) (balance.Balance, error) {
	return r.update(ctx, employeeID, leaveTypeID,
		func(b balance.Balance) bool { return b.Pending.GreaterThanOrEqual(days) },
		func(b *balance.Balance) { b.Pending = b.Pending.Sub(days) },
		balance.ErrInconsistentState,
	)
}

func (r *leaveBalanceRepository) AppendEntry(ctx context.Context, entry balance.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := balanceKey{entry.EmployeeID, entry.LeaveTypeID}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.s.now()
	}
	prev := r.s.entries[key]
	r.s.entries[key] = append(slices.Clone(prev), entry)
	record(ctx, func() { r.s.entries[key] = prev })
	return nil
}

func (r *leaveBalanceRepository) GetEntries(_ context.Context, employeeID, leaveTypeID string) ([]balance.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return slices.Clone(r.s.entries[balanceKey{employeeID, leaveTypeID}]), nil
}
