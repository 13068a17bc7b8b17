package balance

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/balance"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-ledger/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *LedgerServiceImpl {
	t.Helper()
	store := memory.NewStore(5 * time.Second)
	store.SeedLeaveTypes()
	store.PutEmployee(employee.Employee{ID: "emp-1", FullName: "Ani"})
	store.PutEmployee(employee.Employee{ID: "emp-2", FullName: "Citra"})

	return NewLedgerService(
		store,
		memory.NewLeaveBalanceRepository(store),
		memory.NewLeaveTypeRepository(store),
		memory.NewEmployeeRepository(store),
	)
}

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestAccrue_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	applied, err := svc.Accrue(ctx, "emp-1", "annual", decimal.RequireFromString("1.25"), "2024-06")
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = svc.Accrue(ctx, "emp-1", "annual", decimal.RequireFromString("1.25"), "2024-06")
	require.NoError(t, err)
	assert.False(t, applied)

	b, err := svc.GetBalance(ctx, "emp-1", "annual")
	require.NoError(t, err)
	assert.True(t, b.Accrued.Equal(decimal.RequireFromString("1.25")), b.Accrued.String())

	entries, err := svc.ListEntries(ctx, "emp-1", "annual")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, balance.EntryAccrue, entries[0].Kind)
	assert.Equal(t, "2024-06", *entries[0].Period)
}

func TestAccrue_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	_, err := svc.Accrue(ctx, "emp-1", "annual", d(0), "2024-06")
	assert.ErrorIs(t, err, balance.ErrNonPositiveAmount)

	_, err = svc.Accrue(ctx, "emp-1", "annual", d(1), "June")
	assert.ErrorIs(t, err, balance.ErrInvalidPeriod)

	_, err = svc.Accrue(ctx, "emp-404", "annual", d(1), "2024-06")
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)

	_, err = svc.Accrue(ctx, "emp-1", "sabbatical", d(1), "2024-06")
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestReserveCommitRelease(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	_, err := svc.Accrue(ctx, "emp-1", "annual", d(10), "2024")
	require.NoError(t, err)

	b, err := svc.Reserve(ctx, "emp-1", "annual", d(2), "req-1")
	require.NoError(t, err)
	assert.True(t, b.Pending.Equal(d(2)))

	b, err = svc.Commit(ctx, "emp-1", "annual", d(2), "req-1")
	require.NoError(t, err)
	assert.True(t, b.Used.Equal(d(2)))
	assert.True(t, b.Pending.IsZero())
	assert.True(t, b.Available().Equal(d(8)))

	b, err = svc.Reserve(ctx, "emp-1", "annual", d(3), "req-2")
	require.NoError(t, err)
	b, err = svc.Release(ctx, "emp-1", "annual", d(3), "req-2")
	require.NoError(t, err)
	assert.True(t, b.Available().Equal(d(8)))

	entries, err := svc.ListEntries(ctx, "emp-1", "annual")
	require.NoError(t, err)
	kinds := make([]balance.EntryKind, 0, len(entries))
	for _, e := range entries {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []balance.EntryKind{
		balance.EntryAccrue, balance.EntryReserve, balance.EntryCommit, balance.EntryReserve, balance.EntryRelease,
	}, kinds)
	assert.Equal(t, "req-2", *entries[4].RequestID)
}

func TestReserve_InsufficientLeavesBalanceUntouched(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	_, err := svc.Accrue(ctx, "emp-1", "annual", d(3), "2024")
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, "emp-1", "annual", d(5), "req-1")
	assert.ErrorIs(t, err, balance.ErrInsufficientBalance)

	b, err := svc.GetBalance(ctx, "emp-1", "annual")
	require.NoError(t, err)
	assert.True(t, b.Pending.IsZero())

	entries, err := svc.ListEntries(ctx, "emp-1", "annual")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCommit_InconsistentState(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	_, err := svc.Accrue(ctx, "emp-1", "annual", d(10), "2024")
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, "emp-1", "annual", d(1), "req-1")
	require.NoError(t, err)

	_, err = svc.Commit(ctx, "emp-1", "annual", d(2), "req-1")
	assert.ErrorIs(t, err, balance.ErrInconsistentState)

	_, err = svc.Release(ctx, "emp-1", "annual", d(2), "req-1")
	assert.ErrorIs(t, err, balance.ErrInconsistentState)

	b, err := svc.GetBalance(ctx, "emp-1", "annual")
	require.NoError(t, err)
	assert.True(t, b.Pending.Equal(d(1)))
	assert.True(t, b.Used.IsZero())
}

func TestNonPositiveDays(t *testing.T) {
	svc := setup(t)

	_, err := svc.Reserve(context.Background(), "emp-1", "annual", d(-1), "")
	assert.ErrorIs(t, err, balance.ErrNonPositiveAmount)
}

func TestGetBalance_UntouchedKeyIsZero(t *testing.T) {
	svc := setup(t)

	b, err := svc.GetBalance(context.Background(), "emp-2", "sick")
	require.NoError(t, err)
	assert.True(t, b.Accrued.IsZero())
	assert.Equal(t, "sick", b.LeaveTypeID)
}

func TestReserve_ConcurrentNeverOverdraws(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	_, err := svc.Accrue(ctx, "emp-1", "annual", d(5), "2024")
	require.NoError(t, err)

	const workers = 10
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		successes    int
		insufficient int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reserve(ctx, "emp-1", "annual", d(3), "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, balance.ErrInsufficientBalance):
				insufficient++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, insufficient)

	b, err := svc.GetBalance(ctx, "emp-1", "annual")
	require.NoError(t, err)
	assert.True(t, b.Pending.Equal(d(3)))
	assert.True(t, b.Consistent())
}

// Random interleavings of every mutator across two keys must never break
// accrued >= used + pending.
func TestLedgerInvariant_RandomInterleavings(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	keys := []struct{ employeeID, leaveTypeID string }{
		{"emp-1", "annual"},
		{"emp-2", "sick"},
	}

	var wg sync.WaitGroup
	for w := range 6 {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(seed, seed*7+1))
			for i := range 200 {
				k := keys[rng.IntN(len(keys))]
				days := d(int64(rng.IntN(4) + 1))
				switch rng.IntN(4) {
				case 0:
					period := time.Date(2000+int(seed), time.Month(i%12+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
					_, _ = svc.Accrue(ctx, k.employeeID, k.leaveTypeID, days, period)
				case 1:
					_, _ = svc.Reserve(ctx, k.employeeID, k.leaveTypeID, days, "")
				case 2:
					_, _ = svc.Commit(ctx, k.employeeID, k.leaveTypeID, days, "")
				case 3:
					_, _ = svc.Release(ctx, k.employeeID, k.leaveTypeID, days, "")
				}

				b, err := svc.GetBalance(ctx, k.employeeID, k.leaveTypeID)
				if assert.NoError(t, err) {
					assert.True(t, b.Consistent(), "accrued=%s used=%s pending=%s", b.Accrued, b.Used, b.Pending)
				}
			}
		}(uint64(w))
	}
	wg.Wait()

	for _, k := range keys {
		b, err := svc.GetBalance(ctx, k.employeeID, k.leaveTypeID)
		require.NoError(t, err)
		assert.True(t, b.Consistent())
	}
}
