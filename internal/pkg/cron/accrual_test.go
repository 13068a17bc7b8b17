package cron

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/repository/memory"
	balancesvc "github.com/cmlabs-hris/hris-ledger/internal/service/balance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccrueCurrentPeriod(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	store.SeedLeaveTypes()
	store.PutEmployee(employee.Employee{ID: "emp-1", FullName: "Ani"})
	store.PutEmployee(employee.Employee{ID: "emp-2", FullName: "Budi", EmploymentStatus: employee.EmploymentStatusResigned})

	employees := memory.NewEmployeeRepository(store)
	types := memory.NewLeaveTypeRepository(store)
	ledger := balancesvc.NewLedgerService(store, memory.NewLeaveBalanceRepository(store), types, employees)

	jobs := NewAccrualJobs(ledger, types, employees, time.UTC)
	jobs.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }

	scheduler := NewScheduler()
	jobs.RegisterJobs(scheduler, time.Hour)

	require.NoError(t, scheduler.RunOnce(ctx))
	require.NoError(t, scheduler.RunOnce(ctx))

	annual, err := ledger.GetBalance(ctx, "emp-1", "annual")
	require.NoError(t, err)
	assert.True(t, annual.Accrued.Equal(decimal.RequireFromString("1.25")), annual.Accrued.String())

	sick, err := ledger.GetBalance(ctx, "emp-1", "sick")
	require.NoError(t, err)
	assert.True(t, sick.Accrued.Equal(decimal.NewFromInt(12)))

	unpaid, err := ledger.GetBalance(ctx, "emp-1", "unpaid")
	require.NoError(t, err)
	assert.True(t, unpaid.Accrued.IsZero())

	resigned, err := ledger.GetBalance(ctx, "emp-2", "annual")
	require.NoError(t, err)
	assert.True(t, resigned.Accrued.IsZero())

	jobs.now = func() time.Time { return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, jobs.AccrueCurrentPeriod(ctx))

	annual, err = ledger.GetBalance(ctx, "emp-1", "annual")
	require.NoError(t, err)
	assert.True(t, annual.Accrued.Equal(decimal.RequireFromString("2.5")), annual.Accrued.String())

	sick, err = ledger.GetBalance(ctx, "emp-1", "sick")
	require.NoError(t, err)
	assert.True(t, sick.Accrued.Equal(decimal.NewFromInt(12)))
}

func TestScheduler_StartStop(t *testing.T) {
	scheduler := NewScheduler()
	ran := make(chan struct{}, 1)
	scheduler.AddJob(Job{Name: "tick", Interval: time.Hour, Fn: func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}})

	scheduler.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	scheduler.Stop()
}
