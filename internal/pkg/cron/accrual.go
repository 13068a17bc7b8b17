package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/balance"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
)

// AccrualJobs credits every active employee once per accrual period of each
// leave type. Running it more than once per period is harmless.
type AccrualJobs struct {
	ledger        balance.LedgerService
	leaveTypeRepo leave.LeaveTypeRepository
	employeeRepo  employee.EmployeeRepository
	loc           *time.Location
	now           func() time.Time
}

func NewAccrualJobs(
	ledger balance.LedgerService,
	leaveTypeRepo leave.LeaveTypeRepository,
	employeeRepo employee.EmployeeRepository,
	loc *time.Location,
) *AccrualJobs {
	if loc == nil {
		loc = time.UTC
	}
	return &AccrualJobs{
		ledger:        ledger,
		leaveTypeRepo: leaveTypeRepo,
		employeeRepo:  employeeRepo,
		loc:           loc,
		now:           time.Now,
	}
}

func (j *AccrualJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(Job{Name: "accrue_leave", Interval: interval, Fn: j.AccrueCurrentPeriod})
}

// AccrueCurrentPeriod applies the period containing now. A failure for one
// employee does not stop the others.
func (j *AccrualJobs) AccrueCurrentPeriod(ctx context.Context) error {
	now := j.now().In(j.loc)

	types, err := j.leaveTypeRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list leave types: %w", err)
	}
	employees, err := j.employeeRepo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	var (
		errs    []error
		applied int
	)
	for _, lt := range types {
		if !lt.Accrues() {
			continue
		}
		period, ok := lt.Accrual.Period.PeriodKey(now)
		if !ok {
			continue
		}

		for _, emp := range employees {
			if err := ctx.Err(); err != nil {
				return errors.Join(append(errs, err)...)
			}
			ok, err := j.ledger.Accrue(ctx, emp.ID, lt.ID, lt.Accrual.Units, period)
			if err != nil {
				errs = append(errs, fmt.Errorf("employee %s, leave type %s: %w", emp.ID, lt.ID, err))
				continue
			}
			if ok {
				applied++
			}
		}
	}

	slog.Info("Cron: leave accrual finished", "employees", len(employees), "applied", applied, "failed", len(errs))
	return errors.Join(errs...)
}
