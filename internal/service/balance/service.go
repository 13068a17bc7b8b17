package balance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/balance"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl is the only writer of leave_balances. Every mutation
// runs in one transaction together with its history entry.
type LedgerServiceImpl struct {
	tx database.Transactor
	balance.BalanceRepository
	leave.LeaveTypeRepository
	employee.EmployeeRepository
}

func NewLedgerService(
	tx database.Transactor,
	balanceRepo balance.BalanceRepository,
	leaveTypeRepo leave.LeaveTypeRepository,
	employeeRepo employee.EmployeeRepository,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		tx:                  tx,
		BalanceRepository:   balanceRepo,
		LeaveTypeRepository: leaveTypeRepo,
		EmployeeRepository:  employeeRepo,
	}
}

// Accrue implements balance.LedgerService.
func (s *LedgerServiceImpl) Accrue(ctx context.Context, employeeID, leaveTypeID string, units decimal.Decimal, period string) (bool, error) {
	if !units.IsPositive() {
		return false, balance.ErrNonPositiveAmount
	}
	if !validator.IsValidPeriodKey(period) {
		return false, balance.ErrInvalidPeriod
	}
	if _, err := employee.RequireActive(ctx, s.EmployeeRepository, employeeID); err != nil {
		return false, err
	}
	if _, err := s.LeaveTypeRepository.GetByID(ctx, leaveTypeID); err != nil {
		return false, err
	}

	var applied bool
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.BalanceRepository.Ensure(ctx, employeeID, leaveTypeID); err != nil {
			return err
		}

		marked, err := s.BalanceRepository.MarkAccrualPeriod(ctx, employeeID, leaveTypeID, period, units)
		if err != nil {
			return err
		}
		if !marked {
			return nil
		}

		if _, err := s.BalanceRepository.AddAccrued(ctx, employeeID, leaveTypeID, units); err != nil {
			return fmt.Errorf("failed to add accrued units: %w", err)
		}
		applied = true

		return s.BalanceRepository.AppendEntry(ctx, balance.Entry{
			ID:          uuid.Must(uuid.NewV7()).String(),
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			Kind:        balance.EntryAccrue,
			Days:        units,
			Period:      &period,
		})
	})
	if err != nil {
		return false, err
	}

	if applied {
		slog.Info("Accrued leave", "employee_id", employeeID, "leave_type_id", leaveTypeID, "units", units.String(), "period", period)
	}
	return applied, nil
}

// Reserve implements balance.LedgerService.
func (s *LedgerServiceImpl) Reserve(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal, requestID string) (balance.Balance, error) {
	return s.mutate(ctx, balance.EntryReserve, employeeID, leaveTypeID, days, requestID, s.BalanceRepository.AddPending)
}

// Commit implements balance.LedgerService.
func (s *LedgerServiceImpl) Commit(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal, requestID string) (balance.Balance, error) {
	return s.mutate(ctx, balance.EntryCommit, employeeID, leaveTypeID, days, requestID, s.BalanceRepository.MovePendingToUsed)
}

// Release implements balance.LedgerService.
func (s *LedgerServiceImpl) Release(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal, requestID string) (balance.Balance, error) {
	return s.mutate(ctx, balance.EntryRelease, employeeID, leaveTypeID, days, requestID, s.BalanceRepository.RemovePending)
}

type mutation func(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal) (balance.Balance, error)

func (s *LedgerServiceImpl) mutate(
	ctx context.Context,
	kind balance.EntryKind,
	employeeID, leaveTypeID string,
	days decimal.Decimal,
	requestID string,
	apply mutation,
) (balance.Balance, error) {
	if !days.IsPositive() {
		return balance.Balance{}, balance.ErrNonPositiveAmount
	}

	var result balance.Balance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.BalanceRepository.Ensure(ctx, employeeID, leaveTypeID); err != nil {
			return err
		}

		b, err := apply(ctx, employeeID, leaveTypeID, days)
		if err != nil {
			return err
		}
		result = b

		entry := balance.Entry{
			ID:          uuid.Must(uuid.NewV7()).String(),
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			Kind:        kind,
			Days:        days,
		}
		if requestID != "" {
			entry.RequestID = &requestID
		}
		return s.BalanceRepository.AppendEntry(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, balance.ErrInconsistentState) {
			slog.Error("Leave balance invariant violated",
				"operation", kind,
				"employee_id", employeeID,
				"leave_type_id", leaveTypeID,
				"days", days.String(),
				"request_id", requestID,
			)
		}
		return balance.Balance{}, err
	}

	return result, nil
}

// GetBalance implements balance.LedgerService. A key never touched reads
// as an all-zero balance.
func (s *LedgerServiceImpl) GetBalance(ctx context.Context, employeeID, leaveTypeID string) (balance.Balance, error) {
	b, err := s.BalanceRepository.Get(ctx, employeeID, leaveTypeID)
	if errors.Is(err, balance.ErrBalanceNotFound) {
		return balance.Balance{EmployeeID: employeeID, LeaveTypeID: leaveTypeID}, nil
	}
	return b, err
}

// ListBalances implements balance.LedgerService.
func (s *LedgerServiceImpl) ListBalances(ctx context.Context, employeeID string) ([]balance.Balance, error) {
	return s.BalanceRepository.GetByEmployee(ctx, employeeID)
}

// ListEntries implements balance.LedgerService.
func (s *LedgerServiceImpl) ListEntries(ctx context.Context, employeeID, leaveTypeID string) ([]balance.Entry, error) {
	return s.BalanceRepository.GetEntries(ctx, employeeID, leaveTypeID)
}
