package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/balance"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) balance.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const balanceColumns = `employee_id, leave_type_id, accrued, used, pending, created_at, updated_at`

func scanBalance(row pgx.Row) (balance.Balance, error) {
	var b balance.Balance
	err := row.Scan(&b.EmployeeID, &b.LeaveTypeID, &b.Accrued, &b.Used, &b.Pending, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Ensure implements balance.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Ensure(ctx context.Context, employeeID, leaveTypeID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, leave_type_id)
		VALUES ($1, $2)
		ON CONFLICT (employee_id, leave_type_id) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, employeeID, leaveTypeID); err != nil {
		return fmt.Errorf("failed to ensure leave balance: %w", database.MapLockError(err))
	}
	return nil
}

// Get implements balance.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID string) (balance.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + balanceColumns + ` FROM leave_balances WHERE employee_id = $1 AND leave_type_id = $2`

	b, err := scanBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return balance.Balance{}, balance.ErrBalanceNotFound
		}
		return balance.Balance{}, err
	}
	return b, nil
}

// GetByEmployee implements balance.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployee(ctx context.Context, employeeID string) ([]balance.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + balanceColumns + ` FROM leave_balances WHERE employee_id = $1 ORDER BY leave_type_id`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]balance.Balance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// MarkAccrualPeriod implements balance.BalanceRepository. A conflicting
// marker means the period was already applied.
func (r *leaveBalanceRepositoryImpl) MarkAccrualPeriod(ctx context.Context, employeeID, leaveTypeID, period string, units decimal.Decimal) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_accrual_periods (employee_id, leave_type_id, period, units)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, leave_type_id, period) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, employeeID, leaveTypeID, period, units)
	if err != nil {
		return false, fmt.Errorf("failed to mark accrual period: %w", database.MapLockError(err))
	}
	return tag.RowsAffected() == 1, nil
}

// AddAccrued implements balance.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) AddAccrued(ctx context.Context, employeeID, leaveTypeID string, units decimal.Decimal) (balance.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET accrued = accrued + $3,
			updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2
		RETURNING ` + balanceColumns

	b, err := scanBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, units))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return balance.Balance{}, balance.ErrBalanceNotFound
		}
		return balance.Balance{}, database.MapLockError(err)
	}
	return b, nil
}

// AddPending implements balance.BalanceRepository. Check and increment are
// one statement, so a concurrent reserve can never overdraw.
func (r *leaveBalanceRepositoryImpl) AddPending(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal) (balance.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending = pending + $3,
			updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2
		AND accrued - used - pending - $3 >= 0
		RETURNING ` + balanceColumns

	b, err := scanBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, days))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return balance.Balance{}, balance.ErrInsufficientBalance
		}
		return balance.Balance{}, database.MapLockError(err)
	}
	return b, nil
}

// MovePendingToUsed implements balance.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) MovePendingToUsed(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal) (balance.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending = pending - $3,
			used = used + $3,
			updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2
		AND pending >= $3
		RETURNING ` + balanceColumns

	b, err := scanBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, days))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return balance.Balance{}, balance.ErrInconsistentState
		}
		return balance.Balance{}, database.MapLockError(err)
	}
	return b, nil
}

// RemovePending implements balance.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) RemovePending(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal) (balance.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending = pending - $3,
			updated_at = NOW()
		WHERE employee_id = $1 AND leave_type_id = $2
		AND pending >= $3
		RETURNING ` + balanceColumns

	b, err := scanBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, days))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return balance.Balance{}, balance.ErrInconsistentState
		}
		return balance.Balance{}, database.MapLockError(err)
	}
	return b, nil
}

// AppendEntry implements balance.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) AppendEntry(ctx context.Context, entry balance.Entry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_ledger_entries (id, employee_id, leave_type_id, kind, days, period, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.Exec(ctx, query,
		entry.ID, entry.EmployeeID, entry.LeaveTypeID, entry.Kind, entry.Days, entry.Period, entry.RequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// GetEntries implements balance.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetEntries(ctx context.Context, employeeID, leaveTypeID string) ([]balance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type_id, kind, days, period, request_id, created_at
		FROM leave_ledger_entries
		WHERE employee_id = $1 AND leave_type_id = $2
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, employeeID, leaveTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]balance.Entry, 0)
	for rows.Next() {
		var e balance.Entry
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.LeaveTypeID, &e.Kind, &e.Days, &e.Period, &e.RequestID, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
