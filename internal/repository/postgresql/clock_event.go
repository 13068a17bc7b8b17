package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/clock"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type clockEventRepositoryImpl struct {
	db *database.DB
}

func NewClockEventRepository(db *database.DB) clock.EventRepository {
	return &clockEventRepositoryImpl{db: db}
}

// LockDay implements clock.EventRepository. The advisory lock is released
// when the surrounding transaction ends.
func (r *clockEventRepositoryImpl) LockDay(ctx context.Context, employeeID string, workDate time.Time) error {
	q := GetQuerier(ctx, r.db)

	key := "clock:" + employeeID + ":" + workDate.Format("2006-01-02")
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("lock clock day: %w", database.MapLockError(err))
	}
	return nil
}

// Exists implements clock.EventRepository.
func (r *clockEventRepositoryImpl) Exists(ctx context.Context, employeeID string, occurredAt time.Time, kind clock.Kind) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM clock_events
			WHERE employee_id = $1 AND occurred_at = $2 AND kind = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, occurredAt, kind).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// LastOfDay implements clock.EventRepository.
func (r *clockEventRepositoryImpl) LastOfDay(ctx context.Context, employeeID string, workDate time.Time) (*clock.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, kind, occurred_at, work_date, created_at
		FROM clock_events
		WHERE employee_id = $1 AND work_date = $2
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT 1
	`

	var e clock.Event
	err := q.QueryRow(ctx, query, employeeID, workDate).Scan(
		&e.ID, &e.EmployeeID, &e.Kind, &e.OccurredAt, &e.WorkDate, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Create implements clock.EventRepository.
func (r *clockEventRepositoryImpl) Create(ctx context.Context, event clock.Event) (clock.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO clock_events (id, employee_id, kind, occurred_at, work_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		event.ID, event.EmployeeID, event.Kind, event.OccurredAt, event.WorkDate,
	).Scan(&event.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return clock.Event{}, clock.ErrDuplicateEvent
		}
		return clock.Event{}, fmt.Errorf("failed to create clock event: %w", err)
	}

	return event, nil
}

// ListByDay implements clock.EventRepository.
func (r *clockEventRepositoryImpl) ListByDay(ctx context.Context, employeeID string, workDate time.Time) ([]clock.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, kind, occurred_at, work_date, created_at
		FROM clock_events
		WHERE employee_id = $1 AND work_date = $2
		ORDER BY occurred_at, created_at
	`

	rows, err := q.Query(ctx, query, employeeID, workDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]clock.Event, 0)
	for rows.Next() {
		var e clock.Event
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.Kind, &e.OccurredAt, &e.WorkDate, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
