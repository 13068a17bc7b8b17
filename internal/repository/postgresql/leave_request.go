package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	id, employee_id, leave_type_id, start_date, end_date, days_requested, reason,
	status, requested_at, decided_by, decided_at, decision_note`

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.LeaveTypeID, &req.StartDate, &req.EndDate,
		&req.DaysRequested, &req.Reason, &req.Status, &req.RequestedAt,
		&req.DecidedBy, &req.DecidedAt, &req.DecisionNote,
	)
	return req, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id, start_date, end_date, days_requested, reason, status, requested_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.LeaveTypeID, request.StartDate, request.EndDate,
		request.DaysRequested, request.Reason, request.Status, request.RequestedAt,
	))
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", database.MapLockError(err))
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.Request, error) {
	return r.get(ctx, id, true)
}

func (r *leaveRequestRepositoryImpl) get(ctx context.Context, id string, forUpdate bool) (leave.Request, error) {
	// A malformed ID cannot name any row.
	if _, err := uuid.Parse(id); err != nil {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, database.MapLockError(err)
	}
	return req, nil
}

// UpdateDecision implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateDecision(ctx context.Context, request leave.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, decided_by = $3, decided_at = $4, decision_note = $5
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		request.ID, request.Status, request.DecidedBy, request.DecidedAt, request.DecisionNote,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", database.MapLockError(err))
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// GetByEmployeeID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string, status *leave.Status) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE employee_id = $1`
	args := []any{employeeID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY start_date DESC, requested_at DESC`

	return r.list(ctx, q, query, args...)
}

// GetApprovedCovering implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetApprovedCovering(ctx context.Context, employeeID string, from, to time.Time) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1 AND status = $2
		AND start_date <= $4 AND end_date >= $3
		ORDER BY start_date`

	return r.list(ctx, q, query, employeeID, leave.StatusApproved, from, to)
}

// LockEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) LockEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, "leave:"+employeeID); err != nil {
		return fmt.Errorf("lock leave requests: %w", database.MapLockError(err))
	}
	return nil
}

// HasOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) HasOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			AND status IN ($2, $3)
			AND start_date <= $5 AND end_date >= $4
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, employeeID, leave.StatusPending, leave.StatusApproved, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping leave requests: %w", database.MapLockError(err))
	}
	return exists, nil
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, q database.Querier, query string, args ...any) ([]leave.Request, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]leave.Request, 0)
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
