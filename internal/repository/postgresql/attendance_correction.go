package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/correction"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type correctionRepositoryImpl struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) correction.CorrectionRepository {
	return &correctionRepositoryImpl{db: db}
}

const correctionColumns = `
	id, employee_id, work_date, check_in, check_out, reason,
	status, requested_at, reviewed_by, reviewed_at, review_note`

func scanCorrection(row pgx.Row) (correction.Request, error) {
	var c correction.Request
	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.WorkDate, &c.CheckIn, &c.CheckOut, &c.Reason,
		&c.Status, &c.RequestedAt, &c.ReviewedBy, &c.ReviewedAt, &c.ReviewNote,
	)
	return c, err
}

// Create implements correction.CorrectionRepository. The partial unique
// index allows one PENDING correction per employee day.
func (r *correctionRepositoryImpl) Create(ctx context.Context, request correction.Request) (correction.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_corrections (
			id, employee_id, work_date, check_in, check_out, reason, status, requested_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + correctionColumns

	created, err := scanCorrection(q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.WorkDate, request.CheckIn, request.CheckOut,
		request.Reason, request.Status, request.RequestedAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return correction.Request{}, correction.ErrPendingCorrection
		}
		return correction.Request{}, fmt.Errorf("failed to create attendance correction: %w", database.MapLockError(err))
	}
	return created, nil
}

// GetByID implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) GetByID(ctx context.Context, id string) (correction.Request, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (correction.Request, error) {
	return r.get(ctx, id, true)
}

func (r *correctionRepositoryImpl) get(ctx context.Context, id string, forUpdate bool) (correction.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return correction.Request{}, correction.ErrCorrectionNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + correctionColumns + ` FROM attendance_corrections WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	c, err := scanCorrection(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.Request{}, correction.ErrCorrectionNotFound
		}
		return correction.Request{}, database.MapLockError(err)
	}
	return c, nil
}

// UpdateReview implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) UpdateReview(ctx context.Context, request correction.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_corrections
		SET status = $2, reviewed_by = $3, reviewed_at = $4, review_note = $5
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		request.ID, request.Status, request.ReviewedBy, request.ReviewedAt, request.ReviewNote,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance correction: %w", database.MapLockError(err))
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrCorrectionNotFound
	}
	return nil
}

// GetByEmployeeID implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string, status *correction.Status) ([]correction.Request, error) {
	query := `SELECT ` + correctionColumns + ` FROM attendance_corrections WHERE employee_id = $1`
	args := []any{employeeID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY work_date DESC, requested_at DESC`

	return r.list(ctx, query, args...)
}

// GetByStatus implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) GetByStatus(ctx context.Context, status correction.Status) ([]correction.Request, error) {
	query := `SELECT ` + correctionColumns + `
		FROM attendance_corrections
		WHERE status = $1
		ORDER BY work_date DESC, requested_at DESC`

	return r.list(ctx, query, status)
}

// HasPending implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) HasPending(ctx context.Context, employeeID string, workDate time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_corrections
			WHERE employee_id = $1 AND work_date = $2 AND status = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, workDate, correction.StatusPending).Scan(&exists); err != nil {
		return false, database.MapLockError(err)
	}
	return exists, nil
}

func (r *correctionRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]correction.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]correction.Request, 0)
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, c)
	}
	return requests, rows.Err()
}
