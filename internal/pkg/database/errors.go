package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const DefaultLockTimeout = 3 * time.Second

// Postgres SQLSTATE codes the ledger reacts to.
const (
	codeUniqueViolation  = "23505"
	codeCheckViolation   = "23514"
	codeLockNotAvailable = "55P03"
	codeQueryCanceled    = "57014"
	codeSerialization    = "40001"
	codeDeadlockDetected = "40P01"
)

var (
	// ErrBusy is returned when a row or advisory lock could not be acquired
	// within the configured lock timeout. Safe for the caller to retry.
	ErrBusy = errors.New("resource busy, retry later")
)

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// IsCheckViolation reports whether err is a CHECK constraint violation.
func IsCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeCheckViolation
}

// MapLockError converts lock wait failures into ErrBusy and leaves every
// other error untouched.
func MapLockError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrBusy) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeLockNotAvailable, codeSerialization, codeDeadlockDetected:
			return errors.Join(ErrBusy, err)
		case codeQueryCanceled:
			// statement_timeout or a caller deadline; only the former is ours
			if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
				return errors.Join(ErrBusy, err)
			}
		}
	}
	return err
}
