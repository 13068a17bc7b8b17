package response

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/balance"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/clock"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/correction"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/validator"
)

// RetryAfter is advertised on 503 responses caused by lock contention.
var RetryAfter = time.Second

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Contention, safe to retry
	case errors.Is(err, database.ErrBusy):
		ServiceUnavailable(w, "Resource busy, retry later", RetryAfter)

	// Identity
	case errors.Is(err, user.ErrMissingIdentity):
		Unauthorized(w, "Unauthorized")
	case errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, clock.ErrManualEntryForbidden),
		errors.Is(err, leave.ErrForbidden),
		errors.Is(err, leave.ErrNotRequester):
		Forbidden(w, err.Error())

	// Employee
	case errors.Is(err, employee.ErrUnknownEmployee),
		errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Unknown or inactive employee")

	// Clock
	case errors.Is(err, clock.ErrDuplicateEvent):
		Conflict(w, "Clock event already recorded")
	case errors.Is(err, clock.ErrInvalidSequence):
		Conflict(w, err.Error())
	case errors.Is(err, clock.ErrInvalidKind):
		BadRequest(w, err.Error(), nil)

	// Balance
	case errors.Is(err, balance.ErrInsufficientBalance):
		UnprocessableEntity(w, "INSUFFICIENT_BALANCE", "Insufficient leave balance")
	case errors.Is(err, balance.ErrNonPositiveAmount),
		errors.Is(err, balance.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, balance.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, balance.ErrInconsistentState):
		slog.Error("ledger invariant violated", "error", err)
		InternalServerError(w, "An unexpected error occurred")

	// Leave
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrInvalidTransition),
		errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrNoBusinessDays):
		UnprocessableEntity(w, "NO_BUSINESS_DAYS", err.Error())

	// Corrections
	case errors.Is(err, correction.ErrCorrectionNotFound):
		NotFound(w, "Attendance correction not found")
	case errors.Is(err, correction.ErrInvalidTransition),
		errors.Is(err, correction.ErrPendingCorrection):
		Conflict(w, err.Error())
	case errors.Is(err, correction.ErrFutureCorrection):
		UnprocessableEntity(w, "FUTURE_CORRECTION", err.Error())

	// Attendance
	case errors.Is(err, attendance.ErrInvalidPeriod),
		errors.Is(err, attendance.ErrPeriodTooLong):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
