package clock

import (
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/pkg/validator"
)

type RecordEventRequest struct {
	EmployeeID string `json:"-"`
	Kind       string `json:"kind"`
	// OccurredAt is optional; the service clock is used when it is empty.
	OccurredAt string `json:"occurred_at,omitempty"`
	// RecordedBy is set when someone other than the employee enters the event.
	RecordedBy string `json:"-"`

	occurredAt time.Time
}

func (r *RecordEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if validator.IsEmpty(r.Kind) {
		errs.Add("kind", "kind is required")
	} else if !Kind(r.Kind).IsValid() {
		errs.Add("kind", "kind must be CHECK_IN or CHECK_OUT")
	}

	if r.OccurredAt != "" {
		t, ok := validator.IsValidDateTime(r.OccurredAt)
		if !ok {
			errs.Add("occurred_at", "occurred_at must be an RFC3339 timestamp")
		}
		r.occurredAt = t
	}

	return errs.Err()
}

// RequireTimestamp rejects a manual entry that carries no occurred_at.
func (r *RecordEventRequest) RequireTimestamp() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.OccurredAt) {
		errs.Add("occurred_at", "occurred_at is required for a manual entry")
	}
	return errs.Err()
}

// Timestamp returns the parsed occurred_at, or now when none was supplied.
func (r *RecordEventRequest) Timestamp(now time.Time) time.Time {
	if r.occurredAt.IsZero() {
		return now
	}
	return r.occurredAt
}

type EventResponse struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	WorkDate   string    `json:"work_date"`
}

func NewEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Kind:       string(e.Kind),
		OccurredAt: e.OccurredAt,
		WorkDate:   e.WorkDate.Format(validator.DateLayout),
	}
}
