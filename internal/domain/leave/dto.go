package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const maxReasonLength = 1000

type SubmitLeaveRequest struct {
	EmployeeID  string `json:"employee_id,omitempty"`
	LeaveTypeID string `json:"leave_type_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`

	start time.Time
	end   time.Time
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	if len(r.Reason) > maxReasonLength {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	r.start, r.end = start, end
	return errs.Err()
}

// Range returns the parsed dates. Only meaningful after Validate succeeds.
func (r *SubmitLeaveRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

type RejectLeaveRequest struct {
	RequestID string  `json:"-"`
	Note      *string `json:"note,omitempty"`
}

func (r *RejectLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.RequestID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.Note != nil && len(*r.Note) > maxReasonLength {
		errs.Add("note", "note must not exceed 1000 characters")
	}

	return errs.Err()
}

type RequestFilter struct {
	Status *string `json:"status,omitempty"`
}

func (f *RequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of PENDING, APPROVED, REJECTED, CANCELLED")
	}

	return errs.Err()
}

func (f RequestFilter) StatusFilter() *Status {
	if f.Status == nil {
		return nil
	}
	s := Status(*f.Status)
	return &s
}

type LeaveTypeResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	IsPaid        bool            `json:"is_paid"`
	HasQuota      bool            `json:"has_quota"`
	AccrualUnits  decimal.Decimal `json:"accrual_units"`
	AccrualPeriod string          `json:"accrual_period"`
}

func NewLeaveTypeResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:            lt.ID,
		Code:          lt.Code,
		Name:          lt.Name,
		IsPaid:        lt.IsPaid,
		HasQuota:      lt.HasQuota,
		AccrualUnits:  lt.Accrual.Units,
		AccrualPeriod: string(lt.Accrual.Period),
	}
}

type LeaveRequestResponse struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	LeaveTypeID   string     `json:"leave_type_id"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	DaysRequested int        `json:"days_requested"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	RequestedAt   time.Time  `json:"requested_at"`
	DecidedBy     *string    `json:"decided_by,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	DecisionNote  *string    `json:"decision_note,omitempty"`
}

func NewLeaveRequestResponse(r Request) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		LeaveTypeID:   r.LeaveTypeID,
		StartDate:     r.StartDate.Format(validator.DateLayout),
		EndDate:       r.EndDate.Format(validator.DateLayout),
		DaysRequested: r.DaysRequested,
		Reason:        r.Reason,
		Status:        string(r.Status),
		RequestedAt:   r.RequestedAt,
		DecidedBy:     r.DecidedBy,
		DecidedAt:     r.DecidedAt,
		DecisionNote:  r.DecisionNote,
	}
}
