package correction

import (
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/pkg/validator"
)

const maxReasonLength = 1000

type SubmitCorrectionRequest struct {
	EmployeeID string `json:"-"`
	CheckIn    string `json:"check_in,omitempty"`
	CheckOut   string `json:"check_out,omitempty"`
	Reason     string `json:"reason"`

	checkIn  *time.Time
	checkOut *time.Time
}

func (r *SubmitCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	r.checkIn, r.checkOut = nil, nil
	if r.CheckIn == "" && r.CheckOut == "" {
		errs.Add("check_in", "check_in or check_out is required")
	}
	if r.CheckIn != "" {
		if t, ok := validator.IsValidDateTime(r.CheckIn); ok {
			r.checkIn = &t
		} else {
			errs.Add("check_in", "check_in must be an RFC3339 timestamp")
		}
	}
	if r.CheckOut != "" {
		if t, ok := validator.IsValidDateTime(r.CheckOut); ok {
			r.checkOut = &t
		} else {
			errs.Add("check_out", "check_out must be an RFC3339 timestamp")
		}
	}
	if r.checkIn != nil && r.checkOut != nil && !r.checkOut.After(*r.checkIn) {
		errs.Add("check_out", "check_out must be after check_in")
	}

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > maxReasonLength {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

// Times returns the parsed timestamps in UTC. Only meaningful after
// Validate succeeds.
func (r *SubmitCorrectionRequest) Times() (checkIn, checkOut *time.Time) {
	if r.checkIn != nil {
		t := r.checkIn.UTC()
		checkIn = &t
	}
	if r.checkOut != nil {
		t := r.checkOut.UTC()
		checkOut = &t
	}
	return checkIn, checkOut
}

type ReviewCorrectionRequest struct {
	RequestID string  `json:"-"`
	Note      *string `json:"note,omitempty"`
}

func (r *ReviewCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.RequestID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.Note != nil && len(*r.Note) > maxReasonLength {
		errs.Add("note", "note must not exceed 1000 characters")
	}

	return errs.Err()
}

type CorrectionFilter struct {
	Status *string `json:"status,omitempty"`
}

func (f *CorrectionFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of PENDING, APPROVED, REJECTED")
	}

	return errs.Err()
}

func (f CorrectionFilter) StatusFilter() *Status {
	if f.Status == nil {
		return nil
	}
	s := Status(*f.Status)
	return &s
}

type CorrectionResponse struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employee_id"`
	WorkDate    string     `json:"work_date"`
	CheckIn     *time.Time `json:"check_in,omitempty"`
	CheckOut    *time.Time `json:"check_out,omitempty"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ReviewedBy  *string    `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote  *string    `json:"review_note,omitempty"`
}

func NewCorrectionResponse(r Request) CorrectionResponse {
	return CorrectionResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		WorkDate:    r.WorkDate.Format(validator.DateLayout),
		CheckIn:     r.CheckIn,
		CheckOut:    r.CheckOut,
		Reason:      r.Reason,
		Status:      string(r.Status),
		RequestedAt: r.RequestedAt,
		ReviewedBy:  r.ReviewedBy,
		ReviewedAt:  r.ReviewedAt,
		ReviewNote:  r.ReviewNote,
	}
}
