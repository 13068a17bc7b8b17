package balance

import (
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AccrueRequest struct {
	EmployeeID  string          `json:"employee_id"`
	LeaveTypeID string          `json:"leave_type_id"`
	Units       decimal.Decimal `json:"units"`
	Period      string          `json:"period"`
}

func (r *AccrueRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.LeaveTypeID) {
		errs.Add("leave_type_id", "leave_type_id is required")
	}
	if !r.Units.IsPositive() {
		errs.Add("units", "units must be greater than zero")
	}
	if !validator.IsValidPeriodKey(r.Period) {
		errs.Add("period", "period must look like 2024, 2024-06 or 2024-W23")
	}

	return errs.Err()
}

type BalanceResponse struct {
	EmployeeID  string          `json:"employee_id"`
	LeaveTypeID string          `json:"leave_type_id"`
	Accrued     decimal.Decimal `json:"accrued"`
	Used        decimal.Decimal `json:"used"`
	Pending     decimal.Decimal `json:"pending"`
	Available   decimal.Decimal `json:"available"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:  b.EmployeeID,
		LeaveTypeID: b.LeaveTypeID,
		Accrued:     b.Accrued,
		Used:        b.Used,
		Pending:     b.Pending,
		Available:   b.Available(),
		UpdatedAt:   b.UpdatedAt,
	}
}

type EntryResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Days      decimal.Decimal `json:"days"`
	Period    *string         `json:"period,omitempty"`
	RequestID *string         `json:"request_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewEntryResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		Kind:      string(e.Kind),
		Days:      e.Days,
		Period:    e.Period,
		RequestID: e.RequestID,
		CreatedAt: e.CreatedAt,
	}
}
