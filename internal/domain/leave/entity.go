package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccrualPeriod string

const (
	AccrualMonthly AccrualPeriod = "monthly"
	AccrualYearly  AccrualPeriod = "yearly"
	AccrualNone    AccrualPeriod = "none"
)

// PeriodKey returns the accrual marker for the period containing t, e.g.
// "2024-06" for a monthly policy or "2024" for a yearly one. It returns
// false for AccrualNone.
func (p AccrualPeriod) PeriodKey(t time.Time) (string, bool) {
	switch p {
	case AccrualMonthly:
		return t.Format("2006-01"), true
	case AccrualYearly:
		return t.Format("2006"), true
	default:
		return "", false
	}
}

// AccrualPolicy grants Units once per Period.
type AccrualPolicy struct {
	Units  decimal.Decimal
	Period AccrualPeriod
}

// LeaveType is reference data seeded by migration.
type LeaveType struct {
	ID       string
	Code     string
	Name     string
	IsPaid   bool
	HasQuota bool
	Accrual  AccrualPolicy

	CreatedAt time.Time
}

// Accrues reports whether the scheduler should credit this type.
func (lt LeaveType) Accrues() bool {
	return lt.HasQuota && lt.Accrual.Period != AccrualNone && lt.Accrual.Units.IsPositive()
}

// Request is a leave request. It is mutated only through Transition and
// retained after reaching a terminal status.
type Request struct {
	ID            string
	EmployeeID    string
	LeaveTypeID   string
	StartDate     time.Time
	EndDate       time.Time
	DaysRequested int
	Reason        string

	Status       Status
	RequestedAt  time.Time
	DecidedBy    *string
	DecidedAt    *time.Time
	DecisionNote *string
}

// Covers reports whether date falls inside the request's inclusive range.
func (r Request) Covers(date time.Time) bool {
	d := date.Format("2006-01-02")
	return d >= r.StartDate.Format("2006-01-02") && d <= r.EndDate.Format("2006-01-02")
}
