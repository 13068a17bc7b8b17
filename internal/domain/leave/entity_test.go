package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccrualPeriod_PeriodKey(t *testing.T) {
	at := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

	key, ok := AccrualMonthly.PeriodKey(at)
	assert.True(t, ok)
	assert.Equal(t, "2024-06", key)

	key, ok = AccrualYearly.PeriodKey(at)
	assert.True(t, ok)
	assert.Equal(t, "2024", key)

	_, ok = AccrualNone.PeriodKey(at)
	assert.False(t, ok)
}

func TestLeaveType_Accrues(t *testing.T) {
	annual := LeaveType{HasQuota: true, Accrual: AccrualPolicy{Units: decimal.RequireFromString("1.25"), Period: AccrualMonthly}}
	unpaid := LeaveType{HasQuota: false, Accrual: AccrualPolicy{Period: AccrualNone}}

	assert.True(t, annual.Accrues())
	assert.False(t, unpaid.Accrues())
}

func TestRequest_Covers(t *testing.T) {
	r := Request{
		StartDate: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
	}

	assert.False(t, r.Covers(time.Date(2024, 6, 2, 23, 0, 0, 0, time.UTC)))
	assert.True(t, r.Covers(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Covers(time.Date(2024, 6, 4, 18, 0, 0, 0, time.UTC)))
	assert.False(t, r.Covers(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)))
}

func TestSubmitLeaveRequest_Validate(t *testing.T) {
	valid := SubmitLeaveRequest{LeaveTypeID: "annual", StartDate: "2024-06-03", EndDate: "2024-06-04"}
	assert.NoError(t, valid.Validate())
	start, end := valid.Range()
	assert.Equal(t, 3, start.Day())
	assert.Equal(t, 4, end.Day())

	reversed := SubmitLeaveRequest{LeaveTypeID: "annual", StartDate: "2024-06-04", EndDate: "2024-06-03"}
	assert.Error(t, reversed.Validate())

	missing := SubmitLeaveRequest{StartDate: "06/03/2024"}
	err := missing.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "leave_type_id")
}
