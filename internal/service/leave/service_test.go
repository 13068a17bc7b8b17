package leave

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/balance"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-ledger/internal/repository/memory"
	balancesvc "github.com/cmlabs-hris/hris-ledger/internal/service/balance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ani     = user.Identity{EmployeeID: "emp-1", Role: user.RoleEmployee}
	budi    = user.Identity{EmployeeID: "emp-2", Role: user.RoleEmployee}
	manager = user.Identity{EmployeeID: "emp-mgr", Role: user.RoleManager}
)

type fixture struct {
	svc    *LeaveServiceImpl
	ledger *balancesvc.LedgerServiceImpl
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore(5 * time.Second)
	store.SeedLeaveTypes()
	for _, id := range []string{"emp-1", "emp-2", "emp-mgr"} {
		store.PutEmployee(employee.Employee{ID: id, FullName: id})
	}

	employees := memory.NewEmployeeRepository(store)
	types := memory.NewLeaveTypeRepository(store)
	ledger := balancesvc.NewLedgerService(store, memory.NewLeaveBalanceRepository(store), types, employees)
	cal := calendar.NewHolidays(calendar.Holiday{Date: time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC), Name: "Idul Adha"})

	svc := NewLeaveService(store, types, memory.NewLeaveRequestRepository(store), employees, ledger, cal)
	return fixture{svc: svc, ledger: ledger}
}

func (f fixture) accrue(t *testing.T, employeeID string, days int64) {
	t.Helper()
	_, err := f.ledger.Accrue(context.Background(), employeeID, "annual", decimal.NewFromInt(days), "2024")
	require.NoError(t, err)
}

func (f fixture) balance(t *testing.T, employeeID string) balance.Balance {
	t.Helper()
	b, err := f.ledger.GetBalance(context.Background(), employeeID, "annual")
	require.NoError(t, err)
	return b
}

func annual(start, end string) leave.SubmitLeaveRequest {
	return leave.SubmitLeaveRequest{LeaveTypeID: "annual", StartDate: start, EndDate: end}
}

func TestSubmitApprove_Scenario(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.accrue(t, "emp-1", 10)

	req, err := f.svc.Submit(ctx, ani, annual("2024-06-03", "2024-06-04"))
	require.NoError(t, err)
	assert.Equal(t, 2, req.DaysRequested)
	assert.Equal(t, string(leave.StatusPending), req.Status)

	b := f.balance(t, "emp-1")
	assert.True(t, b.Accrued.Equal(decimal.NewFromInt(10)))
	assert.True(t, b.Pending.Equal(decimal.NewFromInt(2)))

	approved, err := f.svc.Approve(ctx, req.ID, manager)
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusApproved), approved.Status)
	require.NotNil(t, approved.DecidedBy)
	assert.Equal(t, "emp-mgr", *approved.DecidedBy)
	assert.NotNil(t, approved.DecidedAt)

	b = f.balance(t, "emp-1")
	assert.True(t, b.Used.Equal(decimal.NewFromInt(2)))
	assert.True(t, b.Pending.IsZero())
	assert.True(t, b.Available().Equal(decimal.NewFromInt(8)))
}

func TestSubmit_InsufficientBalanceCreatesNothing(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.accrue(t, "emp-1", 3)

	// Mon 3 June to Fri 7 June is five business days
	_, err := f.svc.Submit(ctx, ani, annual("2024-06-03", "2024-06-07"))
	assert.ErrorIs(t, err, balance.ErrInsufficientBalance)

	assert.True(t, f.balance(t, "emp-1").Pending.IsZero())

	requests, err := f.svc.ListByEmployee(ctx, "emp-1", leave.RequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestSubmitCancel_RestoresAvailable(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.accrue(t, "emp-1", 10)
	before := f.balance(t, "emp-1").Available()

	req, err := f.svc.Submit(ctx, ani, annual("2024-06-10", "2024-06-14"))
	require.NoError(t, err)
	assert.False(t, f.balance(t, "emp-1").Available().Equal(before))

	cancelled, err := f.svc.Cancel(ctx, req.ID, ani)
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusCancelled), cancelled.Status)
	assert.True(t, f.balance(t, "emp-1").Available().Equal(before))
}

func TestSubmit_BusinessDays(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.accrue(t, "emp-1", 10)

	// 15-16 June is a weekend, 17 June a holiday
	_, err := f.svc.Submit(ctx, ani, annual("2024-06-15", "2024-06-17"))
	assert.ErrorIs(t, err, leave.ErrNoBusinessDays)

	req, err := f.svc.Submit(ctx, ani, annual("2024-06-14", "2024-06-18"))
	require.NoError(t, err)
	assert.Equal(t, 2, req.DaysRequested)
}

func TestSubmit_Rejections(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.Submit(ctx, user.Identity{EmployeeID: "emp-404", Role: user.RoleEmployee}, annual("2024-06-03", "2024-06-03"))
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)

	_, err = f.svc.Submit(ctx, ani, leave.SubmitLeaveRequest{LeaveTypeID: "sabbatical", StartDate: "2024-06-03", EndDate: "2024-06-03"})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)

	onBehalf := annual("2024-06-03", "2024-06-03")
	onBehalf.EmployeeID = "emp-2"
	_, err = f.svc.Submit(ctx, ani, onBehalf)
	assert.ErrorIs(t, err, leave.ErrForbidden)
}

func TestSubmit_OverlappingRequestsAreRefused(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.accrue(t, "emp-1", 10)

	first, err := f.svc.Submit(ctx, ani, annual("2024-06-03", "2024-06-04"))
	require.NoError(t, err)

	// identical and partially overlapping ranges
	for _, r := range [][2]string{{"2024-06-03", "2024-06-04"}, {"2024-06-04", "2024-06-05"}, {"2024-05-31", "2024-06-03"}} {
		_, err = f.svc.Submit(ctx, ani, annual(r[0], r[1]))
		assert.ErrorIs(t, err, leave.ErrOverlappingLeave, "%s..%s", r[0], r[1])
	}
	assert.True(t, f.balance(t, "emp-1").Pending.Equal(decimal.NewFromInt(2)))

	// an approved request still blocks the range
	_, err = f.svc.Approve(ctx, first.ID, manager)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, ani, annual("2024-06-03", "2024-06-03"))
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)

	b := f.balance(t, "emp-1")
	assert.True(t, b.Used.Equal(decimal.NewFromInt(2)), b.Used.String())
	assert.True(t, b.Available().Equal(decimal.NewFromInt(8)))

	// other employees and adjacent days are unaffected
	f.accrue(t, "emp-2", 5)
	_, err = f.svc.Submit(ctx, budi, annual("2024-06-03", "2024-06-04"))
	assert.NoError(t, err)
	_, err = f.svc.Submit(ctx, ani, annual("2024-06-05", "2024-06-05"))
	assert.NoError(t, err)
}

func TestSubmit_CancelledRequestFreesRange(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.accrue(t, "emp-1", 10)

	req, err := f.svc.Submit(ctx, ani, annual("2024-06-03", "2024-06-04"))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, req.ID, ani)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, ani, annual("2024-06-03", "2024-06-04"))
	assert.NoError(t, err)
}

func TestSubmit_OnBehalfByManager(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.accrue(t, "emp-2", 5)

	req := annual("2024-06-03", "2024-06-03")
	req.EmployeeID = "emp-2"
	resp, err := f.svc.Submit(ctx, manager, req)
	require.NoError(t, err)
	assert.Equal(t, "emp-2", resp.EmployeeID)
}

func TestSubmit_UnpaidLeaveSkipsBalance(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	req, err := f.svc.Submit(ctx, ani, leave.SubmitLeaveRequest{LeaveTypeID: "unpaid", StartDate: "2024-06-03", EndDate: "2024-06-07"})
	require.NoError(t, err)
	assert.Equal(t, 5, req.DaysRequested)

	_, err = f.svc.Approve(ctx, req.ID, manager)
	require.NoError(t, err)

	b, err := f.ledger.GetBalance(ctx, "emp-1", "unpaid")
	require.NoError(t, err)
	assert.True(t, b.Used.IsZero())
}

func TestTerminalStatesRejectEveryAction(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.accrue(t, "emp-1", 10)

	approved, err := f.svc.Submit(ctx, ani, annual("2024-06-03", "2024-06-03"))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, approved.ID, manager)
	require.NoError(t, err)

	rejected, err := f.svc.Submit(ctx, ani, annual("2024-06-04", "2024-06-04"))
	require.NoError(t, err)
	note := "team offsite"
	resp, err := f.svc.Reject(ctx, leave.RejectLeaveRequest{RequestID: rejected.ID, Note: &note}, manager)
	require.NoError(t, err)
	assert.Equal(t, &note, resp.DecisionNote)

	for _, id := range []string{approved.ID, rejected.ID} {
		_, err = f.svc.Approve(ctx, id, manager)
		assert.ErrorIs(t, err, leave.ErrInvalidTransition)
		_, err = f.svc.Reject(ctx, leave.RejectLeaveRequest{RequestID: id}, manager)
		assert.ErrorIs(t, err, leave.ErrInvalidTransition)
		_, err = f.svc.Cancel(ctx, id, ani)
		assert.ErrorIs(t, err, leave.ErrInvalidTransition)
	}

	b := f.balance(t, "emp-1")
	assert.True(t, b.Used.Equal(decimal.NewFromInt(1)))
	assert.True(t, b.Pending.IsZero())
}

func TestCancel_Authorization(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.accrue(t, "emp-1", 10)

	req, err := f.svc.Submit(ctx, ani, annual("2024-06-03", "2024-06-03"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, req.ID, budi)
	assert.ErrorIs(t, err, leave.ErrNotRequester)

	_, err = f.svc.Cancel(ctx, req.ID, manager)
	assert.NoError(t, err)
}

func TestDecide_NotFound(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.Approve(ctx, "0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b", manager)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	_, err = f.svc.GetRequest(ctx, "0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestApproveCancel_ExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.accrue(t, "emp-1", 25)

	// one Monday per round so approved rounds never overlap later ones
	monday := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	for round := range 20 {
		day := monday.AddDate(0, 0, 7*round).Format("2006-01-02")
		req, err := f.svc.Submit(ctx, ani, annual(day, day))
		require.NoError(t, err)

		var (
			wg         sync.WaitGroup
			approveErr error
			cancelErr  error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, approveErr = f.svc.Approve(ctx, req.ID, manager)
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = f.svc.Cancel(ctx, req.ID, ani)
		}()
		wg.Wait()

		if approveErr == nil {
			assert.ErrorIs(t, cancelErr, leave.ErrInvalidTransition)
		} else {
			assert.NoError(t, cancelErr)
			assert.ErrorIs(t, approveErr, leave.ErrInvalidTransition)
		}

		b := f.balance(t, "emp-1")
		assert.True(t, b.Pending.IsZero())
		assert.True(t, b.Consistent())
	}
}

func TestListByEmployee_Filter(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.accrue(t, "emp-1", 10)

	first, err := f.svc.Submit(ctx, ani, annual("2024-06-03", "2024-06-03"))
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, ani, annual("2024-06-04", "2024-06-04"))
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, first.ID, manager)
	require.NoError(t, err)

	all, err := f.svc.ListByEmployee(ctx, "emp-1", leave.RequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status := string(leave.StatusApproved)
	approved, err := f.svc.ListByEmployee(ctx, "emp-1", leave.RequestFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, first.ID, approved[0].ID)

	bad := "LOST"
	_, err = f.svc.ListByEmployee(ctx, "emp-1", leave.RequestFilter{Status: &bad})
	assert.Error(t, err)

	covering, err := f.svc.ApprovedCovering(ctx, "emp-1",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, covering, 1)

	types, err := f.svc.ListLeaveTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 3)
}
