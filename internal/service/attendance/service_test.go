package attendance

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/clock"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-ledger/internal/repository/memory"
	balancesvc "github.com/cmlabs-hris/hris-ledger/internal/service/balance"
	clocksvc "github.com/cmlabs-hris/hris-ledger/internal/service/clock"
	leavesvc "github.com/cmlabs-hris/hris-ledger/internal/service/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var (
	ani     = user.Identity{EmployeeID: "emp-1", Role: user.RoleEmployee}
	manager = user.Identity{EmployeeID: "emp-mgr", Role: user.RoleManager}
)

type fixture struct {
	svc    *AttendanceServiceImpl
	clock  *clocksvc.ClockServiceImpl
	leave  *leavesvc.LeaveServiceImpl
	ledger *balancesvc.LedgerServiceImpl
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore(5 * time.Second)
	store.SeedLeaveTypes()
	store.PutEmployee(employee.Employee{ID: "emp-1", FullName: "Ani"})
	store.PutEmployee(employee.Employee{ID: "emp-2", FullName: "Budi"})
	store.PutEmployee(employee.Employee{ID: "emp-mgr", FullName: "Citra"})

	employees := memory.NewEmployeeRepository(store)
	events := memory.NewClockEventRepository(store)
	types := memory.NewLeaveTypeRepository(store)
	requests := memory.NewLeaveRequestRepository(store)

	ledger := balancesvc.NewLedgerService(store, memory.NewLeaveBalanceRepository(store), types, employees)
	return fixture{
		svc:    NewAttendanceService(events, requests, employees, attendance.DefaultThresholds(), time.UTC),
		clock:  clocksvc.NewClockService(store, events, employees, time.UTC),
		leave:  leavesvc.NewLeaveService(store, types, requests, employees, ledger, calendar.NewHolidays()),
		ledger: ledger,
	}
}

func (f fixture) record(t *testing.T, employeeID string, kind clock.Kind, at string) error {
	t.Helper()
	_, err := f.clock.RecordEvent(context.Background(), clock.RecordEventRequest{
		EmployeeID: employeeID, Kind: string(kind), OccurredAt: at,
	})
	return err
}

func (f fixture) approvedLeave(t *testing.T, start, end string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.ledger.Accrue(ctx, "emp-1", "annual", decimal.NewFromInt(10), "2024")
	require.NoError(t, err)
	req, err := f.leave.Submit(ctx, ani, leave.SubmitLeaveRequest{LeaveTypeID: "annual", StartDate: start, EndDate: end})
	require.NoError(t, err)
	_, err = f.leave.Approve(ctx, req.ID, manager)
	require.NoError(t, err)
}

func date(day int) time.Time {
	return time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC)
}

func TestDayStatus_PresentThenInvalidSequence(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.record(t, "emp-1", clock.KindCheckIn, "2024-06-03T09:00:00Z"))
	require.NoError(t, f.record(t, "emp-1", clock.KindCheckOut, "2024-06-03T17:00:00Z"))

	day, err := f.svc.DayStatus(context.Background(), "emp-1", date(3))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, day.Status)
	assert.Equal(t, 8*time.Hour, day.Worked)

	err = f.record(t, "emp-1", clock.KindCheckOut, "2024-06-03T18:00:00Z")
	assert.ErrorIs(t, err, clock.ErrInvalidSequence)
}

func TestDayStatus_OnLeaveOverridesClock(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.record(t, "emp-1", clock.KindCheckIn, "2024-06-04T09:00:00Z"))
	require.NoError(t, f.record(t, "emp-1", clock.KindCheckOut, "2024-06-04T18:00:00Z"))
	f.approvedLeave(t, "2024-06-03", "2024-06-04")

	for _, d := range []int{3, 4} {
		day, err := f.svc.DayStatus(context.Background(), "emp-1", date(d))
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusOnLeave, day.Status, "June %d", d)
	}

	day, err := f.svc.DayStatus(context.Background(), "emp-1", date(5))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, day.Status)
}

func TestDayStatus_PendingLeaveDoesNotCount(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.ledger.Accrue(ctx, "emp-1", "annual", decimal.NewFromInt(10), "2024")
	require.NoError(t, err)
	_, err = f.leave.Submit(ctx, ani, leave.SubmitLeaveRequest{LeaveTypeID: "annual", StartDate: "2024-06-03", EndDate: "2024-06-03"})
	require.NoError(t, err)

	day, err := f.svc.DayStatus(ctx, "emp-1", date(3))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, day.Status)
}

func TestDayStatus_UnterminatedAndHalfDay(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.record(t, "emp-1", clock.KindCheckIn, "2024-06-03T09:00:00Z"))
	require.NoError(t, f.record(t, "emp-1", clock.KindCheckIn, "2024-06-04T08:00:00Z"))
	require.NoError(t, f.record(t, "emp-1", clock.KindCheckOut, "2024-06-04T13:00:00Z"))

	day, err := f.svc.DayStatus(context.Background(), "emp-1", date(3))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusUnterminated, day.Status)

	day, err = f.svc.DayStatus(context.Background(), "emp-1", date(4))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHalfDay, day.Status)
}

func TestDayStatus_UnknownEmployee(t *testing.T) {
	f := setup(t)

	_, err := f.svc.DayStatus(context.Background(), "emp-404", date(3))
	assert.ErrorIs(t, err, employee.ErrUnknownEmployee)
}

func TestPeriodSummary(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.record(t, "emp-1", clock.KindCheckIn, "2024-06-03T09:00:00Z"))
	require.NoError(t, f.record(t, "emp-1", clock.KindCheckOut, "2024-06-03T17:30:00Z"))
	f.approvedLeave(t, "2024-06-04", "2024-06-05")

	seq := f.svc.PeriodSummary(ctx, "emp-1", date(3), date(7))

	summary, err := attendance.Summarize("emp-1", date(3), date(7), seq)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Days)
	assert.Equal(t, 1, summary.Counts[attendance.StatusPresent])
	assert.Equal(t, 2, summary.Counts[attendance.StatusOnLeave])
	assert.Equal(t, 2, summary.Counts[attendance.StatusAbsent])

	// restartable
	again, err := attendance.Summarize("emp-1", date(3), date(7), seq)
	require.NoError(t, err)
	assert.Equal(t, summary.Counts, again.Counts)

	var dates []string
	for d, err := range seq {
		require.NoError(t, err)
		dates = append(dates, d.Date.Format(time.DateOnly))
		if len(dates) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"2024-06-03", "2024-06-04"}, dates)
}

func TestPeriodSummary_Errors(t *testing.T) {
	f := setup(t)

	_, err := attendance.Summarize("emp-1", date(7), date(3), f.svc.PeriodSummary(context.Background(), "emp-1", date(7), date(3)))
	assert.ErrorIs(t, err, attendance.ErrInvalidPeriod)

	long := f.svc.PeriodSummary(context.Background(), "emp-1", date(1), date(1).AddDate(2, 0, 0))
	_, err = attendance.Summarize("emp-1", date(1), date(1), long)
	assert.ErrorIs(t, err, attendance.ErrPeriodTooLong)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = attendance.Summarize("emp-1", date(3), date(7), f.svc.PeriodSummary(ctx, "emp-1", date(3), date(7)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTeamDay(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.record(t, "emp-2", clock.KindCheckIn, "2024-06-03T09:00:00Z"))
	require.NoError(t, f.record(t, "emp-2", clock.KindCheckOut, "2024-06-03T17:00:00Z"))
	f.approvedLeave(t, "2024-06-03", "2024-06-03")

	days, err := f.svc.TeamDay(context.Background(), date(3))
	require.NoError(t, err)
	require.Len(t, days, 3)

	byEmployee := make(map[string]attendance.Status)
	for _, d := range days {
		byEmployee[d.EmployeeID] = d.Status
	}
	assert.Equal(t, attendance.StatusOnLeave, byEmployee["emp-1"])
	assert.Equal(t, attendance.StatusPresent, byEmployee["emp-2"])
	assert.Equal(t, attendance.StatusAbsent, byEmployee["emp-mgr"])
}

func TestExportPeriod(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.record(t, "emp-1", clock.KindCheckIn, "2024-06-03T09:00:00Z"))
	require.NoError(t, f.record(t, "emp-1", clock.KindCheckOut, "2024-06-03T17:00:00Z"))

	data, err := f.svc.ExportPeriod(context.Background(), "emp-1", date(3), date(4))
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, []string{"Date", "Status", "Worked (h)"}, rows[1])
	assert.Equal(t, []string{"2024-06-03", "PRESENT", "8"}, rows[2])
	assert.Equal(t, "ABSENT", rows[3][1])
}
