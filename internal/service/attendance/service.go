package attendance

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/clock"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/leave"
	"golang.org/x/sync/errgroup"
)

// teamDayConcurrency bounds the fan-out of TeamDay.
const teamDayConcurrency = 8

// AttendanceServiceImpl joins clock events and approved leave on demand.
// It never writes.
type AttendanceServiceImpl struct {
	clock.EventRepository
	leave.LeaveRequestRepository
	employee.EmployeeRepository

	thresholds attendance.Thresholds
	loc        *time.Location
}

func NewAttendanceService(
	eventRepo clock.EventRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	thresholds attendance.Thresholds,
	loc *time.Location,
) *AttendanceServiceImpl {
	if thresholds.FullDay <= 0 || thresholds.HalfDay <= 0 {
		thresholds = attendance.DefaultThresholds()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		EventRepository:        eventRepo,
		LeaveRequestRepository: leaveRequestRepo,
		EmployeeRepository:     employeeRepo,
		thresholds:             thresholds,
		loc:                    loc,
	}
}

// DayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DayStatus(ctx context.Context, employeeID string, date time.Time) (attendance.Day, error) {
	if _, err := employee.RequireKnown(ctx, s.EmployeeRepository, employeeID); err != nil {
		return attendance.Day{}, err
	}

	day := clock.CivilDate(date, s.loc)
	approved, err := s.LeaveRequestRepository.GetApprovedCovering(ctx, employeeID, day, day)
	if err != nil {
		return attendance.Day{}, fmt.Errorf("failed to get approved leave: %w", err)
	}
	return s.derive(ctx, employeeID, day, approved)
}

func (s *AttendanceServiceImpl) derive(ctx context.Context, employeeID string, day time.Time, approved []leave.Request) (attendance.Day, error) {
	onLeave := false
	for _, r := range approved {
		if r.Covers(day) {
			onLeave = true
			break
		}
	}

	var events []clock.Event
	if !onLeave {
		var err error
		events, err = s.EventRepository.ListByDay(ctx, employeeID, day)
		if err != nil {
			return attendance.Day{}, fmt.Errorf("failed to list clock events: %w", err)
		}
	}

	status, worked := attendance.Derive(events, onLeave, s.thresholds)
	return attendance.Day{
		EmployeeID: employeeID,
		Date:       day,
		Status:     status,
		Worked:     worked,
	}, nil
}

// PeriodSummary implements attendance.AttendanceService. Approved leave for
// the whole range is read once; clock events are read per day as the
// sequence advances.
func (s *AttendanceServiceImpl) PeriodSummary(ctx context.Context, employeeID string, start, end time.Time) iter.Seq2[attendance.Day, error] {
	from := clock.CivilDate(start, s.loc)
	to := clock.CivilDate(end, s.loc)

	return func(yield func(attendance.Day, error) bool) {
		if to.Before(from) {
			yield(attendance.Day{}, attendance.ErrInvalidPeriod)
			return
		}
		if to.Sub(from) >= attendance.MaxPeriodDays*24*time.Hour {
			yield(attendance.Day{}, attendance.ErrPeriodTooLong)
			return
		}
		if _, err := employee.RequireKnown(ctx, s.EmployeeRepository, employeeID); err != nil {
			yield(attendance.Day{}, err)
			return
		}

		approved, err := s.LeaveRequestRepository.GetApprovedCovering(ctx, employeeID, from, to)
		if err != nil {
			yield(attendance.Day{}, fmt.Errorf("failed to get approved leave: %w", err))
			return
		}

		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			if err := ctx.Err(); err != nil {
				yield(attendance.Day{}, err)
				return
			}
			d, err := s.derive(ctx, employeeID, day, approved)
			if !yield(d, err) || err != nil {
				return
			}
		}
	}
}

// Summary drains PeriodSummary into counts per status.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, employeeID string, start, end time.Time) (attendance.Summary, []attendance.Day, error) {
	var days []attendance.Day
	seq := func(yield func(attendance.Day, error) bool) {
		for d, err := range s.PeriodSummary(ctx, employeeID, start, end) {
			if err == nil {
				days = append(days, d)
			}
			if !yield(d, err) {
				return
			}
		}
	}

	summary, err := attendance.Summarize(employeeID, clock.CivilDate(start, s.loc), clock.CivilDate(end, s.loc), seq)
	if err != nil {
		return attendance.Summary{}, nil, err
	}
	return summary, days, nil
}

// TeamDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TeamDay(ctx context.Context, date time.Time) ([]attendance.Day, error) {
	employees, err := s.EmployeeRepository.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	day := clock.CivilDate(date, s.loc)
	days := make([]attendance.Day, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(teamDayConcurrency)
	for i, emp := range employees {
		g.Go(func() error {
			approved, err := s.LeaveRequestRepository.GetApprovedCovering(gctx, emp.ID, day, day)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			d, err := s.derive(gctx, emp.ID, day, approved)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			days[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return days, nil
}
