package clock

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/clock"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/database"
	"github.com/google/uuid"
)

type ClockServiceImpl struct {
	tx database.Transactor
	clock.EventRepository
	employee.EmployeeRepository

	loc *time.Location
	now func() time.Time
}

func NewClockService(
	tx database.Transactor,
	eventRepo clock.EventRepository,
	employeeRepo employee.EmployeeRepository,
	loc *time.Location,
) *ClockServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &ClockServiceImpl{
		tx:                 tx,
		EventRepository:    eventRepo,
		EmployeeRepository: employeeRepo,
		loc:                loc,
		now:                time.Now,
	}
}

// WithClock replaces the time source used for events without occurred_at.
func (s *ClockServiceImpl) WithClock(now func() time.Time) *ClockServiceImpl {
	s.now = now
	return s
}

// RecordEvent implements clock.ClockService.
func (s *ClockServiceImpl) RecordEvent(ctx context.Context, req clock.RecordEventRequest) (clock.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return clock.EventResponse{}, err
	}

	if _, err := employee.RequireActive(ctx, s.EmployeeRepository, req.EmployeeID); err != nil {
		return clock.EventResponse{}, err
	}

	kind := clock.Kind(req.Kind)
	at := req.Timestamp(s.now()).UTC()
	workDate := clock.DateOf(at, s.loc)

	var recorded clock.Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.EventRepository.LockDay(ctx, req.EmployeeID, workDate); err != nil {
			return err
		}

		exists, err := s.EventRepository.Exists(ctx, req.EmployeeID, at, kind)
		if err != nil {
			return fmt.Errorf("failed to check duplicate clock event: %w", err)
		}
		if exists {
			return clock.ErrDuplicateEvent
		}

		last, err := s.EventRepository.LastOfDay(ctx, req.EmployeeID, workDate)
		if err != nil {
			return fmt.Errorf("failed to get last clock event: %w", err)
		}
		if err := checkSequence(last, kind, at); err != nil {
			return err
		}

		recorded, err = s.EventRepository.Create(ctx, clock.Event{
			ID:         uuid.Must(uuid.NewV7()).String(),
			EmployeeID: req.EmployeeID,
			Kind:       kind,
			OccurredAt: at,
			WorkDate:   workDate,
		})
		return err
	})
	if err != nil {
		if !errors.Is(err, clock.ErrInvalidSequence) && !errors.Is(err, clock.ErrDuplicateEvent) {
			slog.Warn("Failed to record clock event", "employee_id", req.EmployeeID, "kind", kind, "error", err)
		}
		return clock.EventResponse{}, err
	}

	if req.RecordedBy != "" && req.RecordedBy != req.EmployeeID {
		slog.Info("Manual clock event recorded",
			"employee_id", req.EmployeeID, "kind", kind, "occurred_at", at, "recorded_by", req.RecordedBy)
	}
	return clock.NewEventResponse(recorded), nil
}

// checkSequence enforces CHECK_IN, CHECK_OUT alternation and timestamp
// order within one employee's day.
func checkSequence(last *clock.Event, kind clock.Kind, at time.Time) error {
	if last != nil && at.Before(last.OccurredAt) {
		return fmt.Errorf("%w: %s at %s is earlier than the last event at %s",
			clock.ErrInvalidSequence, kind, at.Format(time.RFC3339), last.OccurredAt.Format(time.RFC3339))
	}

	open := last != nil && last.Kind == clock.KindCheckIn
	switch kind {
	case clock.KindCheckOut:
		if !open {
			return fmt.Errorf("%w: no open check-in", clock.ErrInvalidSequence)
		}
	case clock.KindCheckIn:
		if open {
			return fmt.Errorf("%w: already checked in", clock.ErrInvalidSequence)
		}
	default:
		return clock.ErrInvalidKind
	}
	return nil
}

// DayEvents implements clock.ClockService.
func (s *ClockServiceImpl) DayEvents(ctx context.Context, employeeID string, date time.Time) iter.Seq2[clock.Event, error] {
	workDate := clock.CivilDate(date, s.loc)
	return func(yield func(clock.Event, error) bool) {
		events, err := s.EventRepository.ListByDay(ctx, employeeID, workDate)
		if err != nil {
			yield(clock.Event{}, fmt.Errorf("failed to list clock events: %w", err))
			return
		}
		for _, e := range events {
			if !yield(e, nil) {
				return
			}
		}
	}
}
