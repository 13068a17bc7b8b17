package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/clock"
)

type clockEventRepository struct {
	s *Store
}

func NewClockEventRepository(s *Store) clock.EventRepository {
	return &clockEventRepository{s: s}
}

func dayOf(employeeID string, workDate time.Time) dayKey {
	return dayKey{employeeID: employeeID, date: workDate.Format("2006-01-02")}
}

// LockDay is covered by the store's transaction lock.
func (r *clockEventRepository) LockDay(context.Context, string, time.Time) error {
	return nil
}

func (r *clockEventRepository) Exists(_ context.Context, employeeID string, occurredAt time.Time, kind clock.Kind) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for key, events := range r.s.events {
		if key.employeeID != employeeID {
			continue
		}
		for _, e := range events {
			if e.Kind == kind && e.OccurredAt.Equal(occurredAt) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *clockEventRepository) LastOfDay(_ context.Context, employeeID string, workDate time.Time) (*clock.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	events := r.s.events[dayOf(employeeID, workDate)]
	if len(events) == 0 {
		return nil, nil
	}
	last := events[len(events)-1]
	return &last, nil
}

func (r *clockEventRepository) Create(ctx context.Context, event clock.Event) (clock.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := dayOf(event.EmployeeID, event.WorkDate)
	events := r.s.events[key]
	for _, e := range events {
		if e.Kind == event.Kind && e.OccurredAt.Equal(event.OccurredAt) {
			return clock.Event{}, clock.ErrDuplicateEvent
		}
	}

	event.CreatedAt = r.s.now()
	prev := events
	next := append(slices.Clone(events), event)
	slices.SortStableFunc(next, func(a, b clock.Event) int { return a.OccurredAt.Compare(b.OccurredAt) })
	r.s.events[key] = next
	record(ctx, func() { r.s.events[key] = prev })

	return event, nil
}

func (r *clockEventRepository) ListByDay(_ context.Context, employeeID string, workDate time.Time) ([]clock.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return slices.Clone(r.s.events[dayOf(employeeID, workDate)]), nil
}
