package clock

import (
	"context"
	"iter"
	"time"
)

type ClockService interface {
	// RecordEvent appends a check-in or check-out for the employee.
	RecordEvent(ctx context.Context, req RecordEventRequest) (EventResponse, error)

	// DayEvents yields the day's events in timestamp order. Every range over
	// the returned sequence reads the store again.
	DayEvents(ctx context.Context, employeeID string, date time.Time) iter.Seq2[Event, error]
}
