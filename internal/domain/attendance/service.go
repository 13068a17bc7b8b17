package attendance

import (
	"context"
	"iter"
	"time"
)

// AttendanceService derives attendance from clock events and approved leave.
// It keeps no state of its own.
type AttendanceService interface {
	DayStatus(ctx context.Context, employeeID string, date time.Time) (Day, error)

	// PeriodSummary yields one Day per date in [start, end]. Ranging stops
	// early when ctx is done.
	PeriodSummary(ctx context.Context, employeeID string, start, end time.Time) iter.Seq2[Day, error]

	// Summary drains PeriodSummary and returns the aggregate with its days.
	Summary(ctx context.Context, employeeID string, start, end time.Time) (Summary, []Day, error)

	// TeamDay computes DayStatus for every active employee.
	TeamDay(ctx context.Context, date time.Time) ([]Day, error)

	// ExportPeriod renders the period as an XLSX workbook.
	ExportPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]byte, error)
}

// Summarize drains seq into a Summary, stopping at the first error.
func Summarize(employeeID string, start, end time.Time, seq iter.Seq2[Day, error]) (Summary, error) {
	summary := NewSummary(employeeID, start, end)
	for day, err := range seq {
		if err != nil {
			return Summary{}, err
		}
		summary.Add(day)
	}
	return summary, nil
}
