package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/clock"
)

type Status string

const (
	StatusPresent      Status = "PRESENT"
	StatusHalfDay      Status = "HALF_DAY"
	StatusAbsent       Status = "ABSENT"
	StatusOnLeave      Status = "ON_LEAVE"
	StatusUnterminated Status = "UNTERMINATED"
)

// Statuses lists every status in report order.
var Statuses = []Status{StatusPresent, StatusHalfDay, StatusUnterminated, StatusOnLeave, StatusAbsent}

const (
	DefaultFullDay = 8 * time.Hour
	DefaultHalfDay = 4 * time.Hour
)

// Thresholds are the worked durations needed for PRESENT and HALF_DAY.
type Thresholds struct {
	FullDay time.Duration
	HalfDay time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{FullDay: DefaultFullDay, HalfDay: DefaultHalfDay}
}

// Day is the derived status of one employee on one date.
type Day struct {
	EmployeeID string
	Date       time.Time
	Status     Status
	Worked     time.Duration
}

// Summary counts statuses over a period.
type Summary struct {
	EmployeeID string
	Start      time.Time
	End        time.Time
	Days       int
	Worked     time.Duration
	Counts     map[Status]int
}

func NewSummary(employeeID string, start, end time.Time) Summary {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	return Summary{EmployeeID: employeeID, Start: start, End: end, Counts: counts}
}

func (s *Summary) Add(d Day) {
	s.Days++
	s.Worked += d.Worked
	s.Counts[d.Status]++
}

// Worked sums CHECK_OUT minus CHECK_IN over consecutive pairs of events and
// reports whether the day ends with an open CHECK_IN. Events must be in
// timestamp order.
func Worked(events []clock.Event) (time.Duration, bool) {
	var (
		total  time.Duration
		openAt *time.Time
	)
	for _, e := range events {
		switch e.Kind {
		case clock.KindCheckIn:
			at := e.OccurredAt
			openAt = &at
		case clock.KindCheckOut:
			if openAt != nil {
				total += e.OccurredAt.Sub(*openAt)
				openAt = nil
			}
		}
	}
	return total, openAt != nil
}

// Derive computes a day's status. Approved leave wins over any clock events.
func Derive(events []clock.Event, onLeave bool, th Thresholds) (Status, time.Duration) {
	if onLeave {
		return StatusOnLeave, 0
	}

	worked, open := Worked(events)
	switch {
	case worked >= th.FullDay:
		return StatusPresent, worked
	case worked >= th.HalfDay:
		return StatusHalfDay, worked
	case open:
		return StatusUnterminated, worked
	default:
		return StatusAbsent, worked
	}
}
