package clock

import "time"

type Kind string

const (
	KindCheckIn  Kind = "CHECK_IN"
	KindCheckOut Kind = "CHECK_OUT"
)

func (k Kind) IsValid() bool {
	return k == KindCheckIn || k == KindCheckOut
}

// Event is a single immutable check-in or check-out. WorkDate is the
// calendar day of OccurredAt in the ledger time zone.
type Event struct {
	ID         string
	EmployeeID string
	Kind       Kind
	OccurredAt time.Time
	WorkDate   time.Time
	CreatedAt  time.Time
}

// DateOf truncates t to its calendar day in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// CivilDate keeps the year, month and day of date as written and places
// them at midnight in loc. Use it for dates that carry no time of day.
func CivilDate(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}
