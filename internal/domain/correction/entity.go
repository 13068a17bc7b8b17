package correction

import (
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/clock"
)

// Request asks for missing clock events on one work day. Approval appends
// them to the clock store; recorded events are never edited.
type Request struct {
	ID         string
	EmployeeID string
	WorkDate   time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	Reason     string

	Status      Status
	RequestedAt time.Time
	ReviewedBy  *string
	ReviewedAt  *time.Time
	ReviewNote  *string
}

// Entry is one clock event a correction adds.
type Entry struct {
	Kind       clock.Kind
	OccurredAt time.Time
}

// Entries returns the events to append, check-in first.
func (r Request) Entries() []Entry {
	entries := make([]Entry, 0, 2)
	if r.CheckIn != nil {
		entries = append(entries, Entry{Kind: clock.KindCheckIn, OccurredAt: *r.CheckIn})
	}
	if r.CheckOut != nil {
		entries = append(entries, Entry{Kind: clock.KindCheckOut, OccurredAt: *r.CheckOut})
	}
	return entries
}
