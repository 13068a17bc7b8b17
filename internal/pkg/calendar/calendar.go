package calendar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Calendar decides which days count toward leave duration.
type Calendar interface {
	IsBusinessDay(date time.Time) bool
}

// BusinessDays counts business days in [start, end], both inclusive.
// It returns 0 when end is before start.
func BusinessDays(cal Calendar, start, end time.Time) int {
	start = truncate(start)
	end = truncate(end)

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if cal.IsBusinessDay(d) {
			days++
		}
	}
	return days
}

// Holiday is a named non-working date.
type Holiday struct {
	Date time.Time
	Name string
}

// Holidays treats Saturdays, Sundays and every listed date as non-working.
type Holidays struct {
	dates map[string]string
}

func NewHolidays(holidays ...Holiday) *Holidays {
	h := &Holidays{dates: make(map[string]string, len(holidays))}
	for _, hol := range holidays {
		h.dates[hol.Date.Format(dateLayout)] = hol.Name
	}
	return h
}

func (h *Holidays) IsBusinessDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := h.dates[date.Format(dateLayout)]
	return !holiday
}

// Name returns the holiday name for date, if any.
func (h *Holidays) Name(date time.Time) (string, bool) {
	name, ok := h.dates[date.Format(dateLayout)]
	return name, ok
}

func (h *Holidays) Len() int {
	return len(h.dates)
}

// LoadFile reads holidays from a .yaml, .yml or .ics file. An empty path
// yields a weekends-only calendar.
func LoadFile(path string) (*Holidays, error) {
	if strings.TrimSpace(path) == "" {
		return NewHolidays(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("calendar: open %s: %w", path, err)
	}
	defer f.Close()

	var holidays []Holiday
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		holidays, err = ParseYAML(f)
	case ".ics":
		holidays, err = ParseICS(f)
	default:
		return nil, fmt.Errorf("calendar: unsupported holiday file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("calendar: %s: %w", path, err)
	}
	return NewHolidays(holidays...), nil
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
