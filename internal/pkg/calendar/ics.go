package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

var icsDateLayouts = []string{"20060102T150405Z", "20060102T150405", "20060102"}

// ParseICS reads every VEVENT as a holiday. Multi-day events (DTEND is
// exclusive per RFC 5545) expand to one holiday per day.
func ParseICS(r io.Reader) ([]Holiday, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	var holidays []Holiday
	for _, evt := range cal.Events() {
		start, ok := icsDate(evt, ics.ComponentPropertyDtStart)
		if !ok {
			continue
		}
		name := ""
		if summary := evt.GetProperty(ics.ComponentPropertySummary); summary != nil {
			name = strings.TrimSpace(summary.Value)
		}

		end, ok := icsDate(evt, ics.ComponentPropertyDtEnd)
		if !ok || !end.After(start) {
			end = start.AddDate(0, 0, 1)
		}
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			holidays = append(holidays, Holiday{Date: d, Name: name})
		}
	}
	return holidays, nil
}

func icsDate(evt *ics.VEvent, prop ics.ComponentProperty) (time.Time, bool) {
	p := evt.GetProperty(prop)
	if p == nil {
		return time.Time{}, false
	}
	value := strings.TrimSpace(p.Value)
	for _, layout := range icsDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return truncate(t), true
		}
	}
	return time.Time{}, false
}
