package calendar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBusinessDays(t *testing.T) {
	cal := NewHolidays(Holiday{Date: date(2024, 6, 17), Name: "Idul Adha"})

	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"mon to tue", date(2024, 6, 3), date(2024, 6, 4), 2},
		{"single day", date(2024, 6, 3), date(2024, 6, 3), 1},
		{"full week", date(2024, 6, 3), date(2024, 6, 9), 5},
		{"weekend only", date(2024, 6, 8), date(2024, 6, 9), 0},
		{"holiday excluded", date(2024, 6, 17), date(2024, 6, 18), 1},
		{"reversed", date(2024, 6, 4), date(2024, 6, 3), 0},
		{"time of day ignored", date(2024, 6, 3).Add(15 * time.Hour), date(2024, 6, 4).Add(time.Hour), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BusinessDays(cal, tt.start, tt.end))
		})
	}
}

func TestParseYAML(t *testing.T) {
	src := `
holidays:
  - date: 2024-06-17
    name: Idul Adha
  - date: 2024-08-17
    name: Independence Day
`
	holidays, err := ParseYAML(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, date(2024, 8, 17), holidays[1].Date)
	assert.Equal(t, "Independence Day", holidays[1].Name)

	_, err = ParseYAML(strings.NewReader("holidays:\n  - date: 17-08-2024\n"))
	assert.Error(t, err)
}

func TestParseICS(t *testing.T) {
	src := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//hris//holidays//EN",
		"BEGIN:VEVENT",
		"UID:1@hris",
		"DTSTAMP:20240101T000000Z",
		"DTSTART;VALUE=DATE:20240410",
		"DTEND;VALUE=DATE:20240412",
		"SUMMARY:Idul Fitri",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:2@hris",
		"DTSTAMP:20240101T000000Z",
		"DTSTART;VALUE=DATE:20240817",
		"SUMMARY:Independence Day",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	holidays, err := ParseICS(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, holidays, 3)

	cal := NewHolidays(holidays...)
	assert.False(t, cal.IsBusinessDay(date(2024, 4, 10)))
	assert.False(t, cal.IsBusinessDay(date(2024, 4, 11)))
	assert.True(t, cal.IsBusinessDay(date(2024, 4, 12)))
	name, ok := cal.Name(date(2024, 8, 17))
	assert.True(t, ok)
	assert.Equal(t, "Independence Day", name)
}

func TestLoadFile(t *testing.T) {
	cal, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 0, cal.Len())

	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte("holidays:\n  - date: 2024-06-17\n    name: Idul Adha\n"), 0o600))

	cal, err = LoadFile(path)
	require.NoError(t, err)
	assert.False(t, cal.IsBusinessDay(date(2024, 6, 17)))

	_, err = LoadFile(filepath.Join(t.TempDir(), "holidays.csv"))
	assert.Error(t, err)
}
