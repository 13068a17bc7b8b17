package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/pkg/validator"
)

// MaxPeriodDays bounds a single summary or export.
const MaxPeriodDays = 366

type PeriodFilter struct {
	EmployeeID string `json:"-"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`

	start time.Time
	end   time.Time
}

func (f *PeriodFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	start, startOK := validator.IsValidDate(f.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(f.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK {
		if end.Before(start) {
			errs.Add("end_date", "end_date must not be before start_date")
		} else if int(end.Sub(start).Hours()/24)+1 > MaxPeriodDays {
			errs.Add("end_date", "period must not exceed 366 days")
		}
	}

	f.start, f.end = start, end
	return errs.Err()
}

// Range returns the parsed dates. Only meaningful after Validate succeeds.
func (f *PeriodFilter) Range() (time.Time, time.Time) {
	return f.start, f.end
}

type DayResponse struct {
	EmployeeID    string `json:"employee_id"`
	Date          string `json:"date"`
	Status        string `json:"status"`
	WorkedMinutes int    `json:"worked_minutes"`
}

func NewDayResponse(d Day) DayResponse {
	return DayResponse{
		EmployeeID:    d.EmployeeID,
		Date:          d.Date.Format(validator.DateLayout),
		Status:        string(d.Status),
		WorkedMinutes: int(d.Worked / time.Minute),
	}
}

type SummaryResponse struct {
	EmployeeID    string         `json:"employee_id"`
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	TotalDays     int            `json:"total_days"`
	WorkedMinutes int            `json:"worked_minutes"`
	Counts        map[Status]int `json:"counts"`
	Days          []DayResponse  `json:"days"`
}

func NewSummaryResponse(s Summary, days []Day) SummaryResponse {
	resp := SummaryResponse{
		EmployeeID:    s.EmployeeID,
		StartDate:     s.Start.Format(validator.DateLayout),
		EndDate:       s.End.Format(validator.DateLayout),
		TotalDays:     s.Days,
		WorkedMinutes: int(s.Worked / time.Minute),
		Counts:        s.Counts,
		Days:          make([]DayResponse, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, NewDayResponse(d))
	}
	return resp
}
