package http

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AttendanceHandler interface {
	Day(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	TeamDay(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Day implements AttendanceHandler.
func (h *attendanceHandlerImpl) Day(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r, "date")
	if !ok {
		return
	}

	day, err := h.attendanceService.DayStatus(r.Context(), chi.URLParam(r, "employeeID"), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewDayResponse(day))
}

func periodFilter(w http.ResponseWriter, r *http.Request) (attendance.PeriodFilter, bool) {
	filter := attendance.PeriodFilter{
		EmployeeID: chi.URLParam(r, "employeeID"),
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return filter, false
	}
	return filter, true
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	filter, ok := periodFilter(w, r)
	if !ok {
		return
	}
	start, end := filter.Range()

	summary, days, err := h.attendanceService.Summary(r.Context(), filter.EmployeeID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewSummaryResponse(summary, days))
}

// Export downloads the period as an XLSX workbook.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	filter, ok := periodFilter(w, r)
	if !ok {
		return
	}
	start, end := filter.Range()

	body, err := h.attendanceService.ExportPeriod(r.Context(), filter.EmployeeID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s_%s.xlsx",
		filter.EmployeeID, start.Format(validator.DateLayout), end.Format(validator.DateLayout))
	response.Attachment(w, xlsxContentType, filename, body)
}

// TeamDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) TeamDay(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r, "date")
	if !ok {
		return
	}

	days, err := h.attendanceService.TeamDay(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]attendance.DayResponse, 0, len(days))
	for _, d := range days {
		resp = append(resp, attendance.NewDayResponse(d))
	}
	response.SuccessWithMeta(w, resp, &response.Meta{TotalItems: len(resp)})
}
