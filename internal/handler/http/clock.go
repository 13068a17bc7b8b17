package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/clock"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
	"github.com/cmlabs-hris/hris-ledger/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ClockHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	RecordFor(w http.ResponseWriter, r *http.Request)
	DayEvents(w http.ResponseWriter, r *http.Request)
}

type clockHandlerImpl struct {
	clockService clock.ClockService
}

func NewClockHandler(clockService clock.ClockService) ClockHandler {
	return &clockHandlerImpl{
		clockService: clockService,
	}
}

// Record appends a check-in or check-out for the caller, stamped with the
// server clock. Only attendance managers may back-date their own events.
func (h *clockHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	var req clock.RecordEventRequest
	if !decodeJSON(w, r, &req, "RecordClockEvent") {
		return
	}
	if req.OccurredAt != "" && !caller.Can(user.PermissionAttendanceManage) {
		response.HandleError(w, clock.ErrManualEntryForbidden)
		return
	}
	req.EmployeeID = caller.EmployeeID
	req.RecordedBy = caller.EmployeeID

	event, err := h.clockService.RecordEvent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock event recorded successfully", event)
}

// RecordFor is the manual entry used by HR for another employee. The
// timestamp is mandatory.
func (h *clockHandlerImpl) RecordFor(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	var req clock.RecordEventRequest
	if !decodeJSON(w, r, &req, "RecordManualClockEvent") {
		return
	}
	if err := req.RequireTimestamp(); err != nil {
		response.HandleError(w, err)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")
	req.RecordedBy = caller.EmployeeID

	event, err := h.clockService.RecordEvent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Manual clock event recorded successfully", event)
}

// DayEvents implements ClockHandler.
func (h *clockHandlerImpl) DayEvents(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r, "date")
	if !ok {
		return
	}

	events := make([]clock.EventResponse, 0)
	for event, err := range h.clockService.DayEvents(r.Context(), chi.URLParam(r, "employeeID"), date) {
		if err != nil {
			response.HandleError(w, err)
			return
		}
		events = append(events, clock.NewEventResponse(event))
	}

	response.SuccessWithMeta(w, events, &response.Meta{TotalItems: len(events)})
}
