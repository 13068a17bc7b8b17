package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/correction"
	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
	"github.com/cmlabs-hris/hris-ledger/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CorrectionHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.CorrectionService
}

func NewCorrectionHandler(correctionService correction.CorrectionService) CorrectionHandler {
	return &correctionHandlerImpl{
		correctionService: correctionService,
	}
}

// Submit files a correction for the caller's own attendance.
func (h *correctionHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	var req correction.SubmitCorrectionRequest
	if !decodeJSON(w, r, &req, "SubmitCorrection") {
		return
	}
	req.EmployeeID = caller.EmployeeID

	created, err := h.correctionService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance correction submitted successfully", created)
}

// Get implements CorrectionHandler.
func (h *correctionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	req, err := h.correctionService.GetCorrection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if !caller.IsSelf(req.EmployeeID) && !caller.Can(user.PermissionAttendanceManage) {
		response.HandleError(w, correction.ErrCorrectionNotFound)
		return
	}

	response.Success(w, req)
}

// ListPending implements CorrectionHandler.
func (h *correctionHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.correctionService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, pending, &response.Meta{TotalItems: len(pending)})
}

// ListByEmployee implements CorrectionHandler.
func (h *correctionHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	var filter correction.CorrectionFilter
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	requests, err := h.correctionService.ListByEmployee(r.Context(), chi.URLParam(r, "employeeID"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, &response.Meta{TotalItems: len(requests)})
}

// Approve implements CorrectionHandler.
func (h *correctionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, "ApproveCorrection", h.correctionService.Approve, "Attendance correction approved successfully")
}

// Reject implements CorrectionHandler.
func (h *correctionHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, "RejectCorrection", h.correctionService.Reject, "Attendance correction rejected successfully")
}

type reviewFunc func(ctx context.Context, req correction.ReviewCorrectionRequest, reviewer user.Identity) (correction.CorrectionResponse, error)

func (h *correctionHandlerImpl) review(w http.ResponseWriter, r *http.Request, op string, fn reviewFunc, message string) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	var req correction.ReviewCorrectionRequest
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &req, op) {
			return
		}
	}
	req.RequestID = chi.URLParam(r, "id")

	reviewed, err := fn(r.Context(), req, caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, reviewed)
}
