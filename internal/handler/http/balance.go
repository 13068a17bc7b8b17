package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/balance"
	"github.com/cmlabs-hris/hris-ledger/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type BalanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Entries(w http.ResponseWriter, r *http.Request)
	Accrue(w http.ResponseWriter, r *http.Request)
}

type balanceHandlerImpl struct {
	ledgerService balance.LedgerService
}

func NewBalanceHandler(ledgerService balance.LedgerService) BalanceHandler {
	return &balanceHandlerImpl{
		ledgerService: ledgerService,
	}
}

// List implements BalanceHandler.
func (h *balanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledgerService.ListBalances(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]balance.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp = append(resp, balance.NewBalanceResponse(b))
	}
	response.Success(w, resp)
}

// Get implements BalanceHandler.
func (h *balanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.ledgerService.GetBalance(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "leaveTypeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance.NewBalanceResponse(b))
}

// Entries returns the append-only history of one balance.
func (h *balanceHandlerImpl) Entries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledgerService.ListEntries(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "leaveTypeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]balance.EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, balance.NewEntryResponse(e))
	}
	response.SuccessWithMeta(w, resp, &response.Meta{TotalItems: len(resp)})
}

// Accrue credits a balance for one period. Repeating a period is a no-op.
func (h *balanceHandlerImpl) Accrue(w http.ResponseWriter, r *http.Request) {
	var req balance.AccrueRequest
	if !decodeJSON(w, r, &req, "Accrue") {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	applied, err := h.ledgerService.Accrue(r.Context(), req.EmployeeID, req.LeaveTypeID, req.Units, req.Period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data := map[string]bool{"applied": applied}
	if !applied {
		response.SuccessWithMessage(w, "Period already accrued", data)
		return
	}
	response.Created(w, "Leave accrued successfully", data)
}
