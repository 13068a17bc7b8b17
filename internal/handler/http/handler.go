package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
	"github.com/cmlabs-hris/hris-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// decodeJSON reads the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// identity returns the caller or answers 401.
func identity(w http.ResponseWriter, r *http.Request) (user.Identity, bool) {
	id, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return user.Identity{}, false
	}
	return id, true
}

// dateParam parses a YYYY-MM-DD value from the URL path or query string.
func dateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		raw = r.URL.Query().Get(name)
	}

	date, ok := validator.IsValidDate(raw)
	if !ok {
		var errs validator.ValidationErrors
		errs.Add(name, name+" must be in YYYY-MM-DD format")
		response.HandleError(w, errs)
		return time.Time{}, false
	}
	return date, true
}
