package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-ledger/internal/domain/user"
	"github.com/cmlabs-hris/hris-ledger/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(svc jwt.Service) *chi.Mux {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(svc.JWTAuth()))
	r.Use(AuthRequired(svc))

	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		identity, err := IdentityFromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(identity.EmployeeID))
	})
	r.With(RequirePermission(user.PermissionBalanceAccrue)).Post("/accruals", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.With(RequireSelfOr("employeeID", user.PermissionBalanceViewAll)).Get("/employees/{employeeID}/balances", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func bearer(t *testing.T, svc jwt.Service, identity user.Identity) string {
	token, _, err := svc.GenerateAccessToken(identity, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService("test-secret")
	router := newProtectedRouter(svc)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := jwt.NewJWTService("other-secret")
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", bearer(t, other, user.Identity{EmployeeID: "emp-1", Role: user.RoleEmployee}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", bearer(t, svc, user.Identity{EmployeeID: "emp-1", Role: user.RoleEmployee}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "emp-1", rec.Body.String())
	})
}

func TestRequirePermission(t *testing.T) {
	svc := jwt.NewJWTService("test-secret")
	router := newProtectedRouter(svc)

	tests := []struct {
		role   user.Role
		status int
	}{
		{user.RoleHR, http.StatusNoContent},
		{user.RoleOwner, http.StatusNoContent},
		{user.RoleManager, http.StatusForbidden},
		{user.RoleEmployee, http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/accruals", nil)
		req.Header.Set("Authorization", bearer(t, svc, user.Identity{EmployeeID: "emp-1", Role: tt.role}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, tt.status, rec.Code, "role %s", tt.role)
	}
}

func TestRequireSelfOr(t *testing.T) {
	svc := jwt.NewJWTService("test-secret")
	router := newProtectedRouter(svc)

	call := func(identity user.Identity, employeeID string) int {
		req := httptest.NewRequest(http.MethodGet, "/employees/"+employeeID+"/balances", nil)
		req.Header.Set("Authorization", bearer(t, svc, identity))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	employee := user.Identity{EmployeeID: "emp-1", Role: user.RoleEmployee}
	manager := user.Identity{EmployeeID: "mgr-1", Role: user.RoleManager}

	assert.Equal(t, http.StatusNoContent, call(employee, "emp-1"))
	assert.Equal(t, http.StatusForbidden, call(employee, "emp-2"))
	assert.Equal(t, http.StatusNoContent, call(manager, "emp-2"))
}
