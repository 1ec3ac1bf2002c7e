package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"ongfinder/internal/platform/logger"
	"ongfinder/pkg/domain"
	"ongfinder/pkg/requestcontext"
)

type staticValidator struct {
	claims *Claims
	err    error
}

func (v staticValidator) ValidateToken(string) (*Claims, error) {
	return v.claims, v.err
}

func TestRequireAuth(t *testing.T) {
	log := logger.New()
	var gotID int64
	var gotKind domain.UserKind
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = requestcontext.UserID(r.Context())
		gotKind = requestcontext.UserKind(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("rejects missing header", func(t *testing.T) {
		h := RequireAuth(staticValidator{}, log)(inner)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		h := RequireAuth(staticValidator{err: errors.New("expired")}, log)(inner)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("stores verified identity in context", func(t *testing.T) {
		h := RequireAuth(staticValidator{claims: &Claims{UserID: 42, Kind: domain.KindOrganization}}, log)(inner)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, int64(42), gotID)
		assert.Equal(t, domain.KindOrganization, gotKind)
	})
}

func TestRequireKind(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireKind(domain.KindOrganization)(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(requestcontext.WithUserKind(req.Context(), domain.KindVolunteer))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(requestcontext.WithUserKind(req.Context(), domain.KindOrganization))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
