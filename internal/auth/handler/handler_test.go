package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ongfinder/internal/auth/service"
	"ongfinder/internal/auth/token"
	orgstore "ongfinder/internal/organization/store"
	volstore "ongfinder/internal/volunteer/store"
)

func newAuthRouter(t *testing.T) (*chi.Mux, *service.Service) {
	t.Helper()
	volunteers := volstore.NewInMemory()
	svc := service.New(
		orgstore.NewInMemory(volunteers),
		volunteers,
		token.NewJWTService("test-signing-key", "test-issuer"),
		time.Hour,
	)
	router := chi.NewRouter()
	New(svc, slog.Default()).Register(router)
	return router, svc
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var orgForm = map[string]any{
	"nome":      "Abrigo Esperanca",
	"cnpj":      "12345678000190",
	"categoria": "animal",
	"email":     "contato@esperanca.org",
	"senha":     "senha-forte",
	"endereco":  map[string]string{"cidade": "Sao Paulo", "cep": "01310-100"},
}

func TestRegisterAndLoginFlow(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := postJSON(t, router, "/api/auth/register/ong", orgForm)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "contato@esperanca.org", created.Email)
	assert.NotContains(t, rec.Body.String(), "senha", "password hash must never be serialized")

	rec = postJSON(t, router, "/api/auth/login", map[string]string{
		"tipoUsuario": "ong",
		"email":       "contato@esperanca.org",
		"senha":       "senha-forte",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Token string `json:"token"`
		Kind  string `json:"tipoUsuario"`
		Name  string `json:"nome"`
		Email string `json:"email"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "ong", login.Kind)
	assert.Equal(t, "Abrigo Esperanca", login.Name)
	assert.Equal(t, "contato@esperanca.org", login.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := newAuthRouter(t)
	postJSON(t, router, "/api/auth/register/ong", orgForm)

	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"tipoUsuario": "ong",
		"email":       "contato@esperanca.org",
		"senha":       "errada",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var errResp struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "unauthorized", errResp.Error)
}

func TestLoginRejectsUnknownKind(t *testing.T) {
	router, _ := newAuthRouter(t)
	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"tipoUsuario": "admin",
		"email":       "a@b.com",
		"senha":       "x",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckEmail(t *testing.T) {
	router, _ := newAuthRouter(t)
	postJSON(t, router, "/api/auth/register/ong", orgForm)

	get := func(email, kind string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/check-email?email="+email+"&tipoUsuario="+kind, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := get("contato@esperanca.org", "ong")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"existe":true}`, rec.Body.String())

	rec = get("contato@esperanca.org", "voluntario")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"existe":false}`, rec.Body.String(), "the check is scoped to the requested kind")

	rec = get("contato@esperanca.org", "admin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"existe":false}`, rec.Body.String(), "an unrecognized kind answers false")

	rec = get("livre@example.com", "ong")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"existe":false}`, rec.Body.String())

	rec = get("not-an-email", "ong")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRegisterVolunteerValidationSurface(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := postJSON(t, router, "/api/auth/register/voluntario", map[string]any{
		"nomeCompleto":   "Ana Silva",
		"cpf":            "11122233344",
		"dataNascimento": "2020-01-01",
		"genero":         "feminino",
		"email":          "ana@example.com",
		"senha":          "senha-forte",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = postJSON(t, router, "/api/auth/register/voluntario", map[string]any{
		"nomeCompleto":   "Ana Silva",
		"cpf":            "11122233344",
		"dataNascimento": "1995-03-10",
		"genero":         "feminino",
		"email":          "ana@example.com",
		"senha":          "senha-forte",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
