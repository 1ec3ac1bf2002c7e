package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	appstore "ongfinder/internal/application/store"
	orgmodels "ongfinder/internal/organization/models"
	orgservice "ongfinder/internal/organization/service"
	orgstore "ongfinder/internal/organization/store"
	"ongfinder/internal/platform/middleware"
	posmodels "ongfinder/internal/position/models"
	posstore "ongfinder/internal/position/store"
	"ongfinder/internal/volunteer/models"
	"ongfinder/internal/volunteer/service"
	volstore "ongfinder/internal/volunteer/store"
	"ongfinder/pkg/domain"
	dErrors "ongfinder/pkg/domain-errors"
)

type staticValidator map[string]middleware.Claims

func (v staticValidator) ValidateToken(token string) (*middleware.Claims, error) {
	claims, ok := v[token]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return &claims, nil
}

type VolHandlerSuite struct {
	suite.Suite
	router       *chi.Mux
	orgs         *orgstore.InMemoryStore
	positions    *posstore.InMemoryStore
	volunteers   *volstore.InMemoryStore
	applications *appstore.InMemoryStore
	org          *orgmodels.Organization
	pos          *posmodels.Position
	vol          *models.Volunteer
}

func TestVolHandlerSuite(t *testing.T) {
	suite.Run(t, new(VolHandlerSuite))
}

func (s *VolHandlerSuite) SetupTest() {
	ctx := context.Background()
	s.volunteers = volstore.NewInMemory()
	s.orgs = orgstore.NewInMemory(s.volunteers)
	s.positions = posstore.NewInMemory(s.orgs)
	s.applications = appstore.NewInMemory(s.positions, s.volunteers)

	s.org = &orgmodels.Organization{
		Name: "Abrigo Feliz", Email: "a@a.org", CNPJ: "00000000000101",
		Category: domain.CategoryAnimal, Active: true,
		Address: domain.Address{City: "Recife", State: "PE", Neighborhood: "Boa Vista"},
	}
	s.Require().NoError(s.orgs.Create(ctx, s.org))

	s.pos = &posmodels.Position{OrganizationID: s.org.ID, Title: "Passeador", Active: true, CreatedAt: time.Now()}
	s.Require().NoError(s.positions.Create(ctx, s.pos))

	s.vol = &models.Volunteer{
		FullName: "Ana Silva", Email: "ana@x.com", CPF: "11122233344",
		BirthDate: domain.NewDate(1990, time.March, 10), Gender: domain.GenderFemale, Active: true,
	}
	s.Require().NoError(s.volunteers.Create(ctx, s.vol))

	validator := staticValidator{
		"vol-token": {UserID: int64(s.vol.ID), Kind: domain.KindVolunteer},
		"ong-token": {UserID: int64(s.org.ID), Kind: domain.KindOrganization},
	}
	volSvc := service.New(s.volunteers, s.orgs, s.positions, s.applications)
	orgSvc := orgservice.New(s.orgs, s.positions, s.applications)
	s.router = chi.NewRouter()
	New(volSvc, orgSvc, validator, slog.Default()).Register(s.router)
}

func (s *VolHandlerSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *VolHandlerSuite) TestSearchOrganizationsIsPublic() {
	rec := s.do(http.MethodGet, "/api/voluntario/ongs?cidade=recife&categoria=animal", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var out []orgmodels.Organization
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&out))
	s.Require().Len(out, 1)
	s.Equal("Abrigo Feliz", out[0].Name)
	s.NotContains(rec.Body.String(), "senha")
}

func (s *VolHandlerSuite) TestSearchOrganizationsNoMatch() {
	rec := s.do(http.MethodGet, "/api/voluntario/ongs?cidade=manaus", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *VolHandlerSuite) TestSearchOrganizationsBadCategory() {
	rec := s.do(http.MethodGet, "/api/voluntario/ongs?categoria=quux", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *VolHandlerSuite) TestEditProfile() {
	body := map[string]any{"telefone": "(81)99999-1234"}
	rec := s.do(http.MethodPut, "/api/voluntario/perfil", "vol-token", body)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var out models.Volunteer
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&out))
	s.Equal("(81)99999-1234", out.Phone)
	s.Equal("Ana Silva", out.FullName)
	s.NotContains(rec.Body.String(), "senha")
}

func (s *VolHandlerSuite) TestEditProfileValidation() {
	rec := s.do(http.MethodPut, "/api/voluntario/perfil", "vol-token", map[string]any{"email": "nope"})
	s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)

	var out map[string]string
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&out))
	s.Equal("validation", out["error"])
}

func (s *VolHandlerSuite) TestApplyToOrganization() {
	rec := s.do(http.MethodPost, "/api/voluntario/candidatar/1", "vol-token", nil)
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	member, err := s.orgs.IsMember(context.Background(), s.org.ID, s.vol.ID)
	s.Require().NoError(err)
	s.True(member)

	s.Run("unknown organization", func() {
		rec := s.do(http.MethodPost, "/api/voluntario/candidatar/404", "vol-token", nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
	s.Run("bad id", func() {
		rec := s.do(http.MethodPost, "/api/voluntario/candidatar/abc", "vol-token", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *VolHandlerSuite) TestApplyToPosition() {
	rec := s.do(http.MethodPost, "/api/voluntario/vaga/1/candidatar", "vol-token", nil)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		ID     int64  `json:"id"`
		VagaID int64  `json:"vagaId"`
		Status string `json:"status"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&out))
	s.Equal(int64(1), out.VagaID)
	s.Equal("PENDENTE", out.Status)

	s.Run("duplicate pending application", func() {
		rec := s.do(http.MethodPost, "/api/voluntario/vaga/1/candidatar", "vol-token", nil)
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *VolHandlerSuite) TestAuthGates() {
	s.Run("missing token", func() {
		rec := s.do(http.MethodPut, "/api/voluntario/perfil", "", map[string]any{})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
	s.Run("organization token is forbidden", func() {
		rec := s.do(http.MethodPost, "/api/voluntario/candidatar/1", "ong-token", nil)
		s.Equal(http.StatusForbidden, rec.Code)
	})
}
