package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	appmodels "ongfinder/internal/application/models"
	appstore "ongfinder/internal/application/store"
	orgmodels "ongfinder/internal/organization/models"
	"ongfinder/internal/organization/service"
	orgstore "ongfinder/internal/organization/store"
	"ongfinder/internal/platform/middleware"
	posmodels "ongfinder/internal/position/models"
	posstore "ongfinder/internal/position/store"
	volmodels "ongfinder/internal/volunteer/models"
	volstore "ongfinder/internal/volunteer/store"
	"ongfinder/pkg/domain"
	dErrors "ongfinder/pkg/domain-errors"
)

// staticValidator maps bearer tokens to fixed claims.
type staticValidator map[string]middleware.Claims

func (v staticValidator) ValidateToken(token string) (*middleware.Claims, error) {
	claims, ok := v[token]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return &claims, nil
}

type OrgHandlerSuite struct {
	suite.Suite
	router       *chi.Mux
	orgs         *orgstore.InMemoryStore
	positions    *posstore.InMemoryStore
	volunteers   *volstore.InMemoryStore
	applications *appstore.InMemoryStore
	org          *orgmodels.Organization
	app          *appmodels.Application
}

func TestOrgHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrgHandlerSuite))
}

func (s *OrgHandlerSuite) SetupTest() {
	ctx := context.Background()
	s.volunteers = volstore.NewInMemory()
	s.orgs = orgstore.NewInMemory(s.volunteers)
	s.positions = posstore.NewInMemory(s.orgs)
	s.applications = appstore.NewInMemory(s.positions, s.volunteers)

	s.org = &orgmodels.Organization{Name: "Abrigo", Email: "a@a.org", CNPJ: "00000000000101", Active: true}
	s.Require().NoError(s.orgs.Create(ctx, s.org))

	pos := &posmodels.Position{OrganizationID: s.org.ID, Title: "Passeador", Active: true, CreatedAt: time.Now()}
	s.Require().NoError(s.positions.Create(ctx, pos))

	vol := &volmodels.Volunteer{FullName: "Ana Silva", Email: "ana@x.com", CPF: "11122233344", Active: true}
	s.Require().NoError(s.volunteers.Create(ctx, vol))

	s.app = &appmodels.Application{PositionID: pos.ID, VolunteerID: vol.ID, Status: domain.StatusPending, CreatedAt: time.Now()}
	s.Require().NoError(s.applications.Create(ctx, s.app))

	validator := staticValidator{
		"ong-token": {UserID: int64(s.org.ID), Kind: domain.KindOrganization},
		"vol-token": {UserID: int64(vol.ID), Kind: domain.KindVolunteer},
	}
	svc := service.New(s.orgs, s.positions, s.applications)
	s.router = chi.NewRouter()
	New(svc, validator, slog.Default()).Register(s.router)
}

func (s *OrgHandlerSuite) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *OrgHandlerSuite) TestDashboard() {
	rec := s.do(http.MethodGet, "/api/ong/dashboard", "ong-token")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.JSONEq(`{"numVagasAtivas":1,"numCandidaturas":1,"numVoluntarios":1}`, rec.Body.String())
}

func (s *OrgHandlerSuite) TestAuthGates() {
	s.Run("missing token", func() {
		rec := s.do(http.MethodGet, "/api/ong/dashboard", "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
	s.Run("volunteer token is forbidden", func() {
		rec := s.do(http.MethodGet, "/api/ong/dashboard", "vol-token")
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *OrgHandlerSuite) TestListApplications() {
	rec := s.do(http.MethodGet, "/api/ong/candidaturas", "ong-token")
	s.Require().Equal(http.StatusOK, rec.Code)

	var out []struct {
		ID            int64  `json:"id"`
		VolunteerName string `json:"voluntarioNome"`
		PositionTitle string `json:"vagaTitulo"`
		Status        string `json:"status"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&out))
	s.Require().Len(out, 1)
	s.Equal("Ana Silva", out[0].VolunteerName)
	s.Equal("Passeador", out[0].PositionTitle)
	s.Equal("PENDENTE", out[0].Status)
}

func (s *OrgHandlerSuite) TestUpdateApplicationStatus() {
	s.Run("accepts with a valid status", func() {
		rec := s.do(http.MethodPut, "/api/ong/candidaturas/1/status?status=ACEITA", "ong-token")
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		var sum struct {
			Status string `json:"status"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&sum))
		s.Equal("ACEITA", sum.Status)
	})

	s.Run("unknown status", func() {
		rec := s.do(http.MethodPut, "/api/ong/candidaturas/1/status?status=TALVEZ", "ong-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("bad id", func() {
		rec := s.do(http.MethodPut, "/api/ong/candidaturas/abc/status?status=ACEITA", "ong-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("missing application", func() {
		rec := s.do(http.MethodPut, "/api/ong/candidaturas/999/status?status=ACEITA", "ong-token")
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
