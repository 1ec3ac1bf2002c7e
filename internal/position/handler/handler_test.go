package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	orgmodels "ongfinder/internal/organization/models"
	orgstore "ongfinder/internal/organization/store"
	"ongfinder/internal/platform/middleware"
	"ongfinder/internal/position/service"
	"ongfinder/internal/position/store"
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

type PositionHandlerSuite struct {
	suite.Suite
	router *chi.Mux
}

func TestPositionHandlerSuite(t *testing.T) {
	suite.Run(t, new(PositionHandlerSuite))
}

func (s *PositionHandlerSuite) SetupTest() {
	validator := staticValidator{
		"ong-1": {UserID: 1, Kind: domain.KindOrganization},
		"ong-2": {UserID: 2, Kind: domain.KindOrganization},
		"vol-1": {UserID: 1, Kind: domain.KindVolunteer},
	}
	orgs := orgstore.NewInMemory(volstore.NewInMemory())
	ctx := context.Background()
	for _, org := range []*orgmodels.Organization{
		{Name: "Abrigo Esperanca", Email: "contato@esperanca.org", CNPJ: "11222333000144", Active: true},
		{Name: "Verde Vivo", Email: "contato@verdevivo.org", CNPJ: "55666777000188", Active: true},
	} {
		s.Require().NoError(orgs.Create(ctx, org))
	}
	svc := service.New(store.NewInMemory(orgs))
	s.router = chi.NewRouter()
	New(svc, validator, slog.Default()).Register(s.router)
}

func (s *PositionHandlerSuite) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *PositionHandlerSuite) TestCreateListUpdateFlow() {
	rec := s.do(http.MethodPost, "/api/ong/vaga?titulo=Passeador&descricao=Passeios+diarios", "ong-1")
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID     int64 `json:"id"`
		Active bool  `json:"ativa"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&created))
	s.True(created.Active)

	s.Run("owner list contains the position", func() {
		rec := s.do(http.MethodGet, "/api/ong/vagas", "ong-1")
		s.Require().Equal(http.StatusOK, rec.Code)
		var out []struct {
			Title string `json:"titulo"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&out))
		s.Require().Len(out, 1)
		s.Equal("Passeador", out[0].Title)
	})

	s.Run("another organization's list stays empty", func() {
		rec := s.do(http.MethodGet, "/api/ong/vagas", "ong-2")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.JSONEq("[]", rec.Body.String())
	})

	s.Run("deactivation via query parameter", func() {
		rec := s.do(http.MethodPut, "/api/ong/vaga/1?ativa=false", "ong-1")
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		var updated struct {
			Active bool   `json:"ativa"`
			Title  string `json:"titulo"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&updated))
		s.False(updated.Active)
		s.Equal("Passeador", updated.Title, "absent parameters keep stored values")
	})

	s.Run("non-owner update is forbidden", func() {
		rec := s.do(http.MethodPut, "/api/ong/vaga/1?ativa=true", "ong-2")
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("volunteer token is forbidden", func() {
		rec := s.do(http.MethodPost, "/api/ong/vaga?titulo=X&descricao=Y", "vol-1")
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("bad ativa value", func() {
		rec := s.do(http.MethodPut, "/api/ong/vaga/1?ativa=talvez", "ong-1")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("missing titulo on create", func() {
		rec := s.do(http.MethodPost, "/api/ong/vaga?descricao=Y", "ong-1")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})
}
