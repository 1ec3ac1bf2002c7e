// Package handler exposes the volunteer endpoints under /api/voluntario. The
// organization directory is public; everything else requires a volunteer
// token.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	appmodels "ongfinder/internal/application/models"
	orgmodels "ongfinder/internal/organization/models"
	"ongfinder/internal/platform/middleware"
	"ongfinder/internal/volunteer/models"
	"ongfinder/pkg/domain"
	dErrors "ongfinder/pkg/domain-errors"
	"ongfinder/pkg/platform/httputil"
	"ongfinder/pkg/requestcontext"
)

// Service defines the volunteer operations the handler needs.
type Service interface {
	EditProfile(ctx context.Context, volID domain.VolunteerID, update models.ProfileUpdate) (*models.Volunteer, error)
	ApplyToOrganization(ctx context.Context, orgID domain.OrganizationID, volID domain.VolunteerID) error
	ApplyToPosition(ctx context.Context, volID domain.VolunteerID, posID domain.PositionID) (*appmodels.Application, error)
}

// Directory is the public organization search the directory endpoint uses.
type Directory interface {
	Search(ctx context.Context, filter orgmodels.SearchFilter) ([]*orgmodels.Organization, error)
}

type Handler struct {
	volunteers Service
	directory  Directory
	logger     *slog.Logger
	validator  middleware.TokenValidator
}

// New creates a volunteer Handler.
func New(volunteers Service, directory Directory, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{volunteers: volunteers, directory: directory, logger: logger, validator: validator}
}

// Register mounts the /api/voluntario routes. The directory listing stays
// outside the auth gate.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/voluntario", func(r chi.Router) {
		r.Get("/ongs", h.handleSearchOrganizations)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.validator, h.logger))
			r.Use(middleware.RequireKind(domain.KindVolunteer))
			r.Put("/perfil", h.handleEditProfile)
			r.Post("/candidatar/{orgId}", h.handleApplyToOrganization)
			r.Post("/vaga/{vagaId}/candidatar", h.handleApplyToPosition)
		})
	})
}

func callerVolunteerID(ctx context.Context) domain.VolunteerID {
	return domain.VolunteerID(requestcontext.UserID(ctx))
}

func (h *Handler) handleSearchOrganizations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := orgmodels.SearchFilter{
		Name:         strings.TrimSpace(q.Get("nome")),
		City:         strings.TrimSpace(q.Get("cidade")),
		State:        strings.TrimSpace(q.Get("estado")),
		Neighborhood: strings.TrimSpace(q.Get("bairro")),
	}
	if raw := strings.TrimSpace(q.Get("categoria")); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "categoria is not valid"))
			return
		}
		filter.Category = category
	}

	orgs, err := h.directory.Search(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "directory search failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	if orgs == nil {
		orgs = []*orgmodels.Organization{}
	}
	httputil.WriteJSON(w, http.StatusOK, orgs)
}

func (h *Handler) handleEditProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	vol, err := h.volunteers.EditProfile(ctx, callerVolunteerID(ctx), update)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "profile update failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, vol)
}

func (h *Handler) handleApplyToOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgID, err := domain.ParseOrganizationID(chi.URLParam(r, "orgId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid ong id"))
		return
	}

	if err := h.volunteers.ApplyToOrganization(ctx, orgID, callerVolunteerID(ctx)); err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "roster join failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleApplyToPosition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posID, err := domain.ParsePositionID(chi.URLParam(r, "vagaId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid vaga id"))
		return
	}

	app, err := h.volunteers.ApplyToPosition(ctx, callerVolunteerID(ctx), posID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "application failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, app)
}
