// Package handler exposes the organization-only endpoints under /api/ong.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	appmodels "ongfinder/internal/application/models"
	"ongfinder/internal/organization/models"
	"ongfinder/internal/platform/middleware"
	"ongfinder/pkg/domain"
	dErrors "ongfinder/pkg/domain-errors"
	"ongfinder/pkg/platform/httputil"
	"ongfinder/pkg/requestcontext"
)

// Service defines the organization operations the handler needs.
type Service interface {
	Dashboard(ctx context.Context, orgID domain.OrganizationID) (*models.Dashboard, error)
	ListApplications(ctx context.Context, orgID domain.OrganizationID) ([]appmodels.Summary, error)
	UpdateApplicationStatus(ctx context.Context, orgID domain.OrganizationID, appID domain.ApplicationID, status domain.ApplicationStatus) (appmodels.Summary, error)
}

// Handler handles the authenticated organization endpoints. The caller's
// organization id always comes from the verified token, never from the URL.
type Handler struct {
	orgs      Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

// New creates an organization Handler.
func New(orgs Service, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{orgs: orgs, logger: logger, validator: validator}
}

// Register mounts the /api/ong routes behind the auth and kind gates.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/ong", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Use(middleware.RequireKind(domain.KindOrganization))
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/candidaturas", h.handleListApplications)
		r.Put("/candidaturas/{id}/status", h.handleUpdateApplicationStatus)
	})
}

func callerOrgID(ctx context.Context) domain.OrganizationID {
	return domain.OrganizationID(requestcontext.UserID(ctx))
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dashboard, err := h.orgs.Dashboard(ctx, callerOrgID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "dashboard failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) handleListApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.orgs.ListApplications(ctx, callerOrgID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "list applications failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	appID, err := domain.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid candidatura id"))
		return
	}
	status, err := domain.ParseApplicationStatus(r.URL.Query().Get("status"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "status must be PENDENTE, ACEITA or REJEITADA"))
		return
	}

	summary, err := h.orgs.UpdateApplicationStatus(ctx, callerOrgID(ctx), appID, status)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "status update failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}
