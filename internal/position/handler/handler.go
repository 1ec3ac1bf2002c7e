// Package handler exposes position management under /api/ong.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ongfinder/internal/platform/middleware"
	"ongfinder/internal/position/models"
	"ongfinder/pkg/domain"
	dErrors "ongfinder/pkg/domain-errors"
	"ongfinder/pkg/platform/httputil"
	"ongfinder/pkg/requestcontext"
)

// Service defines the position operations the handler needs.
type Service interface {
	Create(ctx context.Context, orgID domain.OrganizationID, title, description string) (*models.Position, error)
	Update(ctx context.Context, orgID domain.OrganizationID, posID domain.PositionID, update models.Update) (*models.Position, error)
	ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*models.Position, error)
}

// Handler handles the organization's position endpoints. Form values arrive as
// query parameters for compatibility with the web client.
type Handler struct {
	positions Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

// New creates a position Handler.
func New(positions Service, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{positions: positions, logger: logger, validator: validator}
}

// Register mounts the position routes behind the auth and kind gates.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/ong", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Use(middleware.RequireKind(domain.KindOrganization))
		r.Post("/vaga", h.handleCreate)
		r.Put("/vaga/{id}", h.handleUpdate)
		r.Get("/vagas", h.handleList)
	})
}

func callerOrgID(ctx context.Context) domain.OrganizationID {
	return domain.OrganizationID(requestcontext.UserID(ctx))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	pos, err := h.positions.Create(ctx, callerOrgID(ctx), q.Get("titulo"), q.Get("descricao"))
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "position create failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, pos)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posID, err := domain.ParsePositionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid vaga id"))
		return
	}

	update, err := updateFromQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	pos, err := h.positions.Update(ctx, callerOrgID(ctx), posID, update)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "position update failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pos)
}

// updateFromQuery builds a partial update from the provided parameters only;
// absent parameters leave the stored values untouched.
func updateFromQuery(r *http.Request) (models.Update, error) {
	var update models.Update
	q := r.URL.Query()
	if q.Has("titulo") {
		title := q.Get("titulo")
		update.Title = &title
	}
	if q.Has("descricao") {
		description := q.Get("descricao")
		update.Description = &description
	}
	if q.Has("ativa") {
		active, err := strconv.ParseBool(q.Get("ativa"))
		if err != nil {
			return models.Update{}, dErrors.New(dErrors.CodeBadRequest, "ativa must be true or false")
		}
		update.Active = &active
	}
	return update, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.positions.ListByOrganization(ctx, callerOrgID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "position list failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	if out == nil {
		out = []*models.Position{}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
