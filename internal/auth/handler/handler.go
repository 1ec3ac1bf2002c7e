// Package handler exposes the public authentication endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ongfinder/internal/auth/service"
	orgmodels "ongfinder/internal/organization/models"
	volmodels "ongfinder/internal/volunteer/models"
	"ongfinder/pkg/domain"
	dErrors "ongfinder/pkg/domain-errors"
	"ongfinder/pkg/platform/httputil"
	"ongfinder/pkg/requestcontext"
)

// Service defines the authentication operations the handler needs.
type Service interface {
	Authenticate(ctx context.Context, kind domain.UserKind, email, password string) (*service.LoginResult, error)
	EmailExists(ctx context.Context, kind domain.UserKind, email string) (bool, error)
	RegisterOrganization(ctx context.Context, input service.RegisterOrganizationInput) (*orgmodels.Organization, error)
	RegisterVolunteer(ctx context.Context, input service.RegisterVolunteerInput) (*volmodels.Volunteer, error)
}

// Handler handles /api/auth endpoints. All routes are public.
type Handler struct {
	auth   Service
	logger *slog.Logger
}

// New creates an auth Handler.
func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

// Register mounts the auth routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Get("/check-email", h.handleCheckEmail)
		r.Post("/register/ong", h.handleRegisterOrganization)
		r.Post("/register/voluntario", h.handleRegisterVolunteer)
	})
}

type loginRequest struct {
	Kind     string `json:"tipoUsuario"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	kind, err := domain.ParseUserKind(req.Kind)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "tipoUsuario must be ong or voluntario"))
		return
	}

	result, err := h.auth.Authenticate(ctx, kind, req.Email, req.Password)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "login failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := r.URL.Query().Get("email")
	// An unparseable tipoUsuario is passed through as the zero kind, which the
	// service answers with false rather than an error.
	kind, _ := domain.ParseUserKind(r.URL.Query().Get("tipoUsuario"))

	exists, err := h.auth.EmailExists(ctx, kind, email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"existe": exists})
}

func (h *Handler) handleRegisterOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input service.RegisterOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	org, err := h.auth.RegisterOrganization(ctx, input)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "organization registration failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, org)
}

func (h *Handler) handleRegisterVolunteer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input service.RegisterVolunteerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	vol, err := h.auth.RegisterVolunteer(ctx, input)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "volunteer registration failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, vol)
}
