// Package service implements position management for organizations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ongfinder/internal/position/models"
	"ongfinder/pkg/domain"
	dErrors "ongfinder/pkg/domain-errors"
	"ongfinder/pkg/platform/audit"
	"ongfinder/pkg/platform/sentinel"
	"ongfinder/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, pos *models.Position) error
	FindByID(ctx context.Context, id domain.PositionID) (*models.Position, error)
	Update(ctx context.Context, pos *models.Position) error
	ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*models.Position, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates position management.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create publishes a new position for the caller's organization. Positions
// start active.
func (s *Service) Create(ctx context.Context, orgID domain.OrganizationID, title, description string) (*models.Position, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "titulo is required")
	}
	if description == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "descricao is required")
	}

	pos := &models.Position{
		OrganizationID: orgID,
		Title:          title,
		Description:    description,
		Active:         true,
		CreatedAt:      requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, pos); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "ong not found")
		}
		return nil, fmt.Errorf("create position: %w", err)
	}

	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionPositionCreated,
		ActorKind: domain.KindOrganization,
		ActorID:   int64(orgID),
		SubjectID: int64(pos.ID),
	})
	s.logger.InfoContext(ctx, "position created", "position_id", pos.ID, "organization_id", orgID)
	return pos, nil
}

// Update applies a partial edit to a position the caller owns. Absent fields
// keep their stored values.
func (s *Service) Update(ctx context.Context, orgID domain.OrganizationID, posID domain.PositionID, update models.Update) (*models.Position, error) {
	pos, err := s.store.FindByID(ctx, posID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "vaga not found")
		}
		return nil, fmt.Errorf("find position: %w", err)
	}
	if pos.OrganizationID != orgID {
		return nil, dErrors.New(dErrors.CodeForbidden, "vaga belongs to another organization")
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "titulo cannot be empty")
		}
		pos.Title = title
	}
	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		if description == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "descricao cannot be empty")
		}
		pos.Description = description
	}
	if update.Active != nil {
		pos.Active = *update.Active
	}

	if err := s.store.Update(ctx, pos); err != nil {
		return nil, fmt.Errorf("update position: %w", err)
	}

	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionPositionUpdated,
		ActorKind: domain.KindOrganization,
		ActorID:   int64(orgID),
		SubjectID: int64(pos.ID),
	})
	return pos, nil
}

// ListByOrganization returns every position of the caller's organization,
// active or not.
func (s *Service) ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*models.Position, error) {
	out, err := s.store.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	return out, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "could not emit audit event", "action", event.Action, "error", err)
	}
}
