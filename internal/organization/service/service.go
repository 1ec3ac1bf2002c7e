// Package service implements the organization-facing operations: directory
// search, the dashboard, application review and roster management.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	appmodels "ongfinder/internal/application/models"
	"ongfinder/internal/organization/models"
	"ongfinder/internal/platform/metrics"
	posmodels "ongfinder/internal/position/models"
	"ongfinder/pkg/domain"
	dErrors "ongfinder/pkg/domain-errors"
	"ongfinder/pkg/platform/audit"
	"ongfinder/pkg/platform/sentinel"
	"ongfinder/pkg/requestcontext"
)

var tracer = otel.Tracer("organization")

type OrganizationStore interface {
	FindByID(ctx context.Context, id domain.OrganizationID) (*models.Organization, error)
	Search(ctx context.Context, filter models.SearchFilter) ([]*models.Organization, error)
	AddMember(ctx context.Context, orgID domain.OrganizationID, volID domain.VolunteerID) error
}

type PositionStore interface {
	FindByID(ctx context.Context, id domain.PositionID) (*posmodels.Position, error)
	CountActiveByOrganization(ctx context.Context, orgID domain.OrganizationID) (int64, error)
}

type ApplicationStore interface {
	FindByID(ctx context.Context, id domain.ApplicationID) (*appmodels.Application, error)
	ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]appmodels.Summary, error)
	SummaryByID(ctx context.Context, id domain.ApplicationID) (appmodels.Summary, error)
	UpdateStatus(ctx context.Context, id domain.ApplicationID, status domain.ApplicationStatus) error
	CountByOrganization(ctx context.Context, orgID domain.OrganizationID) (int64, error)
	CountDistinctVolunteersByOrganization(ctx context.Context, orgID domain.OrganizationID) (int64, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the organization module.
type Service struct {
	orgs           OrganizationStore
	positions      PositionStore
	applications   ApplicationStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(orgs OrganizationStore, positions PositionStore, applications ApplicationStore, opts ...Option) *Service {
	s := &Service{
		orgs:         orgs,
		positions:    positions,
		applications: applications,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search lists active organizations matching the filter. Public, no caller
// identity required.
func (s *Service) Search(ctx context.Context, filter models.SearchFilter) ([]*models.Organization, error) {
	out, err := s.orgs.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search organizations: %w", err)
	}
	return out, nil
}

// Dashboard assembles the three aggregate counts for the caller's home
// screen. The counts are independent reads and run concurrently.
func (s *Service) Dashboard(ctx context.Context, orgID domain.OrganizationID) (*models.Dashboard, error) {
	ctx, span := tracer.Start(ctx, "Organization.Service.Dashboard",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	var dashboard models.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.positions.CountActiveByOrganization(gctx, orgID)
		if err != nil {
			return fmt.Errorf("count active positions: %w", err)
		}
		dashboard.ActivePositions = n
		return nil
	})
	g.Go(func() error {
		n, err := s.applications.CountByOrganization(gctx, orgID)
		if err != nil {
			return fmt.Errorf("count applications: %w", err)
		}
		dashboard.TotalApplications = n
		return nil
	})
	g.Go(func() error {
		n, err := s.applications.CountDistinctVolunteersByOrganization(gctx, orgID)
		if err != nil {
			return fmt.Errorf("count distinct applicants: %w", err)
		}
		dashboard.DistinctApplicants = n
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &dashboard, nil
}

// ListApplications returns the review projections for every application made
// to one of the organization's positions.
func (s *Service) ListApplications(ctx context.Context, orgID domain.OrganizationID) ([]appmodels.Summary, error) {
	out, err := s.applications.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

// UpdateApplicationStatus records a review decision. The caller must own the
// position the application points at; any status may be set at any time, the
// review flow is deliberately permissive.
func (s *Service) UpdateApplicationStatus(ctx context.Context, orgID domain.OrganizationID, appID domain.ApplicationID, status domain.ApplicationStatus) (appmodels.Summary, error) {
	app, err := s.applications.FindByID(ctx, appID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return appmodels.Summary{}, dErrors.New(dErrors.CodeNotFound, "candidatura not found")
		}
		return appmodels.Summary{}, fmt.Errorf("find application: %w", err)
	}

	pos, err := s.positions.FindByID(ctx, app.PositionID)
	if err != nil {
		return appmodels.Summary{}, fmt.Errorf("find position: %w", err)
	}
	if pos.OrganizationID != orgID {
		return appmodels.Summary{}, dErrors.New(dErrors.CodeForbidden, "candidatura belongs to another organization")
	}

	if err := s.applications.UpdateStatus(ctx, appID, status); err != nil {
		return appmodels.Summary{}, fmt.Errorf("update application status: %w", err)
	}

	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionApplicationStatusUpdated,
		ActorKind: domain.KindOrganization,
		ActorID:   int64(orgID),
		SubjectID: int64(appID),
		Detail:    string(status),
	})
	s.metrics.IncrementStatusUpdate(string(status))
	s.logger.InfoContext(ctx, "application status updated",
		"application_id", appID, "status", status, "organization_id", orgID)

	return s.applications.SummaryByID(ctx, appID)
}

// AddMember links a volunteer to the organization's roster. Repeat additions
// are idempotent.
func (s *Service) AddMember(ctx context.Context, orgID domain.OrganizationID, volID domain.VolunteerID) error {
	if err := s.orgs.AddMember(ctx, orgID, volID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "ong not found")
		}
		return fmt.Errorf("add roster member: %w", err)
	}
	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionRosterJoined,
		ActorKind: domain.KindVolunteer,
		ActorID:   int64(volID),
		SubjectID: int64(orgID),
	})
	return nil
}

// FindByID loads one organization.
func (s *Service) FindByID(ctx context.Context, id domain.OrganizationID) (*models.Organization, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "ong not found")
		}
		return nil, fmt.Errorf("find organization: %w", err)
	}
	return org, nil
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
