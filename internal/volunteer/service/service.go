// Package service implements volunteer profile edits and the two ways a
// volunteer engages an organization: joining its roster directly or applying
// to one of its open positions.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/asaskevich/govalidator"

	appmodels "ongfinder/internal/application/models"
	authservice "ongfinder/internal/auth/service"
	"ongfinder/internal/platform/metrics"
	posmodels "ongfinder/internal/position/models"
	"ongfinder/internal/volunteer/models"
	"ongfinder/pkg/domain"
	dErrors "ongfinder/pkg/domain-errors"
	"ongfinder/pkg/platform/audit"
	"ongfinder/pkg/platform/sentinel"
	"ongfinder/pkg/requestcontext"
)

// Store is the volunteer persistence surface this service depends on.
type Store interface {
	FindByID(ctx context.Context, id domain.VolunteerID) (*models.Volunteer, error)
	Update(ctx context.Context, vol *models.Volunteer) error
	EmailTaken(ctx context.Context, email string, exclude domain.VolunteerID) (bool, error)
	PhoneTaken(ctx context.Context, phone string, exclude domain.VolunteerID) (bool, error)
}

// OrganizationStore covers the roster join.
type OrganizationStore interface {
	AddMember(ctx context.Context, orgID domain.OrganizationID, volID domain.VolunteerID) error
}

// PositionStore resolves the position a volunteer applies to.
type PositionStore interface {
	FindByID(ctx context.Context, id domain.PositionID) (*posmodels.Position, error)
}

// ApplicationStore records submitted applications.
type ApplicationStore interface {
	Create(ctx context.Context, app *appmodels.Application) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	volunteers     Store
	organizations  OrganizationStore
	positions      PositionStore
	applications   ApplicationStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(volunteers Store, organizations OrganizationStore, positions PositionStore, applications ApplicationStore, opts ...Option) *Service {
	s := &Service{
		volunteers:    volunteers,
		organizations: organizations,
		positions:     positions,
		applications:  applications,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindByID returns the volunteer profile.
func (s *Service) FindByID(ctx context.Context, id domain.VolunteerID) (*models.Volunteer, error) {
	vol, err := s.volunteers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "voluntario not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find volunteer")
	}
	return vol, nil
}

// EditProfile merges the provided fields into the stored profile. Each
// present field is validated before anything is persisted; nil fields are
// left untouched. Email and phone changes are checked for collisions with
// other accounts, never against the caller's own current values.
func (s *Service) EditProfile(ctx context.Context, volID domain.VolunteerID, update models.ProfileUpdate) (*models.Volunteer, error) {
	vol, err := s.volunteers.FindByID(ctx, volID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "voluntario not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find volunteer")
	}

	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		if name == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "nomeCompleto cannot be blank")
		}
		vol.FullName = name
	}
	if update.BirthDate != nil {
		if err := authservice.ValidateBirthDate(*update.BirthDate, requestcontext.Now(ctx)); err != nil {
			return nil, err
		}
		vol.BirthDate = *update.BirthDate
	}
	if update.Gender != nil {
		gender, err := domain.ParseGender(*update.Gender)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "genero is not valid")
		}
		vol.Gender = gender
	}
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if !govalidator.IsEmail(email) {
			return nil, dErrors.New(dErrors.CodeValidation, "email is not valid")
		}
		taken, err := s.volunteers.EmailTaken(ctx, email, volID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "check email")
		}
		if taken {
			return nil, dErrors.New(dErrors.CodeConflict, "email already in use")
		}
		vol.Email = email
	}
	if update.Phone != nil {
		phone := strings.TrimSpace(*update.Phone)
		if phone != "" {
			if !domain.ValidPhone(phone) {
				return nil, dErrors.New(dErrors.CodeValidation, "telefone is not valid")
			}
			taken, err := s.volunteers.PhoneTaken(ctx, phone, volID)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "check phone")
			}
			if taken {
				return nil, dErrors.New(dErrors.CodeConflict, "telefone already in use")
			}
		}
		vol.Phone = phone
	}
	if update.Address != nil {
		if update.Address.PostalCode != "" && !domain.ValidPostalCode(update.Address.PostalCode) {
			return nil, dErrors.New(dErrors.CodeValidation, "cep is not valid")
		}
		vol.Address = *update.Address
	}

	if err := s.volunteers.Update(ctx, vol); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "voluntario not found")
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			return nil, dErrors.New(dErrors.CodeConflict, "email or telefone already in use")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update volunteer")
		}
	}

	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionProfileUpdated,
		ActorKind: domain.KindVolunteer,
		ActorID:   int64(volID),
	})
	return vol, nil
}

// ApplyToOrganization adds the volunteer to the organization's roster.
// Joining twice is a no-op.
func (s *Service) ApplyToOrganization(ctx context.Context, orgID domain.OrganizationID, volID domain.VolunteerID) error {
	if err := s.organizations.AddMember(ctx, orgID, volID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "ong not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "join roster")
	}
	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionRosterJoined,
		ActorKind: domain.KindVolunteer,
		ActorID:   int64(volID),
		SubjectID: int64(orgID),
	})
	return nil
}

// ApplyToPosition submits a pending application for an active position and
// joins the position's organization roster. A second pending application for
// the same position is a conflict; a new one is allowed once the first has
// been decided.
func (s *Service) ApplyToPosition(ctx context.Context, volID domain.VolunteerID, posID domain.PositionID) (*appmodels.Application, error) {
	pos, err := s.positions.FindByID(ctx, posID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "vaga not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find position")
	}
	if !pos.Active {
		return nil, dErrors.New(dErrors.CodeValidation, "vaga is not active")
	}

	app := &appmodels.Application{
		PositionID:  posID,
		VolunteerID: volID,
		Status:      domain.StatusPending,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.applications.Create(ctx, app); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			return nil, dErrors.New(dErrors.CodeConflict, "candidatura already pending for this vaga")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "vaga not found")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create application")
		}
	}

	if err := s.organizations.AddMember(ctx, pos.OrganizationID, volID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "roster join after application failed",
			slog.Int64("volunteer_id", int64(volID)),
			slog.Int64("org_id", int64(pos.OrganizationID)),
			slog.String("error", err.Error()))
	}

	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionApplicationSubmitted,
		ActorKind: domain.KindVolunteer,
		ActorID:   int64(volID),
		SubjectID: int64(app.ID),
	})
	s.metrics.IncrementApplicationSubmitted()
	return app, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", slog.String("error", err.Error()))
	}
}
