// Package service implements login, registration and email probing for the two
// account kinds.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"ongfinder/internal/auth/password"
	orgmodels "ongfinder/internal/organization/models"
	"ongfinder/internal/platform/metrics"
	volmodels "ongfinder/internal/volunteer/models"
	"ongfinder/pkg/domain"
	dErrors "ongfinder/pkg/domain-errors"
	"ongfinder/pkg/platform/audit"
	"ongfinder/pkg/platform/sentinel"
	"ongfinder/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Account is the capability both entity variants expose to the login flow.
type Account interface {
	AccountID() int64
	DisplayName() string
	AccountEmail() string
	HashedPassword() string
	IsActive() bool
}

type OrganizationStore interface {
	Create(ctx context.Context, org *orgmodels.Organization) error
	FindByEmail(ctx context.Context, email string) (*orgmodels.Organization, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type VolunteerStore interface {
	Create(ctx context.Context, vol *volmodels.Volunteer) error
	FindByEmail(ctx context.Context, email string) (*volmodels.Volunteer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenIssuer signs access tokens for authenticated accounts.
type TokenIssuer interface {
	GenerateAccessToken(userID int64, kind domain.UserKind, expiresIn time.Duration) (string, error)
}

// LoginThrottle limits failed attempts per email. Satisfied by
// lockout.Throttle.
type LoginThrottle interface {
	Allowed(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates authentication and account registration.
type Service struct {
	orgs           OrganizationStore
	volunteers     VolunteerStore
	tokens         TokenIssuer
	throttle       LoginThrottle
	tokenTTL       time.Duration
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

func WithThrottle(throttle LoginThrottle) Option {
	return func(s *Service) { s.throttle = throttle }
}

// New constructs a Service.
func New(orgs OrganizationStore, volunteers VolunteerStore, tokens TokenIssuer, tokenTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		orgs:       orgs,
		volunteers: volunteers,
		tokens:     tokens,
		tokenTTL:   tokenTTL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginResult is what a successful authentication yields.
type LoginResult struct {
	Token  string          `json:"token"`
	Kind   domain.UserKind `json:"tipoUsuario"`
	UserID int64           `json:"usuarioId"`
	Name   string          `json:"nome"`
	Email  string          `json:"email"`
}

// Authenticate verifies credentials for the given account kind. Unknown
// emails and wrong passwords yield the same unauthorized error so the
// endpoint cannot confirm which emails are registered; a deactivated account is
// refused with Forbidden before the password is even checked.
func (s *Service) Authenticate(ctx context.Context, kind domain.UserKind, email, plaintext string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plaintext == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email and senha are required")
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allowed(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("login throttle: %w", err)
		}
		if !allowed {
			s.emitAudit(ctx, audit.Event{Action: audit.ActionLoginThrottled, Detail: email})
			s.metrics.IncrementLogin("throttled")
			return nil, dErrors.New(dErrors.CodeRateLimited, "too many failed attempts, try again later")
		}
	}

	account, err := s.findAccount(ctx, kind, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.loginFailed(ctx, email)
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if !account.IsActive() {
		s.emitAudit(ctx, audit.Event{
			Action:    audit.ActionLoginFailed,
			ActorKind: kind,
			ActorID:   account.AccountID(),
			Detail:    "inactive",
		})
		s.metrics.IncrementLogin("inactive")
		return nil, dErrors.New(dErrors.CodeForbidden, "account is inactive")
	}

	if err := password.Verify(plaintext, account.HashedPassword()); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return nil, s.loginFailed(ctx, email)
		}
		return nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.WarnContext(ctx, "could not reset login throttle", "error", err)
		}
	}

	token, err := s.tokens.GenerateAccessToken(account.AccountID(), kind, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionLoginSucceeded,
		ActorKind: kind,
		ActorID:   account.AccountID(),
	})
	s.metrics.IncrementLogin("success")

	return &LoginResult{
		Token:  token,
		Kind:   kind,
		UserID: account.AccountID(),
		Name:   account.DisplayName(),
		Email:  account.AccountEmail(),
	}, nil
}

func (s *Service) findAccount(ctx context.Context, kind domain.UserKind, email string) (Account, error) {
	switch kind {
	case domain.KindOrganization:
		return s.orgs.FindByEmail(ctx, email)
	case domain.KindVolunteer:
		return s.volunteers.FindByEmail(ctx, email)
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown tipoUsuario")
	}
}

func (s *Service) loginFailed(ctx context.Context, email string) error {
	if s.throttle != nil {
		if _, err := s.throttle.RecordFailure(ctx, email); err != nil {
			s.logger.WarnContext(ctx, "could not record login failure", "error", err)
		}
	}
	s.emitAudit(ctx, audit.Event{Action: audit.ActionLoginFailed, Detail: email})
	s.metrics.IncrementLogin("failure")
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}

// EmailExists reports whether an account of the given kind uses the email.
// An unrecognized kind answers false rather than erroring, so the check leaks
// nothing about the other table.
func (s *Service) EmailExists(ctx context.Context, kind domain.UserKind, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !govalidator.IsEmail(email) {
		return false, dErrors.New(dErrors.CodeValidation, "email is not valid")
	}
	var (
		taken bool
		err   error
	)
	switch kind {
	case domain.KindOrganization:
		taken, err = s.orgs.ExistsByEmail(ctx, email)
	case domain.KindVolunteer:
		taken, err = s.volunteers.ExistsByEmail(ctx, email)
	default:
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("email exists: %w", err)
	}
	return taken, nil
}

// RegisterOrganizationInput carries the organization sign-up form.
type RegisterOrganizationInput struct {
	Name     string         `json:"nome"`
	CNPJ     string         `json:"cnpj"`
	Category string         `json:"categoria"`
	Website  string         `json:"website"`
	PhotoURL string         `json:"urlFoto"`
	Phone    string         `json:"telefone"`
	Email    string         `json:"email"`
	Password string         `json:"senha"`
	Address  domain.Address `json:"endereco"`
}

var cnpjRe = regexp.MustCompile(`^\d{14}$`)

// RegisterOrganization validates the form and creates an active organization
// account.
func (s *Service) RegisterOrganization(ctx context.Context, input RegisterOrganizationInput) (*orgmodels.Organization, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	cnpj := digitsOf(input.CNPJ)

	if input.Name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "nome is required")
	}
	if !govalidator.IsEmail(input.Email) {
		return nil, dErrors.New(dErrors.CodeValidation, "email is not valid")
	}
	if !cnpjRe.MatchString(cnpj) {
		return nil, dErrors.New(dErrors.CodeValidation, "cnpj must have 14 digits")
	}
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "categoria is not valid")
	}
	if err := validateContact(input.Phone, input.Address.PostalCode); err != nil {
		return nil, err
	}
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	org := &orgmodels.Organization{
		Name:         input.Name,
		CNPJ:         cnpj,
		Category:     category,
		Website:      strings.TrimSpace(input.Website),
		PhotoURL:     strings.TrimSpace(input.PhotoURL),
		Phone:        strings.TrimSpace(input.Phone),
		Email:        input.Email,
		PasswordHash: hash,
		Active:       true,
		Address:      input.Address,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "email or cnpj already registered")
		}
		return nil, fmt.Errorf("create organization: %w", err)
	}

	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionAccountCreated,
		ActorKind: domain.KindOrganization,
		ActorID:   int64(org.ID),
	})
	s.metrics.IncrementAccountCreated(string(domain.KindOrganization))
	s.logger.InfoContext(ctx, "organization registered", "organization_id", org.ID)
	return org, nil
}

// RegisterVolunteerInput carries the volunteer sign-up form.
type RegisterVolunteerInput struct {
	FullName  string         `json:"nomeCompleto"`
	CPF       string         `json:"cpf"`
	BirthDate domain.Date    `json:"dataNascimento"`
	Gender    string         `json:"genero"`
	Phone     string         `json:"telefone"`
	Email     string         `json:"email"`
	Password  string         `json:"senha"`
	Address   domain.Address `json:"endereco"`
}

var cpfRe = regexp.MustCompile(`^\d{11}$`)

// RegisterVolunteer validates the form and creates an active volunteer
// account.
func (s *Service) RegisterVolunteer(ctx context.Context, input RegisterVolunteerInput) (*volmodels.Volunteer, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	cpf := digitsOf(input.CPF)

	if input.FullName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "nomeCompleto is required")
	}
	if !govalidator.IsEmail(input.Email) {
		return nil, dErrors.New(dErrors.CodeValidation, "email is not valid")
	}
	if !cpfRe.MatchString(cpf) {
		return nil, dErrors.New(dErrors.CodeValidation, "cpf must have 11 digits")
	}
	gender, err := domain.ParseGender(input.Gender)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "genero is not valid")
	}
	if err := ValidateBirthDate(input.BirthDate, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := validateContact(input.Phone, input.Address.PostalCode); err != nil {
		return nil, err
	}
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	vol := &volmodels.Volunteer{
		FullName:     input.FullName,
		CPF:          cpf,
		BirthDate:    input.BirthDate,
		Gender:       gender,
		Phone:        strings.TrimSpace(input.Phone),
		Email:        input.Email,
		PasswordHash: hash,
		Active:       true,
		Address:      input.Address,
	}
	if err := s.volunteers.Create(ctx, vol); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "email, cpf or telefone already registered")
		}
		return nil, fmt.Errorf("create volunteer: %w", err)
	}

	s.emitAudit(ctx, audit.Event{
		Action:    audit.ActionAccountCreated,
		ActorKind: domain.KindVolunteer,
		ActorID:   int64(vol.ID),
	})
	s.metrics.IncrementAccountCreated(string(domain.KindVolunteer))
	s.logger.InfoContext(ctx, "volunteer registered", "volunteer_id", vol.ID)
	return vol, nil
}

const (
	minAge = 16
	maxAge = 120
)

// ValidateBirthDate rejects future dates and ages outside 16..120 years.
// Shared with the volunteer profile editor.
func ValidateBirthDate(birthDate domain.Date, now time.Time) error {
	if birthDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "dataNascimento is required")
	}
	if birthDate.After(now) {
		return dErrors.New(dErrors.CodeValidation, "dataNascimento cannot be in the future")
	}
	age := birthDate.AgeAt(now)
	if age < minAge || age > maxAge {
		return dErrors.New(dErrors.CodeValidation, "age must be between 16 and 120 years")
	}
	return nil
}

func validateContact(phone, postalCode string) error {
	if phone != "" && !domain.ValidPhone(strings.TrimSpace(phone)) {
		return dErrors.New(dErrors.CodeValidation, "telefone is not valid")
	}
	if postalCode != "" && !domain.ValidPostalCode(postalCode) {
		return dErrors.New(dErrors.CodeValidation, "cep is not valid")
	}
	return nil
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
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
