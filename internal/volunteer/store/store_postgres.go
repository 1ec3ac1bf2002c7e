package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"ongfinder/internal/volunteer/models"
	"ongfinder/pkg/domain"
	"ongfinder/pkg/platform/sentinel"
)

// PostgresStore persists volunteers in PostgreSQL.
// This store is pure I/O; profile validation rules belong in the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed volunteer store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const volunteerColumns = `id, full_name, cpf, birth_date, gender, phone, email, password_hash, active,
	street, neighborhood, city, state, postal_code`

func (s *PostgresStore) Create(ctx context.Context, vol *models.Volunteer) error {
	query := `
		INSERT INTO volunteers (full_name, cpf, birth_date, gender, phone, email, password_hash, active,
			street, neighborhood, city, state, postal_code)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), lower($6), $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		vol.FullName, vol.CPF, vol.BirthDate.Time, vol.Gender, vol.Phone, vol.Email,
		vol.PasswordHash, vol.Active,
		vol.Address.Street, vol.Address.Neighborhood, vol.Address.City, vol.Address.State, vol.Address.PostalCode,
	).Scan(&vol.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("volunteer already registered: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create volunteer: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.VolunteerID) (*models.Volunteer, error) {
	query := fmt.Sprintf(`SELECT %s FROM volunteers WHERE id = $1`, volunteerColumns)
	return scanVolunteer(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Volunteer, error) {
	query := fmt.Sprintf(`SELECT %s FROM volunteers WHERE email = lower($1)`, volunteerColumns)
	return scanVolunteer(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM volunteers WHERE email = lower($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("volunteer email exists: %w", err)
	}
	return exists, nil
}

// EmailTaken reports whether another account already uses the email.
func (s *PostgresStore) EmailTaken(ctx context.Context, email string, exclude domain.VolunteerID) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM volunteers WHERE email = lower($1) AND id <> $2)`, email, exclude,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("volunteer email taken: %w", err)
	}
	return taken, nil
}

// PhoneTaken reports whether another account already uses the phone number.
func (s *PostgresStore) PhoneTaken(ctx context.Context, phone string, exclude domain.VolunteerID) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM volunteers WHERE phone = $1 AND id <> $2)`, phone, exclude,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("volunteer phone taken: %w", err)
	}
	return taken, nil
}

func (s *PostgresStore) Update(ctx context.Context, vol *models.Volunteer) error {
	query := `
		UPDATE volunteers
		SET full_name = $2, birth_date = $3, gender = $4, phone = NULLIF($5, ''), email = lower($6),
			street = $7, neighborhood = $8, city = $9, state = $10, postal_code = $11
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		vol.ID, vol.FullName, vol.BirthDate.Time, vol.Gender, vol.Phone, vol.Email,
		vol.Address.Street, vol.Address.Neighborhood, vol.Address.City, vol.Address.State, vol.Address.PostalCode,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("volunteer identity taken: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("update volunteer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update volunteer: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("volunteer not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func scanVolunteer(row interface{ Scan(dest ...any) error }) (*models.Volunteer, error) {
	var (
		vol       models.Volunteer
		phone     sql.NullString
		birthDate time.Time
	)
	err := row.Scan(
		&vol.ID, &vol.FullName, &vol.CPF, &birthDate, &vol.Gender, &phone,
		&vol.Email, &vol.PasswordHash, &vol.Active,
		&vol.Address.Street, &vol.Address.Neighborhood, &vol.Address.City,
		&vol.Address.State, &vol.Address.PostalCode,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("volunteer not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("scan volunteer: %w", err)
	}
	vol.Phone = phone.String
	vol.BirthDate = domain.DateOf(birthDate)
	return &vol, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
