package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"ongfinder/internal/organization/models"
	"ongfinder/pkg/domain"
	"ongfinder/pkg/platform/sentinel"
)

// PostgresStore persists organizations in PostgreSQL.
// This store is pure I/O; ownership and validation rules belong in the services.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed organization store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const orgColumns = `id, name, cnpj, category, website, photo_url, phone, email, password_hash, active,
	street, neighborhood, city, state, postal_code`

func (s *PostgresStore) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (name, cnpj, category, website, photo_url, phone, email, password_hash, active,
			street, neighborhood, city, state, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, lower($7), $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		org.Name, org.CNPJ, org.Category, org.Website, org.PhotoURL, org.Phone, org.Email,
		org.PasswordHash, org.Active,
		org.Address.Street, org.Address.Neighborhood, org.Address.City, org.Address.State, org.Address.PostalCode,
	).Scan(&org.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("organization already registered: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.OrganizationID) (*models.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM organizations WHERE id = $1`, orgColumns)
	return scanOrganization(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM organizations WHERE email = lower($1)`, orgColumns)
	return scanOrganization(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM organizations WHERE email = lower($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("organization email exists: %w", err)
	}
	return exists, nil
}

// Search returns active organizations matching the filter, ordered by ID.
// Empty filter fields impose no constraint.
func (s *PostgresStore) Search(ctx context.Context, filter models.SearchFilter) ([]*models.Organization, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM organizations
		WHERE active
		  AND ($1 = '' OR lower(name) = lower($1))
		  AND ($2 = '' OR category = $2)
		  AND ($3 = '' OR lower(city) = lower($3))
		  AND ($4 = '' OR lower(state) = lower($4))
		  AND ($5 = '' OR lower(neighborhood) = lower($5))
		ORDER BY id
	`, orgColumns)
	rows, err := s.db.QueryContext(ctx, query,
		filter.Name, string(filter.Category), filter.City, filter.State, filter.Neighborhood)
	if err != nil {
		return nil, fmt.Errorf("search organizations: %w", err)
	}
	defer rows.Close()

	var out []*models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search organizations: %w", err)
	}
	return out, nil
}

// AddMember links a volunteer to the organization's roster. Repeat inserts are
// absorbed by ON CONFLICT so the operation stays idempotent.
func (s *PostgresStore) AddMember(ctx context.Context, orgID domain.OrganizationID, volID domain.VolunteerID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organization_volunteers (organization_id, volunteer_id)
		VALUES ($1, $2)
		ON CONFLICT (organization_id, volunteer_id) DO NOTHING
	`, orgID, volID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("organization or volunteer not found: %w", sentinel.ErrNotFound)
		}
		return fmt.Errorf("add roster member: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsMember(ctx context.Context, orgID domain.OrganizationID, volID domain.VolunteerID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM organization_volunteers
			WHERE organization_id = $1 AND volunteer_id = $2
		)
	`, orgID, volID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("roster membership: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (*models.Organization, error) {
	var org models.Organization
	err := row.Scan(
		&org.ID, &org.Name, &org.CNPJ, &org.Category, &org.Website, &org.PhotoURL,
		&org.Phone, &org.Email, &org.PasswordHash, &org.Active,
		&org.Address.Street, &org.Address.Neighborhood, &org.Address.City,
		&org.Address.State, &org.Address.PostalCode,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("organization not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("scan organization: %w", err)
	}
	return &org, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
