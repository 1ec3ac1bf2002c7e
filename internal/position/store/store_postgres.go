package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"ongfinder/internal/position/models"
	"ongfinder/pkg/domain"
	"ongfinder/pkg/platform/sentinel"
)

// PostgresStore persists positions in PostgreSQL.
// This store is pure I/O; ownership checks belong in the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed position store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, pos *models.Position) error {
	query := `
		INSERT INTO positions (organization_id, title, description, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		pos.OrganizationID, pos.Title, pos.Description, pos.Active, pos.CreatedAt,
	).Scan(&pos.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("organization not found: %w", sentinel.ErrNotFound)
		}
		return fmt.Errorf("create position: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.PositionID) (*models.Position, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, title, description, active, created_at
		FROM positions WHERE id = $1
	`, id)
	return scanPosition(row)
}

func (s *PostgresStore) Update(ctx context.Context, pos *models.Position) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE positions SET title = $2, description = $3, active = $4 WHERE id = $1
	`, pos.ID, pos.Title, pos.Description, pos.Active)
	if err != nil {
		return fmt.Errorf("update position: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update position: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("position not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

// ListByOrganization returns the organization's positions ordered by ID.
func (s *PostgresStore) ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*models.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, title, description, active, created_at
		FROM positions WHERE organization_id = $1
		ORDER BY id
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var out []*models.Position
	for rows.Next() {
		pos, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pos)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountActiveByOrganization(ctx context.Context, orgID domain.OrganizationID) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM positions WHERE organization_id = $1 AND active`, orgID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active positions: %w", err)
	}
	return n, nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func scanPosition(row interface{ Scan(dest ...any) error }) (*models.Position, error) {
	var pos models.Position
	err := row.Scan(&pos.ID, &pos.OrganizationID, &pos.Title, &pos.Description, &pos.Active, &pos.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("position not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("scan position: %w", err)
	}
	return &pos, nil
}
