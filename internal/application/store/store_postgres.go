package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"ongfinder/internal/application/models"
	"ongfinder/pkg/domain"
	"ongfinder/pkg/platform/sentinel"
)

// PostgresStore persists applications in PostgreSQL. The review projection is
// assembled with JOINs; a partial unique index enforces at most one pending
// application per volunteer and position.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed application store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (position_id, volunteer_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		app.PositionID, app.VolunteerID, app.Status, app.CreatedAt,
	).Scan(&app.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return fmt.Errorf("pending application exists: %w", sentinel.ErrAlreadyUsed)
			case "23503":
				return fmt.Errorf("position or volunteer not found: %w", sentinel.ErrNotFound)
			}
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ApplicationID) (*models.Application, error) {
	var app models.Application
	err := s.db.QueryRowContext(ctx, `
		SELECT id, position_id, volunteer_id, status, created_at
		FROM applications WHERE id = $1
	`, id).Scan(&app.ID, &app.PositionID, &app.VolunteerID, &app.Status, &app.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &app, nil
}

const summaryQuery = `
	SELECT a.id, v.full_name, p.title, a.status
	FROM applications a
	JOIN positions p ON p.id = a.position_id
	JOIN volunteers v ON v.id = a.volunteer_id
`

// ListByOrganization returns summaries for every application to one of the
// organization's positions, ordered by application ID.
func (s *PostgresStore) ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]models.Summary, error) {
	rows, err := s.db.QueryContext(ctx, summaryQuery+`
		WHERE p.organization_id = $1
		ORDER BY a.id
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	out := []models.Summary{}
	for rows.Next() {
		var sum models.Summary
		if err := rows.Scan(&sum.ID, &sum.VolunteerName, &sum.PositionTitle, &sum.Status); err != nil {
			return nil, fmt.Errorf("scan application summary: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

// SummaryByID returns the review projection for a single application.
func (s *PostgresStore) SummaryByID(ctx context.Context, id domain.ApplicationID) (models.Summary, error) {
	var sum models.Summary
	err := s.db.QueryRowContext(ctx, summaryQuery+` WHERE a.id = $1`, id).
		Scan(&sum.ID, &sum.VolunteerName, &sum.PositionTitle, &sum.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Summary{}, fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
		}
		return models.Summary{}, fmt.Errorf("application summary: %w", err)
	}
	return sum, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id domain.ApplicationID, status domain.ApplicationStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE applications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) CountByOrganization(ctx context.Context, orgID domain.OrganizationID) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT count(*)
		FROM applications a
		JOIN positions p ON p.id = a.position_id
		WHERE p.organization_id = $1
	`, orgID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountDistinctVolunteersByOrganization(ctx context.Context, orgID domain.OrganizationID) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT count(DISTINCT a.volunteer_id)
		FROM applications a
		JOIN positions p ON p.id = a.position_id
		WHERE p.organization_id = $1
	`, orgID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count distinct applicants: %w", err)
	}
	return n, nil
}
