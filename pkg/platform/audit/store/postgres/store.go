// Package postgres persists audit events in the audit_events table.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	audit "ongfinder/pkg/platform/audit"
	"ongfinder/pkg/domain"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (occurred_at, action, user_kind, user_id, subject_id, request_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		event.Timestamp,
		string(event.Action),
		string(event.ActorKind),
		event.ActorID,
		event.SubjectID,
		event.RequestID,
		event.Detail,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, action, user_kind, user_id, subject_id, request_id, detail
		FROM audit_events
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var e audit.Event
		var action, kind string
		if err := rows.Scan(&e.Timestamp, &action, &kind, &e.ActorID, &e.SubjectID, &e.RequestID, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = audit.Action(action)
		e.ActorKind = domain.UserKind(kind)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
