// Package store provides application persistence backends.
//
// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested entity does not exist
// - Return ErrAlreadyUsed when a pending application for the same pair already exists
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
package store

import (
	"context"
	"fmt"
	"sync"

	appmodels "ongfinder/internal/application/models"
	posmodels "ongfinder/internal/position/models"
	volmodels "ongfinder/internal/volunteer/models"
	"ongfinder/pkg/domain"
	"ongfinder/pkg/platform/sentinel"
)

// PositionLookup resolves position rows for the summary projection. Satisfied
// by the position store.
type PositionLookup interface {
	FindByID(ctx context.Context, id domain.PositionID) (*posmodels.Position, error)
}

// VolunteerLookup resolves volunteer rows for the summary projection.
// Satisfied by the volunteer store.
type VolunteerLookup interface {
	FindByID(ctx context.Context, id domain.VolunteerID) (*volmodels.Volunteer, error)
}

// InMemoryStore keeps applications in memory for tests/dev. The SQL backend
// joins positions and volunteers in the database; here the same projection is
// assembled through the lookup interfaces.
type InMemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	apps       map[domain.ApplicationID]*appmodels.Application
	positions  PositionLookup
	volunteers VolunteerLookup
}

// NewInMemory constructs an empty in-memory application store.
func NewInMemory(positions PositionLookup, volunteers VolunteerLookup) *InMemoryStore {
	return &InMemoryStore{
		nextID:     1,
		apps:       make(map[domain.ApplicationID]*appmodels.Application),
		positions:  positions,
		volunteers: volunteers,
	}
}

func (s *InMemoryStore) Create(_ context.Context, app *appmodels.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.apps {
		if existing.PositionID == app.PositionID &&
			existing.VolunteerID == app.VolunteerID &&
			existing.Status == domain.StatusPending {
			return fmt.Errorf("pending application exists: %w", sentinel.ErrAlreadyUsed)
		}
	}
	app.ID = domain.ApplicationID(s.nextID)
	s.nextID++
	cp := *app
	s.apps[app.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ApplicationID) (*appmodels.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[id]
	if !ok {
		return nil, fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
	}
	cp := *app
	return &cp, nil
}

// ListByOrganization returns summaries for every application to one of the
// organization's positions, ordered by application ID.
func (s *InMemoryStore) ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]appmodels.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []appmodels.Summary{}
	for id := domain.ApplicationID(1); int64(id) < s.nextID; id++ {
		app, ok := s.apps[id]
		if !ok {
			continue
		}
		pos, err := s.positions.FindByID(ctx, app.PositionID)
		if err != nil {
			return nil, fmt.Errorf("resolve position: %w", err)
		}
		if pos.OrganizationID != orgID {
			continue
		}
		summary, err := s.project(ctx, app, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

// SummaryByID returns the review projection for a single application.
func (s *InMemoryStore) SummaryByID(ctx context.Context, id domain.ApplicationID) (appmodels.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[id]
	if !ok {
		return appmodels.Summary{}, fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
	}
	pos, err := s.positions.FindByID(ctx, app.PositionID)
	if err != nil {
		return appmodels.Summary{}, fmt.Errorf("resolve position: %w", err)
	}
	return s.project(ctx, app, pos)
}

func (s *InMemoryStore) project(ctx context.Context, app *appmodels.Application, pos *posmodels.Position) (appmodels.Summary, error) {
	vol, err := s.volunteers.FindByID(ctx, app.VolunteerID)
	if err != nil {
		return appmodels.Summary{}, fmt.Errorf("resolve volunteer: %w", err)
	}
	return appmodels.Summary{
		ID:            app.ID,
		VolunteerName: vol.FullName,
		PositionTitle: pos.Title,
		Status:        app.Status,
	}, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, id domain.ApplicationID, status domain.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
	}
	app.Status = status
	return nil
}

func (s *InMemoryStore) CountByOrganization(ctx context.Context, orgID domain.OrganizationID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, app := range s.apps {
		pos, err := s.positions.FindByID(ctx, app.PositionID)
		if err != nil {
			return 0, fmt.Errorf("resolve position: %w", err)
		}
		if pos.OrganizationID == orgID {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) CountDistinctVolunteersByOrganization(ctx context.Context, orgID domain.OrganizationID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[domain.VolunteerID]struct{})
	for _, app := range s.apps {
		pos, err := s.positions.FindByID(ctx, app.PositionID)
		if err != nil {
			return 0, fmt.Errorf("resolve position: %w", err)
		}
		if pos.OrganizationID == orgID {
			seen[app.VolunteerID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}
