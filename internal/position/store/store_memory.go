// Package store provides position persistence backends.
//
// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested entity does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
package store

import (
	"context"
	"fmt"
	"sync"

	orgmodels "ongfinder/internal/organization/models"
	"ongfinder/internal/position/models"
	"ongfinder/pkg/domain"
	"ongfinder/pkg/platform/sentinel"
)

// OrganizationLookup resolves organization rows so Create can refuse a
// position for an organization that does not exist, the way the SQL backend's
// foreign key does. Satisfied by the organization store.
type OrganizationLookup interface {
	FindByID(ctx context.Context, id domain.OrganizationID) (*orgmodels.Organization, error)
}

// InMemoryStore keeps positions in memory for tests/dev.
type InMemoryStore struct {
	mu        sync.RWMutex
	nextID    int64
	positions map[domain.PositionID]*models.Position
	orgs      OrganizationLookup
}

// NewInMemory constructs an empty in-memory position store.
func NewInMemory(orgs OrganizationLookup) *InMemoryStore {
	return &InMemoryStore{
		nextID:    1,
		positions: make(map[domain.PositionID]*models.Position),
		orgs:      orgs,
	}
}

func (s *InMemoryStore) Create(ctx context.Context, pos *models.Position) error {
	if _, err := s.orgs.FindByID(ctx, pos.OrganizationID); err != nil {
		return fmt.Errorf("resolve organization: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pos.ID = domain.PositionID(s.nextID)
	s.nextID++
	cp := *pos
	s.positions[pos.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.PositionID) (*models.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.positions[id]
	if !ok {
		return nil, fmt.Errorf("position not found: %w", sentinel.ErrNotFound)
	}
	cp := *pos
	return &cp, nil
}

func (s *InMemoryStore) Update(_ context.Context, pos *models.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.positions[pos.ID]; !ok {
		return fmt.Errorf("position not found: %w", sentinel.ErrNotFound)
	}
	cp := *pos
	s.positions[pos.ID] = &cp
	return nil
}

// ListByOrganization returns the organization's positions ordered by ID,
// newest last.
func (s *InMemoryStore) ListByOrganization(_ context.Context, orgID domain.OrganizationID) ([]*models.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Position
	for id := domain.PositionID(1); int64(id) < s.nextID; id++ {
		pos, ok := s.positions[id]
		if !ok || pos.OrganizationID != orgID {
			continue
		}
		cp := *pos
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemoryStore) CountActiveByOrganization(_ context.Context, orgID domain.OrganizationID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, pos := range s.positions {
		if pos.OrganizationID == orgID && pos.Active {
			n++
		}
	}
	return n, nil
}
