// Package store provides organization persistence backends.
//
// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested entity does not exist
// - Return ErrAlreadyUsed when a uniqueness constraint (email, CNPJ) is violated
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ongfinder/internal/organization/models"
	volmodels "ongfinder/internal/volunteer/models"
	"ongfinder/pkg/domain"
	"ongfinder/pkg/platform/sentinel"
)

// VolunteerLookup resolves volunteer rows so AddMember can refuse a roster
// entry for a volunteer that does not exist, the way the SQL backend's
// foreign key does. Satisfied by the volunteer store.
type VolunteerLookup interface {
	FindByID(ctx context.Context, id domain.VolunteerID) (*volmodels.Volunteer, error)
}

// InMemoryStore keeps organizations in memory for tests/dev.
type InMemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	orgs       map[domain.OrganizationID]*models.Organization
	members    map[domain.OrganizationID]map[domain.VolunteerID]struct{}
	volunteers VolunteerLookup
}

// NewInMemory constructs an empty in-memory organization store.
func NewInMemory(volunteers VolunteerLookup) *InMemoryStore {
	return &InMemoryStore{
		nextID:     1,
		orgs:       make(map[domain.OrganizationID]*models.Organization),
		members:    make(map[domain.OrganizationID]map[domain.VolunteerID]struct{}),
		volunteers: volunteers,
	}
}

func (s *InMemoryStore) Create(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.orgs {
		if strings.EqualFold(existing.Email, org.Email) {
			return fmt.Errorf("organization email taken: %w", sentinel.ErrAlreadyUsed)
		}
		if existing.CNPJ == org.CNPJ {
			return fmt.Errorf("organization cnpj taken: %w", sentinel.ErrAlreadyUsed)
		}
	}
	org.ID = domain.OrganizationID(s.nextID)
	s.nextID++
	cp := *org
	s.orgs[org.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.OrganizationID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.orgs[id]
	if !ok {
		return nil, fmt.Errorf("organization not found: %w", sentinel.ErrNotFound)
	}
	cp := *org
	return &cp, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, org := range s.orgs {
		if strings.EqualFold(org.Email, email) {
			cp := *org
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("organization not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, org := range s.orgs {
		if strings.EqualFold(org.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// Search returns active organizations matching the filter, ordered by ID.
// Every filter field matches case-insensitively on the exact value.
func (s *InMemoryStore) Search(_ context.Context, filter models.SearchFilter) ([]*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Organization
	for id := domain.OrganizationID(1); int64(id) < s.nextID; id++ {
		org, ok := s.orgs[id]
		if !ok || !org.Active {
			continue
		}
		if !matches(org, filter) {
			continue
		}
		cp := *org
		out = append(out, &cp)
	}
	return out, nil
}

func matches(org *models.Organization, f models.SearchFilter) bool {
	if f.Name != "" && !strings.EqualFold(org.Name, f.Name) {
		return false
	}
	if f.Category != "" && org.Category != f.Category {
		return false
	}
	if f.City != "" && !strings.EqualFold(org.Address.City, f.City) {
		return false
	}
	if f.State != "" && !strings.EqualFold(org.Address.State, f.State) {
		return false
	}
	if f.Neighborhood != "" && !strings.EqualFold(org.Address.Neighborhood, f.Neighborhood) {
		return false
	}
	return true
}

// AddMember links a volunteer to the organization's roster. Adding the same
// pair twice is a no-op.
func (s *InMemoryStore) AddMember(ctx context.Context, orgID domain.OrganizationID, volID domain.VolunteerID) error {
	if _, err := s.volunteers.FindByID(ctx, volID); err != nil {
		return fmt.Errorf("resolve volunteer: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[orgID]; !ok {
		return fmt.Errorf("organization not found: %w", sentinel.ErrNotFound)
	}
	roster, ok := s.members[orgID]
	if !ok {
		roster = make(map[domain.VolunteerID]struct{})
		s.members[orgID] = roster
	}
	roster[volID] = struct{}{}
	return nil
}

func (s *InMemoryStore) IsMember(_ context.Context, orgID domain.OrganizationID, volID domain.VolunteerID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[orgID][volID]
	return ok, nil
}
