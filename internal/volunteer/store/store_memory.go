// Package store provides volunteer persistence backends.
//
// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested entity does not exist
// - Return ErrAlreadyUsed when a uniqueness constraint (email, CPF, phone) is violated
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ongfinder/internal/volunteer/models"
	"ongfinder/pkg/domain"
	"ongfinder/pkg/platform/sentinel"
)

// InMemoryStore keeps volunteers in memory for tests/dev.
type InMemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	volunteers map[domain.VolunteerID]*models.Volunteer
}

// NewInMemory constructs an empty in-memory volunteer store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		nextID:     1,
		volunteers: make(map[domain.VolunteerID]*models.Volunteer),
	}
}

func (s *InMemoryStore) Create(_ context.Context, vol *models.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.volunteers {
		if err := conflicts(existing, vol); err != nil {
			return err
		}
	}
	vol.ID = domain.VolunteerID(s.nextID)
	s.nextID++
	cp := *vol
	s.volunteers[vol.ID] = &cp
	return nil
}

func conflicts(existing, candidate *models.Volunteer) error {
	if existing.ID == candidate.ID {
		return nil
	}
	if strings.EqualFold(existing.Email, candidate.Email) {
		return fmt.Errorf("volunteer email taken: %w", sentinel.ErrAlreadyUsed)
	}
	if existing.CPF == candidate.CPF {
		return fmt.Errorf("volunteer cpf taken: %w", sentinel.ErrAlreadyUsed)
	}
	if existing.Phone != "" && existing.Phone == candidate.Phone {
		return fmt.Errorf("volunteer phone taken: %w", sentinel.ErrAlreadyUsed)
	}
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.VolunteerID) (*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vol, ok := s.volunteers[id]
	if !ok {
		return nil, fmt.Errorf("volunteer not found: %w", sentinel.ErrNotFound)
	}
	cp := *vol
	return &cp, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, vol := range s.volunteers {
		if strings.EqualFold(vol.Email, email) {
			cp := *vol
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("volunteer not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, vol := range s.volunteers {
		if strings.EqualFold(vol.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// EmailTaken reports whether another account already uses the email.
func (s *InMemoryStore) EmailTaken(_ context.Context, email string, exclude domain.VolunteerID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, vol := range s.volunteers {
		if id != exclude && strings.EqualFold(vol.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// PhoneTaken reports whether another account already uses the phone number.
func (s *InMemoryStore) PhoneTaken(_ context.Context, phone string, exclude domain.VolunteerID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, vol := range s.volunteers {
		if id != exclude && vol.Phone != "" && vol.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) Update(_ context.Context, vol *models.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.volunteers[vol.ID]; !ok {
		return fmt.Errorf("volunteer not found: %w", sentinel.ErrNotFound)
	}
	for _, existing := range s.volunteers {
		if err := conflicts(existing, vol); err != nil {
			return err
		}
	}
	cp := *vol
	s.volunteers[vol.ID] = &cp
	return nil
}
