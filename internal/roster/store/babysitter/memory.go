package babysitter

import (
	"context"
	"sort"
	"strings"
	"sync"

	"daystar/internal/roster/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded babysitter store for development and tests.
type InMemory struct {
	mu           sync.RWMutex
	byID         map[id.BabysitterID]*models.Babysitter
	byNationalID map[string]id.BabysitterID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:         make(map[id.BabysitterID]*models.Babysitter),
		byNationalID: make(map[string]id.BabysitterID),
	}
}

func nationalIDKey(nationalID string) string {
	return strings.ToLower(strings.TrimSpace(nationalID))
}

// CreateIfNationalIDAvailable inserts the babysitter unless the national
// ID is taken. The check and insert happen under one lock so concurrent
// creates cannot both win.
func (s *InMemory) CreateIfNationalIDAvailable(_ context.Context, sitter *models.Babysitter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := nationalIDKey(sitter.NationalID)
	if _, taken := s.byNationalID[key]; taken {
		return sentinel.ErrAlreadyUsed
	}
	copied := *sitter
	s.byID[sitter.ID] = &copied
	s.byNationalID[key] = sitter.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, sitterID id.BabysitterID) (*models.Babysitter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sitter, ok := s.byID[sitterID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *sitter
	return &copied, nil
}

// FindByUserID resolves the roster entry linked to a login account.
func (s *InMemory) FindByUserID(_ context.Context, userID id.UserID) (*models.Babysitter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sitter := range s.byID {
		if sitter.UserID != nil && *sitter.UserID == userID {
			copied := *sitter
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// List returns the roster ordered by last name, then first name.
func (s *InMemory) List(_ context.Context) ([]*models.Babysitter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Babysitter, 0, len(s.byID))
	for _, sitter := range s.byID {
		copied := *sitter
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

// Update rewrites the stored babysitter. A changed national ID must not
// collide with another roster entry.
func (s *InMemory) Update(_ context.Context, sitter *models.Babysitter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[sitter.ID]
	if !ok {
		return sentinel.ErrNotFound
	}

	newKey := nationalIDKey(sitter.NationalID)
	oldKey := nationalIDKey(current.NationalID)
	if newKey != oldKey {
		if _, taken := s.byNationalID[newKey]; taken {
			return sentinel.ErrAlreadyUsed
		}
		delete(s.byNationalID, oldKey)
		s.byNationalID[newKey] = sitter.ID
	}

	copied := *sitter
	s.byID[sitter.ID] = &copied
	return nil
}

func (s *InMemory) Delete(_ context.Context, sitterID id.BabysitterID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sitter, ok := s.byID[sitterID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byNationalID, nationalIDKey(sitter.NationalID))
	delete(s.byID, sitterID)
	return nil
}
