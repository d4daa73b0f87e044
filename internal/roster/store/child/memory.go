package child

import (
	"context"
	"sort"
	"sync"

	"daystar/internal/roster/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded child store for development and tests.
type InMemory struct {
	mu   sync.RWMutex
	byID map[id.ChildID]*models.Child
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.ChildID]*models.Child)}
}

func (s *InMemory) Create(_ context.Context, child *models.Child) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *child
	s.byID[child.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, childID id.ChildID) (*models.Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	child, ok := s.byID[childID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *child
	return &copied, nil
}

// List returns the roster ordered by full name.
func (s *InMemory) List(_ context.Context) ([]*models.Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Child, 0, len(s.byID))
	for _, child := range s.byID {
		copied := *child
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (s *InMemory) Update(_ context.Context, child *models.Child) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[child.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copied := *child
	s.byID[child.ID] = &copied
	return nil
}

func (s *InMemory) Delete(_ context.Context, childID id.ChildID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[childID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, childID)
	return nil
}
