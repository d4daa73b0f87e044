package store

import (
	"context"
	"sort"
	"sync"

	"daystar/internal/incident/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded incident store for development and tests.
type InMemory struct {
	mu   sync.RWMutex
	byID map[id.IncidentID]*models.Incident
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.IncidentID]*models.Incident)}
}

func (s *InMemory) Create(_ context.Context, inc *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *inc
	s.byID[inc.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, incidentID id.IncidentID) (*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inc, ok := s.byID[incidentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *inc
	return &copied, nil
}

// List returns incidents newest first, optionally restricted to one
// status. Ordering is date descending, then creation time descending.
func (s *InMemory) List(_ context.Context, status models.Status) ([]*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Incident, 0, len(s.byID))
	for _, inc := range s.byID {
		if status != "" && inc.Status != status {
			continue
		}
		copied := *inc
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) Update(_ context.Context, inc *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[inc.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copied := *inc
	s.byID[inc.ID] = &copied
	return nil
}

func (s *InMemory) Delete(_ context.Context, incidentID id.IncidentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[incidentID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, incidentID)
	return nil
}
