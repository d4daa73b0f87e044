package payment

import (
	"context"
	"sort"
	"sync"

	"daystar/internal/finance/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

// Filter narrows a payment listing. Zero values match everything.
type Filter struct {
	Status       models.PaymentStatus
	BabysitterID id.BabysitterID
}

// InMemory is a mutex-guarded payment store for development and tests.
type InMemory struct {
	mu   sync.RWMutex
	byID map[id.PaymentID]*models.Payment
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.PaymentID]*models.Payment)}
}

func (s *InMemory) Create(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *p
	s.byID[p.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, paymentID id.PaymentID) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[paymentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

// List returns payments newest first, narrowed by the filter.
func (s *InMemory) List(_ context.Context, filter Filter) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Payment, 0, len(s.byID))
	for _, p := range s.byID {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if !filter.BabysitterID.IsNil() && p.BabysitterID != filter.BabysitterID {
			continue
		}
		copied := *p
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

func (s *InMemory) Update(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copied := *p
	s.byID[p.ID] = &copied
	return nil
}

func (s *InMemory) Delete(_ context.Context, paymentID id.PaymentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[paymentID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, paymentID)
	return nil
}
