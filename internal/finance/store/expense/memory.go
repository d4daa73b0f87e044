package expense

import (
	"context"
	"sort"
	"sync"

	"daystar/internal/finance/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

// Filter narrows an expense listing. Zero values match everything; the
// date range is inclusive on both ends.
type Filter struct {
	Category models.ExpenseCategory
	DateFrom string
	DateTo   string
}

func (f Filter) matches(e *models.Expense) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.DateFrom != "" && e.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && e.Date > f.DateTo {
		return false
	}
	return true
}

// InMemory is a mutex-guarded expense store for development and tests.
type InMemory struct {
	mu   sync.RWMutex
	byID map[id.ExpenseID]*models.Expense
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.ExpenseID]*models.Expense)}
}

func (s *InMemory) Create(_ context.Context, e *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *e
	s.byID[e.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, expenseID id.ExpenseID) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[expenseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

// List returns expenses newest first, narrowed by the filter.
func (s *InMemory) List(_ context.Context, filter Filter) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Expense, 0, len(s.byID))
	for _, e := range s.byID {
		if !filter.matches(e) {
			continue
		}
		copied := *e
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

// Summarize groups the matching expenses by category, largest total
// first.
func (s *InMemory) Summarize(_ context.Context, filter Filter) (*models.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := map[models.ExpenseCategory]*models.CategoryTotal{}
	for _, e := range s.byID {
		if !filter.matches(e) {
			continue
		}
		t, ok := totals[e.Category]
		if !ok {
			t = &models.CategoryTotal{Category: e.Category}
			totals[e.Category] = t
		}
		t.TotalAmount += e.Amount
		t.Count++
	}

	summary := &models.Summary{Categories: make([]models.CategoryTotal, 0, len(totals))}
	for _, t := range totals {
		summary.Categories = append(summary.Categories, *t)
		summary.GrandTotal += t.TotalAmount
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].TotalAmount > summary.Categories[j].TotalAmount
	})
	return summary, nil
}

func (s *InMemory) Update(_ context.Context, e *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[e.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copied := *e
	s.byID[e.ID] = &copied
	return nil
}

func (s *InMemory) Delete(_ context.Context, expenseID id.ExpenseID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[expenseID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, expenseID)
	return nil
}
