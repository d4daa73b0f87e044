package user

import (
	"context"
	"sync"

	"daystar/internal/auth/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded user store for development and tests.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[id.UserID]*models.User
	byEmail map[string]id.UserID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
	}
}

// CreateIfEmailAvailable inserts the user unless the email is taken.
// The check and insert happen under one lock so concurrent registrations
// cannot both win.
func (s *InMemory) CreateIfEmailAvailable(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.NormalizeEmail(user.Email)
	if _, taken := s.byEmail[key]; taken {
		return sentinel.ErrAlreadyUsed
	}
	copied := *user
	s.byID[user.ID] = &copied
	s.byEmail[key] = user.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[userID]
	return &copied, nil
}

// Update rewrites the stored user. A changed email must not collide with
// another account.
func (s *InMemory) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[user.ID]
	if !ok {
		return sentinel.ErrNotFound
	}

	newKey := models.NormalizeEmail(user.Email)
	oldKey := models.NormalizeEmail(current.Email)
	if newKey != oldKey {
		if _, taken := s.byEmail[newKey]; taken {
			return sentinel.ErrAlreadyUsed
		}
		delete(s.byEmail, oldKey)
		s.byEmail[newKey] = user.ID
	}

	copied := *user
	s.byID[user.ID] = &copied
	return nil
}

func (s *InMemory) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byEmail, models.NormalizeEmail(user.Email))
	delete(s.byID, userID)
	return nil
}
