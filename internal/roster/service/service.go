// Package service implements roster management for babysitters and
// children, including the login accounts provisioned for babysitters.
package service

import (
	"context"
	"log/slog"

	authmodels "daystar/internal/auth/models"
	"daystar/internal/roster/models"
	id "daystar/pkg/domain"
)

type BabysitterStore interface {
	CreateIfNationalIDAvailable(ctx context.Context, sitter *models.Babysitter) error
	FindByID(ctx context.Context, sitterID id.BabysitterID) (*models.Babysitter, error)
	FindByUserID(ctx context.Context, userID id.UserID) (*models.Babysitter, error)
	List(ctx context.Context) ([]*models.Babysitter, error)
	Update(ctx context.Context, sitter *models.Babysitter) error
	Delete(ctx context.Context, sitterID id.BabysitterID) error
}

type ChildStore interface {
	Create(ctx context.Context, child *models.Child) error
	FindByID(ctx context.Context, childID id.ChildID) (*models.Child, error)
	List(ctx context.Context) ([]*models.Child, error)
	Update(ctx context.Context, child *models.Child) error
	Delete(ctx context.Context, childID id.ChildID) error
}

// UserStore covers the account operations the roster needs when it
// provisions, updates or removes a babysitter's login.
type UserStore interface {
	CreateIfEmailAvailable(ctx context.Context, user *authmodels.User) error
	FindByID(ctx context.Context, userID id.UserID) (*authmodels.User, error)
	Update(ctx context.Context, user *authmodels.User) error
	Delete(ctx context.Context, userID id.UserID) error
}

// Service manages the babysitter and child rosters.
type Service struct {
	sitters  BabysitterStore
	children ChildStore
	users    UserStore
	logger   *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(sitters BabysitterStore, children ChildStore, users UserStore, opts ...Option) *Service {
	s := &Service{sitters: sitters, children: children, users: users, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
