package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"daystar/internal/auth/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

type UserStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *UserStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreSuite))
}

func (s *UserStoreSuite) newUser(email string) *models.User {
	return &models.User{
		ID:           id.NewUserID(),
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        email,
		PasswordHash: "$2a$10$fakehash",
		Role:         models.RoleBabysitter,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func (s *UserStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds user by ID and email", func() {
		user := s.newUser("jane@daystar.test")
		s.Require().NoError(s.store.CreateIfEmailAvailable(s.ctx, user))

		found, err := s.store.FindByID(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(user.Email, found.Email)

		found, err = s.store.FindByEmail(s.ctx, "jane@daystar.test")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.NewUserID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *UserStoreSuite) TestEmailUniqueness() {
	s.Run("rejects duplicate email", func() {
		s.Require().NoError(s.store.CreateIfEmailAvailable(s.ctx, s.newUser("dup@daystar.test")))

		err := s.store.CreateIfEmailAvailable(s.ctx, s.newUser("dup@daystar.test"))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("uniqueness is case-insensitive", func() {
		s.Require().NoError(s.store.CreateIfEmailAvailable(s.ctx, s.newUser("mixed@daystar.test")))

		err := s.store.CreateIfEmailAvailable(s.ctx, s.newUser("MIXED@daystar.test"))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("update to a taken email is rejected", func() {
		first := s.newUser("first@daystar.test")
		second := s.newUser("second@daystar.test")
		s.Require().NoError(s.store.CreateIfEmailAvailable(s.ctx, first))
		s.Require().NoError(s.store.CreateIfEmailAvailable(s.ctx, second))

		second.Email = "first@daystar.test"
		s.Require().ErrorIs(s.store.Update(s.ctx, second), sentinel.ErrAlreadyUsed)
	})
}

func (s *UserStoreSuite) TestDelete() {
	user := s.newUser("gone@daystar.test")
	s.Require().NoError(s.store.CreateIfEmailAvailable(s.ctx, user))
	s.Require().NoError(s.store.Delete(s.ctx, user.ID))

	_, err := s.store.FindByID(s.ctx, user.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// Email is released for reuse after deletion.
	s.Require().NoError(s.store.CreateIfEmailAvailable(s.ctx, s.newUser("gone@daystar.test")))
}
