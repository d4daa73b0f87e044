package babysitter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"daystar/internal/roster/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) newSitter(nationalID string) *models.Babysitter {
	now := time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)
	sitter, err := models.NewBabysitter(id.NewBabysitterID(), models.BabysitterInput{
		FirstName:      "Joan",
		LastName:       "Apio",
		PhoneNumber:    "0700000001",
		NationalID:     nationalID,
		DateOfBirth:    "1995-03-10",
		NextOfKinName:  "Mary Apio",
		NextOfKinPhone: "0700000002",
	}, now)
	s.Require().NoError(err)
	return sitter
}

func (s *InMemorySuite) TestNationalIDUniqueness() {
	first := s.newSitter("CM100")
	s.Require().NoError(s.store.CreateIfNationalIDAvailable(s.ctx, first))

	dup := s.newSitter("cm100")
	s.ErrorIs(s.store.CreateIfNationalIDAvailable(s.ctx, dup), sentinel.ErrAlreadyUsed,
		"national ID comparison must be case-insensitive")
}

func (s *InMemorySuite) TestUpdateCollision() {
	first := s.newSitter("CM101")
	second := s.newSitter("CM102")
	s.Require().NoError(s.store.CreateIfNationalIDAvailable(s.ctx, first))
	s.Require().NoError(s.store.CreateIfNationalIDAvailable(s.ctx, second))

	second.NationalID = "CM101"
	s.ErrorIs(s.store.Update(s.ctx, second), sentinel.ErrAlreadyUsed)
}

func (s *InMemorySuite) TestFindByUserID() {
	sitter := s.newSitter("CM103")
	userID := id.NewUserID()
	sitter.UserID = &userID
	s.Require().NoError(s.store.CreateIfNationalIDAvailable(s.ctx, sitter))

	found, err := s.store.FindByUserID(s.ctx, userID)
	s.Require().NoError(err)
	s.Equal(sitter.ID, found.ID)

	_, err = s.store.FindByUserID(s.ctx, id.NewUserID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestDeleteReleasesNationalID() {
	sitter := s.newSitter("CM104")
	s.Require().NoError(s.store.CreateIfNationalIDAvailable(s.ctx, sitter))
	s.Require().NoError(s.store.Delete(s.ctx, sitter.ID))

	again := s.newSitter("CM104")
	s.NoError(s.store.CreateIfNationalIDAvailable(s.ctx, again))
}
