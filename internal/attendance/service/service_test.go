package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"daystar/internal/attendance/store"
	rostermodels "daystar/internal/roster/models"
	babysitterstore "daystar/internal/roster/store/babysitter"
	childstore "daystar/internal/roster/store/child"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/requestcontext"
)

type AttendanceServiceSuite struct {
	suite.Suite
	service *Service
	records *store.InMemory
	child   *rostermodels.Child
	sitter  *rostermodels.Babysitter
	ctx     context.Context
	now     time.Time
}

func (s *AttendanceServiceSuite) SetupTest() {
	s.records = store.NewInMemory()
	sitters := babysitterstore.NewInMemory()
	kids := childstore.NewInMemory()
	s.service = New(s.records, kids, sitters)

	s.now = time.Date(2024, time.June, 15, 8, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	var err error
	s.child, err = rostermodels.NewChild(id.NewChildID(), rostermodels.ChildInput{
		FullName:    "Tendo K",
		Age:         4,
		ParentName:  "Sarah K",
		ParentPhone: "0700000010",
		SessionType: "full-day",
	}, s.now)
	s.Require().NoError(err)
	s.Require().NoError(kids.Create(s.ctx, s.child))

	s.sitter, err = rostermodels.NewBabysitter(id.NewBabysitterID(), rostermodels.BabysitterInput{
		FirstName:      "Joan",
		LastName:       "Apio",
		PhoneNumber:    "0700000001",
		NationalID:     "CM900011",
		DateOfBirth:    "1995-03-10",
		NextOfKinName:  "Mary Apio",
		NextOfKinPhone: "0700000002",
	}, s.now)
	s.Require().NoError(err)
	s.Require().NoError(sitters.CreateIfNationalIDAvailable(s.ctx, s.sitter))
}

func TestAttendanceServiceSuite(t *testing.T) {
	suite.Run(t, new(AttendanceServiceSuite))
}

func (s *AttendanceServiceSuite) checkIn() *CheckInRequest {
	return &CheckInRequest{ChildID: s.child.ID, BabysitterID: s.sitter.ID}
}

func (s *AttendanceServiceSuite) TestCheckIn() {
	s.Run("defaults date and time to the request clock", func() {
		rec, err := s.service.CheckIn(s.ctx, *s.checkIn())
		s.Require().NoError(err)
		s.Equal("2024-06-15", rec.Date)
		s.Equal("08:30", rec.CheckInTime)
		s.Equal("checked-in", string(rec.Status))
		s.Equal("full-day", string(rec.SessionType), "session type must default from the child")
	})

	s.Run("second check-in for the same day is a conflict", func() {
		_, err := s.service.CheckIn(s.ctx, *s.checkIn())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("a different date is allowed", func() {
		req := s.checkIn()
		req.Date = "2024-06-16"
		_, err := s.service.CheckIn(s.ctx, *req)
		s.NoError(err)
	})

	s.Run("unknown child is not found", func() {
		req := s.checkIn()
		req.ChildID = id.NewChildID()
		_, err := s.service.CheckIn(s.ctx, *req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown babysitter is not found", func() {
		req := s.checkIn()
		req.Date = "2024-06-17"
		req.BabysitterID = id.NewBabysitterID()
		_, err := s.service.CheckIn(s.ctx, *req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("malformed date is a validation error", func() {
		req := s.checkIn()
		req.Date = "15/06/2024"
		_, err := s.service.CheckIn(s.ctx, *req)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *AttendanceServiceSuite) TestCheckOut() {
	rec, err := s.service.CheckIn(s.ctx, *s.checkIn())
	s.Require().NoError(err)

	s.Run("defaults the time and closes the record", func() {
		later := requestcontext.WithTime(context.Background(), s.now.Add(8*time.Hour))
		out, err := s.service.CheckOut(later, rec.ID, "", "")
		s.Require().NoError(err)
		s.Equal("16:30", out.CheckOutTime)
		s.Equal("checked-out", string(out.Status))
	})

	s.Run("double check-out violates the state machine", func() {
		_, err := s.service.CheckOut(s.ctx, rec.ID, "17:00", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("re-check-in after check-out opens a fresh record", func() {
		again, err := s.service.CheckIn(s.ctx, *s.checkIn())
		s.Require().NoError(err)
		s.NotEqual(rec.ID, again.ID)
	})

	s.Run("unknown record is not found", func() {
		_, err := s.service.CheckOut(s.ctx, id.NewAttendanceID(), "", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *AttendanceServiceSuite) TestList() {
	first, err := s.service.CheckIn(s.ctx, *s.checkIn())
	s.Require().NoError(err)

	req := s.checkIn()
	req.Date = "2024-06-16"
	req.CheckInTime = "09:15"
	second, err := s.service.CheckIn(s.ctx, *req)
	s.Require().NoError(err)

	s.Run("newest date first", func() {
		records, err := s.service.List(s.ctx, "")
		s.Require().NoError(err)
		s.Require().Len(records, 2)
		s.Equal(second.ID, records[0].ID)
		s.Equal(first.ID, records[1].ID)
	})

	s.Run("date filter restricts to one day", func() {
		records, err := s.service.List(s.ctx, "2024-06-16")
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal(second.ID, records[0].ID)
	})

	s.Run("malformed filter is a validation error", func() {
		_, err := s.service.List(s.ctx, "June 16")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("empty day yields an empty slice", func() {
		records, err := s.service.List(s.ctx, "2024-07-01")
		s.Require().NoError(err)
		s.Empty(records)
		s.NotNil(records)
	})
}

func (s *AttendanceServiceSuite) TestDelete() {
	rec, err := s.service.CheckIn(s.ctx, *s.checkIn())
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, rec.ID))

	err = s.service.Delete(s.ctx, rec.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
