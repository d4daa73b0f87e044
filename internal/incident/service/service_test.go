package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"daystar/internal/incident/models"
	"daystar/internal/incident/store"
	rostermodels "daystar/internal/roster/models"
	babysitterstore "daystar/internal/roster/store/babysitter"
	childstore "daystar/internal/roster/store/child"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/requestcontext"
)

type IncidentServiceSuite struct {
	suite.Suite
	service *Service
	child   *rostermodels.Child
	sitter  *rostermodels.Babysitter
	ctx     context.Context
	now     time.Time
}

func (s *IncidentServiceSuite) SetupTest() {
	incidents := store.NewInMemory()
	sitters := babysitterstore.NewInMemory()
	kids := childstore.NewInMemory()
	s.service = New(incidents, kids, sitters)

	s.now = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
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

func TestIncidentServiceSuite(t *testing.T) {
	suite.Run(t, new(IncidentServiceSuite))
}

func (s *IncidentServiceSuite) report() models.ReportInput {
	return models.ReportInput{
		ChildID:      s.child.ID,
		ReportedBy:   s.sitter.ID,
		IncidentType: "accident",
		Description:  "scraped knee on the slide",
		Severity:     "low",
		ActionTaken:  "cleaned and bandaged",
	}
}

func (s *IncidentServiceSuite) TestReport() {
	s.Run("opens the incident with a defaulted date", func() {
		inc, err := s.service.Report(s.ctx, s.report())
		s.Require().NoError(err)
		s.Equal(models.StatusOpen, inc.Status)
		s.Equal("2024-06-15", inc.Date)
		s.Nil(inc.NotificationTime)
	})

	s.Run("parent notified stamps the notification time", func() {
		in := s.report()
		in.ParentNotified = true
		inc, err := s.service.Report(s.ctx, in)
		s.Require().NoError(err)
		s.Require().NotNil(inc.NotificationTime)
		s.Equal(s.now, *inc.NotificationTime)
	})

	s.Run("explicit notification time is kept", func() {
		when := s.now.Add(-time.Hour)
		in := s.report()
		in.ParentNotified = true
		in.NotificationTime = &when
		inc, err := s.service.Report(s.ctx, in)
		s.Require().NoError(err)
		s.Equal(when, *inc.NotificationTime)
	})

	s.Run("unknown child is not found", func() {
		in := s.report()
		in.ChildID = id.NewChildID()
		_, err := s.service.Report(s.ctx, in)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("unknown type and severity are validation errors", func() {
		in := s.report()
		in.IncidentType = "emergency"
		in.Severity = "critical"
		_, err := s.service.Report(s.ctx, in)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		fields := dErrors.FieldsOf(err)
		s.Contains(fields, "incidentType")
		s.Contains(fields, "severity")
	})
}

func boolPtr(b bool) *bool { return &b }

func strPtr(v string) *string { return &v }

func (s *IncidentServiceSuite) TestUpdate() {
	inc, err := s.service.Report(s.ctx, s.report())
	s.Require().NoError(err)

	s.Run("parent notified turning true sets the time once", func() {
		updated, err := s.service.Update(s.ctx, inc.ID, models.UpdateInput{
			ParentNotified: boolPtr(true),
		})
		s.Require().NoError(err)
		s.Require().NotNil(updated.NotificationTime)
		first := *updated.NotificationTime

		later := requestcontext.WithTime(context.Background(), s.now.Add(2*time.Hour))
		updated, err = s.service.Update(later, inc.ID, models.UpdateInput{
			ParentNotified: boolPtr(true),
		})
		s.Require().NoError(err)
		s.Equal(first, *updated.NotificationTime, "an existing notification time must never be overwritten")
	})

	s.Run("follow-up notes survive an update without a new value", func() {
		_, err := s.service.Update(s.ctx, inc.ID, models.UpdateInput{
			FollowUpRequired: boolPtr(true),
			FollowUpNotes:    strPtr("monitor for swelling"),
		})
		s.Require().NoError(err)

		updated, err := s.service.Update(s.ctx, inc.ID, models.UpdateInput{
			FollowUpRequired: boolPtr(true),
		})
		s.Require().NoError(err)
		s.Equal("monitor for swelling", updated.FollowUpNotes)
	})

	s.Run("invalid severity is a validation error", func() {
		_, err := s.service.Update(s.ctx, inc.ID, models.UpdateInput{
			Severity: strPtr("catastrophic"),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown incident is not found", func() {
		_, err := s.service.Update(s.ctx, id.NewIncidentID(), models.UpdateInput{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *IncidentServiceSuite) TestResolve() {
	inc, err := s.service.Report(s.ctx, s.report())
	s.Require().NoError(err)

	s.Run("closes the incident and records notes", func() {
		resolved, err := s.service.Resolve(s.ctx, inc.ID, "parent collected child, all fine")
		s.Require().NoError(err)
		s.Equal(models.StatusResolved, resolved.Status)
		s.Equal("parent collected child, all fine", resolved.FollowUpNotes)
	})

	s.Run("second resolve violates the state machine", func() {
		_, err := s.service.Resolve(s.ctx, inc.ID, "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *IncidentServiceSuite) TestListByStatus() {
	open, err := s.service.Report(s.ctx, s.report())
	s.Require().NoError(err)

	in := s.report()
	in.Date = "2024-06-14"
	resolved, err := s.service.Report(s.ctx, in)
	s.Require().NoError(err)
	_, err = s.service.Resolve(s.ctx, resolved.ID, "")
	s.Require().NoError(err)

	s.Run("newest date first without a filter", func() {
		incidents, err := s.service.List(s.ctx, "")
		s.Require().NoError(err)
		s.Require().Len(incidents, 2)
		s.Equal(open.ID, incidents[0].ID)
	})

	s.Run("status filter narrows the listing", func() {
		incidents, err := s.service.List(s.ctx, "resolved")
		s.Require().NoError(err)
		s.Require().Len(incidents, 1)
		s.Equal(resolved.ID, incidents[0].ID)
	})

	s.Run("unknown status is a validation error", func() {
		_, err := s.service.List(s.ctx, "pending")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *IncidentServiceSuite) TestDelete() {
	inc, err := s.service.Report(s.ctx, s.report())
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, inc.ID))

	err = s.service.Delete(s.ctx, inc.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
