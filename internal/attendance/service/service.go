// Package service implements the daily check-in and check-out flow.
package service

import (
	"context"
	"errors"
	"log/slog"

	"daystar/internal/attendance/models"
	"daystar/internal/platform/metrics"
	rostermodels "daystar/internal/roster/models"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/platform/sentinel"
	"daystar/pkg/requestcontext"
)

type Store interface {
	CreateIfNotCheckedIn(ctx context.Context, rec *models.Attendance) error
	FindByID(ctx context.Context, attendanceID id.AttendanceID) (*models.Attendance, error)
	List(ctx context.Context, date string) ([]*models.Attendance, error)
	Update(ctx context.Context, rec *models.Attendance) error
	Delete(ctx context.Context, attendanceID id.AttendanceID) error
}

// ChildStore and BabysitterStore cover the roster lookups needed to
// verify that a check-in references real people.
type ChildStore interface {
	FindByID(ctx context.Context, childID id.ChildID) (*rostermodels.Child, error)
}

type BabysitterStore interface {
	FindByID(ctx context.Context, sitterID id.BabysitterID) (*rostermodels.Babysitter, error)
}

// Service implements attendance tracking.
type Service struct {
	records  Store
	children ChildStore
	sitters  BabysitterStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(records Store, children ChildStore, sitters BabysitterStore, opts ...Option) *Service {
	s := &Service{records: records, children: children, sitters: sitters, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CheckInRequest struct {
	ChildID      id.ChildID      `json:"childId"`
	BabysitterID id.BabysitterID `json:"babysitterId"`
	Date         string          `json:"date"`
	SessionType  string          `json:"sessionType"`
	CheckInTime  string          `json:"checkInTime"`
	Notes        string          `json:"notes"`
}

// CheckIn opens a record for the child. At most one open record may exist
// per child per date; the store enforces that atomically, so a lost race
// surfaces here as a conflict.
func (s *Service) CheckIn(ctx context.Context, req CheckInRequest) (*models.Attendance, error) {
	if req.ChildID.IsNil() {
		return nil, dErrors.NewValidation("invalid attendance", map[string]string{
			"childId": "child ID is required",
		})
	}
	if req.BabysitterID.IsNil() {
		return nil, dErrors.NewValidation("invalid attendance", map[string]string{
			"babysitterId": "babysitter ID is required",
		})
	}

	child, err := s.children.FindByID(ctx, req.ChildID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "child not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check in")
	}
	if _, err := s.sitters.FindByID(ctx, req.BabysitterID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "babysitter not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check in")
	}

	if req.SessionType == "" {
		req.SessionType = string(child.SessionType)
	}

	now := requestcontext.Now(ctx)
	rec, err := models.NewAttendance(id.NewAttendanceID(), req.ChildID, req.BabysitterID,
		req.Date, req.SessionType, req.CheckInTime, req.Notes, now)
	if err != nil {
		return nil, err
	}

	if err := s.records.CreateIfNotCheckedIn(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.CheckInConflict()
			return nil, dErrors.New(dErrors.CodeConflict, "child is already checked in for today")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check in")
	}

	s.metrics.CheckIn()
	s.logger.InfoContext(ctx, "child checked in",
		"attendance_id", rec.ID.String(),
		"child_id", rec.ChildID.String(),
		"date", rec.Date,
	)
	return rec, nil
}

// CheckOut closes an open record. The check-out time defaults to the
// current clock reading when omitted.
func (s *Service) CheckOut(ctx context.Context, attendanceID id.AttendanceID, checkOutTime, notes string) (*models.Attendance, error) {
	rec, err := s.Get(ctx, attendanceID)
	if err != nil {
		return nil, err
	}

	if err := rec.ApplyCheckOut(checkOutTime, notes, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}

	if err := s.records.Update(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "attendance record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check out")
	}

	s.logger.InfoContext(ctx, "child checked out",
		"attendance_id", rec.ID.String(),
		"child_id", rec.ChildID.String(),
	)
	return rec, nil
}

func (s *Service) Get(ctx context.Context, attendanceID id.AttendanceID) (*models.Attendance, error) {
	rec, err := s.records.FindByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "attendance record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attendance record")
	}
	return rec, nil
}

// List returns records newest first. A non-empty date restricts the
// listing to that day.
func (s *Service) List(ctx context.Context, date string) ([]*models.Attendance, error) {
	if date != "" {
		if err := id.ValidateDate(date); err != nil {
			return nil, dErrors.NewValidation("invalid attendance query", map[string]string{
				"date": "date must be in YYYY-MM-DD format",
			})
		}
	}
	records, err := s.records.List(ctx, date)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list attendance")
	}
	if records == nil {
		records = []*models.Attendance{}
	}
	return records, nil
}

func (s *Service) Delete(ctx context.Context, attendanceID id.AttendanceID) error {
	if err := s.records.Delete(ctx, attendanceID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "attendance record not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete attendance record")
	}
	s.logger.InfoContext(ctx, "attendance record deleted", "attendance_id", attendanceID.String())
	return nil
}
