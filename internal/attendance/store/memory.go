package store

import (
	"context"
	"sort"
	"sync"

	"daystar/internal/attendance/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded attendance store for development and tests.
type InMemory struct {
	mu   sync.RWMutex
	byID map[id.AttendanceID]*models.Attendance
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.AttendanceID]*models.Attendance)}
}

// CreateIfNotCheckedIn inserts the record unless the child already has an
// open record for the same date. The scan and insert happen under one
// lock so concurrent check-ins cannot both win.
func (s *InMemory) CreateIfNotCheckedIn(_ context.Context, rec *models.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.ChildID == rec.ChildID &&
			existing.Date == rec.Date &&
			existing.Status == models.StatusCheckedIn {
			return sentinel.ErrConflict
		}
	}
	copied := *rec
	s.byID[rec.ID] = &copied
	return nil
}

func (s *InMemory) FindByID(_ context.Context, attendanceID id.AttendanceID) (*models.Attendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[attendanceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

// List returns records newest first, optionally restricted to one date.
// Ordering is date descending, then check-in time descending.
func (s *InMemory) List(_ context.Context, date string) ([]*models.Attendance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Attendance, 0, len(s.byID))
	for _, rec := range s.byID {
		if date != "" && rec.Date != date {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CheckInTime > out[j].CheckInTime
	})
	return out, nil
}

func (s *InMemory) Update(_ context.Context, rec *models.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[rec.ID]; !ok {
		return sentinel.ErrNotFound
	}
	copied := *rec
	s.byID[rec.ID] = &copied
	return nil
}

func (s *InMemory) Delete(_ context.Context, attendanceID id.AttendanceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[attendanceID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, attendanceID)
	return nil
}
