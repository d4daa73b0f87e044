// Package models defines the attendance record and its state machine.
package models

import (
	"time"

	rostermodels "daystar/internal/roster/models"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
)

// Status tracks where a record sits in the check-in/check-out cycle.
type Status string

const (
	StatusCheckedIn  Status = "checked-in"
	StatusCheckedOut Status = "checked-out"
)

// Attendance records one child's presence for one date. CheckOutTime is
// empty while the child is still checked in.
type Attendance struct {
	ID           id.AttendanceID          `json:"id"`
	ChildID      id.ChildID               `json:"childId"`
	BabysitterID id.BabysitterID          `json:"babysitterId"`
	Date         string                   `json:"date"`
	SessionType  rostermodels.SessionType `json:"sessionType"`
	CheckInTime  string                   `json:"checkInTime"`
	CheckOutTime string                   `json:"checkOutTime,omitempty"`
	Status       Status                   `json:"status"`
	Notes        string                   `json:"notes,omitempty"`
	CreatedAt    time.Time                `json:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}

// NewAttendance opens a checked-in record. Date and check-in time default
// to the supplied clock when omitted.
func NewAttendance(attendanceID id.AttendanceID, childID id.ChildID, babysitterID id.BabysitterID,
	date, sessionType, checkInTime, notes string, now time.Time) (*Attendance, error) {
	fields := map[string]string{}

	if date == "" {
		date = id.FormatDate(now)
	} else if err := id.ValidateDate(date); err != nil {
		fields["date"] = "date must be in YYYY-MM-DD format"
	}
	if checkInTime == "" {
		checkInTime = id.FormatClock(now)
	} else if err := id.ValidateClock(checkInTime); err != nil {
		fields["checkInTime"] = "check-in time must be in HH:MM format"
	}
	session, err := rostermodels.ParseSessionType(sessionType)
	if err != nil {
		fields["sessionType"] = "session type must be half-day or full-day"
	}
	if len(fields) > 0 {
		return nil, dErrors.NewValidation("invalid attendance", fields)
	}

	return &Attendance{
		ID:           attendanceID,
		ChildID:      childID,
		BabysitterID: babysitterID,
		Date:         date,
		SessionType:  session,
		CheckInTime:  checkInTime,
		Status:       StatusCheckedIn,
		Notes:        notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CanCheckOut reports whether the record is still open.
func (a *Attendance) CanCheckOut() bool {
	return a.Status == StatusCheckedIn
}

// ApplyCheckOut closes the record. The check-out time defaults to the
// supplied clock when omitted; non-empty notes replace the prior notes.
func (a *Attendance) ApplyCheckOut(checkOutTime, notes string, now time.Time) error {
	if !a.CanCheckOut() {
		return dErrors.New(dErrors.CodeInvariantViolation, "child is already checked out")
	}
	if checkOutTime == "" {
		checkOutTime = id.FormatClock(now)
	} else if err := id.ValidateClock(checkOutTime); err != nil {
		return dErrors.NewValidation("invalid attendance", map[string]string{
			"checkOutTime": "check-out time must be in HH:MM format",
		})
	}
	a.CheckOutTime = checkOutTime
	a.Status = StatusCheckedOut
	if notes != "" {
		a.Notes = notes
	}
	a.UpdatedAt = now
	return nil
}
