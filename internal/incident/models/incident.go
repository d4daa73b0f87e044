// Package models defines the incident report and its state machine.
package models

import (
	"strings"
	"time"

	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
)

type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

type IncidentType string

const (
	TypeHealth   IncidentType = "health"
	TypeBehavior IncidentType = "behavior"
	TypeAccident IncidentType = "accident"
	TypeOther    IncidentType = "other"
)

func ParseIncidentType(raw string) (IncidentType, error) {
	switch IncidentType(raw) {
	case TypeHealth, TypeBehavior, TypeAccident, TypeOther:
		return IncidentType(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "incident type must be health, behavior, accident or other")
	}
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func ParseSeverity(raw string) (Severity, error) {
	switch Severity(raw) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return Severity(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "severity must be low, medium or high")
	}
}

// Incident is one reported event for a child. NotificationTime records
// when the parent was told and is set at most once.
type Incident struct {
	ID               id.IncidentID   `json:"id"`
	ChildID          id.ChildID      `json:"childId"`
	ReportedBy       id.BabysitterID `json:"reportedById"`
	Date             string          `json:"date"`
	IncidentType     IncidentType    `json:"incidentType"`
	Description      string          `json:"description"`
	Severity         Severity        `json:"severity"`
	ActionTaken      string          `json:"actionTaken"`
	ParentNotified   bool            `json:"parentNotified"`
	NotificationTime *time.Time      `json:"notificationTime,omitempty"`
	FollowUpRequired bool            `json:"followUpRequired"`
	FollowUpNotes    string          `json:"followUpNotes,omitempty"`
	Status           Status          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ReportInput carries the fields accepted when an incident is filed.
type ReportInput struct {
	ChildID          id.ChildID      `json:"childId"`
	ReportedBy       id.BabysitterID `json:"reportedById"`
	Date             string          `json:"date"`
	IncidentType     string          `json:"incidentType"`
	Description      string          `json:"description"`
	Severity         string          `json:"severity"`
	ActionTaken      string          `json:"actionTaken"`
	ParentNotified   bool            `json:"parentNotified"`
	NotificationTime *time.Time      `json:"notificationTime"`
	FollowUpRequired bool            `json:"followUpRequired"`
	FollowUpNotes    string          `json:"followUpNotes"`
}

func (in *ReportInput) Validate() error {
	fields := map[string]string{}

	if in.ChildID.IsNil() {
		fields["childId"] = "child ID is required"
	}
	if in.ReportedBy.IsNil() {
		fields["reportedById"] = "reporting babysitter ID is required"
	}
	if in.Date != "" {
		if err := id.ValidateDate(in.Date); err != nil {
			fields["date"] = "date must be in YYYY-MM-DD format"
		}
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "description is required"
	}
	if _, err := ParseIncidentType(in.IncidentType); err != nil {
		fields["incidentType"] = "incident type must be health, behavior, accident or other"
	}
	if _, err := ParseSeverity(in.Severity); err != nil {
		fields["severity"] = "severity must be low, medium or high"
	}

	if len(fields) > 0 {
		return dErrors.NewValidation("invalid incident", fields)
	}
	return nil
}

// NewIncident files a report in the open state. When the parent was
// already notified the notification time defaults to the supplied clock.
func NewIncident(incidentID id.IncidentID, in ReportInput, now time.Time) (*Incident, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	date := in.Date
	if date == "" {
		date = id.FormatDate(now)
	}

	inc := &Incident{
		ID:               incidentID,
		ChildID:          in.ChildID,
		ReportedBy:       in.ReportedBy,
		Date:             date,
		IncidentType:     IncidentType(in.IncidentType),
		Description:      strings.TrimSpace(in.Description),
		Severity:         Severity(in.Severity),
		ActionTaken:      strings.TrimSpace(in.ActionTaken),
		ParentNotified:   in.ParentNotified,
		FollowUpRequired: in.FollowUpRequired,
		FollowUpNotes:    strings.TrimSpace(in.FollowUpNotes),
		Status:           StatusOpen,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if in.ParentNotified {
		when := now
		if in.NotificationTime != nil {
			when = *in.NotificationTime
		}
		inc.NotificationTime = &when
	}
	return inc, nil
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	Date             *string    `json:"date"`
	IncidentType     *string    `json:"incidentType"`
	Description      *string    `json:"description"`
	Severity         *string    `json:"severity"`
	ActionTaken      *string    `json:"actionTaken"`
	ParentNotified   *bool      `json:"parentNotified"`
	NotificationTime *time.Time `json:"notificationTime"`
	FollowUpRequired *bool      `json:"followUpRequired"`
	FollowUpNotes    *string    `json:"followUpNotes"`
}

// ApplyUpdate merges the supplied fields. A notification time is written
// only when the parent-notified flag turns true and no time was recorded
// before; an existing notification time is never overwritten.
func (i *Incident) ApplyUpdate(in UpdateInput, now time.Time) error {
	fields := map[string]string{}

	if in.Date != nil {
		if err := id.ValidateDate(*in.Date); err != nil {
			fields["date"] = "date must be in YYYY-MM-DD format"
		}
	}
	if in.IncidentType != nil {
		if _, err := ParseIncidentType(*in.IncidentType); err != nil {
			fields["incidentType"] = "incident type must be health, behavior, accident or other"
		}
	}
	if in.Severity != nil {
		if _, err := ParseSeverity(*in.Severity); err != nil {
			fields["severity"] = "severity must be low, medium or high"
		}
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		fields["description"] = "description is required"
	}
	if len(fields) > 0 {
		return dErrors.NewValidation("invalid incident", fields)
	}

	if in.Date != nil {
		i.Date = *in.Date
	}
	if in.IncidentType != nil {
		i.IncidentType = IncidentType(*in.IncidentType)
	}
	if in.Description != nil {
		i.Description = strings.TrimSpace(*in.Description)
	}
	if in.Severity != nil {
		i.Severity = Severity(*in.Severity)
	}
	if in.ActionTaken != nil {
		i.ActionTaken = strings.TrimSpace(*in.ActionTaken)
	}
	if in.ParentNotified != nil {
		notifying := *in.ParentNotified && !i.ParentNotified
		i.ParentNotified = *in.ParentNotified
		if notifying && i.NotificationTime == nil {
			when := now
			if in.NotificationTime != nil {
				when = *in.NotificationTime
			}
			i.NotificationTime = &when
		}
	}
	if in.FollowUpRequired != nil {
		i.FollowUpRequired = *in.FollowUpRequired
	}
	if in.FollowUpNotes != nil && strings.TrimSpace(*in.FollowUpNotes) != "" {
		i.FollowUpNotes = strings.TrimSpace(*in.FollowUpNotes)
	}

	i.UpdatedAt = now
	return nil
}

// CanResolve reports whether the incident is still open.
func (i *Incident) CanResolve() bool {
	return i.Status == StatusOpen
}

// ApplyResolve closes the incident. Non-empty follow-up notes replace
// the prior notes.
func (i *Incident) ApplyResolve(followUpNotes string, now time.Time) error {
	if !i.CanResolve() {
		return dErrors.New(dErrors.CodeInvariantViolation, "incident is already resolved")
	}
	if strings.TrimSpace(followUpNotes) != "" {
		i.FollowUpNotes = strings.TrimSpace(followUpNotes)
	}
	i.Status = StatusResolved
	i.UpdatedAt = now
	return nil
}
