package models

import (
	"strings"
	"time"

	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
)

// SessionType distinguishes half-day from full-day enrollment. Attendance
// and payment rates key off the same two values.
type SessionType string

const (
	SessionHalfDay SessionType = "half-day"
	SessionFullDay SessionType = "full-day"
)

func ParseSessionType(raw string) (SessionType, error) {
	switch SessionType(raw) {
	case SessionHalfDay, SessionFullDay:
		return SessionType(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "session type must be half-day or full-day")
	}
}

const (
	MinChildAge = 1
	MaxChildAge = 12

	// careFieldDefault is the literal recorded when a free-text care field
	// is omitted, matching what the dashboard displays.
	careFieldDefault = "None"
)

// Child is a roster entry with parent contact and special-care details.
type Child struct {
	ID                  id.ChildID  `json:"id"`
	FullName            string      `json:"fullName"`
	Age                 int         `json:"age"`
	ParentName          string      `json:"parentName"`
	ParentPhone         string      `json:"parentPhone"`
	ParentEmail         string      `json:"parentEmail,omitempty"`
	Allergies           string      `json:"allergies"`
	MedicalConditions   string      `json:"medicalConditions"`
	DietaryRestrictions string      `json:"dietaryRestrictions"`
	OtherNeeds          string      `json:"otherNeeds"`
	SessionType         SessionType `json:"sessionType"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

// ChildInput carries the writable fields for create and update.
type ChildInput struct {
	FullName            string `json:"fullName"`
	Age                 int    `json:"age"`
	ParentName          string `json:"parentName"`
	ParentPhone         string `json:"parentPhone"`
	ParentEmail         string `json:"parentEmail"`
	Allergies           string `json:"allergies"`
	MedicalConditions   string `json:"medicalConditions"`
	DietaryRestrictions string `json:"dietaryRestrictions"`
	OtherNeeds          string `json:"otherNeeds"`
	SessionType         string `json:"sessionType"`
}

func (in *ChildInput) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(in.FullName) == "" {
		fields["fullName"] = "full name is required"
	}
	if in.Age < MinChildAge || in.Age > MaxChildAge {
		fields["age"] = "age must be between 1 and 12"
	}
	if strings.TrimSpace(in.ParentName) == "" {
		fields["parentName"] = "parent name is required"
	}
	if strings.TrimSpace(in.ParentPhone) == "" {
		fields["parentPhone"] = "parent phone is required"
	}
	if _, err := ParseSessionType(in.SessionType); err != nil {
		fields["sessionType"] = "session type must be half-day or full-day"
	}

	if len(fields) > 0 {
		return dErrors.NewValidation("invalid child", fields)
	}
	return nil
}

// NewChild builds a roster entry from validated input, defaulting omitted
// care fields to "None".
func NewChild(childID id.ChildID, in ChildInput, now time.Time) (*Child, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &Child{
		ID:                  childID,
		FullName:            strings.TrimSpace(in.FullName),
		Age:                 in.Age,
		ParentName:          strings.TrimSpace(in.ParentName),
		ParentPhone:         strings.TrimSpace(in.ParentPhone),
		ParentEmail:         strings.TrimSpace(in.ParentEmail),
		Allergies:           careFieldOrDefault(in.Allergies),
		MedicalConditions:   careFieldOrDefault(in.MedicalConditions),
		DietaryRestrictions: careFieldOrDefault(in.DietaryRestrictions),
		OtherNeeds:          careFieldOrDefault(in.OtherNeeds),
		SessionType:         SessionType(in.SessionType),
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// ApplyUpdate overwrites the writable fields from validated input.
func (c *Child) ApplyUpdate(in ChildInput, now time.Time) {
	c.FullName = strings.TrimSpace(in.FullName)
	c.Age = in.Age
	c.ParentName = strings.TrimSpace(in.ParentName)
	c.ParentPhone = strings.TrimSpace(in.ParentPhone)
	c.ParentEmail = strings.TrimSpace(in.ParentEmail)
	c.Allergies = careFieldOrDefault(in.Allergies)
	c.MedicalConditions = careFieldOrDefault(in.MedicalConditions)
	c.DietaryRestrictions = careFieldOrDefault(in.DietaryRestrictions)
	c.OtherNeeds = careFieldOrDefault(in.OtherNeeds)
	c.SessionType = SessionType(in.SessionType)
	c.UpdatedAt = now
}

func careFieldOrDefault(value string) string {
	if strings.TrimSpace(value) == "" {
		return careFieldDefault
	}
	return strings.TrimSpace(value)
}
