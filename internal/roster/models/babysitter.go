package models

import (
	"strings"
	"time"

	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
)

const (
	// Hiring policy: babysitters must be between 21 and 35 years old
	// inclusive at the time of creation or update.
	MinBabysitterAge = 21
	MaxBabysitterAge = 35
)

// Babysitter is a roster entry. UserID links the optional login account
// provisioned when an email is supplied; the babysitter owns the link.
type Babysitter struct {
	ID             id.BabysitterID `json:"id"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          string          `json:"email,omitempty"`
	PhoneNumber    string          `json:"phoneNumber"`
	NationalID     string          `json:"nationalId"`
	DateOfBirth    string          `json:"dateOfBirth"`
	NextOfKinName  string          `json:"nextOfKinName"`
	NextOfKinPhone string          `json:"nextOfKinPhone"`
	UserID         *id.UserID      `json:"userId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// BabysitterInput carries the writable fields for create and update.
type BabysitterInput struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	PhoneNumber    string `json:"phoneNumber"`
	NationalID     string `json:"nationalId"`
	DateOfBirth    string `json:"dateOfBirth"`
	NextOfKinName  string `json:"nextOfKinName"`
	NextOfKinPhone string `json:"nextOfKinPhone"`
}

// Validate enforces the roster invariants and returns per-field messages.
func (in *BabysitterInput) Validate(now time.Time) error {
	fields := map[string]string{}

	if strings.TrimSpace(in.FirstName) == "" {
		fields["firstName"] = "first name is required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		fields["lastName"] = "last name is required"
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		fields["phoneNumber"] = "phone number is required"
	}
	if strings.TrimSpace(in.NationalID) == "" {
		fields["nationalId"] = "national ID is required"
	}
	if strings.TrimSpace(in.NextOfKinName) == "" {
		fields["nextOfKinName"] = "next of kin name is required"
	}
	if strings.TrimSpace(in.NextOfKinPhone) == "" {
		fields["nextOfKinPhone"] = "next of kin phone is required"
	}

	age, err := id.AgeOn(in.DateOfBirth, now)
	if err != nil {
		fields["dateOfBirth"] = "date of birth must be in YYYY-MM-DD format"
	} else if age < MinBabysitterAge || age > MaxBabysitterAge {
		fields["dateOfBirth"] = "babysitter age must be between 21 and 35 years"
	}

	if len(fields) > 0 {
		return dErrors.NewValidation("invalid babysitter", fields)
	}
	return nil
}

// NewBabysitter builds a roster entry from validated input.
func NewBabysitter(babysitterID id.BabysitterID, in BabysitterInput, now time.Time) (*Babysitter, error) {
	if err := in.Validate(now); err != nil {
		return nil, err
	}
	return &Babysitter{
		ID:             babysitterID,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          strings.TrimSpace(in.Email),
		PhoneNumber:    strings.TrimSpace(in.PhoneNumber),
		NationalID:     strings.TrimSpace(in.NationalID),
		DateOfBirth:    in.DateOfBirth,
		NextOfKinName:  strings.TrimSpace(in.NextOfKinName),
		NextOfKinPhone: strings.TrimSpace(in.NextOfKinPhone),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ApplyUpdate overwrites the writable fields from validated input.
func (b *Babysitter) ApplyUpdate(in BabysitterInput, now time.Time) {
	b.FirstName = strings.TrimSpace(in.FirstName)
	b.LastName = strings.TrimSpace(in.LastName)
	b.Email = strings.TrimSpace(in.Email)
	b.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	b.NationalID = strings.TrimSpace(in.NationalID)
	b.DateOfBirth = in.DateOfBirth
	b.NextOfKinName = strings.TrimSpace(in.NextOfKinName)
	b.NextOfKinPhone = strings.TrimSpace(in.NextOfKinPhone)
	b.UpdatedAt = now
}
