package models

import (
	"net/mail"
	"strings"
	"time"

	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
)

// Role is the access tag checked by the gate. There are exactly two.
type Role string

const (
	RoleManager    Role = "manager"
	RoleBabysitter Role = "babysitter"
)

func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleManager, RoleBabysitter:
		return Role(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "role must be manager or babysitter")
	}
}

// User is a login identity. PasswordHash is the bcrypt digest; the cleartext
// password never reaches this struct.
type User struct {
	ID           id.UserID `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser validates identity fields and builds a user. Hashing the password
// is the service's job; this constructor receives the finished hash.
func NewUser(userID id.UserID, firstName, lastName, email, passwordHash string, role Role, now time.Time) (*User, error) {
	fields := map[string]string{}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = NormalizeEmail(email)

	if firstName == "" {
		fields["firstName"] = "first name is required"
	}
	if lastName == "" {
		fields["lastName"] = "last name is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "a valid email is required"
	}
	if passwordHash == "" {
		fields["password"] = "password is required"
	}
	if role != RoleManager && role != RoleBabysitter {
		fields["role"] = "role must be manager or babysitter"
	}
	if len(fields) > 0 {
		return nil, dErrors.NewValidation("invalid user", fields)
	}

	return &User{
		ID:           userID,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NormalizeEmail lowers and trims an email so uniqueness checks are
// case-insensitive everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
