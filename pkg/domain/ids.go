// Package domain defines typed identifiers for every aggregate. Distinct
// types keep a ChildID from ever being passed where a BabysitterID is
// expected; the compiler enforces what foreign keys only suggest.
package domain

import (
	"github.com/google/uuid"

	dErrors "daystar/pkg/domain-errors"
)

type (
	UserID       uuid.UUID
	BabysitterID uuid.UUID
	ChildID      uuid.UUID
	AttendanceID uuid.UUID
	IncidentID   uuid.UUID
	PaymentID    uuid.UUID
	ExpenseID    uuid.UUID
)

// parseUUID enforces the trust-boundary invariant: IDs must be valid,
// non-empty, non-nil UUIDs.
func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" ID is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" ID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" ID")
	}
	return parsed, nil
}

func ParseUserID(raw string) (UserID, error) {
	u, err := parseUUID(raw, "user")
	return UserID(u), err
}

func ParseBabysitterID(raw string) (BabysitterID, error) {
	u, err := parseUUID(raw, "babysitter")
	return BabysitterID(u), err
}

func ParseChildID(raw string) (ChildID, error) {
	u, err := parseUUID(raw, "child")
	return ChildID(u), err
}

func ParseAttendanceID(raw string) (AttendanceID, error) {
	u, err := parseUUID(raw, "attendance")
	return AttendanceID(u), err
}

func ParseIncidentID(raw string) (IncidentID, error) {
	u, err := parseUUID(raw, "incident")
	return IncidentID(u), err
}

func ParsePaymentID(raw string) (PaymentID, error) {
	u, err := parseUUID(raw, "payment")
	return PaymentID(u), err
}

func ParseExpenseID(raw string) (ExpenseID, error) {
	u, err := parseUUID(raw, "expense")
	return ExpenseID(u), err
}

func NewUserID() UserID             { return UserID(uuid.New()) }
func NewBabysitterID() BabysitterID { return BabysitterID(uuid.New()) }
func NewChildID() ChildID           { return ChildID(uuid.New()) }
func NewAttendanceID() AttendanceID { return AttendanceID(uuid.New()) }
func NewIncidentID() IncidentID     { return IncidentID(uuid.New()) }
func NewPaymentID() PaymentID       { return PaymentID(uuid.New()) }
func NewExpenseID() ExpenseID       { return ExpenseID(uuid.New()) }

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id BabysitterID) String() string { return uuid.UUID(id).String() }
func (id ChildID) String() string      { return uuid.UUID(id).String() }
func (id AttendanceID) String() string { return uuid.UUID(id).String() }
func (id IncidentID) String() string   { return uuid.UUID(id).String() }
func (id PaymentID) String() string    { return uuid.UUID(id).String() }
func (id ExpenseID) String() string    { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id BabysitterID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ChildID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id AttendanceID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id IncidentID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id PaymentID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ExpenseID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText/UnmarshalText keep typed IDs serializing as canonical UUID
// strings in JSON bodies.

func (id UserID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id BabysitterID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ChildID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id AttendanceID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id IncidentID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id PaymentID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id ExpenseID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = UserID(u)
	return err
}

func (id *BabysitterID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = BabysitterID(u)
	return err
}

func (id *ChildID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = ChildID(u)
	return err
}

func (id *AttendanceID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = AttendanceID(u)
	return err
}

func (id *IncidentID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = IncidentID(u)
	return err
}

func (id *PaymentID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = PaymentID(u)
	return err
}

func (id *ExpenseID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = ExpenseID(u)
	return err
}
