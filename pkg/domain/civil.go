package domain

import (
	"time"

	dErrors "daystar/pkg/domain-errors"
)

// Calendar dates and clock times travel as strings in their wire format:
// dates as YYYY-MM-DD, clock times as HH:MM. Both sort correctly as text,
// which the attendance ledger's ordering relies on.

// ValidateDate checks a YYYY-MM-DD calendar date.
func ValidateDate(raw string) error {
	if _, err := time.Parse(time.DateOnly, raw); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "date must be in YYYY-MM-DD format")
	}
	return nil
}

// ValidateClock checks an HH:MM clock time.
func ValidateClock(raw string) error {
	if _, err := time.Parse("15:04", raw); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "time must be in HH:MM format")
	}
	return nil
}

// FormatDate renders a timestamp as a wire-format calendar date.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatClock renders a timestamp as a wire-format clock time.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// AgeOn computes full years lived at the given instant: the year difference,
// minus one when the instant falls before that year's birthday.
func AgeOn(dateOfBirth string, on time.Time) (int, error) {
	dob, err := time.Parse(time.DateOnly, dateOfBirth)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "date of birth must be in YYYY-MM-DD format")
	}
	age := on.Year() - dob.Year()
	if on.Month() < dob.Month() || (on.Month() == dob.Month() && on.Day() < dob.Day()) {
		age--
	}
	return age, nil
}
