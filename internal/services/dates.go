package services

import (
	"errors"
	"time"
)

// DateOnly is the wire format for calendar dates (birth dates, session
// dates). They carry no time-of-day or timezone semantics.
const DateOnly = "2006-01-02"

var errBadDate = errors.New("invalid date, expected YYYY-MM-DD")

// ParseDateOnly parses a YYYY-MM-DD string into a UTC-midnight time.
// Malformed dates are rejected here, at admission, never downstream.
func ParseDateOnly(s string) (time.Time, error) {
	t, err := time.Parse(DateOnly, s)
	if err != nil {
		return time.Time{}, errBadDate
	}
	return t, nil
}

func FormatDateOnly(t time.Time) string {
	return t.Format(DateOnly)
}

// Today is the default session date for an attendance mark.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AgeOn computes whole years between birth and the reference date,
// decrementing when the birthday hasn't occurred yet that year.
func AgeOn(birth, on time.Time) int {
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}
