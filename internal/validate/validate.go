// Package validate holds the small field checks shared by the HTTP layer, the claims service and the CLI.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	iataRx   = regexp.MustCompile(`^[A-Z]{3}$`)
	flightRx = regexp.MustCompile(`^[A-Z0-9]{2}[0-9]{1,4}[A-Z]?$`)
	slugRx   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	emailRx  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// NormalizeFlightNumber upper-cases and strips spaces and dashes: "lh 123" -> "LH123".
func NormalizeFlightNumber(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}

// IATA checks a three-letter airport code (already upper-cased).
func IATA(code string) error {
	if !iataRx.MatchString(code) {
		return errors.New("airport must be a 3-letter IATA code")
	}
	return nil
}

// FlightNumber checks a normalised flight number such as LH123 or U21234.
func FlightNumber(fn string) error {
	if !flightRx.MatchString(fn) {
		return errors.New("invalid flight number")
	}
	return nil
}

// Date parses a YYYY-MM-DD date.
func Date(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errors.New("date must be YYYY-MM-DD")
	}
	return d, nil
}

// Slug checks a lower-case URL slug.
func Slug(s string) error {
	if !slugRx.MatchString(s) {
		return errors.New("slug must be lower-case letters, digits and dashes")
	}
	return nil
}

// Email is a cheap shape check; deliverability is the mail provider's problem.
func Email(s string) error {
	if !emailRx.MatchString(strings.TrimSpace(s)) {
		return errors.New("invalid email")
	}
	return nil
}

// Required checks that value is non-empty after trimming.
func Required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(name + " required")
	}
	return nil
}
