package utils

import (
	"errors"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// ParseDate accepts a calendar day (2006-01-02) or an RFC3339 timestamp and
// returns it in UTC. A calendar day resolves to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := ParseDateKeepOffset(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseDateKeepOffset is ParseDate without the UTC conversion: an RFC3339
// timestamp keeps its own offset so callers can reason about its local day.
func ParseDateKeepOffset(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse(DayLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// ParseOptionalDate is ParseDate that maps a blank string to nil.
func ParseOptionalDate(s string) (*time.Time, error) {
	return parseOptional(s, ParseDate)
}

// ParseOptionalDateKeepOffset is ParseDateKeepOffset that maps a blank
// string to nil.
func ParseOptionalDateKeepOffset(s string) (*time.Time, error) {
	return parseOptional(s, ParseDateKeepOffset)
}

func parseOptional(s string, parse func(string) (time.Time, error)) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parse(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// NilIfBlank returns nil for nil or whitespace-only strings.
func NilIfBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
