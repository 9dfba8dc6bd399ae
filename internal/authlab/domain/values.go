package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidFlag      = errors.New("domain: invalid flag")
	ErrInvalidTimestamp = errors.New("domain: invalid timestamp")
	ErrInvalidRole      = errors.New("domain: invalid role")
	ErrInvalidScope     = errors.New("domain: invalid scope")
	ErrInvalidEventType = errors.New("domain: invalid event type")
)

// Flag column literals.
const (
	FlagTrue  = "1"
	FlagFalse = "0"
)

// TimeLayout is how every timestamp column is written.
const TimeLayout = "2006-01-02T15:04:05Z"

func FormatFlag(b bool) string {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// ParseFlag accepts exactly "1" or "0".
func ParseFlag(s string) (bool, error) {
	switch s {
	case FlagTrue:
		return true, nil
	case FlagFalse:
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidFlag, s)
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}

// ParseTime parses an RFC 3339 timestamp and requires the UTC designator "Z".
// Fractional seconds are tolerated, numeric offsets (even +00:00) are not.
func ParseTime(s string) (time.Time, error) {
	if !strings.HasSuffix(s, "Z") {
		return time.Time{}, fmt.Errorf("%w: %q is not UTC", ErrInvalidTimestamp, s)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}
	return t.UTC(), nil
}
