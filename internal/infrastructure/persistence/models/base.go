package models

import (
	"time"

	"github.com/paragon/backend/internal/domain/shared"
)

// toDate renders a calendar date column value
func toDate(t time.Time) string {
	return shared.FormatDate(t)
}

// fromDate parses a stored calendar date. Malformed values read back as the
// zero time rather than failing the whole row.
func fromDate(s string) time.Time {
	t, err := time.Parse(shared.DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func toDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := toDate(*t)
	return &s
}

func fromDatePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := fromDate(*s)
	if t.IsZero() {
		return nil
	}
	return &t
}
