package shared

import "time"

// DateLayout is the calendar format dates are stored and exchanged in
const DateLayout = "2006-01-02"

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// SystemClock is the wall clock
func SystemClock() time.Time {
	return time.Now()
}

// DateOf truncates t to midnight UTC of its calendar day
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar day of clock's current time
func Today(clock Clock) time.Time {
	if clock == nil {
		clock = SystemClock
	}
	return DateOf(clock())
}

// FormatDate renders a date in DateLayout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDatePtr renders an optional date, empty when nil
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// MustParseDate parses a DateLayout string and panics on malformed input.
// Intended for fixtures and constants.
func MustParseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
