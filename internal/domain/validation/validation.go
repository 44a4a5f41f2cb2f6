// Package validation holds the field format checks run on user input before
// anything reaches the store. Every check is pure: it returns a Result and
// performs no I/O.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^(07\d{9}|\+447\d{9})$`)
	niRegex    = regexp.MustCompile(`^[A-CEGHJ-PR-TW-Z][A-CEGHJ-NPR-TW-Z]\d{6}[A-D]$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// AltDateLayout is accepted on input and normalised to shared.DateLayout
const AltDateLayout = "02/01/2006"

// MinTenantAge is the minimum age, in years, of a tenant
const MinTenantAge = 18

// Result is the outcome of a single check
type Result struct {
	Valid  bool
	Reason string
}

// OK is a passing result
func OK() Result {
	return Result{Valid: true}
}

// Fail is a failing result with a human-readable reason
func Fail(reason string) Result {
	return Result{Valid: false, Reason: reason}
}

// Err converts a failing result into a validation error for field, nil otherwise
func (r Result) Err(field string) error {
	if r.Valid {
		return nil
	}
	return shared.NewValidationError(field, r.Reason)
}

// Check pairs a field name with the result of validating it
type Check struct {
	Field  string
	Result Result
}

// Field builds a Check
func Field(name string, r Result) Check {
	return Check{Field: name, Result: r}
}

// First returns the validation error of the first failing check, or nil
func First(checks ...Check) error {
	for _, c := range checks {
		if err := c.Result.Err(c.Field); err != nil {
			return err
		}
	}
	return nil
}

// Required rejects empty or whitespace-only values
func Required(s string) Result {
	if strings.TrimSpace(s) == "" {
		return Fail("is required")
	}
	return OK()
}

// Email checks the conventional local@domain.tld shape
func Email(s string) Result {
	if s == "" {
		return Fail("email is required")
	}
	if !strings.Contains(s, "@") {
		return Fail("email must contain '@'")
	}
	if strings.HasPrefix(s, "@") {
		return Fail("email is missing the part before '@'")
	}
	if !emailRegex.MatchString(s) {
		return Fail("email must look like name@domain.tld")
	}
	return OK()
}

// NormalizePhone strips the separators people type into phone numbers
func NormalizePhone(s string) string {
	return phoneSeparators.Replace(strings.TrimSpace(s))
}

// Phone checks a UK mobile number: 07 followed by nine digits, or +447
// followed by nine digits. Spaces, hyphens and parentheses are ignored.
func Phone(s string) Result {
	clean := NormalizePhone(s)
	if clean == "" {
		return Fail("phone is required")
	}
	if !phoneRegex.MatchString(clean) {
		return Fail("phone must be a UK mobile number (07xxxxxxxxx or +447xxxxxxxxx)")
	}
	return OK()
}

// NormalizeNINumber upper-cases and removes spaces
func NormalizeNINumber(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// NINumber checks the UK national insurance number format, e.g. AB123456C
func NINumber(s string) Result {
	clean := NormalizeNINumber(s)
	if clean == "" {
		return Fail("NI number is required")
	}
	if !niRegex.MatchString(clean) {
		return Fail("NI number must be two letters, six digits and A-D (e.g. AB123456C)")
	}
	return OK()
}

// ParseAmount parses a monetary amount. With positive set, zero is rejected too.
func ParseAmount(s string, positive bool) (decimal.Decimal, Result) {
	clean := strings.TrimPrefix(strings.TrimSpace(s), "£")
	clean = strings.ReplaceAll(clean, ",", "")
	if clean == "" {
		return decimal.Zero, Fail("amount is required")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, Fail("amount must be a number")
	}
	return d, CheckAmount(d, positive)
}

// CheckAmount validates an already typed amount
func CheckAmount(d decimal.Decimal, positive bool) Result {
	if positive && !d.IsPositive() {
		return Fail("amount must be greater than zero")
	}
	if d.IsNegative() {
		return Fail("amount cannot be negative")
	}
	return OK()
}

// Amount checks a non-negative amount
func Amount(s string) Result {
	_, r := ParseAmount(s, false)
	return r
}

// PositiveAmount checks a strictly positive amount
func PositiveAmount(s string) Result {
	_, r := ParseAmount(s, true)
	return r
}

// ParseDate parses YYYY-MM-DD, accepting DD/MM/YYYY as an alias
func ParseDate(s string) (time.Time, Result) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return time.Time{}, Fail("date is required")
	}
	for _, layout := range []string{shared.DateLayout, AltDateLayout} {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, OK()
		}
	}
	return time.Time{}, Fail("date must be in YYYY-MM-DD format")
}

// Date checks a calendar date string
func Date(s string) Result {
	_, r := ParseDate(s)
	return r
}

// DateOfBirth checks the date is not in the future and the holder is at least 18 on today
func DateOfBirth(s string, today time.Time) Result {
	dob, r := ParseDate(s)
	if !r.Valid {
		return r
	}
	today = shared.DateOf(today)
	if dob.After(today) {
		return Fail("date of birth cannot be in the future")
	}
	if dob.AddDate(MinTenantAge, 0, 0).After(today) {
		return Fail("tenant must be at least 18 years old")
	}
	return OK()
}

// DateRange checks that end is not before start
func DateRange(start, end time.Time) Result {
	if end.Before(start) {
		return Fail("end date must not be before start date")
	}
	return OK()
}

// Priority checks a maintenance priority level
func Priority(level int) Result {
	if level < 1 || level > 5 {
		return Fail("priority must be between 1 and 5")
	}
	return OK()
}
