package tenancy

import (
	"strings"
	"time"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/validation"
	"github.com/shopspring/decimal"
)

// CreditCheck is the outcome of tenant screening
type CreditCheck string

const (
	CreditCheckPending CreditCheck = "Pending"
	CreditCheckPassed  CreditCheck = "Passed"
	CreditCheckFailed  CreditCheck = "Failed"
)

// IsValid reports whether c is a known screening state
func (c CreditCheck) IsValid() bool {
	switch c {
	case CreditCheckPending, CreditCheckPassed, CreditCheckFailed:
		return true
	}
	return false
}

// Tenant is a person renting, or applying to rent, an apartment
type Tenant struct {
	shared.BaseEntity
	Name         string
	NINumber     string
	Email        string
	Phone        string
	DateOfBirth  *time.Time
	Occupation   string
	AnnualSalary *decimal.Decimal
	Pets         bool
	RightToRent  bool
	CreditCheck  CreditCheck
}

// Normalize cleans up the free-typed identity fields in place
func (t *Tenant) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	t.Email = strings.ToLower(strings.TrimSpace(t.Email))
	t.Phone = validation.NormalizePhone(t.Phone)
	t.NINumber = validation.NormalizeNINumber(t.NINumber)
	t.Occupation = strings.TrimSpace(t.Occupation)
	if t.CreditCheck == "" {
		t.CreditCheck = CreditCheckPending
	}
}

// Validate runs the field checks. today anchors the minimum-age rule.
func (t *Tenant) Validate(today time.Time) error {
	checks := []validation.Check{
		validation.Field("name", validation.Required(t.Name)),
		validation.Field("email", validation.Email(t.Email)),
		validation.Field("phone", validation.Phone(t.Phone)),
		validation.Field("ni_number", validation.NINumber(t.NINumber)),
	}
	if t.DateOfBirth != nil {
		checks = append(checks, validation.Field("date_of_birth",
			validation.DateOfBirth(shared.FormatDate(*t.DateOfBirth), today)))
	}
	if t.AnnualSalary != nil {
		checks = append(checks, validation.Field("annual_salary", validation.CheckAmount(*t.AnnualSalary, false)))
	}
	if err := validation.First(checks...); err != nil {
		return err
	}
	if !t.CreditCheck.IsValid() {
		return shared.NewValidationError("credit_check", "credit check must be Pending, Passed or Failed")
	}
	return nil
}
