package tenancy

import (
	"time"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/validation"
	"github.com/shopspring/decimal"
)

// ExpiringWindowDays is how far ahead a lease counts as expiring soon
const ExpiringWindowDays = 30

// Lease is an agreement tying a tenant to an apartment for a period.
// MonthlyRent is a snapshot taken when the lease is signed; later changes to
// the apartment's rent do not alter it.
type Lease struct {
	shared.BaseEntity
	TenantID    int64
	ApartmentID int64
	StartDate   time.Time
	EndDate     time.Time
	MonthlyRent decimal.Decimal
	Active      bool
}

// NewLease creates an active lease
func NewLease(tenantID, apartmentID int64, start, end time.Time, rent decimal.Decimal) (*Lease, error) {
	l := &Lease{
		TenantID:    tenantID,
		ApartmentID: apartmentID,
		StartDate:   shared.DateOf(start),
		EndDate:     shared.DateOf(end),
		MonthlyRent: rent,
		Active:      true,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks references, dates and rent
func (l *Lease) Validate() error {
	if l.TenantID <= 0 {
		return shared.NewValidationError("tenant_id", "tenant is required")
	}
	if l.ApartmentID <= 0 {
		return shared.NewValidationError("apartment_id", "apartment is required")
	}
	if !l.EndDate.After(l.StartDate) {
		return shared.NewValidationError("end_date", "end date must be after start date")
	}
	return validation.CheckAmount(l.MonthlyRent, false).Err("monthly_rent")
}

// Terminate ends the lease
func (l *Lease) Terminate() error {
	if !l.Active {
		return shared.NewDomainError(shared.CodeInvalidState, "lease is already inactive")
	}
	l.Active = false
	return nil
}

// IsCurrent reports whether the lease is active and today lies within its term
func (l *Lease) IsCurrent(today time.Time) bool {
	today = shared.DateOf(today)
	return l.Active && !l.StartDate.After(today) && !l.EndDate.Before(today)
}

// LeaseStats counts leases as of a given day
type LeaseStats struct {
	Active       int64 `json:"active"`
	ExpiringSoon int64 `json:"expiring_soon"`
	Expired      int64 `json:"expired"`
	Total        int64 `json:"total"`
}
