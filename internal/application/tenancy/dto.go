package tenancy

import "github.com/paragon/backend/internal/domain/shared"

// TenantInput is a tenant as entered at the front desk. Optional fields are
// left empty when unknown.
type TenantInput struct {
	Name         string
	NINumber     string
	Email        string
	Phone        string
	DateOfBirth  string
	Occupation   string
	AnnualSalary string
	Pets         bool
	RightToRent  bool
	CreditCheck  string
}

// TenantFilter selects tenants for listing
type TenantFilter struct {
	shared.Filter
	LocationID *int64
	Search     string
}

// CreateLeaseRequest lets a vacant apartment to a tenant. MonthlyRent
// defaults to the apartment's advertised rent.
type CreateLeaseRequest struct {
	TenantID    int64
	ApartmentID int64
	StartDate   string
	EndDate     string
	MonthlyRent string
}

// LeaseFilter selects leases for listing
type LeaseFilter struct {
	shared.Filter
	LocationID  *int64
	TenantID    *int64
	ApartmentID *int64
	Active      *bool
}
