package property

import (
	"strings"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/validation"
	"github.com/shopspring/decimal"
)

// Apartment is a rentable unit at a location. Occupied mirrors whether an
// active lease references it and is maintained by the lease service.
type Apartment struct {
	shared.BaseEntity
	LocationID  int64
	Address     string
	Beds        int
	MonthlyRent decimal.Decimal
	Occupied    bool
}

// NewApartment creates a vacant apartment
func NewApartment(locationID int64, address string, beds int, rent decimal.Decimal) (*Apartment, error) {
	a := &Apartment{
		LocationID:  locationID,
		Address:     strings.TrimSpace(address),
		Beds:        beds,
		MonthlyRent: rent,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the apartment fields
func (a *Apartment) Validate() error {
	if a.LocationID <= 0 {
		return shared.NewValidationError("location_id", "location is required")
	}
	if a.Beds < 0 {
		return shared.NewValidationError("beds", "bed count cannot be negative")
	}
	return validation.First(
		validation.Field("address", validation.Required(a.Address)),
		validation.Field("monthly_rent", validation.CheckAmount(a.MonthlyRent, false)),
	)
}

// Occupancy counts apartments by occupancy state
type Occupancy struct {
	Total    int64 `json:"total"`
	Occupied int64 `json:"occupied"`
	Vacant   int64 `json:"vacant"`
}
