package property

import (
	"strings"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var cityCaser = cases.Title(language.BritishEnglish)

// Location is one of the company's sites, identified by its city
type Location struct {
	shared.BaseEntity
	City    string
	Address string
}

// NewLocation creates a location. The city is title-cased so lookups by
// name are stable.
func NewLocation(city, address string) (*Location, error) {
	l := &Location{
		City:    NormalizeCity(city),
		Address: strings.TrimSpace(address),
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks the required fields
func (l *Location) Validate() error {
	return validation.First(
		validation.Field("city", validation.Required(l.City)),
		validation.Field("address", validation.Required(l.Address)),
	)
}

// NormalizeCity trims and title-cases a city name
func NormalizeCity(city string) string {
	return cityCaser.String(strings.TrimSpace(city))
}

// IsAllLocations reports whether a location selector means "no filter"
func IsAllLocations(selector string) bool {
	s := strings.ToLower(strings.TrimSpace(selector))
	return s == "" || s == "all" || s == "all locations"
}

// LocationStats summarises what hangs off a location
type LocationStats struct {
	LocationID     int64  `json:"location_id"`
	City           string `json:"city"`
	ApartmentCount int64  `json:"apartment_count"`
	UserCount      int64  `json:"user_count"`
}
