// Package property holds the location and apartment use cases
package property

import (
	"context"
	"strings"

	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/property"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/validation"
	"go.uber.org/zap"
)

// ApartmentInput is an apartment as entered by an administrator
type ApartmentInput struct {
	LocationID  int64
	Address     string
	Beds        int
	MonthlyRent string
}

// ApartmentFilter selects apartments for listing
type ApartmentFilter struct {
	shared.Filter
	LocationID *int64
	Occupied   *bool
}

// Service manages locations and their apartments
type Service struct {
	locations  property.LocationRepository
	apartments property.ApartmentRepository
	logger     *zap.Logger
}

// NewService creates a new property Service
func NewService(locations property.LocationRepository, apartments property.ApartmentRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{locations: locations, apartments: apartments, logger: logger}
}

// CreateLocation adds a city office
func (s *Service) CreateLocation(ctx context.Context, scope identity.Scope, city, address string) (*property.Location, error) {
	if err := scope.Require(identity.ResourceLocations, identity.ActionCreate); err != nil {
		return nil, err
	}
	location, err := property.NewLocation(city, address)
	if err != nil {
		return nil, err
	}
	if err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	s.logger.Info("Location created", zap.String("city", location.City), zap.String("user", scope.Username))
	return location, nil
}

// GetLocation returns one location
func (s *Service) GetLocation(ctx context.Context, scope identity.Scope, id int64) (*property.Location, error) {
	if err := scope.Require(identity.ResourceLocations, identity.ActionRead); err != nil {
		return nil, err
	}
	return s.locations.FindByID(ctx, id)
}

// UpdateLocation changes the city and address of a location
func (s *Service) UpdateLocation(ctx context.Context, scope identity.Scope, id int64, city, address string) (*property.Location, error) {
	if err := scope.Require(identity.ResourceLocations, identity.ActionUpdate); err != nil {
		return nil, err
	}
	location, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	location.City = property.NormalizeCity(city)
	location.Address = strings.TrimSpace(address)
	if err := location.Validate(); err != nil {
		return nil, err
	}
	if err := s.locations.Update(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// DeleteLocation removes a location without apartments or users
func (s *Service) DeleteLocation(ctx context.Context, scope identity.Scope, id int64) error {
	if err := scope.Require(identity.ResourceLocations, identity.ActionDelete); err != nil {
		return err
	}
	return s.locations.Delete(ctx, id)
}

// ListLocations lists locations by city
func (s *Service) ListLocations(ctx context.Context, scope identity.Scope) ([]property.Location, error) {
	if err := scope.Require(identity.ResourceLocations, identity.ActionRead); err != nil {
		return nil, err
	}
	page, err := s.locations.FindAll(ctx, shared.Filter{PageSize: shared.Unpaged})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// ResolveLocation turns a location selector typed by a user into a
// location id. "", "all" and "All Locations" mean every location and
// resolve to nil; anything else is looked up by city.
func (s *Service) ResolveLocation(ctx context.Context, selector string) (*int64, error) {
	if property.IsAllLocations(selector) {
		return nil, nil
	}
	location, err := s.locations.FindByCity(ctx, selector)
	if err != nil {
		return nil, err
	}
	return &location.ID, nil
}

// LocationStats counts the apartments and users of a location
func (s *Service) LocationStats(ctx context.Context, scope identity.Scope, id int64) (*property.LocationStats, error) {
	if err := scope.Require(identity.ResourceLocations, identity.ActionRead); err != nil {
		return nil, err
	}
	if !scope.CanAccessLocation(id) {
		return nil, shared.ErrForbidden
	}
	return s.locations.Stats(ctx, id)
}

func (s *Service) requireLocation(scope identity.Scope, locationID int64) error {
	if !scope.CanAccessLocation(locationID) {
		return shared.NewForbiddenError("no access to this location")
	}
	return nil
}

func parseApartment(a *property.Apartment, in ApartmentInput) error {
	rent, r := validation.ParseAmount(in.MonthlyRent, false)
	if err := r.Err("monthly_rent"); err != nil {
		return err
	}
	a.LocationID = in.LocationID
	a.Address = strings.TrimSpace(in.Address)
	a.Beds = in.Beds
	a.MonthlyRent = rent
	return a.Validate()
}

// CreateApartment adds a vacant apartment
func (s *Service) CreateApartment(ctx context.Context, scope identity.Scope, in ApartmentInput) (*property.Apartment, error) {
	if err := scope.Require(identity.ResourceApartments, identity.ActionCreate); err != nil {
		return nil, err
	}
	if err := s.requireLocation(scope, in.LocationID); err != nil {
		return nil, err
	}
	apartment := &property.Apartment{}
	if err := parseApartment(apartment, in); err != nil {
		return nil, err
	}
	if err := s.apartments.Create(ctx, apartment); err != nil {
		return nil, err
	}
	return apartment, nil
}

// GetApartment returns one apartment
func (s *Service) GetApartment(ctx context.Context, scope identity.Scope, id int64) (*property.Apartment, error) {
	if err := scope.Require(identity.ResourceApartments, identity.ActionRead); err != nil {
		return nil, err
	}
	return s.apartments.FindByID(ctx, id)
}

// UpdateApartment changes an apartment's details. Occupancy is owned by the lease workflow.
func (s *Service) UpdateApartment(ctx context.Context, scope identity.Scope, id int64, in ApartmentInput) (*property.Apartment, error) {
	if err := scope.Require(identity.ResourceApartments, identity.ActionUpdate); err != nil {
		return nil, err
	}
	apartment, err := s.apartments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireLocation(scope, apartment.LocationID); err != nil {
		return nil, err
	}
	if err := s.requireLocation(scope, in.LocationID); err != nil {
		return nil, err
	}
	if err := parseApartment(apartment, in); err != nil {
		return nil, err
	}
	if err := s.apartments.Update(ctx, apartment); err != nil {
		return nil, err
	}
	return apartment, nil
}

// DeleteApartment removes an apartment no lease or request refers to
func (s *Service) DeleteApartment(ctx context.Context, scope identity.Scope, id int64) error {
	if err := scope.Require(identity.ResourceApartments, identity.ActionDelete); err != nil {
		return err
	}
	apartment, err := s.apartments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireLocation(scope, apartment.LocationID); err != nil {
		return err
	}
	return s.apartments.Delete(ctx, id)
}

// ListApartments lists apartments by location and address
func (s *Service) ListApartments(ctx context.Context, scope identity.Scope, filter ApartmentFilter) (shared.Paginated[property.Apartment], error) {
	if err := scope.Require(identity.ResourceApartments, identity.ActionRead); err != nil {
		return shared.Paginated[property.Apartment]{}, err
	}
	location, err := scope.ResolveLocation(filter.LocationID)
	if err != nil {
		return shared.Paginated[property.Apartment]{}, err
	}
	return s.apartments.FindAll(ctx, property.ApartmentFilter{
		Filter:     filter.Filter,
		LocationID: location,
		Occupied:   filter.Occupied,
	})
}

// Occupancy counts occupied and vacant apartments
func (s *Service) Occupancy(ctx context.Context, scope identity.Scope, locationID *int64) (*property.Occupancy, error) {
	if err := scope.Require(identity.ResourceApartments, identity.ActionRead); err != nil {
		return nil, err
	}
	location, err := scope.ResolveLocation(locationID)
	if err != nil {
		return nil, err
	}
	return s.apartments.CountOccupancy(ctx, location)
}
