package property

import (
	"context"

	"github.com/paragon/backend/internal/domain/shared"
)

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	Create(ctx context.Context, location *Location) error
	FindByID(ctx context.Context, id int64) (*Location, error)
	// FindByCity matches case-insensitively
	FindByCity(ctx context.Context, city string) (*Location, error)
	// FindAll returns locations ordered by city
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[Location], error)
	Update(ctx context.Context, location *Location) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, id int64) (*LocationStats, error)
}

// ApartmentFilter contains filter options for querying apartments
type ApartmentFilter struct {
	shared.Filter
	LocationID *int64
	Occupied   *bool
}

// ApartmentRepository defines the interface for apartment persistence
type ApartmentRepository interface {
	Create(ctx context.Context, apartment *Apartment) error
	FindByID(ctx context.Context, id int64) (*Apartment, error)
	// FindAll orders by location then address
	FindAll(ctx context.Context, filter ApartmentFilter) (shared.Paginated[Apartment], error)
	Update(ctx context.Context, apartment *Apartment) error
	// SetOccupied flips the occupancy flag only
	SetOccupied(ctx context.Context, id int64, occupied bool) error
	Delete(ctx context.Context, id int64) error
	CountOccupancy(ctx context.Context, locationID *int64) (*Occupancy, error)
}
