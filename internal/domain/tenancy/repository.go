package tenancy

import (
	"context"
	"time"

	"github.com/paragon/backend/internal/domain/property"
	"github.com/paragon/backend/internal/domain/shared"
)

// TenantFilter contains filter options for querying tenants.
// LocationID matches tenants through their active lease.
type TenantFilter struct {
	shared.Filter
	LocationID *int64
	Search     string
}

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id int64) (*Tenant, error)
	FindAll(ctx context.Context, filter TenantFilter) (shared.Paginated[Tenant], error)
	Update(ctx context.Context, tenant *Tenant) error
	Delete(ctx context.Context, id int64) error
}

// LeaseFilter contains filter options for querying leases
type LeaseFilter struct {
	shared.Filter
	LocationID  *int64
	TenantID    *int64
	ApartmentID *int64
	Active      *bool
}

// LeaseRepository defines the interface for lease persistence
type LeaseRepository interface {
	Create(ctx context.Context, lease *Lease) error
	FindByID(ctx context.Context, id int64) (*Lease, error)
	FindAll(ctx context.Context, filter LeaseFilter) (shared.Paginated[Lease], error)
	// FindActiveByApartment returns NotFound when the apartment has no active lease
	FindActiveByApartment(ctx context.Context, apartmentID int64) (*Lease, error)
	Update(ctx context.Context, lease *Lease) error
	Delete(ctx context.Context, id int64) error
	Statistics(ctx context.Context, locationID *int64, asOf time.Time) (*LeaseStats, error)
}

// Repositories are the tenancy repositories bound to one transaction.
// Apartments is included because lease changes flip occupancy.
type Repositories interface {
	Tenants() TenantRepository
	Leases() LeaseRepository
	Apartments() property.ApartmentRepository
}

// UnitOfWork runs fn in a single store transaction
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
