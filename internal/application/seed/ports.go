// Package seed fills a store with demonstration data: the base Paragon
// locations, apartments, tenants, leases and staff accounts, plus generated
// invoices, payments and maintenance requests spread over every location.
package seed

import (
	"context"

	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/maintenance"
	"github.com/paragon/backend/internal/domain/property"
	"github.com/paragon/backend/internal/domain/tenancy"
)

// Repositories are every repository the seeder writes through, bound to one transaction
type Repositories interface {
	finance.Repositories
	tenancy.Repositories
	Locations() property.LocationRepository
	Users() identity.UserRepository
	Maintenance() maintenance.RequestRepository
}

// UnitOfWork runs a whole seeding run in one transaction
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
