package persistence

import (
	"context"

	appseed "github.com/paragon/backend/internal/application/seed"
	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/maintenance"
	"github.com/paragon/backend/internal/domain/property"
	"github.com/paragon/backend/internal/domain/tenancy"
	"gorm.io/gorm"
)

// gormUnitOfWork runs a function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
type gormUnitOfWork struct {
	db *gorm.DB
}

// Errors returned by fn come back unchanged, repositories have already
// translated theirs. Only begin and commit failures are translated here.
func (u gormUnitOfWork) execute(ctx context.Context, fn func(repos *gormTransactionalRepositories) error) error {
	var fnErr error
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&gormTransactionalRepositories{tx: tx})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	return translateError(err)
}

// GormFinanceUnitOfWork implements finance.UnitOfWork
type GormFinanceUnitOfWork struct{ gormUnitOfWork }

// NewGormFinanceUnitOfWork creates a new GormFinanceUnitOfWork
func NewGormFinanceUnitOfWork(db *gorm.DB) *GormFinanceUnitOfWork {
	return &GormFinanceUnitOfWork{gormUnitOfWork{db: db}}
}

// Execute runs fn with finance repositories bound to one transaction
func (u *GormFinanceUnitOfWork) Execute(ctx context.Context, fn func(repos finance.Repositories) error) error {
	return u.execute(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// GormTenancyUnitOfWork implements tenancy.UnitOfWork
type GormTenancyUnitOfWork struct{ gormUnitOfWork }

// NewGormTenancyUnitOfWork creates a new GormTenancyUnitOfWork
func NewGormTenancyUnitOfWork(db *gorm.DB) *GormTenancyUnitOfWork {
	return &GormTenancyUnitOfWork{gormUnitOfWork{db: db}}
}

// Execute runs fn with tenancy repositories bound to one transaction
func (u *GormTenancyUnitOfWork) Execute(ctx context.Context, fn func(repos tenancy.Repositories) error) error {
	return u.execute(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// GormSeedUnitOfWork implements the seeder's unit of work
type GormSeedUnitOfWork struct{ gormUnitOfWork }

// NewGormSeedUnitOfWork creates a new GormSeedUnitOfWork
func NewGormSeedUnitOfWork(db *gorm.DB) *GormSeedUnitOfWork {
	return &GormSeedUnitOfWork{gormUnitOfWork{db: db}}
}

// Execute runs fn with every repository bound to one transaction
func (u *GormSeedUnitOfWork) Execute(ctx context.Context, fn func(repos appseed.Repositories) error) error {
	return u.execute(ctx, func(repos *gormTransactionalRepositories) error { return fn(repos) })
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Invoices returns the invoice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Invoices() finance.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Payments returns the payment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Payments() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// Tenants returns the tenant repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Tenants() tenancy.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

// Leases returns the lease repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Leases() tenancy.LeaseRepository {
	return NewGormLeaseRepository(r.tx)
}

// Apartments returns the apartment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Apartments() property.ApartmentRepository {
	return NewGormApartmentRepository(r.tx)
}

// Locations returns the location repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Locations() property.LocationRepository {
	return NewGormLocationRepository(r.tx)
}

// Users returns the user repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

// Maintenance returns the maintenance repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Maintenance() maintenance.RequestRepository {
	return NewGormMaintenanceRepository(r.tx)
}

// Ensure the units of work implement their ports
var (
	_ finance.UnitOfWork = (*GormFinanceUnitOfWork)(nil)
	_ tenancy.UnitOfWork = (*GormTenancyUnitOfWork)(nil)
	_ appseed.UnitOfWork = (*GormSeedUnitOfWork)(nil)

	_ finance.Repositories = (*gormTransactionalRepositories)(nil)
	_ tenancy.Repositories = (*gormTransactionalRepositories)(nil)
	_ appseed.Repositories = (*gormTransactionalRepositories)(nil)
)
