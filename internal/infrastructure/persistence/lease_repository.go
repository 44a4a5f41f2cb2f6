package persistence

import (
	"context"
	"time"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/tenancy"
	"github.com/paragon/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLeaseRepository implements LeaseRepository using GORM
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// Create creates a new lease
func (r *GormLeaseRepository) Create(ctx context.Context, lease *tenancy.Lease) error {
	model := models.LeaseModelFromDomain(lease)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	lease.ID = model.ID
	return nil
}

// FindByID finds a lease by ID
func (r *GormLeaseRepository) FindByID(ctx context.Context, id int64) (*tenancy.Lease, error) {
	var model models.LeaseModel
	if err := r.db.WithContext(ctx).First(&model, "lease_id = ?", id).Error; err != nil {
		return nil, findError(err, "lease", id)
	}
	return model.ToDomain(), nil
}

// FindAll returns leases, latest start first
func (r *GormLeaseRepository) FindAll(ctx context.Context, filter tenancy.LeaseFilter) (shared.Paginated[tenancy.Lease], error) {
	filter.Filter = filter.Normalize()
	var leaseModels []models.LeaseModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.LeaseModel{}).
		Joins("JOIN apartments ON apartments.apartment_id = lease_agreements.apartment_id").
		Scopes(
			locationScope("apartments.location_id", filter.LocationID),
			eqScope("lease_agreements.tenant_id", filter.TenantID),
			eqScope("lease_agreements.apartment_id", filter.ApartmentID),
			eqScope("lease_agreements.active", filter.Active),
		)
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[tenancy.Lease]{}, translateError(err)
	}

	query = orderBy(query.Select("lease_agreements.*"), filter.OrderBy, filter.OrderDir, LeaseSortFields,
		"lease_agreements.start_date DESC, lease_agreements.lease_id DESC")
	query = paginate(query, filter.Offset(), filter.PageSize)
	if err := query.Find(&leaseModels).Error; err != nil {
		return shared.Paginated[tenancy.Lease]{}, translateError(err)
	}

	leases := make([]tenancy.Lease, len(leaseModels))
	for i := range leaseModels {
		leases[i] = *leaseModels[i].ToDomain()
	}
	return shared.NewPaginated(leases, total, filter.Page, filter.PageSize), nil
}

// FindActiveByApartment returns the apartment's active lease
func (r *GormLeaseRepository) FindActiveByApartment(ctx context.Context, apartmentID int64) (*tenancy.Lease, error) {
	var model models.LeaseModel
	if err := r.db.WithContext(ctx).
		Where("apartment_id = ? AND active = 1", apartmentID).
		Order("lease_id DESC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Update updates an existing lease
func (r *GormLeaseRepository) Update(ctx context.Context, lease *tenancy.Lease) error {
	model := models.LeaseModelFromDomain(lease)
	result := r.db.WithContext(ctx).
		Model(&models.LeaseModel{}).
		Where("lease_id = ?", lease.ID).
		Select("tenant_id", "apartment_id", "start_date", "end_date", "monthly_rent", "active").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("lease", lease.ID)
	}
	return nil
}

// Delete deletes a lease
func (r *GormLeaseRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.LeaseModel{}, "lease_id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("lease", id)
	}
	return nil
}

// Statistics counts leases as of asOf:
//
//   - active: flagged active and asOf lies within the term
//   - expiring soon: active and ending within the next 30 days
//   - expired: inactive or already past the end date
//   - total: every lease
func (r *GormLeaseRepository) Statistics(ctx context.Context, locationID *int64, asOf time.Time) (*tenancy.LeaseStats, error) {
	today := shared.FormatDate(asOf)
	horizon := shared.FormatDate(shared.DateOf(asOf).AddDate(0, 0, tenancy.ExpiringWindowDays))

	var stats tenancy.LeaseStats
	if err := r.db.WithContext(ctx).
		Table("lease_agreements la").
		Joins("JOIN apartments a ON a.apartment_id = la.apartment_id").
		Scopes(locationScope("a.location_id", locationID)).
		Select(`
			COALESCE(SUM(CASE WHEN la.active = 1 AND la.start_date <= @today AND la.end_date >= @today THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN la.active = 1 AND la.start_date <= @today AND la.end_date BETWEEN @today AND @horizon THEN 1 ELSE 0 END), 0) AS expiring_soon,
			COALESCE(SUM(CASE WHEN la.active = 0 OR la.end_date < @today THEN 1 ELSE 0 END), 0) AS expired,
			COUNT(*) AS total`,
			map[string]any{"today": today, "horizon": horizon}).
		Scan(&stats).Error; err != nil {
		return nil, translateError(err)
	}
	return &stats, nil
}

// Ensure GormLeaseRepository implements tenancy.LeaseRepository
var _ tenancy.LeaseRepository = (*GormLeaseRepository)(nil)
