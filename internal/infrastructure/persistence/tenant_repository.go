package persistence

import (
	"context"
	"strings"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/tenancy"
	"github.com/paragon/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// Create creates a new tenant. A reused NI number or email is a constraint violation.
func (r *GormTenantRepository) Create(ctx context.Context, tenant *tenancy.Tenant) error {
	model := models.TenantModelFromDomain(tenant)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	tenant.ID = model.ID
	return nil
}

// FindByID finds a tenant by ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id int64) (*tenancy.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "tenant_id = ?", id).Error; err != nil {
		return nil, findError(err, "tenant", id)
	}
	return model.ToDomain(), nil
}

// FindAll returns tenants ordered by name. The location filter matches
// through the tenant's active lease.
func (r *GormTenantRepository) FindAll(ctx context.Context, filter tenancy.TenantFilter) (shared.Paginated[tenancy.Tenant], error) {
	filter.Filter = filter.Normalize()
	var tenantModels []models.TenantModel
	var total int64

	query := r.db.WithContext(ctx).Table("tenants t").Joins(activeLeaseJoins).
		Scopes(locationScope("l.location_id", filter.LocationID))
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(t.name) LIKE ? OR LOWER(t.email) LIKE ? OR t.ni_number LIKE ?)",
			like, like, "%"+strings.ToUpper(search)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[tenancy.Tenant]{}, translateError(err)
	}

	query = orderBy(query.Select("t.*"), filter.OrderBy, filter.OrderDir, TenantSortFields, "t.name ASC, t.tenant_id ASC")
	query = paginate(query, filter.Offset(), filter.PageSize)
	if err := query.Scan(&tenantModels).Error; err != nil {
		return shared.Paginated[tenancy.Tenant]{}, translateError(err)
	}

	tenants := make([]tenancy.Tenant, len(tenantModels))
	for i := range tenantModels {
		tenants[i] = *tenantModels[i].ToDomain()
	}
	return shared.NewPaginated(tenants, total, filter.Page, filter.PageSize), nil
}

// Update updates an existing tenant
func (r *GormTenantRepository) Update(ctx context.Context, tenant *tenancy.Tenant) error {
	model := models.TenantModelFromDomain(tenant)
	result := r.db.WithContext(ctx).
		Model(&models.TenantModel{}).
		Where("tenant_id = ?", tenant.ID).
		Select("name", "date_of_birth", "ni_number", "email", "phone", "occupation",
			"annual_salary", "pets", "right_to_rent", "credit_check").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("tenant", tenant.ID)
	}
	return nil
}

// Delete deletes a tenant. Leases, invoices, payments and maintenance
// requests referencing the tenant make the store refuse.
func (r *GormTenantRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.TenantModel{}, "tenant_id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("tenant", id)
	}
	return nil
}

// Ensure GormTenantRepository implements tenancy.TenantRepository
var _ tenancy.TenantRepository = (*GormTenantRepository)(nil)
