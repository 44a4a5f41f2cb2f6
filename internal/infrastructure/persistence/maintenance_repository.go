package persistence

import (
	"context"
	"time"

	"github.com/paragon/backend/internal/domain/maintenance"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maintenanceViewColumns = `m.*, t.name AS tenant_name, a.apartment_address AS apartment_address,
	a.location_id AS location_id, l.city AS city`

// GormMaintenanceRepository implements maintenance.RequestRepository using GORM
type GormMaintenanceRepository struct {
	db *gorm.DB
}

// NewGormMaintenanceRepository creates a new GormMaintenanceRepository
func NewGormMaintenanceRepository(db *gorm.DB) *GormMaintenanceRepository {
	return &GormMaintenanceRepository{db: db}
}

func (r *GormMaintenanceRepository) view(ctx context.Context, locationID *int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("maintenance_requests m").
		Joins("JOIN apartments a ON a.apartment_id = m.apartment_id").
		Joins("JOIN locations l ON l.location_id = a.location_id").
		Joins("JOIN tenants t ON t.tenant_id = m.tenant_id").
		Scopes(locationScope("a.location_id", locationID))
}

// Create creates a new maintenance request
func (r *GormMaintenanceRepository) Create(ctx context.Context, request *maintenance.Request) error {
	model := models.MaintenanceRequestModelFromDomain(request)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	request.ID = model.ID
	return nil
}

// FindByID finds a request with its apartment, location and tenant
func (r *GormMaintenanceRepository) FindByID(ctx context.Context, id int64) (*maintenance.RequestView, error) {
	var rows []models.MaintenanceRequestViewRow
	if err := r.view(ctx, nil).
		Select(maintenanceViewColumns).
		Where("m.request_id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	if len(rows) == 0 {
		return nil, notFound("maintenance request", id)
	}
	v := rows[0].ToDomain()
	return &v, nil
}

// FindAll returns requests ordered by priority desc, reported date desc, id desc
func (r *GormMaintenanceRepository) FindAll(ctx context.Context, filter maintenance.RequestFilter) (shared.Paginated[maintenance.RequestView], error) {
	filter.Filter = filter.Normalize()
	query := r.view(ctx, filter.LocationID).
		Scopes(
			eqScope("m.completed", filter.Completed),
			eqScope("m.priority_level", filter.Priority),
		)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[maintenance.RequestView]{}, translateError(err)
	}

	var rows []models.MaintenanceRequestViewRow
	query = orderBy(query.Select(maintenanceViewColumns), filter.OrderBy, filter.OrderDir, MaintenanceSortFields,
		"m.priority_level DESC, m.reported_date DESC, m.request_id DESC")
	query = paginate(query, filter.Offset(), filter.PageSize)
	if err := query.Scan(&rows).Error; err != nil {
		return shared.Paginated[maintenance.RequestView]{}, translateError(err)
	}

	views := make([]maintenance.RequestView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToDomain()
	}
	return shared.NewPaginated(views, total, filter.Page, filter.PageSize), nil
}

// FindScheduled lists pending requests scheduled on or after from
func (r *GormMaintenanceRepository) FindScheduled(ctx context.Context, locationID *int64, from time.Time) ([]maintenance.RequestView, error) {
	var rows []models.MaintenanceRequestViewRow
	if err := r.view(ctx, locationID).
		Select(maintenanceViewColumns).
		Where("m.scheduled_date IS NOT NULL AND m.completed = 0 AND m.scheduled_date >= ?", dateArg(from)).
		Order("m.scheduled_date ASC, m.priority_level DESC, m.request_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	views := make([]maintenance.RequestView, len(rows))
	for i := range rows {
		views[i] = rows[i].ToDomain()
	}
	return views, nil
}

// Update updates an existing request
func (r *GormMaintenanceRepository) Update(ctx context.Context, request *maintenance.Request) error {
	model := models.MaintenanceRequestModelFromDomain(request)
	result := r.db.WithContext(ctx).
		Model(&models.MaintenanceRequestModel{}).
		Where("request_id = ?", request.ID).
		Select("apartment_id", "tenant_id", "issue_description", "priority_level",
			"reported_date", "scheduled_date", "completed", "cost").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("maintenance request", request.ID)
	}
	return nil
}

// Delete deletes a request
func (r *GormMaintenanceRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.MaintenanceRequestModel{}, "request_id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("maintenance request", id)
	}
	return nil
}

// DeleteAll removes every request
func (r *GormMaintenanceRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.MaintenanceRequestModel{})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}

// Stats summarises the workload, optionally for one location
func (r *GormMaintenanceRepository) Stats(ctx context.Context, locationID *int64) (*maintenance.Stats, error) {
	var row struct {
		Total               int64
		Pending             int64
		Completed           int64
		AverageCost         decimal.NullDecimal
		HighPriorityPending int64
	}
	if err := r.db.WithContext(ctx).
		Table("maintenance_requests m").
		Joins("JOIN apartments a ON a.apartment_id = m.apartment_id").
		Scopes(locationScope("a.location_id", locationID)).
		Select(`
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN m.completed = 0 THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN m.completed = 1 THEN 1 ELSE 0 END), 0) AS completed,
			ROUND(AVG(CASE WHEN m.completed = 1 THEN m.cost END), 2) AS average_cost,
			COALESCE(SUM(CASE WHEN m.completed = 0 AND m.priority_level >= ? THEN 1 ELSE 0 END), 0) AS high_priority_pending`,
			maintenance.HighPriority).
		Scan(&row).Error; err != nil {
		return nil, translateError(err)
	}

	stats := &maintenance.Stats{
		Total:               row.Total,
		Pending:             row.Pending,
		Completed:           row.Completed,
		HighPriorityPending: row.HighPriorityPending,
	}
	if row.AverageCost.Valid {
		avg := row.AverageCost.Decimal.Round(2)
		stats.AverageCost = &avg
	}
	return stats, nil
}

// GormComplaintRepository implements maintenance.ComplaintRepository using GORM
type GormComplaintRepository struct {
	db *gorm.DB
}

// NewGormComplaintRepository creates a new GormComplaintRepository
func NewGormComplaintRepository(db *gorm.DB) *GormComplaintRepository {
	return &GormComplaintRepository{db: db}
}

// Create creates a new complaint
func (r *GormComplaintRepository) Create(ctx context.Context, complaint *maintenance.Complaint) error {
	model := models.ComplaintModelFromDomain(complaint)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	complaint.ID = model.ID
	return nil
}

// FindByID finds a complaint by ID
func (r *GormComplaintRepository) FindByID(ctx context.Context, id int64) (*maintenance.Complaint, error) {
	var model models.ComplaintModel
	if err := r.db.WithContext(ctx).First(&model, "complaint_id = ?", id).Error; err != nil {
		return nil, findError(err, "complaint", id)
	}
	return model.ToDomain(), nil
}

// FindAll returns complaints, newest first
func (r *GormComplaintRepository) FindAll(ctx context.Context, filter maintenance.ComplaintFilter) (shared.Paginated[maintenance.Complaint], error) {
	filter.Filter = filter.Normalize()
	var complaintModels []models.ComplaintModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ComplaintModel{}).
		Scopes(
			eqScope("tenant_id", filter.TenantID),
			eqScope("resolved", filter.Resolved),
		)
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[maintenance.Complaint]{}, translateError(err)
	}

	query = paginate(query.Order("date_submitted DESC, complaint_id DESC"), filter.Offset(), filter.PageSize)
	if err := query.Find(&complaintModels).Error; err != nil {
		return shared.Paginated[maintenance.Complaint]{}, translateError(err)
	}

	complaints := make([]maintenance.Complaint, len(complaintModels))
	for i := range complaintModels {
		complaints[i] = *complaintModels[i].ToDomain()
	}
	return shared.NewPaginated(complaints, total, filter.Page, filter.PageSize), nil
}

// Update updates an existing complaint
func (r *GormComplaintRepository) Update(ctx context.Context, complaint *maintenance.Complaint) error {
	model := models.ComplaintModelFromDomain(complaint)
	result := r.db.WithContext(ctx).
		Model(&models.ComplaintModel{}).
		Where("complaint_id = ?", complaint.ID).
		Select("tenant_id", "description", "date_submitted", "resolved").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("complaint", complaint.ID)
	}
	return nil
}

// Delete deletes a complaint
func (r *GormComplaintRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ComplaintModel{}, "complaint_id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("complaint", id)
	}
	return nil
}

// Ensure the maintenance repositories implement their ports
var (
	_ maintenance.RequestRepository   = (*GormMaintenanceRepository)(nil)
	_ maintenance.ComplaintRepository = (*GormComplaintRepository)(nil)
)
