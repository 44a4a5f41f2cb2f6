package persistence

import (
	"context"
	"strings"

	"github.com/paragon/backend/internal/domain/property"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLocationRepository implements LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// Create creates a new location
func (r *GormLocationRepository) Create(ctx context.Context, location *property.Location) error {
	model := models.LocationModelFromDomain(location)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	location.ID = model.ID
	return nil
}

// FindByID finds a location by ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id int64) (*property.Location, error) {
	var model models.LocationModel
	if err := r.db.WithContext(ctx).First(&model, "location_id = ?", id).Error; err != nil {
		return nil, findError(err, "location", id)
	}
	return model.ToDomain(), nil
}

// FindByCity finds a location by city name, case-insensitively
func (r *GormLocationRepository) FindByCity(ctx context.Context, city string) (*property.Location, error) {
	var model models.LocationModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(city) = ?", strings.ToLower(strings.TrimSpace(city))).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns locations ordered by city
func (r *GormLocationRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[property.Location], error) {
	filter = filter.Normalize()
	var locationModels []models.LocationModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.LocationModel{})
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[property.Location]{}, translateError(err)
	}

	query = orderBy(query, filter.OrderBy, filter.OrderDir, LocationSortFields, "locations.city ASC")
	query = paginate(query, filter.Offset(), filter.PageSize)
	if err := query.Find(&locationModels).Error; err != nil {
		return shared.Paginated[property.Location]{}, translateError(err)
	}

	locations := make([]property.Location, len(locationModels))
	for i := range locationModels {
		locations[i] = *locationModels[i].ToDomain()
	}
	return shared.NewPaginated(locations, total, filter.Page, filter.PageSize), nil
}

// Update updates an existing location
func (r *GormLocationRepository) Update(ctx context.Context, location *property.Location) error {
	model := models.LocationModelFromDomain(location)
	result := r.db.WithContext(ctx).
		Model(&models.LocationModel{}).
		Where("location_id = ?", location.ID).
		Select("city", "address").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("location", location.ID)
	}
	return nil
}

// Delete deletes a location. Apartments or users still pointing at it
// make the store refuse with a constraint violation.
func (r *GormLocationRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.LocationModel{}, "location_id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("location", id)
	}
	return nil
}

// Stats counts the apartments and users of a location
func (r *GormLocationRepository) Stats(ctx context.Context, id int64) (*property.LocationStats, error) {
	location, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var row struct {
		ApartmentCount int64
		UserCount      int64
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM apartments WHERE location_id = ?) AS apartment_count,
			(SELECT COUNT(*) FROM users WHERE location_id = ?) AS user_count`,
		id, id).Scan(&row).Error; err != nil {
		return nil, translateError(err)
	}

	return &property.LocationStats{
		LocationID:     location.ID,
		City:           location.City,
		ApartmentCount: row.ApartmentCount,
		UserCount:      row.UserCount,
	}, nil
}

// Ensure GormLocationRepository implements property.LocationRepository
var _ property.LocationRepository = (*GormLocationRepository)(nil)
