package persistence

import (
	"context"

	"github.com/paragon/backend/internal/domain/property"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormApartmentRepository implements ApartmentRepository using GORM
type GormApartmentRepository struct {
	db *gorm.DB
}

// NewGormApartmentRepository creates a new GormApartmentRepository
func NewGormApartmentRepository(db *gorm.DB) *GormApartmentRepository {
	return &GormApartmentRepository{db: db}
}

// Create creates a new apartment
func (r *GormApartmentRepository) Create(ctx context.Context, apartment *property.Apartment) error {
	model := models.ApartmentModelFromDomain(apartment)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	apartment.ID = model.ID
	return nil
}

// FindByID finds an apartment by ID
func (r *GormApartmentRepository) FindByID(ctx context.Context, id int64) (*property.Apartment, error) {
	var model models.ApartmentModel
	if err := r.db.WithContext(ctx).First(&model, "apartment_id = ?", id).Error; err != nil {
		return nil, findError(err, "apartment", id)
	}
	return model.ToDomain(), nil
}

// FindAll returns apartments ordered by location then address
func (r *GormApartmentRepository) FindAll(ctx context.Context, filter property.ApartmentFilter) (shared.Paginated[property.Apartment], error) {
	filter.Filter = filter.Normalize()
	var apartmentModels []models.ApartmentModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ApartmentModel{}).
		Scopes(
			locationScope("apartments.location_id", filter.LocationID),
			eqScope("apartments.occupied", filter.Occupied),
		)
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[property.Apartment]{}, translateError(err)
	}

	query = orderBy(query, filter.OrderBy, filter.OrderDir, ApartmentSortFields,
		"apartments.location_id ASC, apartments.apartment_address ASC, apartments.apartment_id ASC")
	query = paginate(query, filter.Offset(), filter.PageSize)
	if err := query.Find(&apartmentModels).Error; err != nil {
		return shared.Paginated[property.Apartment]{}, translateError(err)
	}

	apartments := make([]property.Apartment, len(apartmentModels))
	for i := range apartmentModels {
		apartments[i] = *apartmentModels[i].ToDomain()
	}
	return shared.NewPaginated(apartments, total, filter.Page, filter.PageSize), nil
}

// Update updates an existing apartment
func (r *GormApartmentRepository) Update(ctx context.Context, apartment *property.Apartment) error {
	model := models.ApartmentModelFromDomain(apartment)
	result := r.db.WithContext(ctx).
		Model(&models.ApartmentModel{}).
		Where("apartment_id = ?", apartment.ID).
		Select("location_id", "apartment_address", "number_of_beds", "monthly_rent", "occupied").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("apartment", apartment.ID)
	}
	return nil
}

// SetOccupied flips the occupancy flag
func (r *GormApartmentRepository) SetOccupied(ctx context.Context, id int64, occupied bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.ApartmentModel{}).
		Where("apartment_id = ?", id).
		Update("occupied", occupied)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("apartment", id)
	}
	return nil
}

// Delete deletes an apartment
func (r *GormApartmentRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.ApartmentModel{}, "apartment_id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("apartment", id)
	}
	return nil
}

// CountOccupancy counts apartments by occupancy, optionally for one location
func (r *GormApartmentRepository) CountOccupancy(ctx context.Context, locationID *int64) (*property.Occupancy, error) {
	var row struct {
		Total    int64
		Occupied int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ApartmentModel{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN occupied = 1 THEN 1 ELSE 0 END), 0) AS occupied").
		Scopes(locationScope("apartments.location_id", locationID)).
		Scan(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return &property.Occupancy{
		Total:    row.Total,
		Occupied: row.Occupied,
		Vacant:   row.Total - row.Occupied,
	}, nil
}

// Ensure GormApartmentRepository implements property.ApartmentRepository
var _ property.ApartmentRepository = (*GormApartmentRepository)(nil)
