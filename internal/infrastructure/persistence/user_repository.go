package persistence

import (
	"context"
	"strings"

	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	user.ID = model.ID
	return nil
}

// Update updates an existing user
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("user_id = ?", user.ID).
		Select("location_id", "username", "password", "role").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("user", user.ID)
	}
	return nil
}

// Delete deletes a user by ID
func (r *GormUserRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, "user_id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("user", id)
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", id).Error; err != nil {
		return nil, findError(err, "user", id)
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a user by username, case-insensitively
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns users with pagination, ordered by username
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) (shared.Paginated[identity.User], error) {
	filter.Filter = filter.Normalize()
	var userModels []models.UserModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Scopes(locationScope("users.location_id", filter.LocationID))
	if filter.Role != nil {
		query = query.Where("users.role = ?", string(*filter.Role))
	}

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[identity.User]{}, translateError(err)
	}

	query = orderBy(query, filter.OrderBy, filter.OrderDir, UserSortFields, "users.username ASC")
	query = paginate(query, filter.Offset(), filter.PageSize)
	if err := query.Find(&userModels).Error; err != nil {
		return shared.Paginated[identity.User]{}, translateError(err)
	}

	users := make([]identity.User, len(userModels))
	for i := range userModels {
		users[i] = *userModels[i].ToDomain()
	}
	return shared.NewPaginated(users, total, filter.Page, filter.PageSize), nil
}

// CountByLocation counts the users assigned to a location
func (r *GormUserRepository) CountByLocation(ctx context.Context, locationID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("location_id = ?", locationID).
		Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// Ensure GormUserRepository implements identity.UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
