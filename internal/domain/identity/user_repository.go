package identity

import (
	"context"

	"github.com/paragon/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context, filter UserFilter) (shared.Paginated[User], error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
	CountByLocation(ctx context.Context, locationID int64) (int64, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	shared.Filter
	Role       *Role
	LocationID *int64
}
