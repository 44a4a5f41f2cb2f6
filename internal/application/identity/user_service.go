// Package identity holds the staff account and login use cases
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService manages staff accounts
type UserService struct {
	users  identity.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users identity.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, logger: logger}
}

func parseRole(raw string) (identity.Role, error) {
	role := identity.Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.IsValid() {
		return identity.RoleNone, shared.NewValidationError("role", "unknown role '"+raw+"'")
	}
	return role, nil
}

// checkGrant stops callers from handing out roles above their own or
// placing accounts outside their location
func checkGrant(scope identity.Scope, role identity.Role, locationID *int64) error {
	if role.Level() > scope.Role.Level() {
		return shared.NewForbiddenError("cannot grant role '" + string(role) + "'")
	}
	if scope.Role.SeesAllLocations() || scope.LocationID == nil {
		return nil
	}
	if locationID == nil || *locationID != *scope.LocationID {
		return shared.NewForbiddenError("accounts must belong to your location")
	}
	return nil
}

// CreateUser creates a staff account with a hashed password
func (s *UserService) CreateUser(ctx context.Context, scope identity.Scope, req CreateUserRequest) (*UserInfo, error) {
	if err := scope.Require(identity.ResourceUsers, identity.ActionCreate); err != nil {
		return nil, err
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if err := checkGrant(scope, role, req.LocationID); err != nil {
		return nil, err
	}
	user, err := identity.NewUser(req.Username, req.Password, role, req.LocationID)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("by", scope.Username))
	info := ToUserInfo(user)
	return &info, nil
}

func (s *UserService) load(ctx context.Context, scope identity.Scope, id int64) (*identity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.LocationID != nil && !scope.CanAccessLocation(*user.LocationID) {
		return nil, shared.NewForbiddenError("no access to this location")
	}
	return user, nil
}

// GetUser returns one account
func (s *UserService) GetUser(ctx context.Context, scope identity.Scope, id int64) (*UserInfo, error) {
	if err := scope.Require(identity.ResourceUsers, identity.ActionRead); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// UpdateUser changes an account's role, location or password
func (s *UserService) UpdateUser(ctx context.Context, scope identity.Scope, id int64, req UpdateUserRequest) (*UserInfo, error) {
	if err := scope.Require(identity.ResourceUsers, identity.ActionUpdate); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	role, location := user.Role, user.LocationID
	if strings.TrimSpace(req.Role) != "" {
		if role, err = parseRole(req.Role); err != nil {
			return nil, err
		}
	}
	if req.ClearLocation {
		location = nil
	} else if req.LocationID != nil {
		location = req.LocationID
	}
	if err := checkGrant(scope, role, location); err != nil {
		return nil, err
	}
	if err := user.AssignRole(role, location); err != nil {
		return nil, err
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return nil, err
		}
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// ChangePassword lets a signed-in user replace their own password
func (s *UserService) ChangePassword(ctx context.Context, scope identity.Scope, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, scope.UserID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(oldPassword, newPassword); err != nil {
		return err
	}
	return s.users.Update(ctx, user)
}

// DeleteUser removes an account. Users cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, scope identity.Scope, id int64) error {
	if err := scope.Require(identity.ResourceUsers, identity.ActionDelete); err != nil {
		return err
	}
	if id == scope.UserID {
		return shared.NewDomainError(shared.CodeInvalidState, "cannot delete your own account")
	}
	if _, err := s.load(ctx, scope, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// ListUsers lists accounts ordered by username
func (s *UserService) ListUsers(ctx context.Context, scope identity.Scope, filter UserFilter) (shared.Paginated[UserInfo], error) {
	if err := scope.Require(identity.ResourceUsers, identity.ActionRead); err != nil {
		return shared.Paginated[UserInfo]{}, err
	}
	location, err := scope.ResolveLocation(filter.LocationID)
	if err != nil {
		return shared.Paginated[UserInfo]{}, err
	}
	query := identity.UserFilter{Filter: filter.Filter, LocationID: location}
	if strings.TrimSpace(filter.Role) != "" {
		role, err := parseRole(filter.Role)
		if err != nil {
			return shared.Paginated[UserInfo]{}, err
		}
		query.Role = &role
	}

	page, err := s.users.FindAll(ctx, query)
	if err != nil {
		return shared.Paginated[UserInfo]{}, err
	}
	items := make([]UserInfo, len(page.Items))
	for i := range page.Items {
		items[i] = ToUserInfo(&page.Items[i])
	}
	return shared.Paginated[UserInfo]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// Authenticate checks a username and password and returns the caller's
// scope. Unknown users and wrong passwords fail the same way.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (identity.Scope, error) {
	user, err := s.users.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.Scope{}, shared.ErrUnauthorized
		}
		return identity.Scope{}, err
	}
	if !user.VerifyPassword(password) {
		return identity.Scope{}, shared.ErrUnauthorized
	}
	return identity.NewScope(user), nil
}
