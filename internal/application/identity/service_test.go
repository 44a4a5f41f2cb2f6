package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/auth"
	"github.com/paragon/backend/internal/infrastructure/config"
	"github.com/paragon/backend/internal/infrastructure/persistence"
	"github.com/paragon/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) (shared.Paginated[identity.User], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[identity.User]), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) CountByLocation(ctx context.Context, locationID int64) (int64, error) {
	args := m.Called(ctx, locationID)
	return args.Get(0).(int64), args.Error(1)
}

func newUserService(t *testing.T) (*UserService, testutil.Fixture) {
	db := testutil.NewTestDB(t)
	f := db.Seed()
	return NewUserService(persistence.NewGormUserRepository(db.DB), nil), f
}

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	svc, f := newUserService(t)
	ctx := context.Background()
	manager := identity.SystemScope()

	created, err := svc.CreateUser(ctx, manager, CreateUserRequest{
		Username: "Bristol_Admin", Password: "admin1", Role: "admin", LocationID: &f.Bristol,
	})
	require.NoError(t, err)
	assert.Equal(t, "bristol_admin", created.Username)

	scope, err := svc.Authenticate(ctx, "BRISTOL_ADMIN", "admin1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, scope.UserID)
	assert.Equal(t, identity.RoleAdmin, scope.Role)
	require.NotNil(t, scope.LocationID)
	assert.Equal(t, f.Bristol, *scope.LocationID)

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "bristol_admin", "wrong1")
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
		_, err = svc.Authenticate(ctx, "nobody", "admin1")
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, manager, CreateUserRequest{Username: "bristol_admin", Password: "admin2", Role: "admin"})
		assert.True(t, errors.Is(err, shared.ErrConstraintViolation))
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, manager, CreateUserRequest{Username: "x", Password: "short", Role: "admin"})
		assert.True(t, errors.Is(err, shared.ErrValidation))
		_, err = svc.CreateUser(ctx, manager, CreateUserRequest{Username: "x", Password: "secret1", Role: "owner"})
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("admins stay within their role and location", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, scope, CreateUserRequest{Username: "boss", Password: "boss12", Role: "manager"})
		assert.True(t, errors.Is(err, shared.ErrForbidden))

		_, err = svc.CreateUser(ctx, scope, CreateUserRequest{
			Username: "london_desk", Password: "front1", Role: "frontdesk", LocationID: &f.London,
		})
		assert.True(t, errors.Is(err, shared.ErrForbidden))

		desk, err := svc.CreateUser(ctx, scope, CreateUserRequest{
			Username: "bristol_desk", Password: "front1", Role: "frontdesk", LocationID: &f.Bristol,
		})
		require.NoError(t, err)
		assert.Equal(t, identity.RoleFrontDesk, desk.Role)
	})
}

func TestUserService_UpdateListDelete(t *testing.T) {
	svc, f := newUserService(t)
	ctx := context.Background()
	manager := identity.Scope{UserID: 999, Username: "manager", Role: identity.RoleManager}

	desk, err := svc.CreateUser(ctx, manager, CreateUserRequest{
		Username: "desk", Password: "front1", Role: "frontdesk", LocationID: &f.Bristol,
	})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, manager, CreateUserRequest{
		Username: "books", Password: "finance1", Role: "finance",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, manager, desk.ID, UpdateUserRequest{Role: "maintenance", LocationID: &f.London, Password: "fixit2"})
	require.NoError(t, err)
	assert.Equal(t, identity.RoleMaintenance, updated.Role)
	assert.Equal(t, f.London, *updated.LocationID)

	scope, err := svc.Authenticate(ctx, "desk", "fixit2")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleMaintenance, scope.Role)

	require.NoError(t, svc.ChangePassword(ctx, scope, "fixit2", "fixit3"))
	assert.True(t, errors.Is(svc.ChangePassword(ctx, scope, "fixit2", "fixit4"), shared.ErrValidation))

	page, err := svc.ListUsers(ctx, manager, UserFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "books", page.Items[0].Username)

	page, err = svc.ListUsers(ctx, manager, UserFilter{Role: "finance"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = svc.ListUsers(ctx, scope, UserFilter{})
	assert.True(t, errors.Is(err, shared.ErrForbidden))

	assert.True(t, errors.Is(svc.DeleteUser(ctx, scope, desk.ID), shared.ErrForbidden))
	assert.True(t, errors.Is(svc.DeleteUser(ctx, identity.Scope{UserID: desk.ID, Role: identity.RoleManager}, desk.ID), shared.ErrInvalidState))
	require.NoError(t, svc.DeleteUser(ctx, manager, desk.ID))
	_, err = svc.GetUser(ctx, manager, desk.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestUserService_AuthenticatePassesThroughStoreErrors(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByUsername", mock.Anything, "manager").
		Return(nil, shared.NewConnectionError("database is locked"))

	_, err := NewUserService(repo, nil).Authenticate(context.Background(), " Manager ", "paragon1")
	assert.True(t, errors.Is(err, shared.ErrConnection))
	repo.AssertExpectations(t)
}

func TestAuthService_LoginLogout(t *testing.T) {
	svc, f := newUserService(t)
	ctx := context.Background()
	_, err := svc.CreateUser(ctx, identity.SystemScope(), CreateUserRequest{
		Username: "bristol_frontdesk", Password: "front1", Role: "frontdesk", LocationID: &f.Bristol,
	})
	require.NoError(t, err)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars", Issuer: "paragon", AccessTokenExpiration: time.Hour,
	})
	authService := NewAuthService(svc, jwtService, auth.NewRevocationList(), nil)

	_, err = authService.Login(ctx, LoginInput{Username: "bristol_frontdesk", Password: "nope12"})
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))

	result, err := authService.Login(ctx, LoginInput{Username: "bristol_frontdesk", Password: "front1"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, identity.RoleFrontDesk, result.User.Role)

	claims, err := authService.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.Bristol, *claims.Scope().LocationID)

	authService.Logout(ctx, claims)
	_, err = authService.Verify(result.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}
