package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/property"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormLocationRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := db.Seed()
	repo := NewGormLocationRepository(db.DB)
	ctx := context.Background()

	t.Run("find by city ignores case", func(t *testing.T) {
		loc, err := repo.FindByCity(ctx, "  bristol ")
		require.NoError(t, err)
		assert.Equal(t, f.Bristol, loc.ID)

		_, err = repo.FindByCity(ctx, "Glasgow")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("list is ordered by city", func(t *testing.T) {
		loc, err := property.NewLocation("cardiff", "15 Tredegar St, Cardiff")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, loc))

		page, err := repo.FindAll(ctx, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, []string{"Bristol", "Cardiff", "London"},
			[]string{page.Items[0].City, page.Items[1].City, page.Items[2].City})
	})

	t.Run("duplicate city is a constraint violation", func(t *testing.T) {
		loc, _ := property.NewLocation("London", "Somewhere else")
		assert.True(t, errors.Is(repo.Create(ctx, loc), shared.ErrConstraintViolation))
	})

	t.Run("stats count apartments and users", func(t *testing.T) {
		u, err := identity.NewUser("bristol.desk", "paragon1", identity.RoleFrontDesk, &f.Bristol)
		require.NoError(t, err)
		require.NoError(t, NewGormUserRepository(db.DB).Create(ctx, u))

		stats, err := repo.Stats(ctx, f.Bristol)
		require.NoError(t, err)
		assert.Equal(t, "Bristol", stats.City)
		assert.Equal(t, int64(2), stats.ApartmentCount)
		assert.Equal(t, int64(1), stats.UserCount)
	})

	t.Run("delete is blocked by apartments", func(t *testing.T) {
		assert.True(t, errors.Is(repo.Delete(ctx, f.London), shared.ErrConstraintViolation))
		assert.True(t, errors.Is(repo.Delete(ctx, 999), shared.ErrNotFound))

		location, err := repo.FindByID(ctx, f.London)
		require.NoError(t, err)
		assert.Equal(t, "London", location.City)
	})
}

func TestGormApartmentRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := db.Seed()
	repo := NewGormApartmentRepository(db.DB)
	ctx := context.Background()

	t.Run("occupancy counts", func(t *testing.T) {
		occ, err := repo.CountOccupancy(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, property.Occupancy{Total: 3, Occupied: 2, Vacant: 1}, *occ)

		occ, err = repo.CountOccupancy(ctx, &f.Bristol)
		require.NoError(t, err)
		assert.Equal(t, property.Occupancy{Total: 2, Occupied: 1, Vacant: 1}, *occ)
	})

	t.Run("filters by location and occupancy", func(t *testing.T) {
		vacant := false
		page, err := repo.FindAll(ctx, property.ApartmentFilter{LocationID: &f.Bristol, Occupied: &vacant})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, f.SpareFlat, page.Items[0].ID)
	})

	t.Run("set occupied", func(t *testing.T) {
		require.NoError(t, repo.SetOccupied(ctx, f.SpareFlat, true))
		a, err := repo.FindByID(ctx, f.SpareFlat)
		require.NoError(t, err)
		assert.True(t, a.Occupied)

		assert.True(t, errors.Is(repo.SetOccupied(ctx, 999, true), shared.ErrNotFound))
	})

	t.Run("create and update", func(t *testing.T) {
		a, err := property.NewApartment(f.London, "Flat 10, Rupert St", 2, decimal.NewFromInt(1600))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, a))

		a.MonthlyRent = decimal.RequireFromString("1650.75")
		require.NoError(t, repo.Update(ctx, a))
		found, err := repo.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assertAmount(t, "1650.75", found.MonthlyRent)
	})

	t.Run("negative rent trips the store check", func(t *testing.T) {
		a := &property.Apartment{LocationID: f.London, Address: "x", MonthlyRent: decimal.NewFromInt(-1)}
		assert.True(t, errors.Is(repo.Create(ctx, a), shared.ErrConstraintViolation))
	})
}

func TestGormUserRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := db.Seed()
	repo := NewGormUserRepository(db.DB)
	ctx := context.Background()

	u, err := identity.NewUser("Manager", "paragon1", identity.RoleManager, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))

	t.Run("find by username ignores case", func(t *testing.T) {
		found, err := repo.FindByUsername(ctx, "MANAGER")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)
		assert.True(t, found.VerifyPassword("paragon1"))
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup, _ := identity.NewUser("manager", "paragon2", identity.RoleAdmin, nil)
		assert.True(t, errors.Is(repo.Create(ctx, dup), shared.ErrConstraintViolation))
	})

	t.Run("filter by role and location", func(t *testing.T) {
		desk, _ := identity.NewUser("london.desk", "paragon1", identity.RoleFrontDesk, &f.London)
		require.NoError(t, repo.Create(ctx, desk))

		role := identity.RoleFrontDesk
		page, err := repo.FindAll(ctx, identity.UserFilter{Role: &role})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "london.desk", page.Items[0].Username)

		n, err := repo.CountByLocation(ctx, f.London)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("update role", func(t *testing.T) {
		require.NoError(t, u.AssignRole(identity.RoleFinance, nil))
		require.NoError(t, repo.Update(ctx, u))
		found, err := repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, identity.RoleFinance, found.Role)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, u.ID))
		_, err := repo.FindByID(ctx, u.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}
