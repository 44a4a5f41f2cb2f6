package identity

import (
	"errors"
	"testing"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Can(t *testing.T) {
	t.Run("manager can do everything", func(t *testing.T) {
		assert.True(t, RoleManager.Can(ResourceUsers, ActionDelete))
		assert.True(t, RoleManager.Can(ResourcePayments, ActionDelete))
		assert.True(t, RoleManager.Can(ResourceReports, ActionExport))
	})

	t.Run("admin cannot delete users or finance records", func(t *testing.T) {
		assert.True(t, RoleAdmin.Can(ResourceUsers, ActionCreate))
		assert.False(t, RoleAdmin.Can(ResourceUsers, ActionDelete))
		assert.False(t, RoleAdmin.Can(ResourceInvoices, ActionDelete))
		assert.False(t, RoleAdmin.Can(ResourcePayments, ActionDelete))
	})

	t.Run("finance manages invoices and payments but only reads tenants", func(t *testing.T) {
		assert.True(t, RoleFinance.Can(ResourceInvoices, ActionDelete))
		assert.True(t, RoleFinance.Can(ResourcePayments, ActionCreate))
		assert.True(t, RoleFinance.Can(ResourceTenants, ActionRead))
		assert.False(t, RoleFinance.Can(ResourceTenants, ActionCreate))
		assert.False(t, RoleFinance.Can(ResourceMaintenance, ActionRead))
	})

	t.Run("front desk registers tenants and reads finance", func(t *testing.T) {
		assert.True(t, RoleFrontDesk.Can(ResourceTenants, ActionCreate))
		assert.False(t, RoleFrontDesk.Can(ResourceTenants, ActionDelete))
		assert.True(t, RoleFrontDesk.Can(ResourceLeases, ActionCreate))
		assert.False(t, RoleFrontDesk.Can(ResourceLeases, ActionUpdate))
		assert.True(t, RoleFrontDesk.Can(ResourceInvoices, ActionRead))
		assert.False(t, RoleFrontDesk.Can(ResourcePayments, ActionCreate))
	})

	t.Run("maintenance updates requests only", func(t *testing.T) {
		assert.True(t, RoleMaintenance.Can(ResourceMaintenance, ActionUpdate))
		assert.False(t, RoleMaintenance.Can(ResourceMaintenance, ActionCreate))
		assert.False(t, RoleMaintenance.Can(ResourceInvoices, ActionRead))
	})

	t.Run("accounts without a role have no permissions", func(t *testing.T) {
		assert.False(t, RoleNone.Can(ResourceTenants, ActionRead))
		assert.Empty(t, RoleNone.AllowedActions(ResourceTenants))
	})
}

func TestRole_Hierarchy(t *testing.T) {
	assert.Greater(t, RoleManager.Level(), RoleAdmin.Level())
	assert.Greater(t, RoleAdmin.Level(), RoleFinance.Level())
	assert.Equal(t, RoleFrontDesk.Level(), RoleMaintenance.Level())
	assert.Equal(t, 0, RoleNone.Level())
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleFinance, ParseRole(" Finance "))
	assert.Equal(t, RoleNone, ParseRole("superuser"))
	assert.Equal(t, RoleNone, ParseRole(""))
}

func TestScope_ResolveLocation(t *testing.T) {
	bristol := int64(1)
	cardiff := int64(2)

	t.Run("all-location roles keep the requested location", func(t *testing.T) {
		for _, role := range []Role{RoleManager, RoleFinance} {
			s := Scope{Role: role, LocationID: &bristol}
			got, err := s.ResolveLocation(&cardiff)
			require.NoError(t, err)
			assert.Equal(t, cardiff, *got)

			all, err := s.ResolveLocation(nil)
			require.NoError(t, err)
			assert.Nil(t, all)
		}
	})

	t.Run("scoped roles are pinned to their own location", func(t *testing.T) {
		s := Scope{Role: RoleFrontDesk, LocationID: &bristol}
		got, err := s.ResolveLocation(nil)
		require.NoError(t, err)
		assert.Equal(t, bristol, *got)
	})

	t.Run("scoped roles cannot ask for another location", func(t *testing.T) {
		s := Scope{Role: RoleAdmin, LocationID: &bristol}
		_, err := s.ResolveLocation(&cardiff)
		assert.True(t, errors.Is(err, shared.ErrForbidden))
		assert.False(t, s.CanAccessLocation(cardiff))
		assert.True(t, s.CanAccessLocation(bristol))
	})

	t.Run("accounts without a location are not pinned", func(t *testing.T) {
		s := Scope{Role: RoleGuest}
		got, err := s.ResolveLocation(&cardiff)
		require.NoError(t, err)
		assert.Equal(t, cardiff, *got)
	})
}

func TestScope_Require(t *testing.T) {
	s := Scope{Role: RoleFrontDesk}
	assert.NoError(t, s.Require(ResourceTenants, ActionCreate))

	err := s.Require(ResourcePayments, ActionCreate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrForbidden))
	assert.Contains(t, err.Error(), "frontdesk")
}
