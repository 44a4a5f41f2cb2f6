package property

import (
	"errors"
	"testing"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	l, err := NewLocation("  bristol ", "Broad Quay, Bristol BS1 4DJ")
	require.NoError(t, err)
	assert.Equal(t, "Bristol", l.City)

	_, err = NewLocation("", "somewhere")
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestIsAllLocations(t *testing.T) {
	for _, s := range []string{"", "all", "All Locations", " ALL "} {
		assert.True(t, IsAllLocations(s), s)
	}
	assert.False(t, IsAllLocations("London"))
}

func TestNewApartment(t *testing.T) {
	a, err := NewApartment(1, "12 Harbourside", 2, decimal.NewFromInt(950))
	require.NoError(t, err)
	assert.False(t, a.Occupied)

	_, err = NewApartment(1, "12 Harbourside", 2, decimal.NewFromInt(-1))
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "monthly_rent", domainErr.Field)

	_, err = NewApartment(0, "x", 1, decimal.Zero)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}
