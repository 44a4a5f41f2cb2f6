package identity

import (
	"fmt"

	"github.com/paragon/backend/internal/domain/shared"
)

// Scope is the caller's identity as seen by the application services: who
// is asking, with which role, and which location they are pinned to. It is
// passed explicitly into every service call.
type Scope struct {
	UserID     int64
	Username   string
	Role       Role
	LocationID *int64
}

// SystemScope is an all-locations manager scope used by tooling such as the seeder
func SystemScope() Scope {
	return Scope{Username: "system", Role: RoleManager}
}

// NewScope builds the scope of an authenticated user
func NewScope(u *User) Scope {
	return Scope{
		UserID:     u.ID,
		Username:   u.Username,
		Role:       u.Role,
		LocationID: u.LocationID,
	}
}

// Can reports whether the scope's role allows action on resource
func (s Scope) Can(resource Resource, action Action) bool {
	return s.Role.Can(resource, action)
}

// Require returns a forbidden error unless the scope allows action on resource
func (s Scope) Require(resource Resource, action Action) error {
	if s.Can(resource, action) {
		return nil
	}
	role := string(s.Role)
	if role == "" {
		role = "none"
	}
	return shared.NewForbiddenError(fmt.Sprintf(
		"role '%s' does not have permission to '%s' on '%s'", role, action, resource))
}

// CanAccessLocation reports whether the scope may see data of locationID.
// Managers and finance see every location; everyone else only their own.
func (s Scope) CanAccessLocation(locationID int64) bool {
	if s.Role.SeesAllLocations() || s.LocationID == nil {
		return true
	}
	return *s.LocationID == locationID
}

// ResolveLocation turns the location a caller asked for into the one the
// query must use. Location-scoped accounts are pinned to their own
// location; asking for another one is forbidden.
func (s Scope) ResolveLocation(requested *int64) (*int64, error) {
	if s.Role.SeesAllLocations() || s.LocationID == nil {
		return requested, nil
	}
	if requested != nil && *requested != *s.LocationID {
		return nil, shared.NewForbiddenError(fmt.Sprintf("no access to location %d", *requested))
	}
	own := *s.LocationID
	return &own, nil
}
