package identity

import "strings"

// Role is the tag stored on a user account
type Role string

const (
	RoleManager     Role = "manager"
	RoleAdmin       Role = "admin"
	RoleFinance     Role = "finance"
	RoleFrontDesk   Role = "frontdesk"
	RoleMaintenance Role = "maintenance"
	RoleGuest       Role = "guest"
	// RoleNone is an account without a role; it has no permissions
	RoleNone Role = ""
)

// Resource is a permission target
type Resource string

const (
	ResourceUsers       Resource = "users"
	ResourceLocations   Resource = "locations"
	ResourceApartments  Resource = "apartments"
	ResourceTenants     Resource = "tenants"
	ResourceLeases      Resource = "leases"
	ResourceInvoices    Resource = "invoices"
	ResourcePayments    Resource = "payments"
	ResourceMaintenance Resource = "maintenance"
	ResourceComplaints  Resource = "complaints"
	ResourceReports     Resource = "reports"
)

// Action is an operation on a resource
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionView   Action = "view"
	ActionExport Action = "export"
)

var (
	crud     = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
	cru      = []Action{ActionCreate, ActionRead, ActionUpdate}
	readOnly = []Action{ActionRead}
	reports  = []Action{ActionView, ActionExport}
)

var roleHierarchy = map[Role]int{
	RoleManager:     5,
	RoleAdmin:       4,
	RoleFinance:     3,
	RoleFrontDesk:   2,
	RoleMaintenance: 2,
	RoleGuest:       1,
	RoleNone:        0,
}

var rolePermissions = map[Role]map[Resource][]Action{
	RoleManager: {
		ResourceUsers:       crud,
		ResourceLocations:   crud,
		ResourceApartments:  crud,
		ResourceTenants:     crud,
		ResourceLeases:      crud,
		ResourceInvoices:    crud,
		ResourcePayments:    crud,
		ResourceMaintenance: crud,
		ResourceComplaints:  crud,
		ResourceReports:     reports,
	},
	RoleAdmin: {
		ResourceUsers:       cru,
		ResourceLocations:   readOnly,
		ResourceApartments:  crud,
		ResourceTenants:     crud,
		ResourceLeases:      crud,
		ResourceInvoices:    cru,
		ResourcePayments:    cru,
		ResourceMaintenance: crud,
		ResourceComplaints:  crud,
		ResourceReports:     reports,
	},
	RoleFinance: {
		ResourceLocations:  readOnly,
		ResourceApartments: readOnly,
		ResourceTenants:    readOnly,
		ResourceLeases:     readOnly,
		ResourceInvoices:   crud,
		ResourcePayments:   crud,
		ResourceReports:    reports,
	},
	RoleFrontDesk: {
		ResourceLocations:   readOnly,
		ResourceApartments:  readOnly,
		ResourceTenants:     cru,
		ResourceLeases:      {ActionCreate, ActionRead},
		ResourceInvoices:    readOnly,
		ResourcePayments:    readOnly,
		ResourceMaintenance: {ActionCreate, ActionRead},
		ResourceComplaints:  {ActionCreate, ActionRead},
	},
	RoleMaintenance: {
		ResourceLocations:   readOnly,
		ResourceApartments:  readOnly,
		ResourceTenants:     readOnly,
		ResourceMaintenance: {ActionRead, ActionUpdate},
		ResourceComplaints:  readOnly,
	},
	RoleGuest: {
		ResourceLocations:   readOnly,
		ResourceApartments:  readOnly,
		ResourceTenants:     readOnly,
		ResourceLeases:      readOnly,
		ResourceInvoices:    readOnly,
		ResourcePayments:    readOnly,
		ResourceMaintenance: readOnly,
		ResourceComplaints:  readOnly,
	},
}

// ParseRole normalises a stored role tag. Unknown tags map to RoleNone.
func ParseRole(s string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rolePermissions[r]; ok {
		return r
	}
	return RoleNone
}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Level returns the role's position in the hierarchy, higher is more privileged
func (r Role) Level() int {
	return roleHierarchy[r]
}

// Can reports whether the role may perform action on resource
func (r Role) Can(resource Resource, action Action) bool {
	for _, a := range rolePermissions[r][resource] {
		if a == action {
			return true
		}
	}
	return false
}

// AllowedActions lists the actions the role has on resource
func (r Role) AllowedActions(resource Resource) []Action {
	actions := rolePermissions[r][resource]
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// SeesAllLocations reports whether the role is exempt from location scoping
func (r Role) SeesAllLocations() bool {
	return r == RoleManager || r == RoleFinance
}

// AllRoles returns the known roles ordered from most to least privileged
func AllRoles() []Role {
	return []Role{RoleManager, RoleAdmin, RoleFinance, RoleFrontDesk, RoleMaintenance, RoleGuest}
}
