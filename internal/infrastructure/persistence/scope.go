package persistence

import "gorm.io/gorm"

// activeLeaseJoins resolves a tenant's location through its most recent
// active lease. It expects the tenants table aliased as t and exposes la,
// a and l. Tenants without an active lease keep NULL location columns.
const activeLeaseJoins = `LEFT JOIN lease_agreements la ON la.lease_id = (
		SELECT MAX(x.lease_id) FROM lease_agreements x
		WHERE x.tenant_id = t.tenant_id AND x.active = 1)
	LEFT JOIN apartments a ON a.apartment_id = la.apartment_id
	LEFT JOIN locations l ON l.location_id = a.location_id`

// locationScope restricts a query to rows whose column equals locationID.
// A nil location leaves the query untouched, which is the all-locations view.
func locationScope(column string, locationID *int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if locationID == nil {
			return db
		}
		return db.Where(column+" = ?", *locationID)
	}
}

// eqScope adds column = value when value is set
func eqScope[T any](column string, value *T) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == nil {
			return db
		}
		return db.Where(column+" = ?", *value)
	}
}
