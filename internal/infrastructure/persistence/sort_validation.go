package persistence

import (
	"strings"

	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// The whitelist maps the public field name to the column it sorts on.
// Returns the empty string if the input is empty or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]string) string {
	return allowedFields[strings.TrimSpace(sortField)]
}

// orderBy applies the caller's sort when it names a whitelisted field and
// falls back to the listing's natural order otherwise. The natural order is
// always appended so ties stay deterministic.
func orderBy(query *gorm.DB, field, dir string, allowed map[string]string, natural string) *gorm.DB {
	if column := ValidateSortField(field, allowed); column != "" {
		query = query.Order(column + " " + ValidateSortOrder(dir))
	}
	return query.Order(natural)
}

// paginate applies the filter's page window unless all rows were asked for
func paginate(query *gorm.DB, offset, pageSize int) *gorm.DB {
	if pageSize < 0 {
		return query
	}
	return query.Offset(offset).Limit(pageSize)
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]string{
	"id":          "users.user_id",
	"username":    "users.username",
	"role":        "users.role",
	"location_id": "users.location_id",
}

// LocationSortFields contains allowed sort fields for locations
var LocationSortFields = map[string]string{
	"id":   "locations.location_id",
	"city": "locations.city",
}

// ApartmentSortFields contains allowed sort fields for apartments
var ApartmentSortFields = map[string]string{
	"id":           "apartments.apartment_id",
	"address":      "apartments.apartment_address",
	"beds":         "apartments.number_of_beds",
	"monthly_rent": "apartments.monthly_rent",
	"occupied":     "apartments.occupied",
}

// TenantSortFields contains allowed sort fields for tenants
var TenantSortFields = map[string]string{
	"id":           "t.tenant_id",
	"name":         "t.name",
	"email":        "t.email",
	"credit_check": "t.credit_check",
}

// LeaseSortFields contains allowed sort fields for leases
var LeaseSortFields = map[string]string{
	"id":           "lease_agreements.lease_id",
	"start_date":   "lease_agreements.start_date",
	"end_date":     "lease_agreements.end_date",
	"monthly_rent": "lease_agreements.monthly_rent",
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]string{
	"id":          "i.invoice_id",
	"amount_due":  "i.amount_due",
	"due_date":    "i.due_date",
	"issue_date":  "i.issue_date",
	"tenant_name": "t.name",
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]string{
	"id":           "p.payment_id",
	"amount":       "p.amount",
	"payment_date": "p.payment_date",
	"tenant_name":  "t.name",
}

// MaintenanceSortFields contains allowed sort fields for maintenance requests
var MaintenanceSortFields = map[string]string{
	"id":             "m.request_id",
	"priority":       "m.priority_level",
	"reported_date":  "m.reported_date",
	"scheduled_date": "m.scheduled_date",
	"cost":           "m.cost",
}
