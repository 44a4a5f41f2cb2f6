package finance

import "github.com/shopspring/decimal"

// Totals are the headline finance figures for a set of invoices and payments
type Totals struct {
	TotalInvoiced  decimal.Decimal `json:"total_invoiced"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	LateCount      int64           `json:"late_invoice_count"`
}

// NewTotals derives Outstanding from invoiced and collected
func NewTotals(invoiced, collected decimal.Decimal, late int64) Totals {
	return Totals{
		TotalInvoiced:  invoiced,
		TotalCollected: collected,
		Outstanding:    invoiced.Sub(collected),
		LateCount:      late,
	}
}

// LocationTotals are Totals for one location. LocationID is nil for the
// group of rows whose tenant has no active lease.
type LocationTotals struct {
	LocationID *int64 `json:"location_id"`
	City       string `json:"city"`
	Totals
}

// UnassignedCity labels the group without a resolvable location
const UnassignedCity = "Unassigned"

// Summary is the financial summary for one location or all of them.
// ByLocation is only filled for the all-locations view.
type Summary struct {
	Totals
	ByLocation []LocationTotals `json:"by_location,omitempty"`
}
