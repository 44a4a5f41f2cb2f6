package finance

import "github.com/paragon/backend/internal/domain/shared"

// CreateInvoiceRequest carries a new invoice as typed by the user. Amounts
// and dates are raw input and validated by the service.
type CreateInvoiceRequest struct {
	TenantID  int64
	AmountDue string
	DueDate   string
	// IssueDate defaults to today when empty
	IssueDate string
}

// UpdateInvoiceRequest changes the money and dates of an invoice. Empty
// fields are left as they are.
type UpdateInvoiceRequest struct {
	AmountDue string
	DueDate   string
	IssueDate string
}

// InvoiceFilter selects invoices for listing
type InvoiceFilter struct {
	shared.Filter
	LocationID *int64
	TenantID   *int64
	Paid       *bool
}

// LateFilter selects late unpaid invoices. AsOf defaults to today.
type LateFilter struct {
	shared.Filter
	LocationID *int64
	AsOf       string
}

// RecordPaymentRequest settles an invoice. PaymentDate defaults to today.
type RecordPaymentRequest struct {
	InvoiceID   int64
	TenantID    int64
	Amount      string
	PaymentDate string
}

// PaymentFilter selects payments for listing
type PaymentFilter struct {
	shared.Filter
	LocationID *int64
	InvoiceID  *int64
}

// SummaryFilter selects the scope of a financial summary. AsOf, used for
// the late count, defaults to today.
type SummaryFilter struct {
	LocationID *int64
	AsOf       string
}

// TimeseriesFilter selects a bucketed finance history. Empty dates default
// to the span of the finance data.
type TimeseriesFilter struct {
	LocationID *int64
	Start      string
	End        string
	Grouping   string
}

// DateRange is the span of all finance dates, nil when there is no data
type DateRange struct {
	Earliest *string `json:"earliest"`
	Latest   *string `json:"latest"`
}
