package finance

import (
	"context"
	"time"

	"github.com/paragon/backend/internal/domain/shared"
)

// InvoiceFilter defines filtering options for invoice queries.
// LocationID matches through the tenant's active lease.
type InvoiceFilter struct {
	shared.Filter
	LocationID *int64
	TenantID   *int64
	Paid       *bool
}

// LateFilter selects unpaid invoices due strictly before AsOf
type LateFilter struct {
	shared.Filter
	LocationID *int64
	AsOf       time.Time
}

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	LocationID *int64
	InvoiceID  *int64
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id int64) (*Invoice, error)
	// FindAll orders by due date desc, id desc
	FindAll(ctx context.Context, filter InvoiceFilter) (shared.Paginated[InvoiceView], error)
	// FindLate orders by due date asc, id asc
	FindLate(ctx context.Context, filter LateFilter) (shared.Paginated[InvoiceView], error)
	Update(ctx context.Context, invoice *Invoice) error
	// MarkPaid sets paid=true and returns NotFound when no row changed
	MarkPaid(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	// DeleteAll removes every invoice and returns how many went
	DeleteAll(ctx context.Context) (int64, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id int64) (*Payment, error)
	ExistsForInvoice(ctx context.Context, invoiceID int64) (bool, error)
	// FindAll orders by payment date desc, id desc
	FindAll(ctx context.Context, filter PaymentFilter) (shared.Paginated[PaymentView], error)
	DeleteAll(ctx context.Context) (int64, error)
}

// SeriesQuery selects the rows feeding a timeseries. LateCutoff caps the
// due dates counted as late.
type SeriesQuery struct {
	LocationID *int64
	Start      time.Time
	End        time.Time
	LateCutoff time.Time
}

// ReportRepository runs the aggregate finance queries
type ReportRepository interface {
	// Totals sums invoices and payments for one location, or all when nil
	Totals(ctx context.Context, locationID *int64, asOf time.Time) (Totals, error)
	// TotalsByLocation groups the all-locations totals, unassigned rows last
	TotalsByLocation(ctx context.Context, asOf time.Time) ([]LocationTotals, error)
	SeriesData(ctx context.Context, q SeriesQuery) (SeriesData, error)
	// DateBounds returns the earliest and latest issue, due or payment date
	DateBounds(ctx context.Context, locationID *int64) (earliest, latest *time.Time, err error)
}

// Repositories are the finance repositories bound to one transaction
type Repositories interface {
	Invoices() InvoiceRepository
	Payments() PaymentRepository
}

// UnitOfWork runs fn in a single store transaction. If fn returns an error
// every write it made is rolled back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
