package finance

import (
	"time"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/validation"
	"github.com/shopspring/decimal"
)

// Invoice is an amount a tenant owes by a due date
type Invoice struct {
	shared.BaseEntity
	TenantID  int64
	AmountDue decimal.Decimal
	DueDate   time.Time
	IssueDate time.Time
	Paid      bool
}

// NewInvoice creates an unpaid invoice. The amount must be strictly positive.
func NewInvoice(tenantID int64, amountDue decimal.Decimal, dueDate, issueDate time.Time) (*Invoice, error) {
	inv := &Invoice{
		TenantID:  tenantID,
		AmountDue: amountDue,
		DueDate:   shared.DateOf(dueDate),
		IssueDate: shared.DateOf(issueDate),
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Validate checks the invoice fields
func (i *Invoice) Validate() error {
	if i.TenantID <= 0 {
		return shared.NewValidationError("tenant_id", "tenant is required")
	}
	if i.DueDate.IsZero() {
		return shared.NewValidationError("due_date", "due date is required")
	}
	return validation.CheckAmount(i.AmountDue, true).Err("amount_due")
}

// MarkPaid flags the invoice as settled
func (i *Invoice) MarkPaid() error {
	if i.Paid {
		return NewAlreadyPaidError(i.ID)
	}
	i.Paid = true
	return nil
}

// IsLate reports whether the invoice is unpaid and its due date is strictly before asOf
func (i *Invoice) IsLate(asOf time.Time) bool {
	return !i.Paid && i.DueDate.Before(shared.DateOf(asOf))
}

// InvoiceView is an invoice enriched with the tenant's name and the
// location inferred from the tenant's active lease. City and LocationID are
// nil for tenants without an active lease.
type InvoiceView struct {
	Invoice
	TenantName string
	LocationID *int64
	City       *string
}
