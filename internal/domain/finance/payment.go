package finance

import (
	"time"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Payment settles an invoice. An invoice has at most one payment.
type Payment struct {
	shared.BaseEntity
	InvoiceID   int64
	TenantID    int64
	PaymentDate time.Time
	Amount      decimal.Decimal
}

// PaymentView is a payment enriched like InvoiceView
type PaymentView struct {
	Payment
	TenantName string
	LocationID *int64
	City       *string
}
