package finance

import (
	"fmt"

	"github.com/paragon/backend/internal/domain/shared"
)

// Finance error codes
const (
	CodeAlreadyPaid      = "ALREADY_PAID"
	CodeDuplicatePayment = "DUPLICATE_PAYMENT"
)

var (
	// ErrAlreadyPaid matches any attempt to pay an invoice marked paid
	ErrAlreadyPaid = shared.NewDomainError(CodeAlreadyPaid, "Invoice is already paid")
	// ErrDuplicatePayment matches any attempt to record a second payment for an invoice
	ErrDuplicatePayment = shared.NewDomainError(CodeDuplicatePayment, "A payment already exists for this invoice")
)

// NewAlreadyPaidError names the invoice that is already paid
func NewAlreadyPaidError(invoiceID int64) *shared.DomainError {
	return shared.NewDomainError(CodeAlreadyPaid, fmt.Sprintf("invoice %d is already marked as paid", invoiceID))
}

// NewDuplicatePaymentError names the invoice that already has a payment
func NewDuplicatePaymentError(invoiceID int64) *shared.DomainError {
	return shared.NewDomainError(CodeDuplicatePayment,
		fmt.Sprintf("a payment has already been recorded for invoice %d", invoiceID))
}
