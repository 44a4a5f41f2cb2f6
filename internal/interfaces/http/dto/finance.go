package dto

import (
	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/shared"
)

// CreateInvoiceRequest is the body of POST /finance/invoices. Amounts and
// dates stay strings so the domain validators see what the user typed.
type CreateInvoiceRequest struct {
	TenantID  int64  `json:"tenant_id" binding:"required,min=1"`
	AmountDue string `json:"amount_due" binding:"required"`
	DueDate   string `json:"due_date" binding:"required,calendar_date"`
	IssueDate string `json:"issue_date" binding:"omitempty,calendar_date"`
}

// RecordPaymentRequest is the body of POST /finance/invoices/:id/payments
type RecordPaymentRequest struct {
	TenantID    int64  `json:"tenant_id" binding:"required,min=1"`
	Amount      string `json:"amount" binding:"required"`
	PaymentDate string `json:"payment_date" binding:"omitempty,calendar_date"`
}

// InvoiceListRequest is the query of GET /finance/invoices
type InvoiceListRequest struct {
	ListRequest
	LocationID *int64 `form:"location_id" binding:"omitempty,min=1"`
	TenantID   *int64 `form:"tenant_id" binding:"omitempty,min=1"`
	Paid       *bool  `form:"paid"`
}

// LateListRequest is the query of GET /finance/invoices/late
type LateListRequest struct {
	ListRequest
	LocationID *int64 `form:"location_id" binding:"omitempty,min=1"`
	AsOf       string `form:"as_of" binding:"omitempty,calendar_date"`
}

// PaymentListRequest is the query of GET /finance/payments
type PaymentListRequest struct {
	ListRequest
	LocationID *int64 `form:"location_id" binding:"omitempty,min=1"`
	InvoiceID  *int64 `form:"invoice_id" binding:"omitempty,min=1"`
}

// SummaryRequest is the query of GET /finance/summary
type SummaryRequest struct {
	LocationID *int64 `form:"location_id" binding:"omitempty,min=1"`
	AsOf       string `form:"as_of" binding:"omitempty,calendar_date"`
}

// TimeseriesRequest is the query of GET /finance/timeseries
type TimeseriesRequest struct {
	LocationID *int64 `form:"location_id" binding:"omitempty,min=1"`
	Start      string `form:"start_date"`
	End        string `form:"end_date"`
	Grouping   string `form:"grouping"`
}

// InvoiceResponse is an invoice as returned by the API
type InvoiceResponse struct {
	ID         int64   `json:"invoice_id"`
	TenantID   int64   `json:"tenant_id"`
	TenantName string  `json:"tenant_name,omitempty"`
	LocationID *int64  `json:"location_id,omitempty"`
	City       *string `json:"city,omitempty"`
	AmountDue  string  `json:"amount_due"`
	DueDate    string  `json:"due_date"`
	IssueDate  string  `json:"issue_date"`
	Paid       bool    `json:"paid"`
}

// ToInvoiceResponse converts a domain invoice
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:        inv.ID,
		TenantID:  inv.TenantID,
		AmountDue: inv.AmountDue.StringFixed(2),
		DueDate:   shared.FormatDate(inv.DueDate),
		IssueDate: shared.FormatDate(inv.IssueDate),
		Paid:      inv.Paid,
	}
}

// ToInvoiceViewResponse converts a listed invoice with its tenant and location
func ToInvoiceViewResponse(v *finance.InvoiceView) InvoiceResponse {
	resp := ToInvoiceResponse(&v.Invoice)
	resp.TenantName = v.TenantName
	resp.LocationID = v.LocationID
	resp.City = v.City
	return resp
}

// PaymentResponse is a payment as returned by the API
type PaymentResponse struct {
	ID          int64   `json:"payment_id"`
	InvoiceID   int64   `json:"invoice_id"`
	TenantID    int64   `json:"tenant_id"`
	TenantName  string  `json:"tenant_name,omitempty"`
	LocationID  *int64  `json:"location_id,omitempty"`
	City        *string `json:"city,omitempty"`
	Amount      string  `json:"amount"`
	PaymentDate string  `json:"payment_date"`
}

// ToPaymentResponse converts a domain payment
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		TenantID:    p.TenantID,
		Amount:      p.Amount.StringFixed(2),
		PaymentDate: shared.FormatDate(p.PaymentDate),
	}
}

// ToPaymentViewResponse converts a listed payment
func ToPaymentViewResponse(v *finance.PaymentView) PaymentResponse {
	resp := ToPaymentResponse(&v.Payment)
	resp.TenantName = v.TenantName
	resp.LocationID = v.LocationID
	resp.City = v.City
	return resp
}
