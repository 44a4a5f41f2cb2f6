package models

import (
	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice domain entity.
type InvoiceModel struct {
	ID        int64           `gorm:"column:invoice_id;primaryKey;autoIncrement"`
	TenantID  int64           `gorm:"column:tenant_id;not null"`
	AmountDue decimal.Decimal `gorm:"column:amount_due;not null"`
	DueDate   string          `gorm:"column:due_date;not null"`
	IssueDate string          `gorm:"column:issue_date;not null"`
	Paid      bool            `gorm:"column:paid;not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	return &finance.Invoice{
		BaseEntity: shared.BaseEntity{ID: m.ID},
		TenantID:   m.TenantID,
		AmountDue:  m.AmountDue,
		DueDate:    fromDate(m.DueDate),
		IssueDate:  fromDate(m.IssueDate),
		Paid:       m.Paid,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(i *finance.Invoice) {
	m.ID = i.ID
	m.TenantID = i.TenantID
	m.AmountDue = i.AmountDue
	m.DueDate = toDate(i.DueDate)
	m.IssueDate = toDate(i.IssueDate)
	m.Paid = i.Paid
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(i *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}

// InvoiceViewRow is one row of the invoice listing join
type InvoiceViewRow struct {
	InvoiceModel
	TenantName string  `gorm:"column:tenant_name"`
	LocationID *int64  `gorm:"column:location_id"`
	City       *string `gorm:"column:city"`
}

// ToDomain converts the joined row to a domain InvoiceView.
func (r *InvoiceViewRow) ToDomain() finance.InvoiceView {
	return finance.InvoiceView{
		Invoice:    *r.InvoiceModel.ToDomain(),
		TenantName: r.TenantName,
		LocationID: r.LocationID,
		City:       r.City,
	}
}

// PaymentModel is the persistence model for the Payment domain entity.
type PaymentModel struct {
	ID          int64           `gorm:"column:payment_id;primaryKey;autoIncrement"`
	InvoiceID   int64           `gorm:"column:invoice_id;not null"`
	TenantID    int64           `gorm:"column:tenant_id;not null"`
	PaymentDate string          `gorm:"column:payment_date;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *finance.Payment {
	return &finance.Payment{
		BaseEntity:  shared.BaseEntity{ID: m.ID},
		InvoiceID:   m.InvoiceID,
		TenantID:    m.TenantID,
		PaymentDate: fromDate(m.PaymentDate),
		Amount:      m.Amount,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *finance.Payment) {
	m.ID = p.ID
	m.InvoiceID = p.InvoiceID
	m.TenantID = p.TenantID
	m.PaymentDate = toDate(p.PaymentDate)
	m.Amount = p.Amount
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// PaymentViewRow is one row of the payment listing join
type PaymentViewRow struct {
	PaymentModel
	TenantName string  `gorm:"column:tenant_name"`
	LocationID *int64  `gorm:"column:location_id"`
	City       *string `gorm:"column:city"`
}

// ToDomain converts the joined row to a domain PaymentView.
func (r *PaymentViewRow) ToDomain() finance.PaymentView {
	return finance.PaymentView{
		Payment:    *r.PaymentModel.ToDomain(),
		TenantName: r.TenantName,
		LocationID: r.LocationID,
		City:       r.City,
	}
}
