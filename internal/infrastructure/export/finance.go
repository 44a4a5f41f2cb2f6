package export

import (
	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var invoiceColumns = []Column{
	{Header: "Invoice ID", Width: 12},
	{Header: "Tenant", Width: 24},
	{Header: "City", Width: 14},
	{Header: "Amount Due", Width: 14, Money: true},
	{Header: "Issue Date", Width: 13},
	{Header: "Due Date", Width: 13},
	{Header: "Paid", Width: 8},
}

var paymentColumns = []Column{
	{Header: "Payment ID", Width: 12},
	{Header: "Invoice ID", Width: 12},
	{Header: "Tenant", Width: 24},
	{Header: "City", Width: 14},
	{Header: "Amount", Width: 14, Money: true},
	{Header: "Payment Date", Width: 14},
}

var totalsColumns = []Column{
	{Header: "Location", Width: 16},
	{Header: "Total Invoiced", Width: 16, Money: true},
	{Header: "Total Collected", Width: 16, Money: true},
	{Header: "Outstanding", Width: 16, Money: true},
	{Header: "Late Invoices", Width: 14},
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func city(c *string) string {
	if c == nil {
		return finance.UnassignedCity
	}
	return *c
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// InvoiceSheet lays out an invoice listing
func InvoiceSheet(name string, invoices []finance.InvoiceView) Sheet {
	rows := make([][]any, len(invoices))
	for i, inv := range invoices {
		rows[i] = []any{
			inv.ID,
			inv.TenantName,
			city(inv.City),
			money(inv.AmountDue),
			shared.FormatDate(inv.IssueDate),
			shared.FormatDate(inv.DueDate),
			yesNo(inv.Paid),
		}
	}
	return Sheet{Name: name, Columns: invoiceColumns, Rows: rows}
}

// PaymentSheet lays out a payment listing
func PaymentSheet(payments []finance.PaymentView) Sheet {
	rows := make([][]any, len(payments))
	for i, p := range payments {
		rows[i] = []any{
			p.ID,
			p.InvoiceID,
			p.TenantName,
			city(p.City),
			money(p.Amount),
			shared.FormatDate(p.PaymentDate),
		}
	}
	return Sheet{Name: "Payments", Columns: paymentColumns, Rows: rows}
}

// SummarySheet lays out the headline totals followed by one row per location
func SummarySheet(label string, summary *finance.Summary) Sheet {
	totalsRow := func(name string, t finance.Totals) []any {
		return []any{name, money(t.TotalInvoiced), money(t.TotalCollected), money(t.Outstanding), t.LateCount}
	}
	rows := [][]any{totalsRow(label, summary.Totals)}
	for _, loc := range summary.ByLocation {
		rows = append(rows, totalsRow(loc.City, loc.Totals))
	}
	return Sheet{Name: "Summary", Columns: totalsColumns, Rows: rows}
}
