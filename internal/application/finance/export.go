package finance

import (
	"context"
	"io"
	"strings"

	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/export"
	"go.uber.org/zap"
)

// Report names a workbook the finance service can export
type Report string

const (
	ReportInvoices Report = "invoices"
	ReportLate     Report = "late"
	ReportPayments Report = "payments"
	ReportSummary  Report = "summary"
)

// ParseReport validates a report name
func ParseReport(s string) (Report, error) {
	switch r := Report(strings.ToLower(strings.TrimSpace(s))); r {
	case ReportInvoices, ReportLate, ReportPayments, ReportSummary:
		return r, nil
	}
	return "", shared.NewValidationError("report", "report must be one of invoices, late, payments, summary")
}

// ExportRequest selects what to export. AsOf applies to late and summary.
type ExportRequest struct {
	Report     Report
	LocationID *int64
	AsOf       string
}

// Export writes the requested report as an xlsx workbook to w. Listings
// are exported whole, not paged.
func (s *Service) Export(ctx context.Context, scope identity.Scope, req ExportRequest, w io.Writer) error {
	if err := scope.Require(identity.ResourceReports, identity.ActionExport); err != nil {
		return err
	}
	all := shared.Filter{Page: 1, PageSize: shared.Unpaged}

	var sheet export.Sheet
	switch req.Report {
	case ReportInvoices:
		page, err := s.ListInvoices(ctx, scope, InvoiceFilter{Filter: all, LocationID: req.LocationID})
		if err != nil {
			return err
		}
		sheet = export.InvoiceSheet("Invoices", page.Items)
	case ReportLate:
		page, err := s.ListLateUnpaid(ctx, scope, LateFilter{Filter: all, LocationID: req.LocationID, AsOf: req.AsOf})
		if err != nil {
			return err
		}
		sheet = export.InvoiceSheet("Late Unpaid", page.Items)
	case ReportPayments:
		page, err := s.ListPayments(ctx, scope, PaymentFilter{Filter: all, LocationID: req.LocationID})
		if err != nil {
			return err
		}
		sheet = export.PaymentSheet(page.Items)
	case ReportSummary:
		summary, err := s.FinancialSummary(ctx, scope, SummaryFilter{LocationID: req.LocationID, AsOf: req.AsOf})
		if err != nil {
			return err
		}
		sheet = export.SummarySheet("All locations", summary)
	default:
		return shared.NewValidationError("report", "unknown report '"+string(req.Report)+"'")
	}

	if err := export.Write(w, sheet); err != nil {
		return err
	}
	s.logger.Info("Finance report exported",
		zap.String("report", string(req.Report)),
		zap.Int("rows", len(sheet.Rows)),
		zap.String("user", scope.Username))
	return nil
}
