package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/domain/tenancy"
	"github.com/paragon/backend/internal/domain/validation"
	"go.uber.org/zap"
)

// Service handles invoicing, payment recording and finance reporting
type Service struct {
	invoices finance.InvoiceRepository
	payments finance.PaymentRepository
	reports  finance.ReportRepository
	tenants  tenancy.TenantRepository
	uow      finance.UnitOfWork
	logger   *zap.Logger
	clock    shared.Clock
	pageSize int
}

// Option configures a Service
type Option func(*Service)

// WithClock sets the clock used for "today"
func WithClock(clock shared.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithPageSize sets the page size used when a filter leaves it at zero
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n != 0 {
			s.pageSize = n
		}
	}
}

// NewService creates a new finance Service
func NewService(
	invoices finance.InvoiceRepository,
	payments finance.PaymentRepository,
	reports finance.ReportRepository,
	tenants tenancy.TenantRepository,
	uow finance.UnitOfWork,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		invoices: invoices,
		payments: payments,
		reports:  reports,
		tenants:  tenants,
		uow:      uow,
		logger:   logger,
		clock:    shared.SystemClock,
		pageSize: shared.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() time.Time {
	return shared.Today(s.clock)
}

func (s *Service) page(f shared.Filter) shared.Filter {
	if f.PageSize == 0 {
		f.PageSize = s.pageSize
	}
	return f
}

// dateOr parses an optional date field, returning def when it is blank
func dateOr(field, raw string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	d, r := validation.ParseDate(raw)
	if err := r.Err(field); err != nil {
		return time.Time{}, err
	}
	return d, nil
}

// CreateInvoice validates and stores a new unpaid invoice
func (s *Service) CreateInvoice(ctx context.Context, scope identity.Scope, req CreateInvoiceRequest) (*finance.Invoice, error) {
	if err := scope.Require(identity.ResourceInvoices, identity.ActionCreate); err != nil {
		return nil, err
	}

	amount, r := validation.ParseAmount(req.AmountDue, true)
	if err := r.Err("amount_due"); err != nil {
		return nil, err
	}
	due, r := validation.ParseDate(req.DueDate)
	if err := r.Err("due_date"); err != nil {
		return nil, err
	}
	issued, err := dateOr("issue_date", req.IssueDate, s.today())
	if err != nil {
		return nil, err
	}

	invoice, err := finance.NewInvoice(req.TenantID, amount, due, issued)
	if err != nil {
		return nil, err
	}
	if _, err := s.tenants.FindByID(ctx, req.TenantID); err != nil {
		return nil, err
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.logger.Info("Invoice created",
		zap.Int64("invoice_id", invoice.ID),
		zap.Int64("tenant_id", invoice.TenantID),
		zap.String("amount_due", invoice.AmountDue.StringFixed(2)),
		zap.String("user", scope.Username))
	return invoice, nil
}

// GetInvoice returns one invoice
func (s *Service) GetInvoice(ctx context.Context, scope identity.Scope, id int64) (*finance.Invoice, error) {
	if err := scope.Require(identity.ResourceInvoices, identity.ActionRead); err != nil {
		return nil, err
	}
	return s.invoices.FindByID(ctx, id)
}

// UpdateInvoice changes the amount and dates of an invoice
func (s *Service) UpdateInvoice(ctx context.Context, scope identity.Scope, id int64, req UpdateInvoiceRequest) (*finance.Invoice, error) {
	if err := scope.Require(identity.ResourceInvoices, identity.ActionUpdate); err != nil {
		return nil, err
	}

	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.AmountDue) != "" {
		amount, r := validation.ParseAmount(req.AmountDue, true)
		if err := r.Err("amount_due"); err != nil {
			return nil, err
		}
		invoice.AmountDue = amount
	}
	if invoice.DueDate, err = dateOr("due_date", req.DueDate, invoice.DueDate); err != nil {
		return nil, err
	}
	if invoice.IssueDate, err = dateOr("issue_date", req.IssueDate, invoice.IssueDate); err != nil {
		return nil, err
	}
	if err := invoice.Validate(); err != nil {
		return nil, err
	}

	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// DeleteInvoice removes an invoice. An invoice with a payment is protected by the store.
func (s *Service) DeleteInvoice(ctx context.Context, scope identity.Scope, id int64) error {
	if err := scope.Require(identity.ResourceInvoices, identity.ActionDelete); err != nil {
		return err
	}
	if err := s.invoices.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Invoice deleted", zap.Int64("invoice_id", id), zap.String("user", scope.Username))
	return nil
}

// ListInvoices lists invoices newest due date first
func (s *Service) ListInvoices(ctx context.Context, scope identity.Scope, filter InvoiceFilter) (shared.Paginated[finance.InvoiceView], error) {
	if err := scope.Require(identity.ResourceInvoices, identity.ActionRead); err != nil {
		return shared.Paginated[finance.InvoiceView]{}, err
	}
	location, err := scope.ResolveLocation(filter.LocationID)
	if err != nil {
		return shared.Paginated[finance.InvoiceView]{}, err
	}
	return s.invoices.FindAll(ctx, finance.InvoiceFilter{
		Filter:     s.page(filter.Filter),
		LocationID: location,
		TenantID:   filter.TenantID,
		Paid:       filter.Paid,
	})
}

// ListLateUnpaid lists unpaid invoices due before AsOf, oldest first
func (s *Service) ListLateUnpaid(ctx context.Context, scope identity.Scope, filter LateFilter) (shared.Paginated[finance.InvoiceView], error) {
	if err := scope.Require(identity.ResourceInvoices, identity.ActionRead); err != nil {
		return shared.Paginated[finance.InvoiceView]{}, err
	}
	location, err := scope.ResolveLocation(filter.LocationID)
	if err != nil {
		return shared.Paginated[finance.InvoiceView]{}, err
	}
	asOf, err := dateOr("as_of", filter.AsOf, s.today())
	if err != nil {
		return shared.Paginated[finance.InvoiceView]{}, err
	}
	return s.invoices.FindLate(ctx, finance.LateFilter{
		Filter:     s.page(filter.Filter),
		LocationID: location,
		AsOf:       asOf,
	})
}

// RecordPayment settles an invoice with its single payment. The checks and
// both writes run in one transaction:
//  1. the invoice must exist
//  2. it must belong to the paying tenant
//  3. it must not be marked paid
//  4. no payment row may exist for it yet
func (s *Service) RecordPayment(ctx context.Context, scope identity.Scope, req RecordPaymentRequest) (*finance.Payment, error) {
	if err := scope.Require(identity.ResourcePayments, identity.ActionCreate); err != nil {
		return nil, err
	}
	if req.InvoiceID <= 0 {
		return nil, shared.NewValidationError("invoice_id", "invoice is required")
	}
	if req.TenantID <= 0 {
		return nil, shared.NewValidationError("tenant_id", "tenant is required")
	}
	amount, r := validation.ParseAmount(req.Amount, true)
	if err := r.Err("amount"); err != nil {
		return nil, err
	}
	paidOn, err := dateOr("payment_date", req.PaymentDate, s.today())
	if err != nil {
		return nil, err
	}

	var payment *finance.Payment
	err = s.uow.Execute(ctx, func(repos finance.Repositories) error {
		invoice, err := repos.Invoices().FindByID(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		if invoice.TenantID != req.TenantID {
			return shared.NewValidationError("tenant_id",
				fmt.Sprintf("invoice %d does not belong to tenant %d", invoice.ID, req.TenantID))
		}
		if err := invoice.MarkPaid(); err != nil {
			return err
		}
		exists, err := repos.Payments().ExistsForInvoice(ctx, invoice.ID)
		if err != nil {
			return err
		}
		if exists {
			return finance.NewDuplicatePaymentError(invoice.ID)
		}

		payment = &finance.Payment{
			InvoiceID:   invoice.ID,
			TenantID:    invoice.TenantID,
			PaymentDate: paidOn,
			Amount:      amount,
		}
		if err := repos.Payments().Create(ctx, payment); err != nil {
			return err
		}
		return repos.Invoices().MarkPaid(ctx, invoice.ID)
	})
	if err != nil {
		s.logger.Warn("Payment rejected",
			zap.Int64("invoice_id", req.InvoiceID),
			zap.Int64("tenant_id", req.TenantID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Payment recorded",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("invoice_id", payment.InvoiceID),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("user", scope.Username))
	return payment, nil
}

// ListPayments lists payments newest first
func (s *Service) ListPayments(ctx context.Context, scope identity.Scope, filter PaymentFilter) (shared.Paginated[finance.PaymentView], error) {
	if err := scope.Require(identity.ResourcePayments, identity.ActionRead); err != nil {
		return shared.Paginated[finance.PaymentView]{}, err
	}
	location, err := scope.ResolveLocation(filter.LocationID)
	if err != nil {
		return shared.Paginated[finance.PaymentView]{}, err
	}
	return s.payments.FindAll(ctx, finance.PaymentFilter{
		Filter:     s.page(filter.Filter),
		LocationID: location,
		InvoiceID:  filter.InvoiceID,
	})
}

// FinancialSummary totals invoices and payments. Without a location the
// totals are also broken down per location.
func (s *Service) FinancialSummary(ctx context.Context, scope identity.Scope, filter SummaryFilter) (*finance.Summary, error) {
	if err := scope.Require(identity.ResourceReports, identity.ActionView); err != nil {
		return nil, err
	}
	location, err := scope.ResolveLocation(filter.LocationID)
	if err != nil {
		return nil, err
	}
	asOf, err := dateOr("as_of", filter.AsOf, s.today())
	if err != nil {
		return nil, err
	}

	totals, err := s.reports.Totals(ctx, location, asOf)
	if err != nil {
		return nil, err
	}
	summary := &finance.Summary{Totals: totals}
	if location == nil {
		if summary.ByLocation, err = s.reports.TotalsByLocation(ctx, asOf); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// CollectedTimeseries buckets invoiced and collected amounts and late
// counts over a date range
func (s *Service) CollectedTimeseries(ctx context.Context, scope identity.Scope, filter TimeseriesFilter) (*finance.Timeseries, error) {
	if err := scope.Require(identity.ResourceReports, identity.ActionView); err != nil {
		return nil, err
	}
	location, err := scope.ResolveLocation(filter.LocationID)
	if err != nil {
		return nil, err
	}
	grouping, err := finance.ParseGrouping(filter.Grouping)
	if err != nil {
		return nil, err
	}

	today := s.today()
	start, end := time.Time{}, time.Time{}
	if strings.TrimSpace(filter.Start) == "" || strings.TrimSpace(filter.End) == "" {
		earliest, latest, err := s.reports.DateBounds(ctx, location)
		if err != nil {
			return nil, err
		}
		start, end = finance.DefaultRange(earliest, latest, grouping, today)
	}
	if start, err = dateOr("start_date", filter.Start, start); err != nil {
		return nil, err
	}
	if end, err = dateOr("end_date", filter.End, end); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, shared.NewValidationError("start_date", "start date must be on or before end date")
	}

	cutoff := end
	if today.Before(cutoff) {
		cutoff = today
	}
	data, err := s.reports.SeriesData(ctx, finance.SeriesQuery{
		LocationID: location,
		Start:      start,
		End:        end,
		LateCutoff: cutoff,
	})
	if err != nil {
		return nil, err
	}
	return finance.BuildTimeseries(start, end, grouping, data)
}

// DateRange returns the earliest and latest finance dates
func (s *Service) DateRange(ctx context.Context, scope identity.Scope, locationID *int64) (*DateRange, error) {
	if err := scope.Require(identity.ResourceReports, identity.ActionView); err != nil {
		return nil, err
	}
	location, err := scope.ResolveLocation(locationID)
	if err != nil {
		return nil, err
	}
	earliest, latest, err := s.reports.DateBounds(ctx, location)
	if err != nil {
		return nil, err
	}
	out := &DateRange{}
	if earliest != nil {
		e := shared.FormatDate(*earliest)
		out.Earliest = &e
	}
	if latest != nil {
		l := shared.FormatDate(*latest)
		out.Latest = &l
	}
	return out, nil
}
