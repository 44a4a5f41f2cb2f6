package finance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/identity"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/infrastructure/persistence"
	"github.com/paragon/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedToday = shared.MustParseDate("2026-03-10")

func fixedClock() time.Time { return fixedToday }

type serviceEnv struct {
	db  *testutil.TestDB
	f   testutil.Fixture
	svc *Service
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	return newServiceEnvOn(t, testutil.NewTestDB(t))
}

func newServiceEnvOn(t *testing.T, db *testutil.TestDB) *serviceEnv {
	t.Helper()
	svc := NewService(
		persistence.NewGormInvoiceRepository(db.DB),
		persistence.NewGormPaymentRepository(db.DB),
		persistence.NewGormFinanceReportRepository(db.DB),
		persistence.NewGormTenantRepository(db.DB),
		persistence.NewGormFinanceUnitOfWork(db.DB),
		nil,
		WithClock(fixedClock),
	)
	return &serviceEnv{db: db, f: db.Seed(), svc: svc}
}

func managerScope() identity.Scope {
	return identity.Scope{UserID: 1, Username: "manager", Role: identity.RoleManager}
}

func TestService_CreateInvoice(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	t.Run("defaults issue date to today", func(t *testing.T) {
		invoice, err := env.svc.CreateInvoice(ctx, managerScope(), CreateInvoiceRequest{
			TenantID: env.f.Alice, AmountDue: "950.00", DueDate: "2026-04-01",
		})
		require.NoError(t, err)
		assert.NotZero(t, invoice.ID)
		assert.False(t, invoice.Paid)
		assert.Equal(t, "2026-03-10", shared.FormatDate(invoice.IssueDate))
	})

	t.Run("accepts day-first dates", func(t *testing.T) {
		invoice, err := env.svc.CreateInvoice(ctx, managerScope(), CreateInvoiceRequest{
			TenantID: env.f.Bob, AmountDue: "1400", DueDate: "15/04/2026", IssueDate: "01/04/2026",
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-04-15", shared.FormatDate(invoice.DueDate))
		assert.Equal(t, "2026-04-01", shared.FormatDate(invoice.IssueDate))
	})

	t.Run("rejects non-positive amounts and bad dates", func(t *testing.T) {
		for _, req := range []CreateInvoiceRequest{
			{TenantID: env.f.Alice, AmountDue: "0", DueDate: "2026-04-01"},
			{TenantID: env.f.Alice, AmountDue: "-5", DueDate: "2026-04-01"},
			{TenantID: env.f.Alice, AmountDue: "abc", DueDate: "2026-04-01"},
			{TenantID: env.f.Alice, AmountDue: "10", DueDate: "2026-13-01"},
			{TenantID: env.f.Alice, AmountDue: "10", DueDate: "2026-04-01", IssueDate: "soon"},
		} {
			_, err := env.svc.CreateInvoice(ctx, managerScope(), req)
			assert.True(t, errors.Is(err, shared.ErrValidation), "%+v", req)
		}
	})

	t.Run("unknown tenant is not found", func(t *testing.T) {
		_, err := env.svc.CreateInvoice(ctx, managerScope(), CreateInvoiceRequest{
			TenantID: 999, AmountDue: "10", DueDate: "2026-04-01",
		})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("front desk cannot create invoices", func(t *testing.T) {
		_, err := env.svc.CreateInvoice(ctx, identity.Scope{Role: identity.RoleFrontDesk, LocationID: &env.f.Bristol},
			CreateInvoiceRequest{TenantID: env.f.Alice, AmountDue: "10", DueDate: "2026-04-01"})
		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})
}

func TestService_RecordPayment(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	scope := managerScope()

	t.Run("records payment and marks invoice paid", func(t *testing.T) {
		invoiceID := env.db.Invoice(env.f.Alice, "950", "2026-03-01", "2026-02-15", false)
		payment, err := env.svc.RecordPayment(ctx, scope, RecordPaymentRequest{
			InvoiceID: invoiceID, TenantID: env.f.Alice, Amount: "950",
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-03-10", shared.FormatDate(payment.PaymentDate))

		invoice, err := env.svc.GetInvoice(ctx, scope, invoiceID)
		require.NoError(t, err)
		assert.True(t, invoice.Paid)

		invoices, err := env.svc.ListInvoices(ctx, scope, InvoiceFilter{
			Filter: shared.Filter{PageSize: shared.Unpaged}, TenantID: &env.f.Alice,
		})
		require.NoError(t, err)
		var listed bool
		for _, v := range invoices.Items {
			if v.ID == invoiceID {
				listed = true
				assert.True(t, v.Paid)
			}
		}
		assert.True(t, listed, "invoice %d missing from the listing", invoiceID)

		payments, err := env.svc.ListPayments(ctx, scope, PaymentFilter{InvoiceID: &invoiceID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), payments.Total)
		require.Len(t, payments.Items, 1)
		assert.Equal(t, payment.ID, payments.Items[0].ID)

		t.Run("second payment is rejected as already paid", func(t *testing.T) {
			_, err := env.svc.RecordPayment(ctx, scope, RecordPaymentRequest{
				InvoiceID: invoiceID, TenantID: env.f.Alice, Amount: "950",
			})
			assert.True(t, errors.Is(err, finance.ErrAlreadyPaid))
		})
	})

	t.Run("existing payment row blocks an unpaid invoice", func(t *testing.T) {
		invoiceID := env.db.Invoice(env.f.Bob, "1400", "2026-03-01", "2026-02-15", false)
		env.db.Payment(invoiceID, env.f.Bob, "1400", "2026-02-20")
		before := env.db.Count("payments")

		_, err := env.svc.RecordPayment(ctx, scope, RecordPaymentRequest{
			InvoiceID: invoiceID, TenantID: env.f.Bob, Amount: "1400",
		})
		assert.True(t, errors.Is(err, finance.ErrDuplicatePayment))
		assert.Equal(t, before, env.db.Count("payments"))

		invoice, err := env.svc.GetInvoice(ctx, scope, invoiceID)
		require.NoError(t, err)
		assert.False(t, invoice.Paid)
	})

	t.Run("tenant mismatch is a validation error", func(t *testing.T) {
		invoiceID := env.db.Invoice(env.f.Alice, "950", "2026-04-01", "2026-03-01", false)
		_, err := env.svc.RecordPayment(ctx, scope, RecordPaymentRequest{
			InvoiceID: invoiceID, TenantID: env.f.Bob, Amount: "950",
		})
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
		assert.Equal(t, "tenant_id", domainErr.Field)
	})

	t.Run("missing invoice is not found", func(t *testing.T) {
		_, err := env.svc.RecordPayment(ctx, scope, RecordPaymentRequest{
			InvoiceID: 999, TenantID: env.f.Alice, Amount: "1",
		})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("invalid amount never opens a transaction", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		svc := NewService(nil, nil, nil, nil, uow, nil)
		for _, amount := range []string{"", "0", "-1", "x"} {
			_, err := svc.RecordPayment(ctx, scope, RecordPaymentRequest{InvoiceID: 1, TenantID: 1, Amount: amount})
			assert.True(t, errors.Is(err, shared.ErrValidation), amount)
		}
		uow.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("transaction errors are returned unchanged", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		uow.On("Execute", mock.Anything, mock.Anything).Return(shared.NewConnectionError("disk I/O error"))
		svc := NewService(nil, nil, nil, nil, uow, nil)

		_, err := svc.RecordPayment(ctx, scope, RecordPaymentRequest{InvoiceID: 1, TenantID: 1, Amount: "10"})
		assert.True(t, errors.Is(err, shared.ErrConnection))
		uow.AssertExpectations(t)
	})
}

func TestService_RecordPaymentRace(t *testing.T) {
	env := newServiceEnvOn(t, testutil.NewFileTestDB(t, 4))
	ctx := context.Background()
	invoiceID := env.db.Invoice(env.f.Alice, "950", "2026-03-01", "2026-02-15", false)

	const callers = 20
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.RecordPayment(ctx, managerScope(), RecordPaymentRequest{
				InvoiceID: invoiceID, TenantID: env.f.Alice, Amount: "950",
			})
		}(i)
	}
	wg.Wait()

	var ok, alreadyPaid int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, finance.ErrAlreadyPaid):
			alreadyPaid++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, alreadyPaid)
	assert.Equal(t, int64(1), env.db.Count("payments"))

	invoice, err := env.svc.GetInvoice(ctx, managerScope(), invoiceID)
	require.NoError(t, err)
	assert.True(t, invoice.Paid)
}

func TestService_Listings(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	late := env.db.Invoice(env.f.Alice, "950", "2026-02-15", "2026-02-01", false)
	dueToday := env.db.Invoice(env.f.Bob, "1400", "2026-03-10", "2026-03-01", false)
	env.db.Invoice(env.f.Bob, "1400", "2026-04-10", "2026-04-01", false)

	t.Run("late list uses the clock", func(t *testing.T) {
		page, err := env.svc.ListLateUnpaid(ctx, managerScope(), LateFilter{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, late, page.Items[0].ID)

		page, err = env.svc.ListLateUnpaid(ctx, managerScope(), LateFilter{AsOf: "2026-03-11"})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, dueToday, page.Items[1].ID)
	})

	t.Run("scoped roles are pinned to their location", func(t *testing.T) {
		desk := identity.Scope{Role: identity.RoleFrontDesk, LocationID: &env.f.London}
		page, err := env.svc.ListInvoices(ctx, desk, InvoiceFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)

		_, err = env.svc.ListInvoices(ctx, desk, InvoiceFilter{LocationID: &env.f.Bristol})
		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})

	t.Run("configured page size applies", func(t *testing.T) {
		svc := NewService(
			persistence.NewGormInvoiceRepository(env.db.DB), nil, nil, nil, nil, nil,
			WithPageSize(2),
		)
		page, err := svc.ListInvoices(ctx, managerScope(), InvoiceFilter{})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("payments need read access", func(t *testing.T) {
		_, err := env.svc.ListPayments(ctx, identity.Scope{Role: identity.RoleMaintenance}, PaymentFilter{})
		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})
}

func TestService_Reports(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	paid := env.db.Invoice(env.f.Alice, "950", "2026-01-15", "2026-01-01", true)
	env.db.Payment(paid, env.f.Alice, "950", "2026-01-10")
	env.db.Invoice(env.f.Bob, "1400", "2026-02-15", "2026-02-01", false)
	env.db.Invoice(env.f.Carol, "500", "2026-03-20", "2026-03-05", false)

	t.Run("summary for all locations is grouped", func(t *testing.T) {
		summary, err := env.svc.FinancialSummary(ctx, managerScope(), SummaryFilter{})
		require.NoError(t, err)
		assert.Equal(t, "2850", summary.TotalInvoiced.String())
		assert.Equal(t, "950", summary.TotalCollected.String())
		assert.Equal(t, "1900", summary.Outstanding.String())
		assert.Equal(t, int64(1), summary.LateCount)

		require.Len(t, summary.ByLocation, 3)
		assert.Equal(t, "Bristol", summary.ByLocation[0].City)
		assert.Equal(t, finance.UnassignedCity, summary.ByLocation[2].City)
		assert.Nil(t, summary.ByLocation[2].LocationID)
	})

	t.Run("summary for one location has no breakdown", func(t *testing.T) {
		summary, err := env.svc.FinancialSummary(ctx, managerScope(), SummaryFilter{LocationID: &env.f.London})
		require.NoError(t, err)
		assert.Equal(t, "1400", summary.TotalInvoiced.String())
		assert.Empty(t, summary.ByLocation)
	})

	t.Run("timeseries defaults to the data span", func(t *testing.T) {
		ts, err := env.svc.CollectedTimeseries(ctx, managerScope(), TimeseriesFilter{Grouping: "monthly"})
		require.NoError(t, err)
		assert.Equal(t, "2026-01-01", shared.FormatDate(ts.Start))
		require.Len(t, ts.Series, 3)
		assert.Equal(t, "January 2026", ts.Series[0].Label)
		assert.Equal(t, "950", ts.Series[0].TotalCollected.String())
		assert.Equal(t, int64(1), ts.Series[1].LateCount)
		assert.Zero(t, ts.Series[2].LateCount)
	})

	t.Run("timeseries rejects inverted ranges", func(t *testing.T) {
		_, err := env.svc.CollectedTimeseries(ctx, managerScope(), TimeseriesFilter{
			Start: "2026-03-01", End: "2026-01-01", Grouping: "week",
		})
		assert.True(t, errors.Is(err, shared.ErrValidation))

		_, err = env.svc.CollectedTimeseries(ctx, managerScope(), TimeseriesFilter{Grouping: "daily"})
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("date range", func(t *testing.T) {
		r, err := env.svc.DateRange(ctx, managerScope(), nil)
		require.NoError(t, err)
		require.NotNil(t, r.Earliest)
		assert.Equal(t, "2026-01-01", *r.Earliest)
		assert.Equal(t, "2026-03-20", *r.Latest)
	})

	t.Run("front desk cannot view reports", func(t *testing.T) {
		_, err := env.svc.FinancialSummary(ctx, identity.Scope{Role: identity.RoleFrontDesk}, SummaryFilter{})
		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})
}

func TestService_UpdateAndDeleteInvoice(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()
	invoiceID := env.db.Invoice(env.f.Alice, "950", "2026-03-01", "2026-02-15", false)

	invoice, err := env.svc.UpdateInvoice(ctx, managerScope(), invoiceID, UpdateInvoiceRequest{AmountDue: "975.50"})
	require.NoError(t, err)
	assert.Equal(t, "975.5", invoice.AmountDue.String())
	assert.Equal(t, "2026-03-01", shared.FormatDate(invoice.DueDate))

	_, err = env.svc.UpdateInvoice(ctx, managerScope(), invoiceID, UpdateInvoiceRequest{AmountDue: "0"})
	assert.True(t, errors.Is(err, shared.ErrValidation))

	env.db.Payment(invoiceID, env.f.Alice, "975.50", "2026-03-02")
	err = env.svc.DeleteInvoice(ctx, managerScope(), invoiceID)
	assert.True(t, errors.Is(err, shared.ErrConstraintViolation))

	err = env.svc.DeleteInvoice(ctx, identity.Scope{Role: identity.RoleAdmin}, invoiceID)
	assert.True(t, errors.Is(err, shared.ErrForbidden))
}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Execute(ctx context.Context, fn func(repos finance.Repositories) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}
