package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/paragon/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type financeFixture struct {
	testutil.Fixture
	PaidInvoice, BristolLate, LondonUpcoming, UnassignedLate int64
	Payment                                                  int64
}

// seedFinance builds invoices across both locations and one tenant
// without an active lease:
//
//	PaidInvoice     Alice/Bristol  1000  due 2026-01-15  paid
//	BristolLate     Alice/Bristol   950  due 2026-02-15
//	LondonUpcoming  Bob/London     1400  due 2026-03-15
//	UnassignedLate  Carol           500  due 2026-02-01
func seedFinance(t *testing.T) (*testutil.TestDB, financeFixture) {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := financeFixture{Fixture: db.Seed()}
	f.PaidInvoice = db.Invoice(f.Alice, "1000", "2026-01-15", "2026-01-01", true)
	f.BristolLate = db.Invoice(f.Alice, "950", "2026-02-15", "2026-02-01", false)
	f.LondonUpcoming = db.Invoice(f.Bob, "1400", "2026-03-15", "2026-03-01", false)
	f.UnassignedLate = db.Invoice(f.Carol, "500", "2026-02-01", "2026-01-20", false)
	f.Payment = db.Payment(f.PaidInvoice, f.Alice, "1000", "2026-01-10")
	return db, f
}

func assertAmount(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func invoiceIDs(views []finance.InvoiceView) []int64 {
	ids := make([]int64, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	return ids
}

func TestGormInvoiceRepository_CreateAndFind(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := db.Seed()
	repo := NewGormInvoiceRepository(db.DB)
	ctx := context.Background()

	inv, err := finance.NewInvoice(f.Alice, decimal.RequireFromString("1250.50"),
		shared.MustParseDate("2026-04-01"), shared.MustParseDate("2026-03-01"))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, inv))
	assert.NotZero(t, inv.ID)

	found, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assertAmount(t, "1250.50", found.AmountDue)
	assert.Equal(t, "2026-04-01", shared.FormatDate(found.DueDate))
	assert.False(t, found.Paid)

	_, err = repo.FindByID(ctx, 999)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormInvoiceRepository_FindAll(t *testing.T) {
	db, f := seedFinance(t)
	repo := NewGormInvoiceRepository(db.DB)
	ctx := context.Background()

	t.Run("orders by due date desc across all locations", func(t *testing.T) {
		page, err := repo.FindAll(ctx, finance.InvoiceFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), page.Total)
		assert.Equal(t, []int64{f.LondonUpcoming, f.BristolLate, f.UnassignedLate, f.PaidInvoice}, invoiceIDs(page.Items))
	})

	t.Run("joins tenant and location", func(t *testing.T) {
		page, err := repo.FindAll(ctx, finance.InvoiceFilter{})
		require.NoError(t, err)
		byID := map[int64]finance.InvoiceView{}
		for _, v := range page.Items {
			byID[v.ID] = v
		}

		bristol := byID[f.BristolLate]
		assert.Equal(t, "Alice Smith", bristol.TenantName)
		require.NotNil(t, bristol.City)
		assert.Equal(t, "Bristol", *bristol.City)
		require.NotNil(t, bristol.LocationID)
		assert.Equal(t, f.Bristol, *bristol.LocationID)

		unassigned := byID[f.UnassignedLate]
		assert.Nil(t, unassigned.City)
		assert.Nil(t, unassigned.LocationID)
	})

	t.Run("location filter drops tenants without an active lease there", func(t *testing.T) {
		page, err := repo.FindAll(ctx, finance.InvoiceFilter{LocationID: &f.Bristol})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.BristolLate, f.PaidInvoice}, invoiceIDs(page.Items))
	})

	t.Run("paid filter", func(t *testing.T) {
		unpaid := false
		page, err := repo.FindAll(ctx, finance.InvoiceFilter{Paid: &unpaid})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.NotContains(t, invoiceIDs(page.Items), f.PaidInvoice)
	})

	t.Run("pagination keeps the total", func(t *testing.T) {
		page, err := repo.FindAll(ctx, finance.InvoiceFilter{Filter: shared.Filter{Page: 2, PageSize: 1}})
		require.NoError(t, err)
		assert.Equal(t, int64(4), page.Total)
		assert.Equal(t, 4, page.TotalPages)
		assert.Equal(t, []int64{f.BristolLate}, invoiceIDs(page.Items))
	})

	t.Run("whitelisted sort field overrides the natural order", func(t *testing.T) {
		page, err := repo.FindAll(ctx, finance.InvoiceFilter{Filter: shared.Filter{OrderBy: "amount_due", OrderDir: "asc"}})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.UnassignedLate, f.BristolLate, f.PaidInvoice, f.LondonUpcoming}, invoiceIDs(page.Items))
	})
}

func TestGormInvoiceRepository_FindLate(t *testing.T) {
	db, f := seedFinance(t)
	repo := NewGormInvoiceRepository(db.DB)
	ctx := context.Background()

	t.Run("returns unpaid invoices due before the date, oldest first", func(t *testing.T) {
		page, err := repo.FindLate(ctx, finance.LateFilter{AsOf: shared.MustParseDate("2026-03-01")})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.UnassignedLate, f.BristolLate}, invoiceIDs(page.Items))
	})

	t.Run("an invoice due on the date is not late", func(t *testing.T) {
		page, err := repo.FindLate(ctx, finance.LateFilter{AsOf: shared.MustParseDate("2026-02-15")})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.UnassignedLate}, invoiceIDs(page.Items))
	})

	t.Run("location filter", func(t *testing.T) {
		page, err := repo.FindLate(ctx, finance.LateFilter{LocationID: &f.Bristol, AsOf: shared.MustParseDate("2026-03-01")})
		require.NoError(t, err)
		assert.Equal(t, []int64{f.BristolLate}, invoiceIDs(page.Items))

		page, err = repo.FindLate(ctx, finance.LateFilter{LocationID: &f.London, AsOf: shared.MustParseDate("2026-03-01")})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})
}

func TestGormInvoiceRepository_Writes(t *testing.T) {
	db, f := seedFinance(t)
	repo := NewGormInvoiceRepository(db.DB)
	ctx := context.Background()

	t.Run("mark paid", func(t *testing.T) {
		require.NoError(t, repo.MarkPaid(ctx, f.BristolLate))
		inv, err := repo.FindByID(ctx, f.BristolLate)
		require.NoError(t, err)
		assert.True(t, inv.Paid)
	})

	t.Run("mark paid on a missing invoice", func(t *testing.T) {
		assert.True(t, errors.Is(repo.MarkPaid(ctx, 999), shared.ErrNotFound))
	})

	t.Run("update", func(t *testing.T) {
		inv, err := repo.FindByID(ctx, f.LondonUpcoming)
		require.NoError(t, err)
		inv.AmountDue = decimal.NewFromInt(1450)
		require.NoError(t, repo.Update(ctx, inv))

		inv, err = repo.FindByID(ctx, f.LondonUpcoming)
		require.NoError(t, err)
		assertAmount(t, "1450", inv.AmountDue)

		inv.ID = 999
		assert.True(t, errors.Is(repo.Update(ctx, inv), shared.ErrNotFound))
	})

	t.Run("delete is blocked by a payment", func(t *testing.T) {
		err := repo.Delete(ctx, f.PaidInvoice)
		assert.True(t, errors.Is(err, shared.ErrConstraintViolation))
	})

	t.Run("delete all after payments", func(t *testing.T) {
		n, err := NewGormPaymentRepository(db.DB).DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
		assert.Zero(t, db.Count("invoices"))
	})
}

func TestGormPaymentRepository(t *testing.T) {
	db, f := seedFinance(t)
	repo := NewGormPaymentRepository(db.DB)
	ctx := context.Background()

	t.Run("exists for invoice", func(t *testing.T) {
		exists, err := repo.ExistsForInvoice(ctx, f.PaidInvoice)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsForInvoice(ctx, f.BristolLate)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("create and list newest first", func(t *testing.T) {
		p := &finance.Payment{InvoiceID: f.LondonUpcoming, TenantID: f.Bob,
			PaymentDate: shared.MustParseDate("2026-03-05"), Amount: decimal.NewFromInt(1400)}
		require.NoError(t, repo.Create(ctx, p))
		assert.NotZero(t, p.ID)

		page, err := repo.FindAll(ctx, finance.PaymentFilter{})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, p.ID, page.Items[0].ID)
		require.NotNil(t, page.Items[0].City)
		assert.Equal(t, "London", *page.Items[0].City)
		assert.Equal(t, "Bob Jones", page.Items[0].TenantName)

		page, err = repo.FindAll(ctx, finance.PaymentFilter{LocationID: &f.Bristol})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, f.Payment, page.Items[0].ID)
	})

	t.Run("payment for a missing invoice violates the foreign key", func(t *testing.T) {
		err := repo.Create(ctx, &finance.Payment{InvoiceID: 999, TenantID: f.Bob,
			PaymentDate: shared.MustParseDate("2026-03-05"), Amount: decimal.NewFromInt(1)})
		assert.True(t, errors.Is(err, shared.ErrConstraintViolation))
	})
}

func TestPaymentLocationFollowsInvoiceTenant(t *testing.T) {
	db, f := seedFinance(t)
	ctx := context.Background()
	// Bristol invoice whose payment row names Bob, who leases in London
	stray := db.Payment(f.BristolLate, f.Bob, "950", "2026-02-20")

	page, err := NewGormPaymentRepository(db.DB).FindAll(ctx, finance.PaymentFilter{LocationID: &f.London})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = NewGormPaymentRepository(db.DB).FindAll(ctx, finance.PaymentFilter{LocationID: &f.Bristol})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, stray, page.Items[0].ID)
	assert.Equal(t, "Alice Smith", page.Items[0].TenantName)

	totals, err := NewGormFinanceReportRepository(db.DB).Totals(ctx, &f.London, shared.MustParseDate("2026-03-01"))
	require.NoError(t, err)
	assertAmount(t, "0", totals.TotalCollected)
}

func TestGormFinanceReportRepository_Totals(t *testing.T) {
	db, f := seedFinance(t)
	repo := NewGormFinanceReportRepository(db.DB)
	ctx := context.Background()
	asOf := shared.MustParseDate("2026-03-01")

	t.Run("all locations", func(t *testing.T) {
		totals, err := repo.Totals(ctx, nil, asOf)
		require.NoError(t, err)
		assertAmount(t, "3850", totals.TotalInvoiced)
		assertAmount(t, "1000", totals.TotalCollected)
		assertAmount(t, "2850", totals.Outstanding)
		assert.Equal(t, int64(2), totals.LateCount)
	})

	t.Run("one location", func(t *testing.T) {
		totals, err := repo.Totals(ctx, &f.Bristol, asOf)
		require.NoError(t, err)
		assertAmount(t, "1950", totals.TotalInvoiced)
		assertAmount(t, "1000", totals.TotalCollected)
		assertAmount(t, "950", totals.Outstanding)
		assert.Equal(t, int64(1), totals.LateCount)
	})

	t.Run("grouped by location with unassigned last", func(t *testing.T) {
		groups, err := repo.TotalsByLocation(ctx, asOf)
		require.NoError(t, err)
		require.Len(t, groups, 3)

		assert.Equal(t, "Bristol", groups[0].City)
		assertAmount(t, "1950", groups[0].TotalInvoiced)
		assert.Equal(t, int64(1), groups[0].LateCount)

		assert.Equal(t, "London", groups[1].City)
		assertAmount(t, "1400", groups[1].TotalInvoiced)
		assertAmount(t, "0", groups[1].TotalCollected)

		assert.Equal(t, finance.UnassignedCity, groups[2].City)
		assert.Nil(t, groups[2].LocationID)
		assertAmount(t, "500", groups[2].Outstanding)
	})

	t.Run("empty store sums to zero", func(t *testing.T) {
		empty := testutil.NewTestDB(t)
		totals, err := NewGormFinanceReportRepository(empty.DB).Totals(ctx, nil, asOf)
		require.NoError(t, err)
		assert.True(t, totals.TotalInvoiced.IsZero())
		assert.True(t, totals.Outstanding.IsZero())
		assert.Zero(t, totals.LateCount)
	})
}

func TestGormFinanceReportRepository_Series(t *testing.T) {
	db, f := seedFinance(t)
	repo := NewGormFinanceReportRepository(db.DB)
	ctx := context.Background()

	data, err := repo.SeriesData(ctx, finance.SeriesQuery{
		Start:      shared.MustParseDate("2026-01-01"),
		End:        shared.MustParseDate("2026-03-31"),
		LateCutoff: shared.MustParseDate("2026-03-01"),
	})
	require.NoError(t, err)
	assert.Len(t, data.Invoiced, 4)
	require.Len(t, data.Collected, 1)
	assert.Equal(t, "2026-01-10", shared.FormatDate(data.Collected[0].Date))
	assert.Len(t, data.LateDue, 2)

	data, err = repo.SeriesData(ctx, finance.SeriesQuery{
		LocationID: &f.London,
		Start:      shared.MustParseDate("2026-01-01"),
		End:        shared.MustParseDate("2026-03-31"),
		LateCutoff: shared.MustParseDate("2026-03-31"),
	})
	require.NoError(t, err)
	require.Len(t, data.Invoiced, 1)
	assertAmount(t, "1400", data.Invoiced[0].Amount)
	assert.Len(t, data.LateDue, 1)
}

func TestGormFinanceReportRepository_DateBounds(t *testing.T) {
	db, f := seedFinance(t)
	repo := NewGormFinanceReportRepository(db.DB)
	ctx := context.Background()

	earliest, latest, err := repo.DateBounds(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, earliest)
	require.NotNil(t, latest)
	assert.Equal(t, "2026-01-01", shared.FormatDate(*earliest))
	assert.Equal(t, "2026-03-15", shared.FormatDate(*latest))

	earliest, latest, err = repo.DateBounds(ctx, &f.London)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", shared.FormatDatePtr(earliest))
	assert.Equal(t, "2026-03-15", shared.FormatDatePtr(latest))

	empty := testutil.NewTestDB(t)
	earliest, latest, err = NewGormFinanceReportRepository(empty.DB).DateBounds(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, earliest)
	assert.Nil(t, latest)
}
