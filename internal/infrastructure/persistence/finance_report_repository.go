package persistence

import (
	"context"
	"sort"
	"time"

	"github.com/paragon/backend/internal/domain/finance"
	"github.com/paragon/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormFinanceReportRepository implements ReportRepository using GORM
type GormFinanceReportRepository struct {
	db *gorm.DB
}

// NewGormFinanceReportRepository creates a new GormFinanceReportRepository
func NewGormFinanceReportRepository(db *gorm.DB) *GormFinanceReportRepository {
	return &GormFinanceReportRepository{db: db}
}

func (r *GormFinanceReportRepository) invoices(ctx context.Context, locationID *int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("invoices i").
		Joins("JOIN tenants t ON t.tenant_id = i.tenant_id").
		Joins(activeLeaseJoins).
		Scopes(locationScope("l.location_id", locationID))
}

func (r *GormFinanceReportRepository) payments(ctx context.Context, locationID *int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("payments p").
		Joins("JOIN invoices i ON i.invoice_id = p.invoice_id").
		Joins("JOIN tenants t ON t.tenant_id = i.tenant_id").
		Joins(activeLeaseJoins).
		Scopes(locationScope("l.location_id", locationID))
}

// Totals sums invoiced and collected amounts and counts late invoices
func (r *GormFinanceReportRepository) Totals(ctx context.Context, locationID *int64, asOf time.Time) (finance.Totals, error) {
	// Get total invoiced
	var invoiced decimal.Decimal
	if err := r.invoices(ctx, locationID).
		Select("COALESCE(ROUND(SUM(i.amount_due), 2), 0)").
		Scan(&invoiced).Error; err != nil {
		return finance.Totals{}, translateError(err)
	}

	// Get total collected
	var collected decimal.Decimal
	if err := r.payments(ctx, locationID).
		Select("COALESCE(ROUND(SUM(p.amount), 2), 0)").
		Scan(&collected).Error; err != nil {
		return finance.Totals{}, translateError(err)
	}

	// Get late unpaid count
	var late int64
	if err := r.invoices(ctx, locationID).
		Where("i.paid = 0 AND i.due_date < ?", dateArg(asOf)).
		Count(&late).Error; err != nil {
		return finance.Totals{}, translateError(err)
	}

	return finance.NewTotals(invoiced.Round(2), collected.Round(2), late), nil
}

type locationAmountRow struct {
	LocationID *int64
	City       *string
	Amount     decimal.Decimal
	Late       int64
}

// TotalsByLocation returns one Totals per location ordered by city. Every
// location is listed, and rows whose tenant has no active lease are
// grouped last as unassigned when there are any.
func (r *GormFinanceReportRepository) TotalsByLocation(ctx context.Context, asOf time.Time) ([]finance.LocationTotals, error) {
	var invoiced, collected []locationAmountRow
	if err := r.invoices(ctx, nil).
		Select(`l.location_id AS location_id, l.city AS city,
			COALESCE(ROUND(SUM(i.amount_due), 2), 0) AS amount,
			COALESCE(SUM(CASE WHEN i.paid = 0 AND i.due_date < ? THEN 1 ELSE 0 END), 0) AS late`, dateArg(asOf)).
		Group("l.location_id, l.city").
		Scan(&invoiced).Error; err != nil {
		return nil, translateError(err)
	}
	if err := r.payments(ctx, nil).
		Select("l.location_id AS location_id, l.city AS city, COALESCE(ROUND(SUM(p.amount), 2), 0) AS amount").
		Group("l.location_id, l.city").
		Scan(&collected).Error; err != nil {
		return nil, translateError(err)
	}

	var locations []struct {
		LocationID int64
		City       string
	}
	if err := r.db.WithContext(ctx).Table("locations").
		Select("location_id, city").
		Order("city ASC").
		Scan(&locations).Error; err != nil {
		return nil, translateError(err)
	}

	type acc struct {
		invoiced, collected decimal.Decimal
		late                int64
	}
	const unassigned = int64(-1)
	sums := make(map[int64]*acc)
	get := func(id *int64) *acc {
		key := unassigned
		if id != nil {
			key = *id
		}
		if sums[key] == nil {
			sums[key] = &acc{invoiced: decimal.Zero, collected: decimal.Zero}
		}
		return sums[key]
	}
	for _, row := range invoiced {
		a := get(row.LocationID)
		a.invoiced = a.invoiced.Add(row.Amount)
		a.late += row.Late
	}
	for _, row := range collected {
		a := get(row.LocationID)
		a.collected = a.collected.Add(row.Amount)
	}

	out := make([]finance.LocationTotals, 0, len(locations)+1)
	for _, loc := range locations {
		id := loc.LocationID
		a := get(&id)
		out = append(out, finance.LocationTotals{
			LocationID: &id,
			City:       loc.City,
			Totals:     finance.NewTotals(a.invoiced.Round(2), a.collected.Round(2), a.late),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].City < out[j].City })
	if a, ok := sums[unassigned]; ok {
		out = append(out, finance.LocationTotals{
			City:   finance.UnassignedCity,
			Totals: finance.NewTotals(a.invoiced.Round(2), a.collected.Round(2), a.late),
		})
	}
	return out, nil
}

type datedAmountRow struct {
	Date   string
	Amount decimal.Decimal
}

func toDatedAmounts(rows []datedAmountRow) []finance.DatedAmount {
	out := make([]finance.DatedAmount, 0, len(rows))
	for _, row := range rows {
		d, err := time.Parse(shared.DateLayout, row.Date)
		if err != nil {
			continue
		}
		out = append(out, finance.DatedAmount{Date: d, Amount: row.Amount})
	}
	return out
}

// SeriesData loads what a timeseries between q.Start and q.End needs:
// invoiced amounts by issue date, collected amounts by payment date and the
// due dates of unpaid invoices due no later than q.LateCutoff.
func (r *GormFinanceReportRepository) SeriesData(ctx context.Context, q finance.SeriesQuery) (finance.SeriesData, error) {
	start, end := dateArg(q.Start), dateArg(q.End)

	var invoiced []datedAmountRow
	if err := r.invoices(ctx, q.LocationID).
		Select("i.issue_date AS date, i.amount_due AS amount").
		Where("i.issue_date BETWEEN ? AND ?", start, end).
		Scan(&invoiced).Error; err != nil {
		return finance.SeriesData{}, translateError(err)
	}

	var collected []datedAmountRow
	if err := r.payments(ctx, q.LocationID).
		Select("p.payment_date AS date, p.amount AS amount").
		Where("p.payment_date BETWEEN ? AND ?", start, end).
		Scan(&collected).Error; err != nil {
		return finance.SeriesData{}, translateError(err)
	}

	var lateDue []string
	if err := r.invoices(ctx, q.LocationID).
		Where("i.paid = 0 AND i.due_date BETWEEN ? AND ? AND i.due_date <= ?", start, end, dateArg(q.LateCutoff)).
		Pluck("i.due_date", &lateDue).Error; err != nil {
		return finance.SeriesData{}, translateError(err)
	}

	data := finance.SeriesData{
		Invoiced:  toDatedAmounts(invoiced),
		Collected: toDatedAmounts(collected),
		LateDue:   make([]time.Time, 0, len(lateDue)),
	}
	for _, s := range lateDue {
		if d, err := time.Parse(shared.DateLayout, s); err == nil {
			data.LateDue = append(data.LateDue, d)
		}
	}
	return data, nil
}

// DateBounds returns the earliest and latest of every issue, due and
// payment date, both nil when there is no finance data.
func (r *GormFinanceReportRepository) DateBounds(ctx context.Context, locationID *int64) (*time.Time, *time.Time, error) {
	var loc any
	if locationID != nil {
		loc = *locationID
	}

	var row struct {
		Earliest *string
		Latest   *string
	}
	if err := r.db.WithContext(ctx).Raw(`
		SELECT MIN(d) AS earliest, MAX(d) AS latest FROM (
			SELECT i.issue_date AS d, l.location_id AS loc
			FROM invoices i JOIN tenants t ON t.tenant_id = i.tenant_id `+activeLeaseJoins+`
			UNION ALL
			SELECT i.due_date AS d, l.location_id AS loc
			FROM invoices i JOIN tenants t ON t.tenant_id = i.tenant_id `+activeLeaseJoins+`
			UNION ALL
			SELECT p.payment_date AS d, l.location_id AS loc
			FROM payments p JOIN invoices i ON i.invoice_id = p.invoice_id
			JOIN tenants t ON t.tenant_id = i.tenant_id `+activeLeaseJoins+`
		) WHERE @loc IS NULL OR loc = @loc`,
		map[string]any{"loc": loc}).
		Scan(&row).Error; err != nil {
		return nil, nil, translateError(err)
	}

	parse := func(s *string) *time.Time {
		if s == nil {
			return nil
		}
		d, err := time.Parse(shared.DateLayout, *s)
		if err != nil {
			return nil
		}
		return &d
	}
	return parse(row.Earliest), parse(row.Latest), nil
}

// Ensure GormFinanceReportRepository implements finance.ReportRepository
var _ finance.ReportRepository = (*GormFinanceReportRepository)(nil)
