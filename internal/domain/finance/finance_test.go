package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time { return shared.MustParseDate(s) }

func TestNewInvoice(t *testing.T) {
	t.Run("creates unpaid invoice", func(t *testing.T) {
		inv, err := NewInvoice(1, decimal.NewFromInt(950), d("2026-02-01"), d("2026-01-15"))
		require.NoError(t, err)
		assert.False(t, inv.Paid)
	})

	t.Run("rejects zero and negative amounts", func(t *testing.T) {
		for _, amount := range []int64{0, -10} {
			_, err := NewInvoice(1, decimal.NewFromInt(amount), d("2026-02-01"), d("2026-01-15"))
			assert.True(t, errors.Is(err, shared.ErrValidation))
		}
	})
}

func TestInvoice_MarkPaid(t *testing.T) {
	inv, err := NewInvoice(1, decimal.NewFromInt(10), d("2026-02-01"), d("2026-01-15"))
	require.NoError(t, err)
	inv.ID = 7

	require.NoError(t, inv.MarkPaid())
	err = inv.MarkPaid()
	assert.True(t, errors.Is(err, ErrAlreadyPaid))
	assert.Contains(t, err.Error(), "7")
}

func TestInvoice_IsLate(t *testing.T) {
	inv, err := NewInvoice(1, decimal.NewFromInt(10), d("2026-02-01"), d("2026-01-15"))
	require.NoError(t, err)

	assert.False(t, inv.IsLate(d("2026-02-01")), "due today is not late")
	assert.True(t, inv.IsLate(d("2026-02-02")))
	inv.Paid = true
	assert.False(t, inv.IsLate(d("2026-03-01")))
}

func TestNewTotals(t *testing.T) {
	totals := NewTotals(decimal.NewFromInt(300), decimal.NewFromInt(120), 2)
	assert.True(t, decimal.NewFromInt(180).Equal(totals.Outstanding))
}

func TestGrouping(t *testing.T) {
	t.Run("parses aliases", func(t *testing.T) {
		g, err := ParseGrouping("Weekly")
		require.NoError(t, err)
		assert.Equal(t, GroupByWeek, g)

		_, err = ParseGrouping("daily")
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("weeks start on monday", func(t *testing.T) {
		// 2026-03-08 is a Sunday
		assert.Equal(t, d("2026-03-02"), GroupByWeek.BucketStart(d("2026-03-08")))
		assert.Equal(t, d("2026-03-09"), GroupByWeek.BucketStart(d("2026-03-09")))
	})

	t.Run("labels", func(t *testing.T) {
		assert.Equal(t, "2nd March 2026", GroupByWeek.Label(d("2026-03-02")))
		assert.Equal(t, "11th May 2026", GroupByWeek.Label(d("2026-05-11")))
		assert.Equal(t, "March 2026", GroupByMonth.Label(d("2026-03-01")))
		assert.Equal(t, "2026", GroupByYear.Label(d("2026-01-01")))
	})
}

func TestBuildTimeseries(t *testing.T) {
	data := SeriesData{
		Invoiced: []DatedAmount{
			{Date: d("2026-02-10"), Amount: decimal.NewFromInt(100)},
			{Date: d("2026-02-20"), Amount: decimal.NewFromInt(50)},
			{Date: d("2026-04-05"), Amount: decimal.NewFromInt(70)},
		},
		Collected: []DatedAmount{{Date: d("2026-02-25"), Amount: decimal.NewFromInt(100)}},
		LateDue:   []time.Time{d("2026-04-01")},
	}

	t.Run("buckets and trims the zero edges", func(t *testing.T) {
		ts, err := BuildTimeseries(d("2026-01-01"), d("2026-06-30"), GroupByMonth, data)
		require.NoError(t, err)
		require.Len(t, ts.Series, 3)

		assert.Equal(t, d("2026-02-01"), ts.Series[0].PeriodStart)
		assert.True(t, decimal.NewFromInt(150).Equal(ts.Series[0].TotalInvoiced))
		assert.True(t, decimal.NewFromInt(100).Equal(ts.Series[0].TotalCollected))

		assert.True(t, ts.Series[1].isZero(), "interior gap is kept")

		assert.Equal(t, int64(1), ts.Series[2].LateCount)
		assert.True(t, decimal.NewFromInt(70).Equal(ts.Series[2].TotalInvoiced))
	})

	t.Run("ignores rows outside the range", func(t *testing.T) {
		ts, err := BuildTimeseries(d("2026-02-15"), d("2026-02-28"), GroupByMonth, data)
		require.NoError(t, err)
		require.Len(t, ts.Series, 1)
		assert.True(t, decimal.NewFromInt(50).Equal(ts.Series[0].TotalInvoiced))
	})

	t.Run("keeps one bucket when everything is zero", func(t *testing.T) {
		ts, err := BuildTimeseries(d("2024-01-01"), d("2025-12-31"), GroupByYear, SeriesData{})
		require.NoError(t, err)
		require.Len(t, ts.Series, 1)
		assert.Equal(t, d("2024-01-01"), ts.Series[0].PeriodStart)
	})

	t.Run("rejects start after end", func(t *testing.T) {
		_, err := BuildTimeseries(d("2026-03-01"), d("2026-02-01"), GroupByMonth, data)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestDefaultRange(t *testing.T) {
	today := d("2026-03-10")

	start, end := DefaultRange(nil, nil, GroupByMonth, today)
	assert.Equal(t, d("2026-01-01"), start)
	assert.Equal(t, today, end)

	earliest, latest := d("2025-11-19"), d("2026-02-03")
	start, end = DefaultRange(&earliest, &latest, GroupByWeek, today)
	assert.Equal(t, d("2025-11-17"), start)
	assert.Equal(t, latest, end)
}
