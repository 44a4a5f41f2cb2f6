package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/paragon/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Grouping is the bucket size of a finance timeseries
type Grouping string

const (
	GroupByWeek  Grouping = "week"
	GroupByMonth Grouping = "month"
	GroupByYear  Grouping = "year"
)

// ParseGrouping accepts week/weekly, month/monthly and year/yearly
func ParseGrouping(s string) (Grouping, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "weekly":
		return GroupByWeek, nil
	case "", "month", "monthly":
		return GroupByMonth, nil
	case "year", "yearly":
		return GroupByYear, nil
	}
	return "", shared.NewValidationError("grouping", "grouping must be week, month or year")
}

// BucketStart returns the first day of the bucket containing d.
// Weeks start on Monday.
func (g Grouping) BucketStart(d time.Time) time.Time {
	d = shared.DateOf(d)
	switch g {
	case GroupByWeek:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case GroupByYear:
		return time.Date(d.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the start of the bucket after the one starting at b
func (g Grouping) Next(b time.Time) time.Time {
	switch g {
	case GroupByWeek:
		return b.AddDate(0, 0, 7)
	case GroupByYear:
		return b.AddDate(1, 0, 0)
	default:
		return b.AddDate(0, 1, 0)
	}
}

// Label renders a bucket start for display: "3rd March 2025", "March 2025" or "2025"
func (g Grouping) Label(b time.Time) string {
	switch g {
	case GroupByWeek:
		return fmt.Sprintf("%s %s %d", ordinal(b.Day()), b.Month(), b.Year())
	case GroupByYear:
		return fmt.Sprintf("%d", b.Year())
	default:
		return fmt.Sprintf("%s %d", b.Month(), b.Year())
	}
}

func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// DatedAmount is one money movement on a day
type DatedAmount struct {
	Date   time.Time
	Amount decimal.Decimal
}

// SeriesData is the raw material of a timeseries. Invoiced is keyed by issue
// date, Collected by payment date and LateDue holds due dates of unpaid
// invoices that are already late.
type SeriesData struct {
	Invoiced  []DatedAmount
	Collected []DatedAmount
	LateDue   []time.Time
}

// Point is one bucket of a timeseries
type Point struct {
	PeriodStart    time.Time       `json:"period_start"`
	Label          string          `json:"period"`
	TotalInvoiced  decimal.Decimal `json:"total_invoiced"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	LateCount      int64           `json:"late_count"`
}

func (p Point) isZero() bool {
	return p.TotalInvoiced.IsZero() && p.TotalCollected.IsZero() && p.LateCount == 0
}

// Timeseries is the bucketed finance history between Start and End
type Timeseries struct {
	Start    time.Time `json:"start_date"`
	End      time.Time `json:"end_date"`
	Grouping Grouping  `json:"grouping"`
	Series   []Point   `json:"series"`
}

// BuildTimeseries buckets data into continuous periods from start to end.
// Leading and trailing all-zero periods are trimmed, interior gaps are
// kept. When every period is zero the first one is kept.
func BuildTimeseries(start, end time.Time, g Grouping, data SeriesData) (*Timeseries, error) {
	start, end = shared.DateOf(start), shared.DateOf(end)
	if start.After(end) {
		return nil, shared.NewValidationError("start_date", "start date must be on or before end date")
	}

	index := make(map[time.Time]int)
	var series []Point
	for b := g.BucketStart(start); !b.After(end); b = g.Next(b) {
		index[b] = len(series)
		series = append(series, Point{
			PeriodStart:    b,
			Label:          g.Label(b),
			TotalInvoiced:  decimal.Zero,
			TotalCollected: decimal.Zero,
		})
	}

	bucket := func(d time.Time) (int, bool) {
		d = shared.DateOf(d)
		if d.Before(start) || d.After(end) {
			return 0, false
		}
		i, ok := index[g.BucketStart(d)]
		return i, ok
	}
	for _, a := range data.Invoiced {
		if i, ok := bucket(a.Date); ok {
			series[i].TotalInvoiced = series[i].TotalInvoiced.Add(a.Amount)
		}
	}
	for _, a := range data.Collected {
		if i, ok := bucket(a.Date); ok {
			series[i].TotalCollected = series[i].TotalCollected.Add(a.Amount)
		}
	}
	for _, d := range data.LateDue {
		if i, ok := bucket(d); ok {
			series[i].LateCount++
		}
	}

	return &Timeseries{
		Start:    start,
		End:      end,
		Grouping: g,
		Series:   trimZeroEdges(series),
	}, nil
}

func trimZeroEdges(series []Point) []Point {
	lo, hi := 0, len(series)-1
	for lo <= hi && series[lo].isZero() {
		lo++
	}
	for hi >= lo && series[hi].isZero() {
		hi--
	}
	if lo > hi {
		if len(series) == 0 {
			return []Point{}
		}
		return series[:1]
	}
	return series[lo : hi+1]
}

// DefaultRange picks a timeseries range covering all finance data: from the
// bucket containing earliest to latest. Without data it is the current
// calendar year up to today.
func DefaultRange(earliest, latest *time.Time, g Grouping, today time.Time) (time.Time, time.Time) {
	today = shared.DateOf(today)
	if earliest == nil || latest == nil {
		return time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC), today
	}
	start := g.BucketStart(*earliest)
	end := shared.DateOf(*latest)
	if start.After(end) {
		start = end
	}
	return start, end
}
