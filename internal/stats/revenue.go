// Package stats derives the revenue dashboard series from the sparse
// per-day aggregates the backend returns.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// BucketRange is the [00:00:00, 23:59:59] window of a single day bucket,
// carrying the exact strings the order-search API expects.
type BucketRange struct {
	Start   time.Time
	End     time.Time
	APIFrom string
	APITo   string
	Label   string // day/month, chart axis
	Display string // day/month/year, tooltips
}

// ChartRow is one row of the dense chart series.
type ChartRow struct {
	domain.RevenueStat

	BucketLabel string
	Display     string
	Range       *BucketRange
}

// Queryable reports whether the row's orders can be drilled into: a bucket
// with zero orders is not queryable.
func (r ChartRow) Queryable() bool {
	return r.Range != nil && r.OrderCount > 0
}

// ParseBucketDate parses a bucket key at local-midnight granularity. The key
// is either a plain date or a datetime whose date part identifies the day.
func ParseBucketDate(bucket string) (time.Time, error) {
	if len(bucket) >= len(dateLayout) {
		if t, err := time.ParseInLocation(dateLayout, bucket[:len(dateLayout)], time.Local); err == nil {
			return t, nil
		}
	}

	t, err := time.ParseInLocation(dateTimeLayout, strings.Replace(bucket, " ", "T", 1), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("time.ParseInLocation: %w", err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
}

// NewBucketRange builds the drill-down window for a bucket key, or nil when
// the key is not a parseable date.
func NewBucketRange(bucket string) *BucketRange {
	day, err := ParseBucketDate(bucket)
	if err != nil {
		return nil
	}

	start := day
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.Local)

	return &BucketRange{
		Start:   start,
		End:     end,
		APIFrom: start.Format(dateTimeLayout),
		APITo:   end.Format(dateTimeLayout),
		Label:   day.Format("02/01"),
		Display: day.Format("02/01/2006"),
	}
}

// DenseSeries produces one row per calendar day from `from` to `to`
// inclusive, substituting zero revenue and zero order count for days the
// backend returned no bucket for. The line chart needs the continuous time
// axis even over days with no orders.
//
// Without both boundaries the server buckets are mapped through as-is;
// unparseable boundaries yield an empty series.
func DenseSeries(stats []domain.RevenueStat, from, to string) []ChartRow {
	if from == "" || to == "" {
		rows := make([]ChartRow, 0, len(stats))
		for _, stat := range stats {
			rows = append(rows, newRow(stat))
		}
		return rows
	}

	start, err := ParseBucketDate(from)
	if err != nil {
		return nil
	}
	end, err := ParseBucketDate(to)
	if err != nil {
		return nil
	}

	byDay := make(map[string]domain.RevenueStat, len(stats))
	for _, stat := range stats {
		key := stat.Bucket
		if len(key) > len(dateLayout) {
			key = key[:len(dateLayout)]
		}
		byDay[key] = stat
	}

	var rows []ChartRow
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		key := cursor.Format(dateLayout)

		stat, ok := byDay[key]
		if !ok {
			stat = domain.RevenueStat{Bucket: key, Revenue: decimal.Zero}
		}
		stat.Bucket = key

		rows = append(rows, newRow(stat))
	}
	return rows
}

func newRow(stat domain.RevenueStat) ChartRow {
	row := ChartRow{RevenueStat: stat, BucketLabel: stat.Bucket, Display: stat.Bucket}
	if r := NewBucketRange(stat.Bucket); r != nil {
		row.BucketLabel = r.Label
		row.Display = r.Display
		row.Range = r
	}
	return row
}

// DrillDownPageSize sizes the single-day order query so the whole bucket
// fits on one page, capped at 100.
func DrillDownPageSize(orderCount int) int {
	return min(max(20, orderCount), 100)
}

// ShortAmount compacts an axis tick: millions as "tr", thousands as "k".
func ShortAmount(amount decimal.Decimal) string {
	v := amount.InexactFloat64()
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.0ftr", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.0fk", v/1_000)
	default:
		return amount.StringFixed(0)
	}
}
