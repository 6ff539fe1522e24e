package stats

import "time"

// OrderFilters drive the orders tab search.
type OrderFilters struct {
	Code string
	From string // date, "2006-01-02"
	To   string
	Size int
}

// RevenueFilters drive the revenue tab range.
type RevenueFilters struct {
	From string
	To   string
}

// DefaultOrderFilters covers the last seven days with ten rows per page.
func DefaultOrderFilters(now time.Time) OrderFilters {
	return OrderFilters{
		From: now.AddDate(0, 0, -7).Format(dateLayout),
		To:   now.Format(dateLayout),
		Size: 10,
	}
}

// DefaultRevenueFilters covers month-to-date.
func DefaultRevenueFilters(now time.Time) RevenueFilters {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return RevenueFilters{
		From: startOfMonth.Format(dateLayout),
		To:   now.Format(dateLayout),
	}
}

// EnsureRange swaps inverted date boundaries instead of rejecting them.
func EnsureRange(from, to string) (string, string) {
	if from != "" && to != "" && from > to {
		return to, from
	}
	return from, to
}

// OrderSearchBounds widens plain dates to the local-datetime bounds the order
// search expects; empty inputs stay empty (unbounded).
func OrderSearchBounds(from, to string) (string, string) {
	if from != "" {
		from += "T00:00:00"
	}
	if to != "" {
		to += "T23:59:59"
	}
	return from, to
}
