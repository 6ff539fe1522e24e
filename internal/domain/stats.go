package domain

import (
	"github.com/shopspring/decimal"
)

// RevenueStat is a server-computed per-day aggregate. Bucket is a date string,
// either plain "2006-01-02" or a datetime whose date-only prefix identifies the day.
type RevenueStat struct {
	Bucket     string          `json:"bucket"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"orderCount"`
}

type TopProduct struct {
	ProductID    int64           `json:"productId"`
	Name         string          `json:"name"`
	SoldQuantity int             `json:"soldQuantity"`
	Revenue      decimal.Decimal `json:"revenue"`
}
