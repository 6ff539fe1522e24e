package domain

import (
	"github.com/shopspring/decimal"
)

// CartLine pairs a product snapshot with a positive quantity.
// Quantity stays within [1, Product.StockQty] after any store mutation.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSnapshot is the full persisted cart state: the ordered line sequence
// (insertion order), the sidebar visibility flag and the identifier of the
// most recently created order (0 when none).
type CartSnapshot struct {
	Lines       []CartLine `json:"lines"`
	SidebarOpen bool       `json:"sidebarOpen"`
	LastOrderID int64      `json:"lastOrderId"`
}

func (s CartSnapshot) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

func (s CartSnapshot) Empty() bool {
	return len(s.Lines) == 0
}

// Clone deep-copies the snapshot so callers never observe later mutations.
func (s CartSnapshot) Clone() CartSnapshot {
	out := s
	out.Lines = make([]CartLine, len(s.Lines))
	copy(out.Lines, s.Lines)
	return out
}
