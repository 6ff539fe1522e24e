package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

// ProductQuery filters the product listing.
type ProductQuery struct {
	Q          string
	CategoryID int64 // 0 means no category filter
	Page       int
	Size       int
	Sort       string
}

// OrderQuery filters the order search. From/To are local-datetime strings
// ("2006-01-02T15:04:05"), empty means unbounded.
type OrderQuery struct {
	Page int
	Size int
	Code string
	From string
	To   string
}

type ProductCatalog interface {
	Products(ctx context.Context, q ProductQuery) (domain.Page[domain.Product], error)
	Product(ctx context.Context, id int64) (domain.Product, error)
}

type OrderService interface {
	SearchOrders(ctx context.Context, q OrderQuery) (domain.Page[domain.OrderSummary], error)
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	Order(ctx context.Context, id int64) (domain.Order, error)
	// InitiateVnpayPayment returns the payment-provider URL the browser must
	// be redirected to. clientIP, when non-empty, is forwarded to the backend.
	InitiateVnpayPayment(ctx context.Context, orderID int64, clientIP string) (string, error)
}

type UserDirectory interface {
	// FindByPhone returns api.ErrNotFound (via errors.Is) for unknown phones.
	FindByPhone(ctx context.Context, phone string) (domain.User, error)
}

type StatsService interface {
	Revenue(ctx context.Context, from, to string) ([]domain.RevenueStat, error)
	TopProducts(ctx context.Context, from, to string, limit int) ([]domain.TopProduct, error)
}

type ReportService interface {
	InvoicePDF(ctx context.Context, orderID int64) ([]byte, error)
	ProductsPDF(ctx context.Context) ([]byte, error)
}
