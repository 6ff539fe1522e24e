package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderCreated  OrderStatus = "CREATED"
	OrderPaid     OrderStatus = "PAID"
	OrderCanceled OrderStatus = "CANCELED"
)

type PaymentMethod string

const (
	PaymentVnpay PaymentMethod = "VNPAY"
	PaymentCash  PaymentMethod = "CASH"
)

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentSettled       PaymentStatus = "PAID"
	PaymentFailed        PaymentStatus = "FAILED"
	PaymentCancelledByUs PaymentStatus = "CANCELED"
)

type OrderItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CreateOrderRequest is the order-creation payload. CustomerPhone is omitted
// entirely when empty, never sent as an empty string.
type CreateOrderRequest struct {
	CustomerName    string           `json:"customerName,omitempty"`
	CustomerPhone   string           `json:"customerPhone,omitempty"`
	CustomerAddress string           `json:"customerAddress,omitempty"`
	Note            string           `json:"note,omitempty"`
	Items           []OrderItemInput `json:"items"`
}

type OrderSummary struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Status       OrderStatus     `json:"status"`
	CustomerName string          `json:"customerName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	OrderDate    time.Time       `json:"orderDate"`
	ItemCount    int             `json:"itemCount"`
}

type OrderItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductCode string          `json:"productCode"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type Payment struct {
	ID       int64           `json:"id"`
	Provider string          `json:"provider"`
	TxnRef   string          `json:"txnRef"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Status   PaymentStatus   `json:"status"`
	BankCode string          `json:"bankCode,omitempty"`
	PayDate  string          `json:"payDate,omitempty"`
}

// Order is the server-side projection the client fetches after creation.
type Order struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerAddress string          `json:"customerAddress"`
	OrderDate       time.Time       `json:"orderDate"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Note            string          `json:"note,omitempty"`
	Items           []OrderItem     `json:"items"`
	Payments        []Payment       `json:"payments"`
}
