package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

var _ port.OrderService = (*Client)(nil)

func (c *Client) SearchOrders(ctx context.Context, q port.OrderQuery) (domain.Page[domain.OrderSummary], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("size", strconv.Itoa(q.Size))
	if q.Code != "" {
		query.Set("code", q.Code)
	}
	if q.From != "" {
		query.Set("from", q.From)
	}
	if q.To != "" {
		query.Set("to", q.To)
	}

	var page domain.Page[domain.OrderSummary]
	if err := c.getJSON(ctx, "/orders", query, &page); err != nil {
		return domain.Page[domain.OrderSummary]{}, fmt.Errorf("getJSON /orders: %w", err)
	}
	return page, nil
}

func (c *Client) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	var order domain.Order
	if err := c.postJSON(ctx, "/orders", req, &order, nil); err != nil {
		return domain.Order{}, fmt.Errorf("postJSON /orders: %w", err)
	}
	return order, nil
}

func (c *Client) Order(ctx context.Context, id int64) (domain.Order, error) {
	var order domain.Order
	if err := c.getJSON(ctx, fmt.Sprintf("/orders/%d", id), nil, &order); err != nil {
		return domain.Order{}, fmt.Errorf("getJSON /orders/{id}: %w", err)
	}
	return order, nil
}

type paymentURLResponse struct {
	PaymentURL string `json:"paymentUrl"`
}

func (c *Client) InitiateVnpayPayment(ctx context.Context, orderID int64, clientIP string) (string, error) {
	var header http.Header
	if clientIP != "" {
		header = http.Header{"X-Forwarded-For": []string{clientIP}}
	}

	var resp paymentURLResponse
	path := fmt.Sprintf("/orders/%d/payments/vnpay", orderID)
	if err := c.postJSON(ctx, path, struct{}{}, &resp, header); err != nil {
		return "", fmt.Errorf("postJSON /orders/{id}/payments/vnpay: %w", err)
	}
	return resp.PaymentURL, nil
}
