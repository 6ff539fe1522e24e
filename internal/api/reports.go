package api

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/port"
)

var _ port.ReportService = (*Client)(nil)

// InvoicePDF fetches the rendered invoice for an order. PDF generation is
// delegated entirely to the backend; the bytes pass through untouched.
func (c *Client) InvoicePDF(ctx context.Context, orderID int64) ([]byte, error) {
	pdf, err := c.getBytes(ctx, fmt.Sprintf("/reports/invoices/%d.pdf", orderID))
	if err != nil {
		return nil, fmt.Errorf("getBytes /reports/invoices/{id}.pdf: %w", err)
	}
	return pdf, nil
}

func (c *Client) ProductsPDF(ctx context.Context) ([]byte, error) {
	pdf, err := c.getBytes(ctx, "/reports/products.pdf")
	if err != nil {
		return nil, fmt.Errorf("getBytes /reports/products.pdf: %w", err)
	}
	return pdf, nil
}
