package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

var _ port.ProductCatalog = (*Client)(nil)

func (c *Client) Products(ctx context.Context, q port.ProductQuery) (domain.Page[domain.Product], error) {
	query := url.Values{}
	if q.Q != "" {
		query.Set("q", q.Q)
	}
	if q.CategoryID != 0 {
		query.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("size", strconv.Itoa(q.Size))
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}

	var page domain.Page[domain.Product]
	if err := c.getJSON(ctx, "/products", query, &page); err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("getJSON /products: %w", err)
	}
	return page, nil
}

func (c *Client) Product(ctx context.Context, id int64) (domain.Product, error) {
	var product domain.Product
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return domain.Product{}, fmt.Errorf("getJSON /products/{id}: %w", err)
	}
	return product, nil
}
