package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

var _ port.StatsService = (*Client)(nil)

func (c *Client) Revenue(ctx context.Context, from, to string) ([]domain.RevenueStat, error) {
	query := url.Values{}
	if from != "" {
		query.Set("from", from)
	}
	if to != "" {
		query.Set("to", to)
	}

	var stats []domain.RevenueStat
	if err := c.getJSON(ctx, "/stats/revenue", query, &stats); err != nil {
		return nil, fmt.Errorf("getJSON /stats/revenue: %w", err)
	}
	return stats, nil
}

func (c *Client) TopProducts(ctx context.Context, from, to string, limit int) ([]domain.TopProduct, error) {
	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var stats []domain.TopProduct
	if err := c.getJSON(ctx, "/stats/top-products", query, &stats); err != nil {
		return nil, fmt.Errorf("getJSON /stats/top-products: %w", err)
	}
	return stats, nil
}
