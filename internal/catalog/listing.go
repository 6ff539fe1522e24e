// Package catalog drives the product listing page: fixed-size pages, fixed
// sort order and the category filter options derived from loaded results.
package catalog

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

const (
	// PageSize matches the product grid layout.
	PageSize = 12

	// SortOrder keeps newest products first.
	SortOrder = "createdAt,desc"
)

type Filters struct {
	Q          string
	CategoryID int64 // 0 means all categories
}

type CategoryOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Listing is one loaded page plus pagination state and the filter options
// derived from it.
type Listing struct {
	Products   []domain.Product `json:"products"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Categories []CategoryOption `json:"categories"`
}

type Lister struct {
	catalog port.ProductCatalog
}

func NewLister(catalog port.ProductCatalog) (*Lister, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	return &Lister{catalog: catalog}, nil
}

// Load fetches one page. A negative page index floors to 0.
func (l *Lister) Load(ctx context.Context, filters Filters, page int) (Listing, error) {
	resp, err := l.catalog.Products(ctx, port.ProductQuery{
		Q:          filters.Q,
		CategoryID: filters.CategoryID,
		Page:       max(0, page),
		Size:       PageSize,
		Sort:       SortOrder,
	})
	if err != nil {
		return Listing{}, fmt.Errorf("catalog.Products: %w", err)
	}

	return Listing{
		Products:   resp.Content,
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
		Categories: categoryOptions(resp.Content),
	}, nil
}

// Reset clears filters and reloads page 0.
func (l *Lister) Reset(ctx context.Context) (Listing, error) {
	return l.Load(ctx, Filters{}, 0)
}

// ClampPage keeps a requested page inside [0, totalPages-1]; with no pages at
// all it returns 0.
func ClampPage(page, totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	return min(max(0, page), totalPages-1)
}

// categoryOptions collects the distinct categories of the loaded page, in
// first-seen order. Categories outside the current page never appear; the
// dropdown only offers what the shopper has already seen.
func categoryOptions(products []domain.Product) []CategoryOption {
	seen := make(map[int64]struct{}, len(products))

	var options []CategoryOption
	for _, product := range products {
		if _, ok := seen[product.CategoryID]; ok {
			continue
		}
		seen[product.CategoryID] = struct{}{}
		options = append(options, CategoryOption{ID: product.CategoryID, Name: product.CategoryName})
	}
	return options
}
