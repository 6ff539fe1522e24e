package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

var _ port.UserDirectory = (*Client)(nil)

// FindByPhone looks a customer up by phone number. An unknown phone yields an
// error satisfying errors.Is(err, ErrNotFound).
func (c *Client) FindByPhone(ctx context.Context, phone string) (domain.User, error) {
	if phone == "" {
		return domain.User{}, fmt.Errorf("phone is empty")
	}

	query := url.Values{}
	query.Set("phone", phone)

	var user domain.User
	if err := c.getJSON(ctx, "/users/search", query, &user); err != nil {
		return domain.User{}, fmt.Errorf("getJSON /users/search: %w", err)
	}
	return user, nil
}
