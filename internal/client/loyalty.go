package client

import (
	"context"
	"net/http"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// LoyaltyClient talks to the loyalty service.  The account is addressed by
// the username header, never by path.
type LoyaltyClient struct {
	base
}

func NewLoyaltyClient(baseURL string, opts ...Option) *LoyaltyClient {
	return &LoyaltyClient{base: newBase("loyalty", baseURL, opts)}
}

// Get returns the account of username; a user without one yields a 404
// StatusError.
func (c *LoyaltyClient) Get(ctx context.Context, username string) (model.Loyalty, error) {
	var out model.Loyalty
	err := c.call(ctx, http.MethodGet, "/api/v1/loyalty", username, nil, &out)
	return out, err
}

// Increment counts one more reservation, creating the account if needed.
func (c *LoyaltyClient) Increment(ctx context.Context, username string) error {
	return c.call(ctx, http.MethodPut, "/api/v1/loyalty", username, nil, nil)
}

// Decrement removes one reservation from the counter.
func (c *LoyaltyClient) Decrement(ctx context.Context, username string) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/loyalty", username, nil, nil)
}
