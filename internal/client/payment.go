package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// PaymentClient talks to the payment service.
type PaymentClient struct {
	base
}

func NewPaymentClient(baseURL string, opts ...Option) *PaymentClient {
	return &PaymentClient{base: newBase("payment", baseURL, opts)}
}

func (c *PaymentClient) Create(ctx context.Context, info model.PaymentInfo) (model.Payment, error) {
	var out model.Payment
	err := c.call(ctx, http.MethodPost, "/api/v1/payment", "", info, &out)
	return out, err
}

func (c *PaymentClient) Get(ctx context.Context, uid uuid.UUID) (model.Payment, error) {
	var out model.Payment
	err := c.call(ctx, http.MethodGet, "/api/v1/payment/"+uid.String(), "", nil, &out)
	return out, err
}

func (c *PaymentClient) Cancel(ctx context.Context, uid uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/payment/"+uid.String(), "", nil, nil)
}
