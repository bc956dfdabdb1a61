package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// PaymentStore persists the payment ledger.
type PaymentStore interface {
	Create(ctx context.Context, status model.PaymentStatus, price int) (model.Payment, error)
	GetByUID(ctx context.Context, uid uuid.UUID) (model.Payment, error)
	Cancel(ctx context.Context, uid uuid.UUID) error
}

// PaymentHandler serves the payment service.
type PaymentHandler struct {
	payments PaymentStore
	log      *slog.Logger
}

func NewPaymentHandler(payments PaymentStore, log *slog.Logger) *PaymentHandler {
	if payments == nil {
		panic("nil store passed to NewPaymentHandler")
	}
	return &PaymentHandler{payments: payments, log: log}
}

// Create handles POST /payment with body {status, price}.  Any integer
// price is accepted, negative ones included.
func (h *PaymentHandler) Create(c echo.Context) error {
	var in model.PaymentInfo
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !in.Status.Valid() {
		return badRequest(c, "status must be PAID or CANCELED")
	}
	p, err := h.payments.Create(c.Request().Context(), in.Status, in.Price)
	if err != nil {
		return respondError(c, h.log, storeStatus(err), err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Get handles GET /payment/:paymentUid.
func (h *PaymentHandler) Get(c echo.Context) error {
	uid, err := uidParam(c, "paymentUid")
	if err != nil {
		return badRequest(c, "invalid payment uid")
	}
	p, err := h.payments.GetByUID(c.Request().Context(), uid)
	if err != nil {
		return respondError(c, h.log, storeStatus(err), err)
	}
	return c.JSON(http.StatusOK, p)
}

// Cancel handles DELETE /payment/:paymentUid.
func (h *PaymentHandler) Cancel(c echo.Context) error {
	uid, err := uidParam(c, "paymentUid")
	if err != nil {
		return badRequest(c, "invalid payment uid")
	}
	if err := h.payments.Cancel(c.Request().Context(), uid); err != nil {
		return respondError(c, h.log, storeStatus(err), err)
	}
	return c.NoContent(http.StatusNoContent)
}
