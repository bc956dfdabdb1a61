package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// LoyaltyStore persists loyalty accounts and applies the tier engine on
// every mutation.
type LoyaltyStore interface {
	GetByUsername(ctx context.Context, username string) (model.Loyalty, error)
	Increment(ctx context.Context, username string) (model.Loyalty, error)
	Decrement(ctx context.Context, username string) (model.Loyalty, error)
}

// LoyaltyHandler serves the loyalty service.  Accounts are addressed by
// the X-User-Name header.
type LoyaltyHandler struct {
	accounts LoyaltyStore
	log      *slog.Logger
}

func NewLoyaltyHandler(accounts LoyaltyStore, log *slog.Logger) *LoyaltyHandler {
	if accounts == nil {
		panic("nil store passed to NewLoyaltyHandler")
	}
	return &LoyaltyHandler{accounts: accounts, log: log}
}

// Get handles GET /loyalty.
func (h *LoyaltyHandler) Get(c echo.Context) error {
	user := middleware.Username(c)
	if user == "" {
		return badRequest(c, "X-User-Name header is required")
	}
	acc, err := h.accounts.GetByUsername(c.Request().Context(), user)
	if err != nil {
		return respondError(c, h.log, storeStatus(err), err)
	}
	return c.JSON(http.StatusOK, acc)
}

// Increment handles PUT /loyalty: one more reservation, account created on
// first use.
func (h *LoyaltyHandler) Increment(c echo.Context) error {
	user := middleware.Username(c)
	if user == "" {
		return badRequest(c, "X-User-Name header is required")
	}
	acc, err := h.accounts.Increment(c.Request().Context(), user)
	if err != nil {
		return respondError(c, h.log, storeStatus(err), err)
	}
	h.log.InfoContext(c.Request().Context(), "loyalty incremented",
		"username", user, "count", acc.ReservationCount, "status", acc.Status)
	return c.NoContent(http.StatusNoContent)
}

// Decrement handles DELETE /loyalty.  Unknown accounts yield 404 and an
// exhausted counter 409.
func (h *LoyaltyHandler) Decrement(c echo.Context) error {
	user := middleware.Username(c)
	if user == "" {
		return badRequest(c, "X-User-Name header is required")
	}
	acc, err := h.accounts.Decrement(c.Request().Context(), user)
	if err != nil {
		return respondError(c, h.log, storeStatus(err), err)
	}
	h.log.InfoContext(c.Request().Context(), "loyalty decremented",
		"username", user, "count", acc.ReservationCount, "status", acc.Status)
	return c.NoContent(http.StatusNoContent)
}
