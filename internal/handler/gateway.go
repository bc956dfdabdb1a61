package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/client"
	"github.com/iliyamo/hotel-reservation/internal/gateway"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Booking is the orchestration surface the public API is built on.
type Booking interface {
	ListHotels(ctx context.Context, page, size int) (model.HotelPage, error)
	GetProfile(ctx context.Context, username string) (gateway.UserProfile, error)
	ListReservations(ctx context.Context, username string) ([]gateway.ReservationView, error)
	GetReservation(ctx context.Context, username string, uid uuid.UUID) (gateway.ReservationView, error)
	CreateReservation(ctx context.Context, username string, in gateway.CreateReservationInput) (gateway.CreateReservationResult, error)
	CancelReservation(ctx context.Context, username string, uid uuid.UUID) error
	GetLoyalty(ctx context.Context, username string) (gateway.LoyaltyInfo, error)
}

// GatewayHandler serves the public /api/v1 routes.  The acting user is the
// one resolved by middleware.Identity.
type GatewayHandler struct {
	booking Booking
	log     *slog.Logger
}

func NewGatewayHandler(booking Booking, log *slog.Logger) *GatewayHandler {
	if booking == nil {
		panic("nil booking passed to NewGatewayHandler")
	}
	return &GatewayHandler{booking: booking, log: log}
}

// ListHotels handles GET /hotels?page=&size=.  A catalog that answers
// with an error status is reported as 500.
func (h *GatewayHandler) ListHotels(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.booking.ListHotels(c.Request().Context(), page, size)
	if err != nil {
		return respondError(c, h.log, collapsedStatus(err), err)
	}
	return c.JSON(http.StatusOK, out)
}

// Me handles GET /me.
func (h *GatewayHandler) Me(c echo.Context) error {
	out, err := h.booking.GetProfile(c.Request().Context(), middleware.Username(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListReservations handles GET /reservations.
func (h *GatewayHandler) ListReservations(c echo.Context) error {
	out, err := h.booking.ListReservations(c.Request().Context(), middleware.Username(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// CreateReservation handles POST /reservations with body
// {hotelUid, startDate, endDate}; dates are YYYY-MM-DD.
func (h *GatewayHandler) CreateReservation(c echo.Context) error {
	var in gateway.CreateReservationInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	out, err := h.booking.CreateReservation(c.Request().Context(), middleware.Username(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GetReservation handles GET /reservations/:reservationUid.  Unlike the
// other routes any non-2xx collaborator answer, 404 included, is reported
// as 500.
func (h *GatewayHandler) GetReservation(c echo.Context) error {
	uid, err := uidParam(c, "reservationUid")
	if err != nil {
		return badRequest(c, "invalid reservation uid")
	}
	out, err := h.booking.GetReservation(c.Request().Context(), middleware.Username(c), uid)
	if err != nil {
		return respondError(c, h.log, collapsedStatus(err), err)
	}
	return c.JSON(http.StatusOK, out)
}

// CancelReservation handles DELETE /reservations/:reservationUid.
func (h *GatewayHandler) CancelReservation(c echo.Context) error {
	uid, err := uidParam(c, "reservationUid")
	if err != nil {
		return badRequest(c, "invalid reservation uid")
	}
	if err := h.booking.CancelReservation(c.Request().Context(), middleware.Username(c), uid); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetLoyalty handles GET /loyalty.
func (h *GatewayHandler) GetLoyalty(c echo.Context) error {
	out, err := h.booking.GetLoyalty(c.Request().Context(), middleware.Username(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *GatewayHandler) fail(c echo.Context, err error) error {
	return respondError(c, h.log, statusFor(err), err)
}

// collapsedStatus is statusFor without the pass-through: any collaborator
// answer becomes 500.
func collapsedStatus(err error) int {
	var se *client.StatusError
	if errors.As(err, &se) {
		return http.StatusInternalServerError
	}
	return statusFor(err)
}
