package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// HotelStore reads the hotel catalog.
type HotelStore interface {
	List(ctx context.Context, page, size int) ([]model.Hotel, int, error)
	GetByUID(ctx context.Context, uid uuid.UUID) (model.Hotel, error)
}

// ReservationStore persists reservation rows scoped to their owner.
type ReservationStore interface {
	ListByUser(ctx context.Context, username string) ([]model.ReservationWithHotel, error)
	GetForUser(ctx context.Context, uid uuid.UUID, username string) (model.ReservationWithHotel, error)
	Create(ctx context.Context, username string, req model.CreateReservationRequest) (model.Reservation, error)
	Cancel(ctx context.Context, uid uuid.UUID, username string) error
}

// ReservationHandler serves the reservation service: the hotel catalog and
// the users' reservation rows.
type ReservationHandler struct {
	hotels       HotelStore
	reservations ReservationStore
	log          *slog.Logger
}

func NewReservationHandler(hotels HotelStore, reservations ReservationStore, log *slog.Logger) *ReservationHandler {
	if hotels == nil || reservations == nil {
		panic("nil store passed to NewReservationHandler")
	}
	return &ReservationHandler{hotels: hotels, reservations: reservations, log: log}
}

// ListHotels handles GET /hotels?page=&size=, ordered by name.
func (h *ReservationHandler) ListHotels(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	items, total, err := h.hotels.List(c.Request().Context(), page, size)
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusOK, model.HotelPage{Page: page, PageSize: size, TotalElements: total, Items: items})
}

// GetHotel handles GET /hotels/:hotelUid.
func (h *ReservationHandler) GetHotel(c echo.Context) error {
	uid, err := uidParam(c, "hotelUid")
	if err != nil {
		return badRequest(c, "invalid hotel uid")
	}
	hotel, err := h.hotels.GetByUID(c.Request().Context(), uid)
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusOK, hotel)
}

// ListReservations handles GET /reservations for the X-User-Name user.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	user := middleware.Username(c)
	if user == "" {
		return badRequest(c, "X-User-Name header is required")
	}
	out, err := h.reservations.ListByUser(c.Request().Context(), user)
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GetReservation handles GET /reservations/:reservationUid.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	user := middleware.Username(c)
	if user == "" {
		return badRequest(c, "X-User-Name header is required")
	}
	uid, err := uidParam(c, "reservationUid")
	if err != nil {
		return badRequest(c, "invalid reservation uid")
	}
	res, err := h.reservations.GetForUser(c.Request().Context(), uid, user)
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// CreateReservation handles POST /reservations.  The row is created PAID.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	user := middleware.Username(c)
	if user == "" {
		return badRequest(c, "X-User-Name header is required")
	}
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.HotelUID == uuid.Nil || req.PaymentUID == uuid.Nil {
		return badRequest(c, "hotelUid and paymentUid are required")
	}
	res, err := h.reservations.Create(c.Request().Context(), user, req)
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// CancelReservation handles DELETE /reservations/:reservationUid.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	user := middleware.Username(c)
	if user == "" {
		return badRequest(c, "X-User-Name header is required")
	}
	uid, err := uidParam(c, "reservationUid")
	if err != nil {
		return badRequest(c, "invalid reservation uid")
	}
	if err := h.reservations.Cancel(c.Request().Context(), uid, user); err != nil {
		return h.storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReservationHandler) storeError(c echo.Context, err error) error {
	return respondError(c, h.log, storeStatus(err), err)
}

// storeStatus maps repository sentinels to HTTP status codes.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrHotelNotFound),
		errors.Is(err, repository.ErrReservationNotFound),
		errors.Is(err, repository.ErrPaymentNotFound),
		errors.Is(err, repository.ErrLoyaltyNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
