package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// CatalogClient talks to the reservation service, which owns hotels and
// reservation rows.
type CatalogClient struct {
	base
}

func NewCatalogClient(baseURL string, opts ...Option) *CatalogClient {
	return &CatalogClient{base: newBase("reservation", baseURL, opts)}
}

// ListHotels fetches one page of the hotel catalog.
func (c *CatalogClient) ListHotels(ctx context.Context, page, size int) (model.HotelPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	var out model.HotelPage
	err := c.call(ctx, http.MethodGet, "/api/v1/hotels?"+q.Encode(), "", nil, &out)
	return out, err
}

func (c *CatalogClient) GetHotel(ctx context.Context, uid uuid.UUID) (model.Hotel, error) {
	var out model.Hotel
	err := c.call(ctx, http.MethodGet, "/api/v1/hotels/"+uid.String(), "", nil, &out)
	return out, err
}

func (c *CatalogClient) ListReservations(ctx context.Context, username string) ([]model.ReservationWithHotel, error) {
	var out []model.ReservationWithHotel
	if err := c.call(ctx, http.MethodGet, "/api/v1/reservations", username, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) GetReservation(ctx context.Context, username string, uid uuid.UUID) (model.ReservationWithHotel, error) {
	var out model.ReservationWithHotel
	err := c.call(ctx, http.MethodGet, "/api/v1/reservations/"+uid.String(), username, nil, &out)
	return out, err
}

func (c *CatalogClient) CreateReservation(ctx context.Context, username string, req model.CreateReservationRequest) (model.Reservation, error) {
	var out model.Reservation
	err := c.call(ctx, http.MethodPost, "/api/v1/reservations", username, req, &out)
	return out, err
}

// CancelReservation marks the reservation CANCELED.
func (c *CatalogClient) CancelReservation(ctx context.Context, username string, uid uuid.UUID) error {
	return c.call(ctx, http.MethodDelete, "/api/v1/reservations/"+uid.String(), username, nil, nil)
}
