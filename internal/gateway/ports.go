package gateway

import (
	"context"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// Catalog is the reservation service: hotels and reservation rows.
type Catalog interface {
	ListHotels(ctx context.Context, page, size int) (model.HotelPage, error)
	GetHotel(ctx context.Context, uid uuid.UUID) (model.Hotel, error)
	ListReservations(ctx context.Context, username string) ([]model.ReservationWithHotel, error)
	GetReservation(ctx context.Context, username string, uid uuid.UUID) (model.ReservationWithHotel, error)
	CreateReservation(ctx context.Context, username string, req model.CreateReservationRequest) (model.Reservation, error)
	CancelReservation(ctx context.Context, username string, uid uuid.UUID) error
}

// Ledger is the payment service.
type Ledger interface {
	Create(ctx context.Context, info model.PaymentInfo) (model.Payment, error)
	Get(ctx context.Context, uid uuid.UUID) (model.Payment, error)
	Cancel(ctx context.Context, uid uuid.UUID) error
}

// LoyaltyProgram is the loyalty service.  Get reports an unknown user as a
// 404 *client.StatusError.
type LoyaltyProgram interface {
	Get(ctx context.Context, username string) (model.Loyalty, error)
	Increment(ctx context.Context, username string) error
	Decrement(ctx context.Context, username string) error
}

// EventSink receives one event per finished saga.
type EventSink interface {
	Publish(ctx context.Context, ev queue.SagaEvent) error
}
