package model

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is the lifecycle state of a reservation.  The only
// allowed transition is PAID -> CANCELED.
type ReservationStatus string

const (
	ReservationPaid     ReservationStatus = "PAID"
	ReservationCanceled ReservationStatus = "CANCELED"
)

// Reservation mirrors the `reservations` table.  It always references one
// payment and one hotel.  Dates are nullable at the storage layer.
type Reservation struct {
	ID             int64             `json:"-"`
	ReservationUID uuid.UUID         `json:"reservationUid"`
	Username       string            `json:"-"`
	HotelUID       uuid.UUID         `json:"hotelUid"`
	PaymentUID     uuid.UUID         `json:"paymentUid"`
	Status         ReservationStatus `json:"status"`
	StartDate      *time.Time        `json:"startDate"`
	EndDate        *time.Time        `json:"endDate"`
}

// ReservationWithHotel is a reservation joined with its hotel.
type ReservationWithHotel struct {
	ReservationUID uuid.UUID         `json:"reservationUid"`
	PaymentUID     uuid.UUID         `json:"paymentUid"`
	Status         ReservationStatus `json:"status"`
	StartDate      *time.Time        `json:"startDate"`
	EndDate        *time.Time        `json:"endDate"`
	Hotel          HotelShort        `json:"hotel"`
}

// CreateReservationRequest is the body accepted by the reservation service.
type CreateReservationRequest struct {
	HotelUID   uuid.UUID  `json:"hotelUid"`
	PaymentUID uuid.UUID  `json:"paymentUid"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
}
