package gateway

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// CreateReservationInput is what a user submits to book a hotel.
type CreateReservationInput struct {
	HotelUID  uuid.UUID  `json:"hotelUid"`
	StartDate model.Date `json:"startDate"`
	EndDate   model.Date `json:"endDate"`
}

// CreateReservationResult is returned by a successful create saga.
// Discount is the percentage applied to the price, taken from the account
// as it was before this reservation counted.
type CreateReservationResult struct {
	ReservationUID uuid.UUID               `json:"reservationUid"`
	HotelUID       uuid.UUID               `json:"hotelUid"`
	StartDate      model.Date              `json:"startDate"`
	EndDate        model.Date              `json:"endDate"`
	Discount       int                     `json:"discount"`
	Status         model.ReservationStatus `json:"status"`
	Payment        model.PaymentInfo       `json:"payment"`
}

// ReservationView is a reservation enriched with hotel and payment.
type ReservationView struct {
	ReservationUID uuid.UUID               `json:"reservationUid"`
	Hotel          model.HotelShort        `json:"hotel"`
	StartDate      *model.Date             `json:"startDate"`
	EndDate        *model.Date             `json:"endDate"`
	Status         model.ReservationStatus `json:"status"`
	Payment        model.PaymentInfo       `json:"payment"`
}

// LoyaltyInfo is the public view of a loyalty account.
type LoyaltyInfo struct {
	Status           model.LoyaltyStatus `json:"status"`
	Discount         int                 `json:"discount"`
	ReservationCount int                 `json:"reservationCount"`
}

// UserProfile is the "me" aggregate.
type UserProfile struct {
	Reservations []ReservationView `json:"reservations"`
	Loyalty      LoyaltyInfo       `json:"loyalty"`
}

func newReservationView(r model.ReservationWithHotel, p model.Payment) ReservationView {
	return ReservationView{
		ReservationUID: r.ReservationUID,
		Hotel:          r.Hotel,
		StartDate:      dateOf(r.StartDate),
		EndDate:        dateOf(r.EndDate),
		Status:         r.Status,
		Payment:        model.PaymentInfo{Status: p.Status, Price: p.Price},
	}
}

func newLoyaltyInfo(acc model.Loyalty) LoyaltyInfo {
	return LoyaltyInfo{Status: acc.Status, Discount: acc.Discount, ReservationCount: acc.ReservationCount}
}

func dateOf(t *time.Time) *model.Date {
	if t == nil {
		return nil
	}
	d := model.NewDate(*t)
	return &d
}
