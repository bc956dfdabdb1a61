package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Hotel is a row of the `hotels` table as exposed by the reservation
// service.  Price is the nightly price in whole currency units.  Hotels are
// static reference data: nothing in the booking flow mutates them.
//
// Fields:
//  ID      – internal primary key, never serialized.
//  HotelUID – public identifier used by every other service.
//  Name, Country, City, Address – descriptive data.
//  Stars   – star rating (nullable).
//  Price   – price per night.
type Hotel struct {
	ID       int64     `json:"-"`
	HotelUID uuid.UUID `json:"hotelUid"`
	Name     string    `json:"name"`
	Country  string    `json:"country"`
	City     string    `json:"city"`
	Address  string    `json:"address"`
	Stars    *int      `json:"stars"`
	Price    int       `json:"price"`
}

// HotelShort is the compact hotel view embedded into reservation responses.
type HotelShort struct {
	HotelUID    uuid.UUID `json:"hotelUid"`
	Name        string    `json:"name"`
	FullAddress string    `json:"fullAddress"`
	Stars       *int      `json:"stars"`
}

// Short converts a hotel into its compact form.
func (h Hotel) Short() HotelShort {
	return HotelShort{
		HotelUID:    h.HotelUID,
		Name:        h.Name,
		FullAddress: fmt.Sprintf("%s, %s, %s", h.Country, h.City, h.Address),
		Stars:       h.Stars,
	}
}

// HotelPage is one page of the hotel listing.
type HotelPage struct {
	Page          int     `json:"page"`
	PageSize      int     `json:"pageSize"`
	TotalElements int     `json:"totalElements"`
	Items         []Hotel `json:"items"`
}
