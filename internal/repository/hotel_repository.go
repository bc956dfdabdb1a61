package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// HotelRepo reads the hotel catalog.  Hotels are never written through the
// API; rows are loaded by operators.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo returns a HotelRepo bound to db.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

const hotelColumns = `id, hotel_uid, name, country, city, address, stars, price`

// List returns one page of hotels ordered by name together with the total
// number of hotels.  page is 1-based.
func (r *HotelRepo) List(ctx context.Context, page, size int) ([]model.Hotel, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hotels`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+hotelColumns+` FROM hotels ORDER BY name LIMIT ? OFFSET ?`,
		size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	hotels := make([]model.Hotel, 0, size)
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, 0, err
		}
		hotels = append(hotels, h)
	}
	return hotels, total, rows.Err()
}

// GetByUID fetches a hotel by its public identifier.
func (r *HotelRepo) GetByUID(ctx context.Context, uid uuid.UUID) (model.Hotel, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+hotelColumns+` FROM hotels WHERE hotel_uid = ? LIMIT 1`, uid.String())
	h, err := scanHotel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Hotel{}, ErrHotelNotFound
	}
	return h, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHotel(s scanner) (model.Hotel, error) {
	var (
		h     model.Hotel
		stars sql.NullInt32
	)
	if err := s.Scan(&h.ID, &h.HotelUID, &h.Name, &h.Country, &h.City, &h.Address, &stars, &h.Price); err != nil {
		return model.Hotel{}, err
	}
	if stars.Valid {
		v := int(stars.Int32)
		h.Stars = &v
	}
	return h, nil
}
