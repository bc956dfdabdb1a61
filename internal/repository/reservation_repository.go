package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ReservationRepo provides the reservation rows of the catalog service.
// Every query is scoped to the owning username: a reservation belonging to
// another user is indistinguishable from a missing one.  All timestamps are
// stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationWithHotelQuery = `
	SELECT r.reservation_uid, r.payment_uid, r.status, r.start_date, r.end_date,
	       h.hotel_uid, h.name, h.country, h.city, h.address, h.stars
	FROM reservations r
	JOIN hotels h ON h.id = r.hotel_id
	WHERE r.username = ?`

// ListByUser returns all reservations of username joined with their hotel,
// oldest first.  The result is empty, not nil, when the user has none.
func (r *ReservationRepo) ListByUser(ctx context.Context, username string) ([]model.ReservationWithHotel, error) {
	rows, err := r.db.QueryContext(ctx, reservationWithHotelQuery+` ORDER BY r.id`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ReservationWithHotel, 0)
	for rows.Next() {
		res, err := scanReservationWithHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// GetForUser fetches one reservation of username.
func (r *ReservationRepo) GetForUser(ctx context.Context, uid uuid.UUID, username string) (model.ReservationWithHotel, error) {
	row := r.db.QueryRowContext(ctx, reservationWithHotelQuery+` AND r.reservation_uid = ? LIMIT 1`, username, uid.String())
	res, err := scanReservationWithHotel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ReservationWithHotel{}, ErrReservationNotFound
	}
	return res, err
}

// Create inserts a PAID reservation for username.  The hotel must exist;
// the payment is not checked since it lives in another service.
func (r *ReservationRepo) Create(ctx context.Context, username string, req model.CreateReservationRequest) (model.Reservation, error) {
	var hotelID int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM hotels WHERE hotel_uid = ? LIMIT 1`, req.HotelUID.String()).Scan(&hotelID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrHotelNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}

	res := model.Reservation{
		ReservationUID: uuid.New(),
		Username:       username,
		HotelUID:       req.HotelUID,
		PaymentUID:     req.PaymentUID,
		Status:         model.ReservationPaid,
		StartDate:      utc(req.StartDate),
		EndDate:        utc(req.EndDate),
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO reservations (reservation_uid, username, payment_uid, hotel_id, status, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.ReservationUID.String(), username, res.PaymentUID.String(), hotelID, string(res.Status),
		nullTime(res.StartDate), nullTime(res.EndDate))
	if err != nil {
		return model.Reservation{}, err
	}
	if res.ID, err = result.LastInsertId(); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// Cancel marks a reservation of username CANCELED.  Canceling an already
// canceled reservation succeeds again; the row is matched, not changed.
func (r *ReservationRepo) Cancel(ctx context.Context, uid uuid.UUID, username string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE reservation_uid = ? AND username = ?`,
		string(model.ReservationCanceled), uid.String(), username)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func scanReservationWithHotel(s scanner) (model.ReservationWithHotel, error) {
	var (
		res        model.ReservationWithHotel
		status     string
		start, end sql.NullTime
		hotel      model.Hotel
		stars      sql.NullInt32
	)
	err := s.Scan(&res.ReservationUID, &res.PaymentUID, &status, &start, &end,
		&hotel.HotelUID, &hotel.Name, &hotel.Country, &hotel.City, &hotel.Address, &stars)
	if err != nil {
		return model.ReservationWithHotel{}, err
	}
	res.Status = model.ReservationStatus(status)
	if start.Valid {
		res.StartDate = &start.Time
	}
	if end.Valid {
		res.EndDate = &end.Time
	}
	if stars.Valid {
		v := int(stars.Int32)
		hotel.Stars = &v
	}
	res.Hotel = hotel.Short()
	return res, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
