package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// PaymentRepo persists the payment ledger.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create records a payment with a freshly generated identifier.
func (r *PaymentRepo) Create(ctx context.Context, status model.PaymentStatus, price int) (model.Payment, error) {
	p := model.Payment{PaymentUID: uuid.New(), Status: status, Price: price}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (payment_uid, status, price) VALUES (?, ?, ?)`,
		p.PaymentUID.String(), string(p.Status), p.Price)
	if err != nil {
		return model.Payment{}, err
	}
	if p.ID, err = result.LastInsertId(); err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

// GetByUID fetches a payment.
func (r *PaymentRepo) GetByUID(ctx context.Context, uid uuid.UUID) (model.Payment, error) {
	var (
		p      model.Payment
		status string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, payment_uid, status, price FROM payments WHERE payment_uid = ? LIMIT 1`, uid.String()).
		Scan(&p.ID, &p.PaymentUID, &status, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Payment{}, ErrPaymentNotFound
	}
	if err != nil {
		return model.Payment{}, err
	}
	p.Status = model.PaymentStatus(status)
	return p, nil
}

// Cancel marks a payment CANCELED.  The price is left untouched.
func (r *PaymentRepo) Cancel(ctx context.Context, uid uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = ? WHERE payment_uid = ?`,
		string(model.PaymentCanceled), uid.String())
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
