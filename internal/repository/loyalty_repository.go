package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/hotel-reservation/internal/loyalty"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// LoyaltyRepo persists loyalty accounts.  Mutations lock the account row,
// run the tier engine and write counter, status and discount back in one
// transaction, so a stored row always satisfies the tier rules.
type LoyaltyRepo struct {
	db *sql.DB
}

func NewLoyaltyRepo(db *sql.DB) *LoyaltyRepo { return &LoyaltyRepo{db: db} }

const loyaltyColumns = `id, username, reservation_count, status, discount`

// GetByUsername returns the account of username.  A row whose tier does
// not match its counter is reported as ErrCorruptLoyalty; the next
// mutation rewrites it.
func (r *LoyaltyRepo) GetByUsername(ctx context.Context, username string) (model.Loyalty, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+loyaltyColumns+` FROM loyalty WHERE username = ? LIMIT 1`, username)
	acc, err := scanLoyalty(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return model.Loyalty{}, ErrLoyaltyNotFound
	case err != nil:
		return model.Loyalty{}, err
	case !loyalty.Consistent(acc):
		return model.Loyalty{}, fmt.Errorf("%w: %s has %d reservations but tier %s/%d",
			ErrCorruptLoyalty, username, acc.ReservationCount, acc.Status, acc.Discount)
	}
	return acc, nil
}

// Increment counts one more reservation for username, creating the account
// on first use.  It returns the account as stored.
func (r *LoyaltyRepo) Increment(ctx context.Context, username string) (model.Loyalty, error) {
	// Two first reservations of the same user may race on the INSERT; the
	// loser sees a duplicate key and retries as an update.
	for attempt := 0; ; attempt++ {
		acc, err := r.increment(ctx, username)
		if err != nil && isDuplicateKey(err) && attempt == 0 {
			continue
		}
		return acc, err
	}
}

func (r *LoyaltyRepo) increment(ctx context.Context, username string) (model.Loyalty, error) {
	var acc model.Loyalty
	err := r.withLockedAccount(ctx, username, func(tx *sql.Tx, locked *model.Loyalty) error {
		if locked == nil {
			acc = loyalty.NewAccount(username)
			result, err := tx.ExecContext(ctx,
				`INSERT INTO loyalty (username, reservation_count, status, discount) VALUES (?, ?, ?, ?)`,
				acc.Username, acc.ReservationCount, string(acc.Status), acc.Discount)
			if err != nil {
				return err
			}
			acc.ID, err = result.LastInsertId()
			return err
		}
		acc = *locked
		loyalty.Increment(&acc)
		return saveLoyaltyTx(ctx, tx, acc)
	})
	return acc, err
}

// Decrement removes one reservation from username's counter.  A missing
// account yields ErrLoyaltyNotFound and an exhausted counter ErrConflict.
func (r *LoyaltyRepo) Decrement(ctx context.Context, username string) (model.Loyalty, error) {
	var acc model.Loyalty
	err := r.withLockedAccount(ctx, username, func(tx *sql.Tx, locked *model.Loyalty) error {
		if locked == nil {
			return ErrLoyaltyNotFound
		}
		acc = *locked
		if err := loyalty.Decrement(&acc); err != nil {
			return ErrConflict
		}
		return saveLoyaltyTx(ctx, tx, acc)
	})
	return acc, err
}

// withLockedAccount runs fn inside a transaction holding the row lock of
// username's account.  locked is nil when the account does not exist.
func (r *LoyaltyRepo) withLockedAccount(ctx context.Context, username string, fn func(tx *sql.Tx, locked *model.Loyalty) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx,
		`SELECT `+loyaltyColumns+` FROM loyalty WHERE username = ? FOR UPDATE`, username)
	acc, err := scanLoyalty(row)
	var locked *model.Loyalty
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	default:
		locked = &acc
	}

	if err := fn(tx, locked); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func saveLoyaltyTx(ctx context.Context, tx *sql.Tx, acc model.Loyalty) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE loyalty SET reservation_count = ?, status = ?, discount = ? WHERE id = ?`,
		acc.ReservationCount, string(acc.Status), acc.Discount, acc.ID)
	return err
}

func scanLoyalty(s scanner) (model.Loyalty, error) {
	var (
		acc    model.Loyalty
		status string
	)
	if err := s.Scan(&acc.ID, &acc.Username, &acc.ReservationCount, &status, &acc.Discount); err != nil {
		return model.Loyalty{}, err
	}
	acc.Status = model.LoyaltyStatus(status)
	return acc, nil
}
