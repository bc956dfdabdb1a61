package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestPaymentCreateAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPaymentRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO payments (payment_uid, status, price) VALUES (?, ?, ?)`)).
		WithArgs(sqlmock.AnyArg(), "PAID", 2850).
		WillReturnResult(sqlmock.NewResult(11, 1))

	p, err := repo.Create(context.Background(), model.PaymentPaid, 2850)
	require.NoError(t, err)
	assert.Equal(t, int64(11), p.ID)
	assert.NotEqual(t, uuid.Nil, p.PaymentUID)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, payment_uid, status, price FROM payments WHERE payment_uid = ?`)).
		WithArgs(p.PaymentUID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_uid", "status", "price"}).
			AddRow(int64(11), p.PaymentUID.String(), "PAID", int64(2850)))

	got, err := repo.GetByUID(context.Background(), p.PaymentUID)
	require.NoError(t, err)
	assert.Equal(t, p.PaymentUID, got.PaymentUID)
	assert.Equal(t, model.PaymentPaid, got.Status)
	assert.Equal(t, 2850, got.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentCancelUnknown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	uid := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE payments SET status = ? WHERE payment_uid = ?`)).
		WithArgs("CANCELED", uid.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewPaymentRepo(db).Cancel(context.Background(), uid)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
