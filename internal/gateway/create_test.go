package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-reservation/internal/client"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func bookingInput(t *testing.T, hotel uuid.UUID, start, end string) CreateReservationInput {
	return CreateReservationInput{HotelUID: hotel, StartDate: mustDate(t, start), EndDate: mustDate(t, end)}
}

func TestCreateReservationThreeNightsBronze(t *testing.T) {
	f := newFixture(t)
	hotelUID := uuid.New()
	f.catalog.hotel = model.Hotel{HotelUID: hotelUID, Price: 1000}
	f.loyalty.account = accountWith(3)

	res, err := f.orch.CreateReservation(context.Background(), "alice", bookingInput(t, hotelUID, "2024-10-01", "2024-10-04"))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Discount)
	assert.Equal(t, model.PaymentInfo{Status: model.PaymentPaid, Price: 2850}, res.Payment)
	assert.Equal(t, model.ReservationPaid, res.Status)
	assert.Equal(t, hotelUID, res.HotelUID)
	assert.Equal(t, "2024-10-01", res.StartDate.String())
	assert.Equal(t, "2024-10-04", res.EndDate.String())
	assert.NotEqual(t, uuid.Nil, res.ReservationUID)

	assert.Equal(t, []string{
		"catalog.GetHotel",
		"loyalty.Get",
		"payment.Create",
		"loyalty.Increment",
		"catalog.CreateReservation",
	}, f.log.list())
	require.Len(t, f.catalog.created, 1)
	assert.Equal(t, hotelUID, f.catalog.created[0].HotelUID)
	assert.Equal(t, 4, f.loyalty.account.ReservationCount)

	ev := f.nextEvent(t)
	assert.Equal(t, queue.SagaCreated, ev.Kind)
	assert.Equal(t, res.ReservationUID.String(), ev.ReservationUID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.sagaRuns.WithLabelValues(sagaCreate, "ok")))
}

func TestCreateReservationFirstTimeUserGetsDefaultDiscount(t *testing.T) {
	f := newFixture(t)
	f.catalog.hotel = model.Hotel{HotelUID: uuid.New(), Price: 1000}

	res, err := f.orch.CreateReservation(context.Background(), "newcomer", bookingInput(t, f.catalog.hotel.HotelUID, "2024-10-01", "2024-10-04"))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Discount)
	assert.Equal(t, 2850, res.Payment.Price)
	require.NotNil(t, f.loyalty.account)
	assert.Equal(t, 1, f.loyalty.account.ReservationCount)
	assert.Equal(t, model.LoyaltyBronze, f.loyalty.account.Status)
}

func TestCreateReservationUsesDiscountBeforeIncrement(t *testing.T) {
	f := newFixture(t)
	f.catalog.hotel = model.Hotel{HotelUID: uuid.New(), Price: 1000}
	f.loyalty.account = accountWith(9)

	res, err := f.orch.CreateReservation(context.Background(), "alice", bookingInput(t, f.catalog.hotel.HotelUID, "2024-10-01", "2024-10-04"))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Discount)
	assert.Equal(t, 2850, res.Payment.Price)
	assert.Equal(t, 10, f.loyalty.account.ReservationCount)
	assert.Equal(t, model.LoyaltySilver, f.loyalty.account.Status)
	assert.Equal(t, 7, f.loyalty.account.Discount)
}

func TestCreateReservationGoldDiscount(t *testing.T) {
	f := newFixture(t)
	f.catalog.hotel = model.Hotel{HotelUID: uuid.New(), Price: 333}
	f.loyalty.account = accountWith(25)

	res, err := f.orch.CreateReservation(context.Background(), "alice", bookingInput(t, f.catalog.hotel.HotelUID, "2024-10-01", "2024-10-04"))
	require.NoError(t, err)

	// 999 - 999*10/100 = 999 - 99
	assert.Equal(t, 900, res.Payment.Price)
	assert.Equal(t, 10, res.Discount)
}

func TestCreateReservationNegativeStayIsPriced(t *testing.T) {
	f := newFixture(t)
	f.catalog.hotel = model.Hotel{HotelUID: uuid.New(), Price: 1000}
	f.loyalty.account = accountWith(1)

	res, err := f.orch.CreateReservation(context.Background(), "alice", bookingInput(t, f.catalog.hotel.HotelUID, "2024-10-04", "2024-10-01"))
	require.NoError(t, err)
	assert.Equal(t, -2850, res.Payment.Price)
	require.Len(t, f.ledger.created, 1)
	assert.Equal(t, -2850, f.ledger.created[0].Price)
}

func TestCreateReservationRejectsMissingInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orch.CreateReservation(ctx, "", bookingInput(t, uuid.New(), "2024-10-01", "2024-10-04"))
	assert.ErrorIs(t, err, ErrBadRequest)
	_, err = f.orch.CreateReservation(ctx, "alice", bookingInput(t, uuid.Nil, "2024-10-01", "2024-10-04"))
	assert.ErrorIs(t, err, ErrBadRequest)
	_, err = f.orch.CreateReservation(ctx, "alice", CreateReservationInput{HotelUID: uuid.New(), StartDate: mustDate(t, "2024-10-01")})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Empty(t, f.log.list())
}

func TestCreateReservationUnknownHotelAborts(t *testing.T) {
	f := newFixture(t)
	f.catalog.hotelErr = &client.StatusError{Service: "reservation", Status: http.StatusNotFound}

	_, err := f.orch.CreateReservation(context.Background(), "alice", bookingInput(t, uuid.New(), "2024-10-01", "2024-10-04"))
	assert.True(t, client.IsNotFound(err))
	assert.Equal(t, []string{"catalog.GetHotel"}, f.log.list())
	f.noEvent(t)
}

func TestCreateReservationLoyaltyOutageAborts(t *testing.T) {
	f := newFixture(t)
	f.catalog.hotel = model.Hotel{HotelUID: uuid.New(), Price: 1000}
	f.loyalty.getErr = client.ErrUnavailable

	_, err := f.orch.CreateReservation(context.Background(), "alice", bookingInput(t, f.catalog.hotel.HotelUID, "2024-10-01", "2024-10-04"))
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, []string{"catalog.GetHotel", "loyalty.Get"}, f.log.list())
	assert.Empty(t, f.ledger.created)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.stepFailures.WithLabelValues(sagaCreate, stepFetchLoyalty, "unavailable")))
}

func TestCreateReservationIncrementFailureLeavesPayment(t *testing.T) {
	f := newFixture(t)
	f.catalog.hotel = model.Hotel{HotelUID: uuid.New(), Price: 1000}
	f.loyalty.account = accountWith(2)
	f.loyalty.incErr = &client.StatusError{Service: "loyalty", Status: http.StatusInternalServerError}

	_, err := f.orch.CreateReservation(context.Background(), "alice", bookingInput(t, f.catalog.hotel.HotelUID, "2024-10-01", "2024-10-04"))
	var se *client.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Status)

	assert.Len(t, f.ledger.created, 1)
	assert.Empty(t, f.catalog.created)
	assert.NotContains(t, f.log.list(), "payment.Cancel")

	ev := f.nextEvent(t)
	assert.Equal(t, queue.SagaIncomplete, ev.Kind)
	assert.Equal(t, stepIncrementLoyalty, ev.FailedStep)
	assert.Equal(t, []string{stepCreatePayment}, ev.CompletedSteps)
	assert.NotEmpty(t, ev.PaymentUID)
	require.NotNil(t, ev.Price)
	assert.Equal(t, 2850, *ev.Price)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.stepFailures.WithLabelValues(sagaCreate, stepIncrementLoyalty, "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.sagaRuns.WithLabelValues(sagaCreate, "failed")))
}

func TestCreateReservationRowFailureKeepsCounter(t *testing.T) {
	f := newFixture(t)
	f.catalog.hotel = model.Hotel{HotelUID: uuid.New(), Price: 1000}
	f.loyalty.account = accountWith(2)
	f.catalog.createErr = errors.New("boom")

	_, err := f.orch.CreateReservation(context.Background(), "alice", bookingInput(t, f.catalog.hotel.HotelUID, "2024-10-01", "2024-10-04"))
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 3, f.loyalty.account.ReservationCount)
	assert.Len(t, f.ledger.created, 1)

	ev := f.nextEvent(t)
	assert.Equal(t, []string{stepCreatePayment, stepIncrementLoyalty}, ev.CompletedSteps)
	assert.Equal(t, stepCreateReservation, ev.FailedStep)
}
