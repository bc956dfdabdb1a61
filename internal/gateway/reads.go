package gateway

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ListHotels proxies one page of the hotel catalog.  page is 1-based.
func (o *Orchestrator) ListHotels(ctx context.Context, page, size int) (model.HotelPage, error) {
	if page < 1 || size < 1 {
		return model.HotelPage{}, ErrBadRequest
	}
	return o.catalog.ListHotels(ctx, page, size)
}

// GetReservation returns one reservation of username with its payment.
func (o *Orchestrator) GetReservation(ctx context.Context, username string, uid uuid.UUID) (ReservationView, error) {
	if username == "" || uid == uuid.Nil {
		return ReservationView{}, ErrBadRequest
	}
	res, err := o.catalog.GetReservation(ctx, username, uid)
	if err != nil {
		return ReservationView{}, err
	}
	p, err := o.ledger.Get(ctx, res.PaymentUID)
	if err != nil {
		return ReservationView{}, err
	}
	return newReservationView(res, p), nil
}

// ListReservations returns every reservation of username with its payment.
func (o *Orchestrator) ListReservations(ctx context.Context, username string) ([]ReservationView, error) {
	if username == "" {
		return nil, ErrBadRequest
	}
	return o.listReservations(ctx, username)
}

// GetProfile returns the reservations and the loyalty account of username.
// Both lookups run concurrently and both must succeed.
func (o *Orchestrator) GetProfile(ctx context.Context, username string) (UserProfile, error) {
	if username == "" {
		return UserProfile{}, ErrBadRequest
	}
	var (
		views []ReservationView
		acc   model.Loyalty
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		views, err = o.listReservations(ctx, username)
		return err
	})
	g.Go(func() error {
		var err error
		acc, err = o.loyalty.Get(ctx, username)
		return err
	})
	if err := g.Wait(); err != nil {
		return UserProfile{}, err
	}
	return UserProfile{Reservations: views, Loyalty: newLoyaltyInfo(acc)}, nil
}

// GetLoyalty returns the loyalty account of username.
func (o *Orchestrator) GetLoyalty(ctx context.Context, username string) (LoyaltyInfo, error) {
	if username == "" {
		return LoyaltyInfo{}, ErrBadRequest
	}
	acc, err := o.loyalty.Get(ctx, username)
	if err != nil {
		return LoyaltyInfo{}, err
	}
	return newLoyaltyInfo(acc), nil
}

func (o *Orchestrator) listReservations(ctx context.Context, username string) ([]ReservationView, error) {
	list, err := o.catalog.ListReservations(ctx, username)
	if err != nil {
		return nil, err
	}
	return o.withPayments(ctx, list)
}

// withPayments fetches the payment of every reservation concurrently.  The
// result keeps the order of list; the first failure cancels the remaining
// lookups and fails the whole call.
func (o *Orchestrator) withPayments(ctx context.Context, list []model.ReservationWithHotel) ([]ReservationView, error) {
	o.metrics.ObserveFanout(len(list))
	views := make([]ReservationView, len(list))
	g, ctx := errgroup.WithContext(ctx)
	for i, res := range list {
		g.Go(func() error {
			p, err := o.ledger.Get(ctx, res.PaymentUID)
			if err != nil {
				return err
			}
			views[i] = newReservationView(res, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}
