package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/iliyamo/hotel-reservation/internal/client"
	"github.com/iliyamo/hotel-reservation/internal/loyalty"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// callLog records collaborator calls in the order they happen.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeCatalog struct {
	log          *callLog
	hotel        model.Hotel
	hotelErr     error
	reservations []model.ReservationWithHotel
	listErr      error
	getErr       error
	createErr    error
	cancelErr    error
	created      []model.CreateReservationRequest
	canceled     []uuid.UUID
	// hotelSpan is the span active when GetHotel was called.
	hotelSpan trace.SpanContext
}

func (f *fakeCatalog) ListHotels(ctx context.Context, page, size int) (model.HotelPage, error) {
	f.log.add("catalog.ListHotels")
	return model.HotelPage{Page: page, PageSize: size, Items: []model.Hotel{f.hotel}, TotalElements: 1}, nil
}

func (f *fakeCatalog) GetHotel(ctx context.Context, uid uuid.UUID) (model.Hotel, error) {
	f.log.add("catalog.GetHotel")
	f.hotelSpan = trace.SpanContextFromContext(ctx)
	return f.hotel, f.hotelErr
}

func (f *fakeCatalog) ListReservations(ctx context.Context, username string) ([]model.ReservationWithHotel, error) {
	f.log.add("catalog.ListReservations")
	return f.reservations, f.listErr
}

func (f *fakeCatalog) GetReservation(ctx context.Context, username string, uid uuid.UUID) (model.ReservationWithHotel, error) {
	f.log.add("catalog.GetReservation")
	if f.getErr != nil {
		return model.ReservationWithHotel{}, f.getErr
	}
	for _, r := range f.reservations {
		if r.ReservationUID == uid {
			return r, nil
		}
	}
	return model.ReservationWithHotel{}, &client.StatusError{Service: "reservation", Status: http.StatusNotFound}
}

func (f *fakeCatalog) CreateReservation(ctx context.Context, username string, req model.CreateReservationRequest) (model.Reservation, error) {
	f.log.add("catalog.CreateReservation")
	if f.createErr != nil {
		return model.Reservation{}, f.createErr
	}
	f.created = append(f.created, req)
	return model.Reservation{
		ReservationUID: uuid.New(),
		Username:       username,
		HotelUID:       req.HotelUID,
		PaymentUID:     req.PaymentUID,
		Status:         model.ReservationPaid,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}, nil
}

func (f *fakeCatalog) CancelReservation(ctx context.Context, username string, uid uuid.UUID) error {
	f.log.add("catalog.CancelReservation")
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.canceled = append(f.canceled, uid)
	return nil
}

type fakeLedger struct {
	log       *callLog
	mu        sync.Mutex
	payments  map[uuid.UUID]model.Payment
	createErr error
	cancelErr error
	// get, when set, replaces the default lookup.
	get     func(ctx context.Context, uid uuid.UUID) (model.Payment, error)
	created []model.PaymentInfo
}

func (f *fakeLedger) Create(ctx context.Context, info model.PaymentInfo) (model.Payment, error) {
	f.log.add("payment.Create")
	if f.createErr != nil {
		return model.Payment{}, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, info)
	p := model.Payment{PaymentUID: uuid.New(), Status: info.Status, Price: info.Price}
	if f.payments == nil {
		f.payments = make(map[uuid.UUID]model.Payment)
	}
	f.payments[p.PaymentUID] = p
	return p, nil
}

func (f *fakeLedger) Get(ctx context.Context, uid uuid.UUID) (model.Payment, error) {
	f.log.add("payment.Get")
	if f.get != nil {
		return f.get(ctx, uid)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[uid]
	if !ok {
		return model.Payment{}, &client.StatusError{Service: "payment", Status: http.StatusNotFound}
	}
	return p, nil
}

func (f *fakeLedger) Cancel(ctx context.Context, uid uuid.UUID) error {
	f.log.add("payment.Cancel")
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.payments[uid]
	p.Status = model.PaymentCanceled
	f.payments[uid] = p
	return nil
}

type fakeLoyalty struct {
	log     *callLog
	mu      sync.Mutex
	account *model.Loyalty
	getErr  error
	incErr  error
	decErr  error
}

func (f *fakeLoyalty) Get(ctx context.Context, username string) (model.Loyalty, error) {
	f.log.add("loyalty.Get")
	if f.getErr != nil {
		return model.Loyalty{}, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.account == nil {
		return model.Loyalty{}, &client.StatusError{Service: "loyalty", Status: http.StatusNotFound}
	}
	return *f.account, nil
}

func (f *fakeLoyalty) Increment(ctx context.Context, username string) error {
	f.log.add("loyalty.Increment")
	if f.incErr != nil {
		return f.incErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.account == nil {
		acc := loyalty.NewAccount(username)
		f.account = &acc
		return nil
	}
	loyalty.Increment(f.account)
	return nil
}

func (f *fakeLoyalty) Decrement(ctx context.Context, username string) error {
	f.log.add("loyalty.Decrement")
	if f.decErr != nil {
		return f.decErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.account == nil {
		return &client.StatusError{Service: "loyalty", Status: http.StatusNotFound}
	}
	return loyalty.Decrement(f.account)
}

type fakeSink struct {
	events chan queue.SagaEvent
}

func (f *fakeSink) Publish(ctx context.Context, ev queue.SagaEvent) error {
	f.events <- ev
	return nil
}

type fixture struct {
	log     *callLog
	catalog *fakeCatalog
	ledger  *fakeLedger
	loyalty *fakeLoyalty
	sink    *fakeSink
	metrics *Metrics
	orch    *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := &callLog{}
	f := &fixture{
		log:     log,
		catalog: &fakeCatalog{log: log},
		ledger:  &fakeLedger{log: log},
		loyalty: &fakeLoyalty{log: log},
		sink:    &fakeSink{events: make(chan queue.SagaEvent, 4)},
		metrics: MustNewMetrics(prometheus.NewRegistry()),
	}
	f.orch = mustOrchestrator(t, Dependencies{
		Catalog: f.catalog,
		Ledger:  f.ledger,
		Loyalty: f.loyalty,
		Events:  f.sink,
		Metrics: f.metrics,
		Logger:  quietLogger(),
	})
	return f
}

// nextEvent waits for the event published at the end of a saga.
func (f *fixture) nextEvent(t *testing.T) queue.SagaEvent {
	t.Helper()
	select {
	case ev := <-f.sink.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no saga event published")
		return queue.SagaEvent{}
	}
}

// noEvent asserts that nothing was published.
func (f *fixture) noEvent(t *testing.T) {
	t.Helper()
	select {
	case ev := <-f.sink.events:
		t.Fatalf("unexpected saga event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func accountWith(count int) *model.Loyalty {
	acc := model.Loyalty{ReservationCount: count}
	acc.Status, acc.Discount = loyalty.Classify(count)
	return &acc
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustOrchestrator(t *testing.T, deps Dependencies) *Orchestrator {
	t.Helper()
	o, err := New(deps)
	require.NoError(t, err)
	return o
}
