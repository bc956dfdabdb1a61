// Package gateway coordinates the reservation, payment and loyalty services
// on behalf of one user request.
//
// The create and cancel sagas run their steps strictly in order and stop at
// the first failure.  Nothing is compensated: side effects made before the
// failing step stay in place and are reported through the EventSink so an
// operator can reconcile them.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iliyamo/hotel-reservation/internal/client"
	"github.com/iliyamo/hotel-reservation/internal/loyalty"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// ErrBadRequest marks invalid user input.
var ErrBadRequest = errors.New("bad request")

const (
	sagaCreate = "create"
	sagaCancel = "cancel"

	stepFetchHotel        = "fetch_hotel"
	stepFetchLoyalty      = "fetch_loyalty"
	stepCreatePayment     = "create_payment"
	stepIncrementLoyalty  = "increment_loyalty"
	stepCreateReservation = "create_reservation"

	stepFetchReservation  = "fetch_reservation"
	stepCancelReservation = "cancel_reservation"
	stepCancelPayment     = "cancel_payment"
	stepDecrementLoyalty  = "decrement_loyalty"
)

// publishTimeout bounds one best-effort event publication.
const publishTimeout = 5 * time.Second

// Dependencies wires an Orchestrator.  Events, Metrics and Tracer are
// optional; Tracer defaults to the process-wide provider.
type Dependencies struct {
	Catalog Catalog
	Ledger  Ledger
	Loyalty LoyaltyProgram
	Events  EventSink
	Metrics *Metrics
	Tracer  trace.TracerProvider
	Logger  *slog.Logger
}

// Orchestrator is stateless between requests and safe for concurrent use.
type Orchestrator struct {
	catalog Catalog
	ledger  Ledger
	loyalty LoyaltyProgram
	events  EventSink
	metrics *Metrics
	log     *slog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

func New(deps Dependencies) (*Orchestrator, error) {
	if deps.Catalog == nil || deps.Ledger == nil || deps.Loyalty == nil {
		return nil, errors.New("gateway: catalog, ledger and loyalty are required")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	tp := deps.Tracer
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Orchestrator{
		catalog: deps.Catalog,
		ledger:  deps.Ledger,
		loyalty: deps.Loyalty,
		events:  deps.Events,
		metrics: deps.Metrics,
		log:     log,
		tracer:  tp.Tracer("hotel-reservation/gateway"),
		now:     time.Now,
	}, nil
}

// CreateReservation books a hotel for username.
//
// Steps: fetch hotel, price the stay, fetch loyalty (an unknown user gets
// the default account), discount, create payment, increment loyalty,
// create the reservation row.  The discount comes from the account before
// the increment.  Stays where end precedes start produce a negative price
// and are not rejected.
func (o *Orchestrator) CreateReservation(ctx context.Context, username string, in CreateReservationInput) (CreateReservationResult, error) {
	if username == "" || in.HotelUID == uuid.Nil || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return CreateReservationResult{}, ErrBadRequest
	}
	ctx, run := o.begin(ctx, sagaCreate, username)
	run.event.HotelUID = in.HotelUID.String()

	hotel, err := o.catalog.GetHotel(ctx, in.HotelUID)
	if err != nil {
		return CreateReservationResult{}, run.fail(ctx, stepFetchHotel, err)
	}
	rawCost := in.StartDate.DaysUntil(in.EndDate) * hotel.Price

	acc, err := o.loyalty.Get(ctx, username)
	if client.IsNotFound(err) {
		acc, err = loyalty.Default(), nil
	}
	if err != nil {
		return CreateReservationResult{}, run.fail(ctx, stepFetchLoyalty, err)
	}
	cost := loyalty.ApplyDiscount(rawCost, acc.Discount)

	payment, err := o.ledger.Create(ctx, model.PaymentInfo{Status: model.PaymentPaid, Price: cost})
	if err != nil {
		return CreateReservationResult{}, run.fail(ctx, stepCreatePayment, err)
	}
	run.done(stepCreatePayment)
	run.event.PaymentUID = payment.PaymentUID.String()
	run.event.Price = &cost

	if err := o.loyalty.Increment(ctx, username); err != nil {
		return CreateReservationResult{}, run.fail(ctx, stepIncrementLoyalty, err)
	}
	run.done(stepIncrementLoyalty)

	start, end := in.StartDate.Time, in.EndDate.Time
	res, err := o.catalog.CreateReservation(ctx, username, model.CreateReservationRequest{
		HotelUID:   in.HotelUID,
		PaymentUID: payment.PaymentUID,
		StartDate:  &start,
		EndDate:    &end,
	})
	if err != nil {
		return CreateReservationResult{}, run.fail(ctx, stepCreateReservation, err)
	}
	run.done(stepCreateReservation)
	run.event.ReservationUID = res.ReservationUID.String()
	run.succeed(ctx, queue.SagaCreated)

	return CreateReservationResult{
		ReservationUID: res.ReservationUID,
		HotelUID:       in.HotelUID,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Discount:       acc.Discount,
		Status:         res.Status,
		Payment:        model.PaymentInfo{Status: payment.Status, Price: payment.Price},
	}, nil
}

// CancelReservation cancels a reservation of username: reservation row,
// then payment, then loyalty counter.  A failing step leaves the earlier
// ones applied.
func (o *Orchestrator) CancelReservation(ctx context.Context, username string, uid uuid.UUID) error {
	if username == "" || uid == uuid.Nil {
		return ErrBadRequest
	}
	ctx, run := o.begin(ctx, sagaCancel, username)
	run.event.ReservationUID = uid.String()

	res, err := o.catalog.GetReservation(ctx, username, uid)
	if err != nil {
		return run.fail(ctx, stepFetchReservation, err)
	}
	run.event.HotelUID = res.Hotel.HotelUID.String()
	run.event.PaymentUID = res.PaymentUID.String()

	if err := o.catalog.CancelReservation(ctx, username, uid); err != nil {
		return run.fail(ctx, stepCancelReservation, err)
	}
	run.done(stepCancelReservation)

	if err := o.ledger.Cancel(ctx, res.PaymentUID); err != nil {
		return run.fail(ctx, stepCancelPayment, err)
	}
	run.done(stepCancelPayment)

	if err := o.loyalty.Decrement(ctx, username); err != nil {
		return run.fail(ctx, stepDecrementLoyalty, err)
	}
	run.done(stepDecrementLoyalty)
	run.succeed(ctx, queue.SagaCanceled)
	return nil
}

// sagaRun tracks one saga execution for logging, metrics, tracing and the
// event published at its end.
type sagaRun struct {
	o     *Orchestrator
	start time.Time
	span  trace.Span
	event queue.SagaEvent
}

func (o *Orchestrator) begin(ctx context.Context, saga, username string) (context.Context, *sagaRun) {
	ctx, span := o.tracer.Start(ctx, "saga."+saga, trace.WithAttributes(
		attribute.String("saga", saga),
		attribute.String("username", username),
	))
	return ctx, &sagaRun{
		o:     o,
		start: o.now(),
		span:  span,
		event: queue.SagaEvent{Saga: saga, Username: username, TraceID: traceID(span)},
	}
}

func (r *sagaRun) done(step string) {
	r.event.CompletedSteps = append(r.event.CompletedSteps, step)
	r.span.AddEvent(step)
}

func (r *sagaRun) succeed(ctx context.Context, kind queue.SagaKind) {
	defer r.span.End()
	r.o.metrics.ObserveSaga(r.event.Saga, "ok", r.o.now().Sub(r.start))
	r.event.Kind = kind
	r.o.log.InfoContext(ctx, "saga completed",
		"saga", r.event.Saga,
		"username", r.event.Username,
		"reservation_uid", r.event.ReservationUID,
		"payment_uid", r.event.PaymentUID)
	r.publish(ctx)
}

// fail ends the run at step and returns err unchanged.  An event is only
// published when an earlier step already changed another service.
func (r *sagaRun) fail(ctx context.Context, step string, err error) error {
	defer r.span.End()
	r.span.RecordError(err)
	r.span.SetStatus(codes.Error, step)
	r.o.metrics.IncStepFailure(r.event.Saga, step, failureReason(err))
	r.o.metrics.ObserveSaga(r.event.Saga, "failed", r.o.now().Sub(r.start))

	attrs := []any{
		"saga", r.event.Saga,
		"step", step,
		"username", r.event.Username,
		"error", err,
	}
	if len(r.event.CompletedSteps) == 0 {
		r.o.log.WarnContext(ctx, "saga aborted", attrs...)
		return err
	}
	r.o.log.ErrorContext(ctx, "saga incomplete", append(attrs, "completed", r.event.CompletedSteps)...)
	r.event.Kind = queue.SagaIncomplete
	r.event.FailedStep = step
	r.event.Error = err.Error()
	r.publish(ctx)
	return err
}

func (r *sagaRun) publish(ctx context.Context) {
	if r.o.events == nil {
		return
	}
	ev := r.event
	ev.CompletedSteps = append([]string(nil), r.event.CompletedSteps...)
	ev.OccurredAt = r.o.now().UTC().Format(time.RFC3339)
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := r.o.events.Publish(ctx, ev); err != nil {
			r.o.log.Warn("saga event not published", "saga", ev.Saga, "kind", ev.Kind, "error", err)
		}
	}()
}

func failureReason(err error) string {
	var se *client.StatusError
	switch {
	case errors.As(err, &se):
		return strconv.Itoa(se.Status)
	case errors.Is(err, client.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, client.ErrUnparseable):
		return "unparseable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

func traceID(span trace.Span) string {
	if sc := span.SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}
