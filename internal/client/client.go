// Package client implements the gateway's HTTP clients for the reservation,
// payment and loyalty services.
//
// Every call reports failures in one of three shapes so the gateway can map
// them to a single HTTP status:
//
//	ErrUnavailable  – the request never produced a response (dial, reset, ...)
//	*StatusError    – the service answered with a non-2xx status
//	ErrUnparseable  – a 2xx response whose body could not be decoded
//
// Requests carry no timeout of their own; the caller's context and the
// transport defaults bound them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// UserHeader carries the acting username between services.
const UserHeader = "X-User-Name"

const tracerName = "hotel-reservation/client"

var (
	ErrUnavailable = errors.New("upstream unavailable")
	ErrUnparseable = errors.New("upstream response unparseable")
)

// StatusError is a non-2xx answer of a collaborator.
type StatusError struct {
	Service string
	Status  int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded %d", e.Service, e.Status)
}

// IsNotFound reports whether err is a 404 answer of any collaborator.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// Option customizes a client.
type Option func(*base)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(b *base) { b.http = hc }
}

// WithTracing replaces the process-wide tracer provider and propagator.
func WithTracing(tp trace.TracerProvider, prop propagation.TextMapPropagator) Option {
	return func(b *base) {
		b.tracer = tp.Tracer(tracerName)
		b.propagator = prop
	}
}

// base is the shared plumbing of the three service clients.
type base struct {
	service    string
	baseURL    string
	http       *http.Client
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

func newBase(service, baseURL string, opts []Option) base {
	b := base{
		service: service,
		baseURL: baseURL,
		http:    http.DefaultClient,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// call performs one request.  body, when non-nil, is sent as JSON; out,
// when non-nil, receives the decoded 2xx response.
func (b *base) call(ctx context.Context, method, path, username string, body, out any) (err error) {
	ctx, span := b.tracer.Start(ctx, b.service+" "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if username != "" {
		req.Header.Set(UserHeader, username)
	}
	prop := b.propagator
	if prop == nil {
		prop = otel.GetTextMapPropagator()
	}
	prop.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s %s: %w: %v", b.service, method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Service: b.service, Status: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s %s: %w: %v", b.service, method, path, ErrUnparseable, err)
	}
	return nil
}
