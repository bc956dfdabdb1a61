package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "hotel-reservation/http"

// Trace continues the caller's trace from the request headers and wraps the
// handler in a server span.  Nil arguments fall back to the process-wide
// provider and propagator, looked up per request.
func Trace(tp trace.TracerProvider, prop propagation.TextMapPropagator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			provider, carrier := tp, prop
			if provider == nil {
				provider = otel.GetTracerProvider()
			}
			if carrier == nil {
				carrier = otel.GetTextMapPropagator()
			}

			req := c.Request()
			route := c.Path()
			ctx := carrier.Extract(req.Context(), propagation.HeaderCarrier(req.Header))
			ctx, span := provider.Tracer(tracerName).Start(ctx, req.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", req.Method),
					attribute.String("http.route", route),
				))
			defer span.End()
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			span.SetAttributes(attribute.Int("http.status_code", status))
			if err != nil {
				span.RecordError(err)
			}
			if err != nil || status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
			return err
		}
	}
}
