// Package router maps HTTP routes onto handlers for the four services.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

const apiPrefix = "/api/v1"

// RegisterHealth exposes the liveness probe under both of its paths.
func RegisterHealth(e *echo.Echo) {
	e.GET("/manage/health", handler.Health)
	e.GET("/health", handler.Health)
}

// RegisterMetrics exposes the collectors of gatherer at /metrics.
func RegisterMetrics(e *echo.Echo, gatherer prometheus.Gatherer) {
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

// GatewayEdge bundles the optional edge middlewares of the gateway.
type GatewayEdge struct {
	JWTSecret  string
	RateLimit  echo.MiddlewareFunc
	HotelCache echo.MiddlewareFunc
}

// RegisterGateway registers the public API.  Identity runs first so the
// rate limiter can key buckets by user; only the hotel list is cached.
func RegisterGateway(e *echo.Echo, h *handler.GatewayHandler, edge GatewayEdge) {
	g := e.Group(apiPrefix, middleware.Identity(edge.JWTSecret))
	if edge.RateLimit != nil {
		g.Use(edge.RateLimit)
	}

	if edge.HotelCache != nil {
		g.GET("/hotels", h.ListHotels, edge.HotelCache)
	} else {
		g.GET("/hotels", h.ListHotels)
	}
	g.GET("/me", h.Me)
	g.GET("/loyalty", h.GetLoyalty)
	g.GET("/reservations", h.ListReservations)
	g.POST("/reservations", h.CreateReservation)
	g.GET("/reservations/:reservationUid", h.GetReservation)
	g.DELETE("/reservations/:reservationUid", h.CancelReservation)
}

// RegisterReservation registers the hotel catalog and reservation store.
func RegisterReservation(e *echo.Echo, h *handler.ReservationHandler) {
	g := e.Group(apiPrefix, middleware.Identity(""))
	g.GET("/hotels", h.ListHotels)
	g.GET("/hotels/:hotelUid", h.GetHotel)
	g.GET("/reservations", h.ListReservations)
	g.POST("/reservations", h.CreateReservation)
	g.GET("/reservations/:reservationUid", h.GetReservation)
	g.DELETE("/reservations/:reservationUid", h.CancelReservation)
}

// RegisterPayment registers the payment ledger.
func RegisterPayment(e *echo.Echo, h *handler.PaymentHandler) {
	g := e.Group(apiPrefix + "/payment")
	g.POST("", h.Create)
	g.GET("/:paymentUid", h.Get)
	g.DELETE("/:paymentUid", h.Cancel)
}

// RegisterLoyalty registers the loyalty service.
func RegisterLoyalty(e *echo.Echo, h *handler.LoyaltyHandler) {
	g := e.Group(apiPrefix+"/loyalty", middleware.Identity(""))
	g.GET("", h.Get)
	g.PUT("", h.Increment)
	g.DELETE("", h.Decrement)
}
