// Command gateway is the public edge of the booking system.  It owns no
// data: every request is served by orchestrating the reservation, payment
// and loyalty services.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iliyamo/hotel-reservation/internal/client"
	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/gateway"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/logging"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/router"
	"github.com/iliyamo/hotel-reservation/internal/server"
	"github.com/iliyamo/hotel-reservation/internal/tracing"
)

func main() {
	if err := run(); err != nil {
		slog.Error("gateway stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadGateway()
	log := logging.New("gateway", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.Setup(ctx, "gateway", config.LoadTracingConfig())
	if err != nil {
		return err
	}
	defer tracing.Shutdown(tp, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var events gateway.EventSink
	if cfg.AMQPURL != "" {
		events = queue.NewPublisher(cfg.AMQPURL, log)
		if cfg.SagaAuditLog != "" {
			audit := queue.NewAuditConsumer(cfg.AMQPURL, cfg.SagaAuditLog, log)
			go func() {
				if err := audit.Run(ctx); err != nil && ctx.Err() == nil {
					log.Error("audit consumer stopped", "error", err)
				}
			}()
		}
	} else {
		log.Warn("RABBITMQ_URL not set, saga events are not published")
	}

	orch, err := gateway.New(gateway.Dependencies{
		Catalog: client.NewCatalogClient(cfg.ReservationURL),
		Ledger:  client.NewPaymentClient(cfg.PaymentURL),
		Loyalty: client.NewLoyaltyClient(cfg.LoyaltyURL),
		Events:  events,
		Metrics: gateway.MustNewMetrics(reg),
		Tracer:  tp,
		Logger:  log,
	})
	if err != nil {
		return err
	}

	rdb := config.NewRedisClient(log)
	if rdb != nil {
		defer rdb.Close()
	}

	e := server.New(log)
	router.RegisterHealth(e)
	router.RegisterMetrics(e, reg)
	router.RegisterGateway(e, handler.NewGatewayHandler(orch, log), router.GatewayEdge{
		JWTSecret:  cfg.JWTSecret,
		RateLimit:  middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		HotelCache: middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	log.Info("gateway starting",
		"env", cfg.Env,
		"reservation_url", cfg.ReservationURL,
		"payment_url", cfg.PaymentURL,
		"loyalty_url", cfg.LoyaltyURL)
	return server.Run(ctx, e, ":"+cfg.Port, log)
}
