// Command reservation serves the hotel catalog and reservation rows.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/logging"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
	"github.com/iliyamo/hotel-reservation/internal/server"
	"github.com/iliyamo/hotel-reservation/internal/tracing"
)

func main() {
	if err := run(); err != nil {
		slog.Error("reservation service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadStore()
	log := logging.New("reservation", cfg.LogLevel)

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	tp, err := tracing.Setup(ctx, "reservation", config.LoadTracingConfig())
	if err != nil {
		return err
	}
	defer tracing.Shutdown(tp, log)

	if err := database.EnsureSchema(ctx, db, database.ReservationSchema); err != nil {
		return err
	}

	e := server.New(log)
	router.RegisterHealth(e)
	router.RegisterReservation(e, handler.NewReservationHandler(
		repository.NewHotelRepo(db),
		repository.NewReservationRepo(db),
		log,
	))
	log.Info("reservation service starting", "env", cfg.Env, "db", cfg.DBName)
	return server.Run(ctx, e, ":"+cfg.Port, log)
}
