// Command loyalty serves loyalty accounts and runs the tier engine.
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
		slog.Error("loyalty service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadStore()
	log := logging.New("loyalty", cfg.LogLevel)

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	tp, err := tracing.Setup(ctx, "loyalty", config.LoadTracingConfig())
	if err != nil {
		return err
	}
	defer tracing.Shutdown(tp, log)

	if err := database.EnsureSchema(ctx, db, database.LoyaltySchema); err != nil {
		return err
	}

	e := server.New(log)
	router.RegisterHealth(e)
	router.RegisterLoyalty(e, handler.NewLoyaltyHandler(repository.NewLoyaltyRepo(db), log))
	log.Info("loyalty service starting", "env", cfg.Env, "db", cfg.DBName)
	return server.Run(ctx, e, ":"+cfg.Port, log)
}
