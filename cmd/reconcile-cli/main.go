package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/marketrecon-backend/internal/app"
	"github.com/angelmondragon/marketrecon-backend/internal/fees"
	"github.com/angelmondragon/marketrecon-backend/pkg/config"
	"github.com/angelmondragon/marketrecon-backend/pkg/db"
	"github.com/angelmondragon/marketrecon-backend/pkg/logger"
	"github.com/angelmondragon/marketrecon-backend/pkg/migrate"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return
	}

	_ = godotenv.Load()

	logg := logger.New(logger.Options{ServiceName: "reconcile-cli", Output: os.Stderr})
	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "reconcile-cli",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Output:      os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// the default fee preview needs no marketplace row
	if os.Args[1] == "fees" && len(os.Args) < 4 {
		r := newRunner(nil, nil, nil, fees.NewResolverFromConfig(cfg.Reconciliation), os.Stdout)
		exit(r.run(ctx, os.Args[1:]))
		return
	}

	dbClient, err := db.Open(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	services, err := app.NewServices(cfg, logg, dbClient, nil)
	if err != nil {
		logg.Error(ctx, "failed to wire services", err)
		os.Exit(1)
	}

	r := newRunner(services.Sync, services.Reconciliation, services.MarketplaceRepo, services.Fees, os.Stdout)
	runErr := r.run(ctx, os.Args[1:])
	if err := dbClient.Close(); err != nil {
		logg.Error(ctx, "error closing database", err)
	}
	exit(runErr)
}

func exit(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
