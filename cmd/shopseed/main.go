// Command shopseed applies migrations and loads demo users and the starter
// catalog. It reads the same configuration as shopd.
package main

import (
	"context"
	"log"
	"os"

	"github.com/naazbookdepot/shopauth/internal/config"
	"github.com/naazbookdepot/shopauth/internal/logging"
	"github.com/naazbookdepot/shopauth/internal/repositories/repomanager"
	"github.com/naazbookdepot/shopauth/internal/seed"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	s, err := seed.NewSeeder(db, rm, nil, logger)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if _, err := s.Run(ctx); err != nil {
		logger.Error(ctx, "seed failed", "error", err)
		os.Exit(1)
	}
}
