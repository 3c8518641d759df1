package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"auraz-storefront/internal/config"
	"auraz-storefront/internal/db"
	"auraz-storefront/internal/migrate"
	"auraz-storefront/internal/seed"
)

func main() {
	withMigrate := flag.Bool("migrate", false, "apply schema migrations before seeding")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if *withMigrate {
		if err := migrate.Apply(ctx, pool); err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
	}

	// Catalog rows are upserted by id, so reseeding restores edited defaults.
	start := time.Now()
	if err := seed.Apply(ctx, pool, logger); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}
	logger.Printf("catalog seeded in %s", time.Since(start).Truncate(time.Millisecond))
}
