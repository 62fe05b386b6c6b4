// Command migrate applies or inspects the schema migrations embedded in the
// binary using the DSN from the application config.
//
// Usage:
//
//	migrate [--config=config.yaml] up|down|status
//
// Without --config the usual CONFIG_PATH lookup applies.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql

	"github.com/heartmarshall/nutrition-engine/internal/app"
	"github.com/heartmarshall/nutrition-engine/internal/config"
	"github.com/heartmarshall/nutrition-engine/migrations"
)

func main() {
	configFlag := flag.String("config", "", "path to the config YAML file")
	flag.Parse()

	command := flag.Arg(0)
	if command != "up" && command != "down" && command != "status" {
		fmt.Fprintln(os.Stderr, "Usage: migrate [--config=config.yaml] up|down|status")
		os.Exit(1)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configFlag != "" {
		cfg, err = config.LoadFile(*configFlag)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, logger, cfg.Database.DSN, command); err != nil {
		logger.Error("migrate failed",
			slog.String("command", command),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, dsn, command string) error {
	// goose requires *sql.DB.
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	provider, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		for _, r := range results {
			logger.Info("migration applied",
				slog.String("path", r.Source.Path),
				slog.Duration("duration", r.Duration),
			)
		}
		logger.Info("migrate up completed", slog.Int("applied", len(results)))

	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		logger.Info("migration rolled back",
			slog.String("path", result.Source.Path),
			slog.Duration("duration", result.Duration),
		)

	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		for _, s := range statuses {
			applied := "pending"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Printf("%-8d %-40s %-10s %s\n", s.Source.Version, s.Source.Path, s.State, applied)
		}
	}

	return nil
}
