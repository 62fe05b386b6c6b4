// Command cleanup removes suggestion batches older than the configured
// retention period. It is intended to be invoked by an external cron job,
// not as an in-process goroutine.
//
// Batches kept in Redis expire through their key TTL and are not touched.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/nutrition-engine/internal/app"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	e, err := app.Bootstrap(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer e.Close()

	threshold := time.Now().AddDate(0, 0, -e.Config.Retention.SuggestionBatchDays)

	deleted, err := e.Batches.DeleteOlderThan(ctx, threshold)
	if err != nil {
		e.Log.Error("suggestion batch cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		e.Close()
		os.Exit(1)
	}

	e.Log.Info("suggestion batch cleanup completed",
		slog.Int64("deleted", deleted),
		slog.Time("threshold", threshold),
	)
}
