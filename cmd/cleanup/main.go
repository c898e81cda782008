// Command cleanup deletes consumed and expired one-time codes. Run it from
// cron; the API never reads them again, the rows are only kept until the next
// sweep.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cloudvault/internal/adapter/repo"
	"cloudvault/internal/infra"
)

func main() {
	var timeoutFlag time.Duration
	flag.DurationVar(&timeoutFlag, "timeout", 10*time.Second, "database operation timeout")
	flag.Parse()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeoutFlag)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "cleanup").Logger()
	runner := infra.NewSQLRunner(pool, logger)
	codes := repo.NewCodeRepository(runner)

	deleted, err := codes.PurgeExpired(ctx)
	if err != nil {
		exitWithError(fmt.Errorf("purge failed: %w", err))
	}
	logger.Info().Int64("deleted", deleted).Msg("one-time codes purged")
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
