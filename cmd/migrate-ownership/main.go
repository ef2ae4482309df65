// Command migrate-ownership reassigns one owner's spending data to another.
// It is the manual escape hatch for upgrades where the automatic post-upgrade
// migration did not run, e.g. the app was killed mid-flow. The operation is
// idempotent: rerunning it finds nothing left to move.
//
// Flags:
//
//	--from  current owner id (typically an anon_ guest id; required)
//	--to    target owner id (required)
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/spendcheck/spendcheck-go/internal/adapter/postgres"
	pgentry "github.com/spendcheck/spendcheck-go/internal/adapter/postgres/entry"
	"github.com/spendcheck/spendcheck-go/internal/app"
	"github.com/spendcheck/spendcheck-go/internal/config"
)

func main() {
	fromFlag := flag.String("from", "", "current owner id")
	toFlag := flag.String("to", "", "target owner id")
	flag.Parse()

	if *fromFlag == "" || *toFlag == "" {
		log.Fatal("both --from and --to are required")
	}
	if *fromFlag == *toFlag {
		log.Fatal("--from and --to must differ")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	moved, err := pgentry.New(pool).MigrateOwnership(ctx, *fromFlag, *toFlag)
	if err != nil {
		logger.Error("migrate ownership", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("ownership migrated",
		slog.String("from", *fromFlag),
		slog.String("to", *toFlag),
		slog.Int("entries", moved))
}
