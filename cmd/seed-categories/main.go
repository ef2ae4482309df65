// Command seed-categories applies schema migrations and upserts the shared
// system default categories. It is idempotent and safe to run repeatedly,
// including concurrently from several app instances.
//
// Flags:
//
//	--migrations      directory with goose migration files (default: ./migrations)
//	--skip-migrations upsert the defaults without touching the schema
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	_ "github.com/joho/godotenv/autoload"
	"github.com/pressly/goose/v3"

	"github.com/spendcheck/spendcheck-go/internal/adapter/postgres"
	pgcategory "github.com/spendcheck/spendcheck-go/internal/adapter/postgres/category"
	"github.com/spendcheck/spendcheck-go/internal/app"
	"github.com/spendcheck/spendcheck-go/internal/config"
	"github.com/spendcheck/spendcheck-go/internal/domain"
)

func main() {
	migrationsFlag := flag.String("migrations", "./migrations", "directory with goose migration files")
	skipMigrationsFlag := flag.Bool("skip-migrations", false, "upsert the defaults without touching the schema")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if !*skipMigrationsFlag {
		if err := migrate(ctx, cfg.Database.DSN, *migrationsFlag); err != nil {
			logger.Error("apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("migrations applied", slog.String("dir", *migrationsFlag))
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	repo := pgcategory.New(pool)
	if err := repo.SeedSystemDefaults(ctx, domain.SystemCategories()); err != nil {
		logger.Error("seed system categories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("system default categories seeded",
		slog.Int("count", len(domain.SystemCategories())))
}

// migrate applies pending goose migrations. goose requires *sql.DB, so the
// DSN is opened through the pgx database/sql driver.
func migrate(ctx context.Context, dsn, dir string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(dir))
	if err != nil {
		return err
	}
	if _, err := provider.Up(ctx); err != nil {
		return err
	}
	return nil
}
