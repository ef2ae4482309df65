package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spendcheck/spendcheck-go/internal/adapter/authapi"
	"github.com/spendcheck/spendcheck-go/internal/adapter/postgres"
	pgcategory "github.com/spendcheck/spendcheck-go/internal/adapter/postgres/category"
	pgentry "github.com/spendcheck/spendcheck-go/internal/adapter/postgres/entry"
	pgpreference "github.com/spendcheck/spendcheck-go/internal/adapter/postgres/preference"
	"github.com/spendcheck/spendcheck-go/internal/config"
	"github.com/spendcheck/spendcheck-go/internal/domain"
	"github.com/spendcheck/spendcheck-go/internal/localstore"
	"github.com/spendcheck/spendcheck-go/internal/service/category"
	"github.com/spendcheck/spendcheck-go/internal/service/identity"
	"github.com/spendcheck/spendcheck-go/internal/service/preference"
	"github.com/spendcheck/spendcheck-go/internal/service/spending"
)

// App wires configuration, adapters, and services together. It is the
// composition root; callers hold it for the process lifetime and Close it
// on shutdown.
type App struct {
	Log         *slog.Logger
	Identity    *identity.Service
	Preferences *preference.Service
	Categories  *category.Service
	Spending    *spending.Service

	pool  *pgxpool.Pool
	local *localstore.Store
}

// New builds a fully wired App from configuration. It connects the data
// gateway pool, opens the device-local store, and registers the
// post-upgrade migration hook on identity transitions.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app.New: %w", err)
	}

	local, err := localstore.Open(cfg.Local.Path)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("app.New: %w", err)
	}

	authClient := authapi.New(cfg.Auth, logger)
	identitySvc := identity.NewService(logger, authClient, local)

	preferenceSvc := preference.NewService(logger, identitySvc, pgpreference.New(pool), local)
	categorySvc := category.NewService(logger, identitySvc, pgcategory.New(pool))

	loc := time.Local
	if cfg.Local.Timezone != "" {
		loc = spending.ParseTimezone(cfg.Local.Timezone)
	}
	spendingSvc := spending.NewService(logger, identitySvc, pgentry.New(pool), categorySvc, loc)

	a := &App{
		Log:         logger,
		Identity:    identitySvc,
		Preferences: preferenceSvc,
		Categories:  categorySvc,
		Spending:    spendingSvc,
		pool:        pool,
		local:       local,
	}
	identitySvc.Subscribe(a.onTransition)
	return a, nil
}

// onTransition runs the one-time guest data migration when an anonymous
// identity upgrades to a real account. Entries move first so the
// preference merge sees the account's server state last.
func (a *App) onTransition(ctx context.Context, tr domain.Transition) error {
	if !tr.BecameReal {
		return nil
	}

	moved, err := a.Spending.MigrateOwnership(ctx, tr.From.ID, tr.To.ID)
	if err != nil {
		return fmt.Errorf("migrate spending data: %w", err)
	}
	if err := a.Preferences.MigrateFromGuest(ctx, tr.To.ID); err != nil {
		return fmt.Errorf("migrate guest preferences: %w", err)
	}

	a.Log.InfoContext(ctx, "guest data migrated",
		slog.String("from", tr.From.ID),
		slog.String("to", tr.To.ID),
		slog.Int("entries", moved))
	return nil
}

// Close releases the pool and the local store. Safe to call once.
func (a *App) Close() {
	if a.local != nil {
		_ = a.local.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// Run is the application entry point used by the main command. It loads
// configuration, initializes the logger, wires the App, and resolves the
// startup identity (reusing a stored session or signing in anonymously).
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.Identity.ResolveCurrentIdentity(ctx)
	if err != nil {
		return fmt.Errorf("resolve identity: %w", err)
	}
	logger.Info("identity resolved",
		slog.String("user_id", id.ID),
		slog.String("state", string(a.Identity.State())),
	)

	if _, err := a.Preferences.Load(ctx); err != nil {
		logger.Warn("preferences unavailable", slog.Any("error", err))
	}

	<-ctx.Done()
	return nil
}
