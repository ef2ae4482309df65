// Package preference implements the user preference repository using
// PostgreSQL. Preferences are keyed one row per owner.
package preference

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/spendcheck/spendcheck-go/internal/adapter/postgres"
	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// Repo provides preference persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new preference repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `owner_id, currency_code, currency_symbol, currency_name, theme, notifications_enabled, updated_at`

const getSQL = `
SELECT ` + columns + `
FROM user_preferences
WHERE owner_id = $1`

const upsertDefaultSQL = `
INSERT INTO user_preferences (owner_id, currency_code, currency_symbol, currency_name, theme, notifications_enabled)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (owner_id) DO NOTHING`

// Get returns the owner's preference row, or domain.ErrNotFound when the
// owner has never saved one.
func (r *Repo) Get(ctx context.Context, ownerID string) (*domain.Preference, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getSQL, ownerID)
	p, err := scanPreference(row)
	if err != nil {
		return nil, postgres.MapError(err, "preference", ownerID)
	}
	return p, nil
}

// EnsureDefault inserts the default preference row for the owner if none
// exists yet, then returns the current row. Concurrent callers converge on
// a single row.
func (r *Repo) EnsureDefault(ctx context.Context, ownerID string) (*domain.Preference, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	def := domain.DefaultPreference(ownerID)
	_, err := querier.Exec(ctx, upsertDefaultSQL,
		def.OwnerID, def.CurrencyCode, def.CurrencySymbol, def.CurrencyName,
		def.Theme, def.NotificationsEnabled)
	if err != nil {
		return nil, postgres.MapError(err, "preference", ownerID)
	}
	return r.Get(ctx, ownerID)
}

// Changes holds the partial update set for a preference row. Nil fields are
// left untouched. Currency fields travel together.
type Changes struct {
	Currency             *domain.Currency
	Theme                *domain.Theme
	NotificationsEnabled *bool
}

// Update applies partial changes to the owner's preference row and returns
// the updated row. Returns domain.ErrNotFound when no row exists.
func (r *Repo) Update(ctx context.Context, ownerID string, changes Changes) (*domain.Preference, error) {
	b := sq.Update("user_preferences").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"owner_id": ownerID}).
		Suffix("RETURNING " + columns).
		PlaceholderFormat(sq.Dollar)

	if changes.Currency != nil {
		b = b.Set("currency_code", changes.Currency.Code).
			Set("currency_symbol", changes.Currency.Symbol).
			Set("currency_name", changes.Currency.Name)
	}
	if changes.Theme != nil {
		b = b.Set("theme", *changes.Theme)
	}
	if changes.NotificationsEnabled != nil {
		b = b.Set("notifications_enabled", *changes.NotificationsEnabled)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build preference update: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	row := querier.QueryRow(ctx, sql, args...)

	p, err := scanPreference(row)
	if err != nil {
		return nil, postgres.MapError(err, "preference", ownerID)
	}
	return p, nil
}

func scanPreference(row pgx.Row) (*domain.Preference, error) {
	var p domain.Preference
	err := row.Scan(&p.OwnerID, &p.CurrencyCode, &p.CurrencySymbol, &p.CurrencyName,
		&p.Theme, &p.NotificationsEnabled, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
