// Package entry implements the SpendingEntry repository using PostgreSQL,
// including the server-side ownership migration function used when an
// anonymous identity upgrades to a real account.
package entry

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/spendcheck/spendcheck-go/internal/adapter/postgres"
	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// Repo provides spending entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new spending entry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `id, owner_id, amount, currency_code, category_id, category_label, occurred_at, created_at`

const insertSQL = `
INSERT INTO spending_entries (owner_id, amount, currency_code, category_id, category_label, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + columns

const deleteSQL = `
DELETE FROM spending_entries
WHERE id = $1 AND owner_id = $2`

const migrateOwnershipSQL = `
SELECT success, migrated_count FROM migrate_anonymous_spending_data($1, $2)`

const totalsSQL = `
SELECT COALESCE(SUM(amount), 0), COUNT(*)
FROM spending_entries
WHERE owner_id = $1 AND occurred_at >= $2 AND occurred_at < $3`

const totalsByLabelSQL = `
SELECT COALESCE(NULLIF(category_label, ''), $4), COALESCE(SUM(amount), 0), COUNT(*)
FROM spending_entries
WHERE owner_id = $1 AND occurred_at >= $2 AND occurred_at < $3
GROUP BY 1
ORDER BY 2 DESC, 1 ASC`

// ListForOwner returns the owner's entries matching the filter, newest first
// by creation time. Returns an empty slice (not nil) when nothing matches.
func (r *Repo) ListForOwner(ctx context.Context, ownerID string, f Filter) ([]domain.SpendingEntry, error) {
	f.normalize()

	b := sq.Select(columns).
		From("spending_entries").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		Limit(uint64(f.Limit)).
		PlaceholderFormat(sq.Dollar)

	if f.StartDate != nil {
		b = b.Where(sq.GtOrEq{"occurred_at": *f.StartDate})
	}
	if f.EndDate != nil {
		b = b.Where(sq.Lt{"occurred_at": *f.EndDate})
	}
	if f.CategoryID != nil {
		b = b.Where(sq.Eq{"category_id": *f.CategoryID})
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build entry list: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Insert persists a new entry; id and created_at are server-assigned.
func (r *Repo) Insert(ctx context.Context, e domain.SpendingEntry) (*domain.SpendingEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, insertSQL,
		e.OwnerID, e.Amount, e.CurrencyCode, e.CategoryID, e.CategoryLabel, e.OccurredAt)

	created, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "spending_entry", e.OwnerID)
	}
	return created, nil
}

// Update applies partial changes to an entry scoped by (id, owner_id).
// Returns domain.ErrNotFound when the row does not belong to the owner.
func (r *Repo) Update(ctx context.Context, ownerID string, id uuid.UUID, changes Changes) (*domain.SpendingEntry, error) {
	b := sq.Update("spending_entries").
		Where(sq.Eq{"id": id, "owner_id": ownerID}).
		Suffix("RETURNING " + columns).
		PlaceholderFormat(sq.Dollar)

	set := false
	if changes.Amount != nil {
		b = b.Set("amount", *changes.Amount)
		set = true
	}
	if changes.CurrencyCode != nil {
		b = b.Set("currency_code", *changes.CurrencyCode)
		set = true
	}
	if changes.CategoryID != nil {
		b = b.Set("category_id", *changes.CategoryID)
		set = true
	}
	if changes.CategoryLabel != nil {
		b = b.Set("category_label", *changes.CategoryLabel)
		set = true
	}
	if changes.OccurredAt != nil {
		b = b.Set("occurred_at", *changes.OccurredAt)
		set = true
	}
	if !set {
		// Nothing to change; return the current row.
		return r.getByID(ctx, ownerID, id)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build entry update: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	row := querier.QueryRow(ctx, sql, args...)

	updated, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "spending_entry", id.String())
	}
	return updated, nil
}

// Delete removes an entry scoped by (id, owner_id).
// Returns domain.ErrNotFound when the row does not belong to the owner.
func (r *Repo) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, id, ownerID)
	if err != nil {
		return postgres.MapError(err, "spending_entry", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("spending_entry %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// MigrateOwnership invokes the server-side migrate_anonymous_spending_data
// function, which reassigns spending entries and the preference row from
// fromID to toID in a single transaction. Returns the number of entries
// reassigned.
func (r *Repo) MigrateOwnership(ctx context.Context, fromID, toID string) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		success bool
		count   int
	)
	if err := querier.QueryRow(ctx, migrateOwnershipSQL, fromID, toID).Scan(&success, &count); err != nil {
		return 0, fmt.Errorf("migrate ownership %s -> %s: %v: %w", fromID, toID, err, domain.ErrMigration)
	}
	if !success {
		return 0, fmt.Errorf("migrate ownership %s -> %s: server reported failure: %w", fromID, toID, domain.ErrMigration)
	}
	return count, nil
}

// TotalsBetween aggregates the owner's entries with start <= occurred_at < end
// server-side, so the result is exact regardless of row count.
func (r *Repo) TotalsBetween(ctx context.Context, ownerID string, start, end time.Time) (float64, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		sum   float64
		count int
	)
	if err := querier.QueryRow(ctx, totalsSQL, ownerID, start, end).Scan(&sum, &count); err != nil {
		return 0, 0, postgres.MapError(err, "spending_entry", ownerID)
	}
	return sum, count, nil
}

// LabelTotal is one per-label aggregate row from TotalsByLabel.
type LabelTotal struct {
	Label string
	Sum   float64
	Count int
}

// TotalsByLabel groups the owner's entries with start <= occurred_at < end by
// their frozen category label, largest sum first. Entries without a label
// are grouped under fallbackLabel.
func (r *Repo) TotalsByLabel(ctx context.Context, ownerID string, start, end time.Time, fallbackLabel string) ([]LabelTotal, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, totalsByLabelSQL, ownerID, start, end, fallbackLabel)
	if err != nil {
		return nil, postgres.MapError(err, "spending_entry", ownerID)
	}
	defer rows.Close()

	totals := make([]LabelTotal, 0)
	for rows.Next() {
		var t LabelTotal
		if err := rows.Scan(&t.Label, &t.Sum, &t.Count); err != nil {
			return nil, postgres.MapError(err, "spending_entry", ownerID)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "spending_entry", ownerID)
	}
	return totals, nil
}

// Changes holds the partial update set for an entry. Nil fields are left
// untouched.
type Changes struct {
	Amount        *float64
	CurrencyCode  *string
	CategoryID    *uuid.UUID
	CategoryLabel *string
	OccurredAt    *time.Time
}

const getByIDSQL = `
SELECT ` + columns + `
FROM spending_entries
WHERE id = $1 AND owner_id = $2`

func (r *Repo) getByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.SpendingEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, id, ownerID)
	e, err := scanEntry(row)
	if err != nil {
		return nil, postgres.MapError(err, "spending_entry", id.String())
	}
	return e, nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanEntry(row pgx.Row) (*domain.SpendingEntry, error) {
	var (
		e          domain.SpendingEntry
		categoryID pgtype.UUID
		label      pgtype.Text
	)
	err := row.Scan(&e.ID, &e.OwnerID, &e.Amount, &e.CurrencyCode,
		&categoryID, &label, &e.OccurredAt, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := uuid.UUID(categoryID.Bytes)
		e.CategoryID = &id
	}
	if label.Valid {
		e.CategoryLabel = &label.String
	}
	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]domain.SpendingEntry, error) {
	out := []domain.SpendingEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}
