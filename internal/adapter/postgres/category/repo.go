// Package category implements the Category repository using PostgreSQL.
package category

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/spendcheck/spendcheck-go/internal/adapter/postgres"
	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// Repo provides category persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new category repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `id, owner_id, name, color, icon, is_default, is_active, created_at, updated_at`

const listForOwnerSQL = `
SELECT ` + columns + `
FROM categories
WHERE is_active AND (owner_id IS NULL OR owner_id = $1)
ORDER BY is_default DESC, name ASC`

const getByIDSQL = `
SELECT ` + columns + `
FROM categories
WHERE id = $1 AND (owner_id = $2 OR owner_id IS NULL)`

const insertSQL = `
INSERT INTO categories (owner_id, name, name_normalized, color, icon, is_default, is_active)
VALUES ($1, $2, $3, $4, $5, false, true)
RETURNING ` + columns

const softDeleteSQL = `
UPDATE categories
SET is_active = false, updated_at = now()
WHERE id = $1 AND owner_id = $2 AND NOT is_default`

const existsActiveNameSQL = `
SELECT EXISTS (
    SELECT 1 FROM categories
    WHERE is_active
      AND name_normalized = $1
      AND (owner_id IS NULL OR owner_id = $2)
      AND id <> $3
)`

// ListForOwner returns the union of active system defaults and the owner's
// active categories: defaults first, then alphabetical by name.
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo) ListForOwner(ctx context.Context, ownerID string) ([]domain.Category, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listForOwnerSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

// GetByID returns a category visible to the owner (their own or a default).
// Returns domain.ErrNotFound if it does not exist or belongs to another user.
func (r *Repo) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Category, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, id, ownerID)
	c, err := scanCategory(row)
	if err != nil {
		return nil, postgres.MapError(err, "category", id.String())
	}
	return c, nil
}

// Create inserts a new user category and returns the persisted record.
// The unique partial index on (owner_id, name_normalized) backs duplicate
// detection under concurrent creation; violations map to ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, insertSQL,
		c.OwnerID, c.Name, domain.NormalizeName(c.Name), c.Color, c.Icon)

	created, err := scanCategory(row)
	if err != nil {
		return nil, postgres.MapError(err, "category", c.Name)
	}
	return created, nil
}

// Update applies partial changes to a user-owned category. System defaults
// are excluded by the WHERE clause, so attempts surface as ErrNotFound and
// the caller decides whether that is forbidden or absent.
func (r *Repo) Update(ctx context.Context, ownerID string, id uuid.UUID, name, color, icon *string) (*domain.Category, error) {
	b := sq.Update("categories").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "owner_id": ownerID}).
		Where("NOT is_default").
		Suffix("RETURNING " + columns).
		PlaceholderFormat(sq.Dollar)

	if name != nil {
		b = b.Set("name", *name).Set("name_normalized", domain.NormalizeName(*name))
	}
	if color != nil {
		b = b.Set("color", *color)
	}
	if icon != nil {
		b = b.Set("icon", *icon)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category update: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	row := querier.QueryRow(ctx, sql, args...)

	updated, err := scanCategory(row)
	if err != nil {
		return nil, postgres.MapError(err, "category", id.String())
	}
	return updated, nil
}

// SoftDelete marks a user-owned category inactive. Returns ErrNotFound when
// the category is absent, owned by someone else, or a system default.
func (r *Repo) SoftDelete(ctx context.Context, ownerID string, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, softDeleteSQL, id, ownerID)
	if err != nil {
		return postgres.MapError(err, "category", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ExistsActiveName reports whether an active category (default or owned by
// ownerID) already uses the normalized name, excluding excludeID.
func (r *Repo) ExistsActiveName(ctx context.Context, ownerID, normalized string, excludeID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, existsActiveNameSQL, normalized, ownerID, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return exists, nil
}

// SeedSystemDefaults upserts the fixed system category list. ON CONFLICT DO
// NOTHING on the defaults' unique index makes it safe under concurrent and
// repeated invocation.
func (r *Repo) SeedSystemDefaults(ctx context.Context, defaults []domain.Category) error {
	if len(defaults) == 0 {
		return nil
	}

	b := sq.Insert("categories").
		Columns("owner_id", "name", "name_normalized", "color", "icon", "is_default", "is_active").
		Suffix("ON CONFLICT (name_normalized) WHERE owner_id IS NULL DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	for _, c := range defaults {
		b = b.Values(nil, c.Name, domain.NormalizeName(c.Name), c.Color, c.Icon, true, true)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build seed insert: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "category", "system-defaults")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		c       domain.Category
		ownerID pgtype.Text
	)
	err := row.Scan(&c.ID, &ownerID, &c.Name, &c.Color, &c.Icon,
		&c.IsDefault, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if ownerID.Valid {
		c.OwnerID = &ownerID.String
	}
	return &c, nil
}

func scanCategories(rows pgx.Rows) ([]domain.Category, error) {
	out := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}
