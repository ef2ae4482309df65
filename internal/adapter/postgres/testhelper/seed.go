package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// NewOwnerID returns a unique owner id in the shape issued by the auth service.
func NewOwnerID() string {
	return uuid.New().String()
}

// NewAnonOwnerID returns a unique owner id in the shape used by local
// fallback anonymous identities.
func NewAnonOwnerID() string {
	return "anon_" + uuid.New().String()
}

// SeedSystemCategories inserts the eight built-in categories and returns them
// in seed order. Safe to call from multiple tests; conflicts are ignored.
func SeedSystemCategories(t *testing.T, pool *pgxpool.Pool) []domain.Category {
	t.Helper()
	ctx := context.Background()

	seeds := domain.SystemCategories()
	for _, c := range seeds {
		_, err := pool.Exec(ctx,
			`INSERT INTO categories (name, name_normalized, color, icon, is_default, is_active)
			 VALUES ($1, $2, $3, $4, true, true)
			 ON CONFLICT (name_normalized) WHERE owner_id IS NULL DO NOTHING`,
			c.Name, domain.NormalizeName(c.Name), c.Color, c.Icon,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedSystemCategories insert %q: %v", c.Name, err)
		}
	}
	return seeds
}

// SeedCategory creates an active user-owned category with a unique name.
// Returns the filled domain.Category.
func SeedCategory(t *testing.T, pool *pgxpool.Pool, ownerID string) domain.Category {
	t.Helper()
	ctx := context.Background()

	name := "Category " + uniqueSuffix()
	c := domain.Category{
		Name:     name,
		Color:    domain.DefaultCategoryColor,
		Icon:     domain.DefaultCategoryIcon,
		IsActive: true,
		OwnerID:  &ownerID,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO categories (owner_id, name, name_normalized, color, icon, is_default, is_active)
		 VALUES ($1, $2, $3, $4, $5, false, true)
		 RETURNING id, created_at, updated_at`,
		ownerID, c.Name, domain.NormalizeName(c.Name), c.Color, c.Icon,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedCategory insert: %v", err)
	}
	return c
}

// SeedEntry creates a spending entry for the owner at the given time.
// Returns the filled domain.SpendingEntry.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, ownerID string, amount float64, occurredAt time.Time) domain.SpendingEntry {
	t.Helper()
	ctx := context.Background()

	e := domain.SpendingEntry{
		OwnerID:      ownerID,
		Amount:       amount,
		CurrencyCode: "USD",
		OccurredAt:   occurredAt.UTC().Truncate(time.Microsecond),
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO spending_entries (owner_id, amount, currency_code, occurred_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		e.OwnerID, e.Amount, e.CurrencyCode, e.OccurredAt,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedEntry insert: %v", err)
	}
	return e
}

// SeedEntryInCategory creates a spending entry attached to a category.
func SeedEntryInCategory(t *testing.T, pool *pgxpool.Pool, ownerID string, amount float64, occurredAt time.Time, category domain.Category) domain.SpendingEntry {
	t.Helper()
	ctx := context.Background()

	e := domain.SpendingEntry{
		OwnerID:       ownerID,
		Amount:        amount,
		CurrencyCode:  "USD",
		CategoryID:    &category.ID,
		CategoryLabel: &category.Name,
		OccurredAt:    occurredAt.UTC().Truncate(time.Microsecond),
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO spending_entries (owner_id, amount, currency_code, category_id, category_label, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		e.OwnerID, e.Amount, e.CurrencyCode, e.CategoryID, e.CategoryLabel, e.OccurredAt,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedEntryInCategory insert: %v", err)
	}
	return e
}

// SeedPreference creates a preference row for the owner with the given currency.
func SeedPreference(t *testing.T, pool *pgxpool.Pool, ownerID string, currency domain.Currency) domain.Preference {
	t.Helper()
	ctx := context.Background()

	p := domain.Preference{
		OwnerID:              ownerID,
		CurrencyCode:         currency.Code,
		CurrencySymbol:       currency.Symbol,
		CurrencyName:         currency.Name,
		Theme:                domain.ThemeAuto,
		NotificationsEnabled: true,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO user_preferences (owner_id, currency_code, currency_symbol, currency_name, theme, notifications_enabled)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING updated_at`,
		p.OwnerID, p.CurrencyCode, p.CurrencySymbol, p.CurrencyName, p.Theme, p.NotificationsEnabled,
	).Scan(&p.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedPreference insert: %v", err)
	}
	return p
}
