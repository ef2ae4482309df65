package testhelper

import (
	"context"
	"testing"
	"time"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	ownerID := NewOwnerID()
	entry := SeedEntry(t, pool, ownerID, 12.50, time.Now())

	var owner string
	err := pool.QueryRow(
		context.Background(),
		`SELECT owner_id FROM spending_entries WHERE id = $1`,
		entry.ID,
	).Scan(&owner)
	if err != nil {
		t.Fatalf("expected entry in DB, got error: %v", err)
	}

	if owner != ownerID {
		t.Fatalf("expected owner %q, got %q", ownerID, owner)
	}
}
