package database

import (
	"context"
	"testing"
)

func TestEnsureSchema_SQLite(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("EnsureSchema() error: %v", err)
	}
	// Running twice must not fail.
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("second EnsureSchema() error: %v", err)
	}

	for _, table := range []string{"users", "movieLog", "sessions"} {
		var count int
		err := db.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}
}
