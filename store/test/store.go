package test

import (
	"context"
	"testing"

	"github.com/hmztgr/smartdocs/internal/profile"
	"github.com/hmztgr/smartdocs/store"
	"github.com/hmztgr/smartdocs/store/db"
)

// NewTestingStore creates a fully migrated sqlite-backed store rooted in a
// per-test temporary directory.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	dir := t.TempDir()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    dir + "/smartdocs_test.db",
		Data:   dir,
	}

	driver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	ts := store.New(driver, p)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate test store: %v", err)
	}

	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Logf("failed to close test store: %v", err)
		}
	})

	return ts
}
