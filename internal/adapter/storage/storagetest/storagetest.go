// Package storagetest provides migrated throwaway stores for tests.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rl1809/invenedu/internal/adapter/storage"
)

// NewSQLite opens a migrated SQLite store in a temp dir, closed on cleanup.
func NewSQLite(t testing.TB) *storage.SQLStore {
	t.Helper()

	ctx := context.Background()
	store, err := storage.Open(ctx, storage.DialectSQLite, filepath.Join(t.TempDir(), "invenedu.db"), 1)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate sqlite store: %v", err)
	}
	return store
}
