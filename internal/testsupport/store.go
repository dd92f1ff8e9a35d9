package testsupport

import (
	"context"
	"testing"

	"github.com/fortuna/retroload/internal/config"
	"github.com/fortuna/retroload/internal/store"
)

// MustOpenStore opens the configured document store and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Database {
	t.Helper()

	db, err := store.NewDatabase(context.Background(), cfg.Storage.Driver, cfg.Storage.DSN())
	if err != nil {
		t.Fatalf("store.NewDatabase: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// MustInsert stores doc and fails the test unless the insert succeeded.
func MustInsert(t testing.TB, db *store.Database, c store.Collection, id string, doc any) {
	t.Helper()

	if res := db.Insert(context.Background(), c, id, doc); !res.OK() {
		t.Fatalf("insert %s %s: %s: %v", c, id, res.Outcome, res.Err)
	}
}
