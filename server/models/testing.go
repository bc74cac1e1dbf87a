package models

import "testing"

// InitializeTestStore opens a migrated store in a temp dir that is removed with the test
func InitializeTestStore(t testing.TB) *Store {
	t.Helper()

	store, err := Open("test-pass-phrase", t.TempDir())
	if err != nil {
		t.Fatalf("could not open test db: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.AutoMigrate(); err != nil {
		t.Fatalf("could not migrate test db: %v", err)
	}

	return store
}
