package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// storeFactories lets every contract test run against both backends.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
			if err != nil {
				t.Fatalf("NewSQLiteStore() error = %v", err)
			}
			t.Cleanup(func() { store.Close() })
			return store
		},
	}
}

func TestStore_GetMissingKey(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			_, err := store.Get(context.Background(), "missing")
			if !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrKeyNotFound", err)
			}
		})
	}
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			if err := store.Set(ctx, KeyUserState, []byte(`{"a":1}`)); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := store.Get(ctx, KeyUserState)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != `{"a":1}` {
				t.Errorf("Get() = %q", got)
			}
		})
	}
}

func TestStore_SetReplacesValue(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			if err := store.Set(ctx, "k", []byte("first")); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := store.Set(ctx, "k", []byte("second")); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := store.Get(ctx, "k")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != "second" {
				t.Errorf("Get() = %q, want second", got)
			}
		})
	}
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)

			if err := store.Set(ctx, "k", []byte("v")); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := store.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrKeyNotFound", err)
			}
			if err := store.Delete(ctx, "k"); err != nil {
				t.Errorf("Delete() of missing key error = %v, want nil", err)
			}
		})
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := store.Set(ctx, KeyPendingSync, []byte(`{"goals":true}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, KeyPendingSync)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if string(got) != `{"goals":true}` {
		t.Errorf("Get() = %q, pending intent must survive restart", got)
	}
}

func TestSQLiteStore_BackupTo(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewSQLiteStore(filepath.Join(dir, "kv.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	backupPath := filepath.Join(dir, "backup.db")
	if err := store.BackupTo(ctx, backupPath); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}
	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	// The backup is a standalone database holding the same entries.
	backup, err := NewSQLiteStore(backupPath)
	if err != nil {
		t.Fatalf("open backup error = %v", err)
	}
	defer backup.Close()

	got, err := backup.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("backup Get() = %q, %v", got, err)
	}

	// Refusing to clobber an existing file.
	if err := store.BackupTo(ctx, backupPath); err == nil {
		t.Error("BackupTo() over an existing file succeeded, want error")
	}
}
