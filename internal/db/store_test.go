package db

import (
	"context"
	"testing"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	stores := map[string]Store{}
	for _, backend := range []string{BackendSQLite, BackendBolt} {
		store, err := Open(backend, t.TempDir())
		if err != nil {
			t.Fatalf("Failed to open %s store: %v", backend, err)
		}
		t.Cleanup(func() { store.Close() })
		stores[backend] = store
	}
	return stores
}

func TestGetMissingRecord(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			value, ok, err := store.Get(context.Background(), "missing")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if ok || value != nil {
				t.Errorf("Expected no record, got %q", value)
			}
		})
	}
}

func TestPutReplacesRecord(t *testing.T) {
	ctx := context.Background()
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put(ctx, "gitstarplus_data", []byte(`{"favorites":[],"version":1}`)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			if err := store.Put(ctx, "gitstarplus_data", []byte(`{"favorites":[{"id":"a/b"}],"version":1}`)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			value, ok, err := store.Get(ctx, "gitstarplus_data")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !ok {
				t.Fatal("Expected record to exist")
			}
			if string(value) != `{"favorites":[{"id":"a/b"}],"version":1}` {
				t.Errorf("Unexpected value %s", value)
			}
		})
	}
}

func TestDeleteRecord(t *testing.T) {
	ctx := context.Background()
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			store.Put(ctx, "gitstarplus_settings", []byte(`{"language":"en"}`))
			store.Put(ctx, "gitstarplus_data", []byte(`{}`))

			if err := store.Delete(ctx, "gitstarplus_settings"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, ok, _ := store.Get(ctx, "gitstarplus_settings"); ok {
				t.Error("Expected settings record to be deleted")
			}
			if _, ok, _ := store.Get(ctx, "gitstarplus_data"); !ok {
				t.Error("Expected other records to survive")
			}
			if err := store.Delete(ctx, "never-written"); err != nil {
				t.Errorf("Deleting a missing record should succeed, got %v", err)
			}
		})
	}
}

func TestKeysSorted(t *testing.T) {
	ctx := context.Background()
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			keys, err := store.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys failed: %v", err)
			}
			if len(keys) != 0 {
				t.Errorf("Expected no keys in a new store, got %v", keys)
			}

			store.Put(ctx, "gitstarplus_settings", []byte(`{}`))
			store.Put(ctx, "gitstarplus_data", []byte(`{}`))
			store.Put(ctx, "gitstarplus_data", []byte(`{"version":1}`))

			keys, err = store.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys failed: %v", err)
			}
			want := []string{"gitstarplus_data", "gitstarplus_settings"}
			if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
				t.Errorf("Expected %v, got %v", want, keys)
			}

			store.Delete(ctx, "gitstarplus_settings")
			keys, _ = store.Keys(ctx)
			if len(keys) != 1 || keys[0] != "gitstarplus_data" {
				t.Errorf("Expected only gitstarplus_data after delete, got %v", keys)
			}
		})
	}
}

func TestRecordsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []string{BackendSQLite, BackendBolt} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()

			store, err := Open(backend, dir)
			if err != nil {
				t.Fatalf("Failed to open store: %v", err)
			}
			if err := store.Put(ctx, "k", []byte("v")); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			store.Close()

			store, err = Open(backend, dir)
			if err != nil {
				t.Fatalf("Failed to reopen store: %v", err)
			}
			defer store.Close()

			value, ok, err := store.Get(ctx, "k")
			if err != nil || !ok || string(value) != "v" {
				t.Errorf("Expected v after reopen, got %q ok=%v err=%v", value, ok, err)
			}
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
