package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestBackendRoundtrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "newtab.sqlite")

	b, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = b.Close() }()

	if _, ok, err := b.Get(ctx, "history"); err != nil || ok {
		t.Fatalf("Get on empty db = ok %v, err %v; want absent", ok, err)
	}

	if err := b.Set(ctx, "history", `[]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := b.Set(ctx, "history", `[{"url":"https://a.test"}]`); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if err := b.Set(ctx, "theme", `dark`); err != nil {
		t.Fatalf("Set theme: %v", err)
	}

	v, ok, err := b.Get(ctx, "history")
	if err != nil || !ok {
		t.Fatalf("Get: ok %v, err %v", ok, err)
	}
	if v != `[{"url":"https://a.test"}]` {
		t.Errorf("Get = %q", v)
	}

	keys, err := b.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "history" || keys[1] != "theme" {
		t.Errorf("Keys = %v, want [history theme]", keys)
	}

	if err := b.Delete(ctx, "theme"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "theme"); ok {
		t.Error("theme should be gone")
	}

	if err := b.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	keys, _ = b.Keys(ctx)
	if len(keys) != 0 {
		t.Errorf("Keys after Clear = %v", keys)
	}
}

func TestBackendPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "newtab.sqlite")

	b, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.Set(ctx, "searchEngine", "bing"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	v, ok, err := reopened.Get(ctx, "searchEngine")
	if err != nil || !ok || v != "bing" {
		t.Errorf("Get after reopen = %q, %v, %v", v, ok, err)
	}
}
