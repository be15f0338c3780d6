package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func readTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, want := range files {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("read %s: %v", rel, err)
		}
		if string(data) != want {
			t.Fatalf("%s: expected %q, got %q", rel, want, string(data))
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	src := t.TempDir()
	files := map[string]string{
		"6.2.0/gcc_64/bin/qmake":        "#!/bin/sh\n",
		"6.2.0/gcc_64/lib/libQt6Core.so": "elf",
	}
	writeTree(t, src, files)

	key := "install-qt-linux-6.2.0"
	id, err := store.Save(ctx, []string{src}, key)
	if err != nil {
		t.Fatal(err)
	}
	if id != BlobID(key) {
		t.Fatalf("expected blob id %s, got %s", BlobID(key), id)
	}

	dest := t.TempDir()
	matched, err := store.Restore(ctx, []string{dest}, key)
	if err != nil {
		t.Fatal(err)
	}
	if matched != key {
		t.Fatalf("expected hit on %q, got %q", key, matched)
	}
	readTree(t, dest, files)
}

func TestStoreMissReturnsEmpty(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	matched, err := store.Restore(context.Background(), []string{t.TempDir()}, "no-such-key")
	if err != nil {
		t.Fatal(err)
	}
	if matched != "" {
		t.Fatalf("expected miss, got %q", matched)
	}
}

func TestStoreRestorePathCountMismatch(t *testing.T) {
	ctx := context.Background()
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	src := t.TempDir()
	writeTree(t, src, map[string]string{"a.txt": "a"})
	if _, err := store.Save(ctx, []string{src}, "k"); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Restore(ctx, []string{t.TempDir(), t.TempDir()}, "k"); err == nil {
		t.Fatal("expected path count mismatch error")
	}
}

func TestStoreMultiplePathSets(t *testing.T) {
	ctx := context.Background()
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first := t.TempDir()
	second := t.TempDir()
	writeTree(t, first, map[string]string{"bin/qmake": "one"})
	writeTree(t, second, map[string]string{"Tools/cmake/bin/cmake": "two"})

	if _, err := store.Save(ctx, []string{first, second}, "multi"); err != nil {
		t.Fatal(err)
	}

	destA := t.TempDir()
	destB := t.TempDir()
	if _, err := store.Restore(ctx, []string{destA, destB}, "multi"); err != nil {
		t.Fatal(err)
	}
	readTree(t, destA, map[string]string{"bin/qmake": "one"})
	readTree(t, destB, map[string]string{"Tools/cmake/bin/cmake": "two"})
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	src := t.TempDir()
	writeTree(t, src, map[string]string{"f": "x"})
	if _, err := store.Save(ctx, []string{src}, "k"); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty index after clear, got %d entries", len(entries))
	}
	matched, err := store.Restore(ctx, []string{t.TempDir()}, "k")
	if err != nil {
		t.Fatal(err)
	}
	if matched != "" {
		t.Fatal("expected miss after clear")
	}
}
