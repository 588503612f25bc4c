package docstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFSStoreListFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "text")
	writeFile(t, dir, "b.md", "markdown")
	writeFile(t, dir, "c.pdf", "binary")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := NewFSStore(dir).List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(names)

	want := []string{"a.txt", "b.md"}
	if len(names) != len(want) {
		t.Fatalf("List() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("List() = %v, want %v", names, want)
		}
	}
}

func TestFSStoreRead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "Hello world")
	store := NewFSStore(dir)

	text, err := store.Read(context.Background(), "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if text != "Hello world" {
		t.Errorf("Read() = %q, want %q", text, "Hello world")
	}
}

func TestFSStoreReadMissingIsErrNotFound(t *testing.T) {
	store := NewFSStore(t.TempDir())

	_, err := store.Read(context.Background(), "missing.txt")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() error = %v, want ErrNotFound", err)
	}
}

func TestFSStoreReadRejectsPathTraversal(t *testing.T) {
	store := NewFSStore(t.TempDir())

	for _, name := range []string{"../secret.txt", "sub/child.txt"} {
		if _, err := store.Read(context.Background(), name); err == nil {
			t.Errorf("Read(%q) should have been rejected", name)
		}
	}
}
