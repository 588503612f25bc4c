package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Read when the named document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// Store abstracts the original-document storage that backs the vector index.
// The index holds chunks; the store holds the full text they were cut from.
type Store interface {
	// List returns the names of all readable documents under the store root.
	List(ctx context.Context) ([]string, error)
	// Read returns the full text of a named document.
	Read(ctx context.Context, name string) (string, error)
}

// FSStore reads plain-text documents from a directory on the local filesystem.
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

// List returns all .txt and .md files directly under the root directory.
// Other file types (PDF originals etc.) are expected to be converted to text
// before they land in the store.
func (s *FSStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", s.root, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".txt" || ext == ".md" {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (s *FSStore) Read(ctx context.Context, name string) (string, error) {
	// Reject path traversal; document names are bare filenames.
	if filepath.Base(name) != name {
		return "", fmt.Errorf("docstore: invalid document name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("docstore: read %s: %w", name, err)
	}
	return string(data), nil
}
