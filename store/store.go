package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store is where fetched artifacts land. Presence of a name is itself
// state: it is the dedup mechanism for repeated downloads of the same URL.
// Artifacts are written verbatim and never deleted by debfetch.
type Store interface {
	// Exists reports whether an artifact with this name is already present.
	Exists(ctx context.Context, name string) (bool, error)
	// Put persists artifact bytes under name. No partial-write recovery:
	// a failure surfaces to the caller as-is.
	Put(ctx context.Context, name string, data []byte) error
	// Open returns the stored artifact bytes for metadata extraction.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Location renders the backend-specific identifier for name, for
	// logs and the run manifest.
	Location(name string) string
}

// FSStore keeps artifacts as flat files in a directory.
// The zero-config default is the working directory, so a later run in the
// same directory treats earlier downloads as already satisfied.
type FSStore struct {
	dir string
}

// NewFSStore creates a filesystem store rooted at dir ("." when empty).
// The directory is created if missing.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wrap("init", dir, err)
	}
	return &FSStore{dir: dir}, nil
}

// Exists reports whether name is present on disk.
func (s *FSStore) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, wrap("stat", name, err)
}

// Put writes the artifact bytes in one shot.
func (s *FSStore) Put(_ context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	return wrap("put", name, os.WriteFile(filepath.Join(s.dir, name), data, 0o644))
}

// Open opens the stored artifact for reading.
func (s *FSStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, wrap("open", name, err)
	}
	return f, nil
}

// Location returns the artifact's path on disk.
func (s *FSStore) Location(name string) string {
	return filepath.Join(s.dir, name)
}

// validName rejects names that would escape the store directory.
// Names are derived from URL path segments, so separators never appear in
// well-formed input.
func validName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	if filepath.Base(name) != name {
		return fmt.Errorf("artifact name %q must not contain path separators", name)
	}
	return nil
}

// Verify FSStore implements Store.
var _ Store = (*FSStore)(nil)
