package browse

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Breadcrumb is the last position navigated to. Empty ids are absent.
type Breadcrumb struct {
	Project string `toml:"project,omitempty"`
	Release string `toml:"release,omitempty"`
	Feature string `toml:"feature,omitempty"`
}

// BreadcrumbStore persists the breadcrumb between runs.
type BreadcrumbStore interface {
	Load() (Breadcrumb, error)
	Save(Breadcrumb) error
}

// DefaultBreadcrumbPath returns ~/.aha_cli_cache.
func DefaultBreadcrumbPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aha_cli_cache"
	}
	return filepath.Join(home, ".aha_cli_cache")
}

// FileStore keeps the breadcrumb in a TOML file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location.
func (s *FileStore) Path() string { return s.path }

// Load reads the breadcrumb. A missing file yields an empty breadcrumb.
func (s *FileStore) Load() (Breadcrumb, error) {
	var crumb Breadcrumb
	if _, err := toml.DecodeFile(s.path, &crumb); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Breadcrumb{}, nil
		}
		return Breadcrumb{}, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return crumb, nil
}

// Save overwrites the file with crumb.
func (s *FileStore) Save(crumb Breadcrumb) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(crumb); err != nil {
		return fmt.Errorf("encoding breadcrumb: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("couldn't write to %s: %w", s.path, err)
	}
	return nil
}
