package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the list file created inside the storage directory
const DefaultFileName = "downloads.json"

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// FileStore keeps the list in a JSON file and commits every save with a rename,
// so a reader never observes a partially written file.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file backing the store
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the list file; a missing file is an empty list
func (s *FileStore) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return []string{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return []string{}, nil
	}
	return decode(data)
}

// Save writes the list to a temporary sibling, syncs it and renames it over the list file
func (s *FileStore) Save(filenames []string) error {
	data, err := encode(filenames)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Remove the temp file on every failure path; after a successful rename it is gone already
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to move list file into place: %w", err)
	}
	committed = true
	return nil
}
