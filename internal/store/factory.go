package store

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
)

// New builds the store selected by backend. Both backends commit to a list file in dir.
func New(backend string, prefs fyne.Preferences, dir string) (Store, error) {
	path := filepath.Join(dir, DefaultFileName)
	switch backend {
	case BackendFile, "":
		return NewFileStore(path), nil
	case BackendPreferences:
		return NewPreferencesStore(prefs, path), nil
	default:
		return nil, fmt.Errorf("unknown list storage backend: %s", backend)
	}
}
