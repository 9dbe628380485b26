package store

import (
	"errors"
	"io/fs"
	"os"

	"fyne.io/fyne/v2"
)

// DefaultPreferencesKey is the preferences record mirroring the list
const DefaultPreferencesKey = "DOWNLOADS"

// PreferencesStore commits the list through a FileStore and mirrors every
// committed list into a fyne preferences record. Preferences writes are
// deferred and not atomic, so the record is never the source of truth; it
// is read only to migrate a list saved before the file existed.
type PreferencesStore struct {
	file  *FileStore
	prefs fyne.Preferences
	key   string
}

// NewPreferencesStore creates a store committing to path and mirroring into prefs
func NewPreferencesStore(prefs fyne.Preferences, path string) *PreferencesStore {
	return &PreferencesStore{
		file:  NewFileStore(path),
		prefs: prefs,
		key:   DefaultPreferencesKey,
	}
}

// Path returns the location of the committed list
func (s *PreferencesStore) Path() string {
	return s.file.Path()
}

// Load reads the committed list. Without a list file, the preferences record is used.
func (s *PreferencesStore) Load() ([]string, error) {
	if _, err := os.Stat(s.file.Path()); errors.Is(err, fs.ErrNotExist) {
		raw := s.prefs.String(s.key)
		if raw == "" {
			return []string{}, nil
		}
		return decode([]byte(raw))
	}
	return s.file.Load()
}

// Save commits the list to the file, then mirrors it into the preferences record.
// The record is left untouched when the commit fails.
func (s *PreferencesStore) Save(filenames []string) error {
	if err := s.file.Save(filenames); err != nil {
		return err
	}

	data, err := encode(filenames)
	if err != nil {
		return err
	}
	s.prefs.SetString(s.key, string(data))
	return nil
}
