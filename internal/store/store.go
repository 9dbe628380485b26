package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Backend names accepted by New
const (
	BackendFile        = "file"
	BackendPreferences = "preferences"
)

// ErrCorrupt is returned by Load when persisted data cannot be decoded.
// The accompanying list is always empty so callers can continue.
var ErrCorrupt = errors.New("persisted download list is corrupt")

// Store loads and saves the download list.
type Store interface {
	// Load returns the persisted filenames. Absence is an empty list and a nil error.
	Load() ([]string, error)
	// Save writes the whole list and returns once it is committed.
	Save(filenames []string) error
}

func encode(filenames []string) ([]byte, error) {
	if filenames == nil {
		filenames = []string{}
	}
	data, err := json.Marshal(filenames)
	if err != nil {
		return nil, fmt.Errorf("failed to encode download list: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]string, error) {
	var filenames []string
	if err := json.Unmarshal(data, &filenames); err != nil {
		return []string{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if filenames == nil {
		// "null" decodes without error
		return []string{}, nil
	}
	return filenames, nil
}
