package download

import (
	"log"
	"sync"

	"github.com/ytget/download-manager/internal/model"
	"github.com/ytget/download-manager/internal/store"
)

// ListController owns the ordered list of tracked filenames. Every mutation is
// applied under one lock and persisted before the lock is released.
type ListController struct {
	mu       sync.Mutex
	store    store.Store
	entries  []model.DownloadEntry
	listener listenerRef

	// Guarded separately so listeners can read it from OnListChanged
	saveErrMutex sync.RWMutex
	lastSaveErr  error
}

// NewListController loads the persisted list. Unreadable state starts an empty list.
func NewListController(s store.Store) *ListController {
	filenames, err := s.Load()
	if err != nil {
		log.Printf("Failed to load download list, starting empty: %v", err)
		filenames = nil
	}

	c := &ListController{store: s}
	seen := make(map[string]struct{}, len(filenames))
	for _, name := range filenames {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		c.entries = append(c.entries, model.DownloadEntry{Filename: name})
	}
	return c
}

// SetListener sets the receiver of list change notifications
func (c *ListController) SetListener(l Listener) {
	c.listener.set(l)
}

// Insert appends filename unless it is already listed
func (c *ListController) Insert(filename string) bool {
	if filename == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(filename) >= 0 {
		return false
	}
	c.entries = append(c.entries, model.DownloadEntry{Filename: filename})
	c.persistAndNotify()
	return true
}

// Remove deletes the entry at index; out-of-range indexes are ignored
func (c *ListController) Remove(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.entries) {
		return false
	}
	c.entries = append(c.entries[:index], c.entries[index+1:]...)
	c.persistAndNotify()
	return true
}

// Current returns a copy of the list in insertion order
func (c *ListController) Current() []model.DownloadEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Len returns the number of tracked entries
func (c *ListController) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Contains reports whether filename is tracked
func (c *ListController) Contains(filename string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(filename) >= 0
}

// LastSaveError returns the error of the most recent save, nil after a successful one.
// It does not take the list lock and is safe to call from OnListChanged.
func (c *ListController) LastSaveError() error {
	c.saveErrMutex.RLock()
	defer c.saveErrMutex.RUnlock()
	return c.lastSaveErr
}

func (c *ListController) indexOf(filename string) int {
	for i, entry := range c.entries {
		if entry.Filename == filename {
			return i
		}
	}
	return -1
}

func (c *ListController) snapshot() []model.DownloadEntry {
	out := make([]model.DownloadEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// persistAndNotify must be called with c.mu held. A failed save keeps the
// in-memory list; the next successful save brings the store back in line.
func (c *ListController) persistAndNotify() {
	err := c.store.Save(model.Filenames(c.entries))
	if err != nil {
		log.Printf("Failed to save download list (%d entries): %v", len(c.entries), err)
	}
	c.saveErrMutex.Lock()
	c.lastSaveErr = err
	c.saveErrMutex.Unlock()

	c.listener.get().OnListChanged(c.snapshot())
}
