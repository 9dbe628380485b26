package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ytget/download-manager/internal/model"
)

// memStore is an in-memory store with injectable failures
type memStore struct {
	mu      sync.Mutex
	saved   []string
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.saved))
	copy(out, m.saved)
	if m.loadErr != nil {
		return []string{}, m.loadErr
	}
	return out, nil
}

func (m *memStore) Save(filenames []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append([]string(nil), filenames...)
	return nil
}

func (m *memStore) snapshot() ([]string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.saved...), m.saves
}

type enqueueCall struct {
	url        string
	filename   string
	visibility model.Visibility
}

// fakeExecutor answers queries from a per-handle script
type fakeExecutor struct {
	mu         sync.Mutex
	enqueueErr error
	enqueued   []enqueueCall
	queries    map[model.TransferHandle]int
	next       int
	// script returns the answer to the n-th (1-based) query of handle
	script func(handle model.TransferHandle, n int) (model.TransferInfo, error)
	// block, when set, makes Query wait for ctx before answering
	block bool
}

func newFakeExecutor(script func(model.TransferHandle, int) (model.TransferInfo, error)) *fakeExecutor {
	return &fakeExecutor{queries: make(map[model.TransferHandle]int), script: script}
}

func (f *fakeExecutor) Enqueue(ctx context.Context, url, filename string, visibility model.Visibility) (model.TransferHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enqueueErr != nil {
		return "", f.enqueueErr
	}
	f.next++
	f.enqueued = append(f.enqueued, enqueueCall{url: url, filename: filename, visibility: visibility})
	return model.TransferHandle(fmt.Sprintf("h-%d", f.next)), nil
}

func (f *fakeExecutor) Query(ctx context.Context, handle model.TransferHandle) (model.TransferInfo, error) {
	f.mu.Lock()
	f.queries[handle]++
	n := f.queries[handle]
	block := f.block
	script := f.script
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return model.TransferInfo{}, ctx.Err()
	}
	return script(handle, n)
}

func (f *fakeExecutor) queryCount(handle model.TransferHandle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[handle]
}

func (f *fakeExecutor) enqueueCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.enqueued)
}

func always(info model.TransferInfo) func(model.TransferHandle, int) (model.TransferInfo, error) {
	return func(model.TransferHandle, int) (model.TransferInfo, error) { return info, nil }
}

var errQuery = errors.New("cursor unavailable")

type progressEvent struct {
	filename string
	percent  int
}

type terminalEvent struct {
	filename  string
	succeeded bool
}

// recorder is a Listener collecting every notification
type recorder struct {
	mu        sync.Mutex
	acks      int
	progress  []progressEvent
	terminals []terminalEvent
	lists     [][]model.DownloadEntry
}

func (r *recorder) OnSubmitAck() {
	r.mu.Lock()
	r.acks++
	r.mu.Unlock()
}

func (r *recorder) OnProgress(filename string, percent int) {
	r.mu.Lock()
	r.progress = append(r.progress, progressEvent{filename, percent})
	r.mu.Unlock()
}

func (r *recorder) OnTerminal(filename string, succeeded bool) {
	r.mu.Lock()
	r.terminals = append(r.terminals, terminalEvent{filename, succeeded})
	r.mu.Unlock()
}

func (r *recorder) OnListChanged(entries []model.DownloadEntry) {
	r.mu.Lock()
	r.lists = append(r.lists, entries)
	r.mu.Unlock()
}

func (r *recorder) counts() (acks, progress, terminals, lists int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.acks, len(r.progress), len(r.terminals), len(r.lists)
}

func (r *recorder) progressEvents() []progressEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]progressEvent(nil), r.progress...)
}

func (r *recorder) terminalEvents() []terminalEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]terminalEvent(nil), r.terminals...)
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func transferOf(svc *Service, handle model.TransferHandle) (model.Transfer, bool) {
	for _, tr := range svc.Transfers() {
		if tr.Handle == handle {
			return tr, true
		}
	}
	return model.Transfer{}, false
}

func filenamesOf(entries []model.DownloadEntry) []string {
	return model.Filenames(entries)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
