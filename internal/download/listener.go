package download

import (
	"sync"

	"github.com/ytget/download-manager/internal/model"
)

// ListenerFuncs adapts plain functions to Listener; nil fields are skipped.
type ListenerFuncs struct {
	SubmitAck   func()
	Progress    func(filename string, percent int)
	Terminal    func(filename string, succeeded bool)
	ListChanged func(entries []model.DownloadEntry)
}

func (f ListenerFuncs) OnSubmitAck() {
	if f.SubmitAck != nil {
		f.SubmitAck()
	}
}

func (f ListenerFuncs) OnProgress(filename string, percent int) {
	if f.Progress != nil {
		f.Progress(filename, percent)
	}
}

func (f ListenerFuncs) OnTerminal(filename string, succeeded bool) {
	if f.Terminal != nil {
		f.Terminal(filename, succeeded)
	}
}

func (f ListenerFuncs) OnListChanged(entries []model.DownloadEntry) {
	if f.ListChanged != nil {
		f.ListChanged(entries)
	}
}

// listenerRef lets the listener be swapped after construction
type listenerRef struct {
	mu sync.RWMutex
	l  Listener
}

func (r *listenerRef) set(l Listener) {
	r.mu.Lock()
	r.l = l
	r.mu.Unlock()
}

func (r *listenerRef) get() Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.l == nil {
		return ListenerFuncs{}
	}
	return r.l
}
