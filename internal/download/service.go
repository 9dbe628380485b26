package download

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ytget/download-manager/internal/model"
)

// DefaultTransferHistory is how many finished transfer records are kept
const DefaultTransferHistory = 100

// Options tunes monitoring
type Options struct {
	PollInterval      time.Duration
	QueryTimeout      time.Duration
	MaxActiveMonitors int
	// TransferHistory caps finished records; running transfers are never pruned
	TransferHistory int
}

// Service submits downloads to the executor and tracks them until they finish
type Service struct {
	resolver   *Resolver
	executor   Executor
	list       *ListController
	supervisor *Supervisor
	listener   listenerRef

	pollInterval time.Duration
	queryTimeout time.Duration
	history      int

	transfers      map[model.TransferHandle]*model.Transfer
	transfersMutex sync.RWMutex
}

var _ Downloader = (*Service)(nil)

// NewService creates a download service over executor and list
func NewService(executor Executor, list *ListController, opts Options) *Service {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.TransferHistory <= 0 {
		opts.TransferHistory = DefaultTransferHistory
	}
	return &Service{
		resolver:     NewResolver(),
		executor:     executor,
		list:         list,
		supervisor:   NewSupervisor(opts.MaxActiveMonitors),
		pollInterval: opts.PollInterval,
		queryTimeout: opts.QueryTimeout,
		history:      opts.TransferHistory,
		transfers:    make(map[model.TransferHandle]*model.Transfer),
	}
}

// SetResolver replaces the filename resolver
func (s *Service) SetResolver(r *Resolver) {
	s.resolver = r
}

// SetListener sets the receiver of all notifications, including list changes
func (s *Service) SetListener(l Listener) {
	s.listener.set(l)
	s.list.SetListener(l)
}

// List returns the list controller
func (s *Service) List() *ListController {
	return s.list
}

// Submit enqueues url and starts monitoring it. Surrounding whitespace is
// trimmed, so blank input is ErrEmptyInput and the trimmed URL is what gets enqueued.
func (s *Service) Submit(ctx context.Context, url string) (model.TransferHandle, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", &SubmissionError{Kind: ErrEmptyInput}
	}
	if s.executor == nil || s.supervisor.Closed() {
		return "", &SubmissionError{Kind: ErrServiceUnavailable, URL: url}
	}

	filename := s.resolver.Resolve(url)

	handle, err := s.executor.Enqueue(ctx, url, filename, model.VisibilityPublic)
	if err != nil {
		log.Printf("Failed to enqueue %s as %s: %v", url, filename, err)
		if errors.Is(err, ErrServiceUnavailable) {
			return "", &SubmissionError{Kind: ErrServiceUnavailable, URL: url, Err: err}
		}
		return "", &SubmissionError{Kind: ErrEnqueueFailed, URL: url, Err: err}
	}
	log.Printf("Download started with ID %s (%s)", handle, filename)

	s.transfersMutex.Lock()
	s.transfers[handle] = &model.Transfer{
		Handle:    handle,
		URL:       url,
		Filename:  filename,
		State:     model.MonitorPolling,
		Percent:   -1,
		StartedAt: time.Now(),
	}
	s.transfersMutex.Unlock()

	s.listener.get().OnSubmitAck()

	s.list.Insert(filename)

	monitor := NewMonitor(handle, filename, s.executor, &transferSink{svc: s, handle: handle}, s.pollInterval, s.queryTimeout)
	if err := s.supervisor.Start(monitor); err != nil {
		// The transfer is enqueued and listed; only its progress goes unreported
		log.Printf("Failed to start monitor for %s: %v", handle, err)
	}

	return handle, nil
}

// Remove deletes the list entry at index
func (s *Service) Remove(index int) bool {
	return s.list.Remove(index)
}

// Entries returns the tracked filenames in order
func (s *Service) Entries() []model.DownloadEntry {
	return s.list.Current()
}

// Transfers returns all transfer records, oldest first
func (s *Service) Transfers() []model.Transfer {
	s.transfersMutex.RLock()
	out := make([]model.Transfer, 0, len(s.transfers))
	for _, t := range s.transfers {
		out = append(out, *t)
	}
	s.transfersMutex.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].Handle < out[j].Handle
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// LastSaveError returns the error of the most recent list save, nil after a successful one
func (s *Service) LastSaveError() error {
	return s.list.LastSaveError()
}

// ActiveMonitors returns the number of monitors not yet finished
func (s *Service) ActiveMonitors() int {
	return s.supervisor.Active()
}

// Shutdown cancels all monitors and waits for them. Later submissions fail with ErrServiceUnavailable.
func (s *Service) Shutdown() {
	s.supervisor.Shutdown()
}

// transferSink records monitor events on the transfer and forwards them to the listener
type transferSink struct {
	svc    *Service
	handle model.TransferHandle
}

func (t *transferSink) OnProgress(filename string, percent int) {
	t.svc.transfersMutex.Lock()
	if rec, ok := t.svc.transfers[t.handle]; ok {
		rec.Percent = percent
	}
	t.svc.transfersMutex.Unlock()

	t.svc.listener.get().OnProgress(filename, percent)
}

func (t *transferSink) OnTerminal(filename string, succeeded bool) {
	t.svc.transfersMutex.Lock()
	if rec, ok := t.svc.transfers[t.handle]; ok {
		if succeeded {
			rec.State = model.MonitorSucceeded
		} else {
			rec.State = model.MonitorFailed
		}
		rec.FinishedAt = time.Now()
	}
	t.svc.pruneTransfersLocked()
	t.svc.transfersMutex.Unlock()

	t.svc.listener.get().OnTerminal(filename, succeeded)
}

// pruneTransfersLocked drops the oldest finished records beyond the history cap.
// Callers hold transfersMutex.
func (s *Service) pruneTransfersLocked() {
	finished := make([]*model.Transfer, 0, len(s.transfers))
	for _, t := range s.transfers {
		if t.State != model.MonitorPolling {
			finished = append(finished, t)
		}
	}
	excess := len(finished) - s.history
	if excess <= 0 {
		return
	}

	sort.Slice(finished, func(i, j int) bool {
		return finished[i].FinishedAt.Before(finished[j].FinishedAt)
	})
	for _, t := range finished[:excess] {
		delete(s.transfers, t.Handle)
	}
}
