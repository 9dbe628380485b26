package executor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/ytget/download-manager/internal/download"
	"github.com/ytget/download-manager/internal/model"
)

// DefaultMaxParallel is the number of transfers moving bytes at once
const DefaultMaxParallel = 2

// DefaultJobHistory is how many finished transfers stay queryable
const DefaultJobHistory = 256

var (
	// ErrUnsupported is returned when no backend accepts a URL
	ErrUnsupported = errors.New("unsupported URL")

	// ErrUnknownHandle is returned by Query for handles the router never issued
	ErrUnknownHandle = errors.New("unknown transfer handle")
)

// Backend moves the bytes of one transfer
type Backend interface {
	Name() string
	Accepts(u *url.URL) bool
	// Transfer blocks until the file is complete at dest or the transfer failed
	Transfer(ctx context.Context, rawURL, dest string, progress Progress) error
	Close() error
}

// Dirs maps visibilities to destination directories
type Dirs struct {
	Public  string
	Private string
}

// For returns the directory for visibility
func (d Dirs) For(visibility model.Visibility) (string, error) {
	switch visibility {
	case model.VisibilityPublic:
		return d.Public, nil
	case model.VisibilityPrivate:
		return d.Private, nil
	default:
		return "", fmt.Errorf("unknown visibility: %s", visibility)
	}
}

// Router implements the download service on top of a list of backends
type Router struct {
	dirs     Dirs
	backends []Backend
	slots    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	jobsMutex sync.RWMutex
	jobs      map[model.TransferHandle]*job
	finished  []model.TransferHandle // oldest first
	history   int
	closed    bool
}

var _ download.Executor = (*Router)(nil)

// NewRouter creates a router; backends are tried in order
func NewRouter(dirs Dirs, maxParallel int, backends ...Backend) *Router {
	if maxParallel < 1 {
		maxParallel = DefaultMaxParallel
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Router{
		dirs:     dirs,
		backends: backends,
		slots:    make(chan struct{}, maxParallel),
		ctx:      ctx,
		cancel:   cancel,
		jobs:     make(map[model.TransferHandle]*job),
		history:  DefaultJobHistory,
	}
}

// Enqueue validates the request and starts the transfer in the background
func (r *Router) Enqueue(ctx context.Context, rawURL, filename string, visibility model.Visibility) (model.TransferHandle, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if filename == "" || filename == "." || filename == ".." || strings.ContainsAny(filename, "/\\") {
		return "", fmt.Errorf("invalid destination filename %q", filename)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	backend := r.pick(u)
	if backend == nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, rawURL)
	}

	dir, err := r.dirs.For(visibility)
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", fmt.Errorf("no directory configured for %s downloads", visibility)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate transfer handle: %w", err)
	}
	handle := model.TransferHandle(id.String())
	j := newJob(handle, rawURL, filepath.Join(dir, filename), backend.Name())

	r.jobsMutex.Lock()
	if r.closed {
		r.jobsMutex.Unlock()
		return "", fmt.Errorf("router closed: %w", download.ErrServiceUnavailable)
	}
	r.jobs[handle] = j
	r.wg.Add(1)
	r.jobsMutex.Unlock()

	go r.run(backend, j)
	return handle, nil
}

// Query returns the progress of handle. Finished transfers stay queryable
// until DefaultJobHistory newer ones have finished.
func (r *Router) Query(ctx context.Context, handle model.TransferHandle) (model.TransferInfo, error) {
	if err := ctx.Err(); err != nil {
		return model.TransferInfo{}, err
	}

	r.jobsMutex.RLock()
	j, exists := r.jobs[handle]
	r.jobsMutex.RUnlock()

	if !exists {
		return model.TransferInfo{}, fmt.Errorf("%w: %s", ErrUnknownHandle, handle)
	}
	return j.info(), nil
}

// Close cancels running transfers, waits for them, and closes every backend
func (r *Router) Close() error {
	r.jobsMutex.Lock()
	if r.closed {
		r.jobsMutex.Unlock()
		return nil
	}
	r.closed = true
	r.jobsMutex.Unlock()

	r.cancel()
	r.wg.Wait()

	var errs []error
	for _, b := range r.backends {
		if err := b.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (r *Router) pick(u *url.URL) Backend {
	for _, b := range r.backends {
		if b.Accepts(u) {
			return b
		}
	}
	return nil
}

// retire records j as finished and forgets the oldest finished jobs over the history cap
func (r *Router) retire(handle model.TransferHandle) {
	r.jobsMutex.Lock()
	defer r.jobsMutex.Unlock()

	r.finished = append(r.finished, handle)
	for len(r.finished) > r.history {
		delete(r.jobs, r.finished[0])
		r.finished = r.finished[1:]
	}
}

func (r *Router) run(backend Backend, j *job) {
	defer r.wg.Done()
	defer r.retire(j.handle)

	select {
	case r.slots <- struct{}{}:
	case <-r.ctx.Done():
		j.setStatus(model.TransferStatusFailed, "cancelled before start")
		return
	}
	defer func() { <-r.slots }()

	j.setStatus(model.TransferStatusRunning, "")
	log.Printf("Transfer %s started via %s: %s -> %s", j.handle, backend.Name(), j.url, j.dest)

	if err := backend.Transfer(r.ctx, j.url, j.dest, j); err != nil {
		log.Printf("Transfer %s failed: %v", j.handle, err)
		j.setStatus(model.TransferStatusFailed, err.Error())
		return
	}

	// Some servers send no length; report the final size as total
	if j.total.Load() <= 0 {
		j.total.Store(j.transferred.Load())
	}
	log.Printf("Transfer %s complete: %s (%s)", j.handle, j.dest, humanize.Bytes(uint64(j.transferred.Load())))
	j.setStatus(model.TransferStatusSucceeded, "")
}
