package download

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/ytget/download-manager/internal/model"
)

// DefaultMaxActiveMonitors caps concurrently polling monitors
const DefaultMaxActiveMonitors = 8

// ErrSupervisorClosed is returned by Start after Shutdown
var ErrSupervisorClosed = errors.New("monitor supervisor is shut down")

// Supervisor runs monitors in their own goroutines, at most maxActive polling
// at once. Monitors over the cap wait for a slot instead of being dropped.
type Supervisor struct {
	ctx    context.Context
	cancel context.CancelFunc
	sem    *semaphore.Weighted

	mu       sync.Mutex
	wg       sync.WaitGroup
	monitors map[model.TransferHandle]*Monitor
	closed   bool
}

// NewSupervisor creates a supervisor; maxActive below 1 uses the default
func NewSupervisor(maxActive int) *Supervisor {
	if maxActive < 1 {
		maxActive = DefaultMaxActiveMonitors
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Supervisor{
		ctx:      ctx,
		cancel:   cancel,
		sem:      semaphore.NewWeighted(int64(maxActive)),
		monitors: make(map[model.TransferHandle]*Monitor),
	}
}

// Start runs m in the background
func (s *Supervisor) Start(m *Monitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSupervisorClosed
	}
	if _, exists := s.monitors[m.Handle()]; exists {
		return fmt.Errorf("transfer %s is already monitored", m.Handle())
	}

	s.monitors[m.Handle()] = m
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer s.forget(m.Handle())

		if err := s.sem.Acquire(s.ctx, 1); err != nil {
			return
		}
		defer s.sem.Release(1)

		m.Run(s.ctx)
	}()
	return nil
}

// Active returns how many monitors are running or waiting for a slot
func (s *Supervisor) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.monitors)
}

// Closed reports whether Shutdown was called
func (s *Supervisor) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Shutdown cancels every monitor and waits for their goroutines to exit
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Supervisor) forget(handle model.TransferHandle) {
	s.mu.Lock()
	delete(s.monitors, handle)
	s.mu.Unlock()
}
