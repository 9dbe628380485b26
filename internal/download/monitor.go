package download

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ytget/download-manager/internal/model"
)

// Monitor defaults
const (
	DefaultPollInterval = time.Second
	DefaultQueryTimeout = 30 * time.Second
)

// Monitor polls the download service for one transfer until it reaches a terminal state
type Monitor struct {
	handle       model.TransferHandle
	filename     string
	executor     Executor
	sink         ProgressSink
	interval     time.Duration
	queryTimeout time.Duration

	mu    sync.Mutex
	state model.MonitorState
}

// NewMonitor creates a monitor in the Polling state. A zero queryTimeout leaves queries unbounded.
func NewMonitor(handle model.TransferHandle, filename string, executor Executor, sink ProgressSink, interval, queryTimeout time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		handle:       handle,
		filename:     filename,
		executor:     executor,
		sink:         sink,
		interval:     interval,
		queryTimeout: queryTimeout,
		state:        model.MonitorPolling,
	}
}

// Handle returns the transfer the monitor is bound to
func (m *Monitor) Handle() model.TransferHandle {
	return m.handle
}

// Filename returns the destination filename of the transfer
func (m *Monitor) Filename() string {
	return m.filename
}

// State returns the current state
func (m *Monitor) State() model.MonitorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Run queries immediately, then once per interval after the previous query
// returned. It returns the terminal state, or Polling when ctx was cancelled first.
func (m *Monitor) Run(ctx context.Context) model.MonitorState {
	for {
		if ctx.Err() != nil {
			log.Printf("Monitoring of %s (%s) cancelled", m.handle, m.filename)
			return m.State()
		}

		if state, done := m.poll(ctx); done {
			return state
		}

		select {
		case <-ctx.Done():
			log.Printf("Monitoring of %s (%s) cancelled", m.handle, m.filename)
			return m.State()
		case <-time.After(m.interval):
		}
	}
}

// poll performs one query and reports whether monitoring is over
func (m *Monitor) poll(ctx context.Context) (model.MonitorState, bool) {
	queryCtx := ctx
	cancel := func() {}
	if m.queryTimeout > 0 {
		queryCtx, cancel = context.WithTimeout(ctx, m.queryTimeout)
	}
	info, err := m.executor.Query(queryCtx, m.handle)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			return m.State(), true
		}
		log.Printf("Error trying to monitor download %s (%s): %v", m.handle, m.filename, err)
		return m.finish(model.MonitorFailed), true
	}

	if percent, ok := info.Percent(); ok {
		m.sink.OnProgress(m.filename, percent)
	}

	switch info.Status {
	case model.TransferStatusSucceeded:
		return m.finish(model.MonitorSucceeded), true
	case model.TransferStatusFailed:
		if info.Reason != "" {
			log.Printf("Download %s (%s) failed: %s", m.handle, m.filename, info.Reason)
		}
		return m.finish(model.MonitorFailed), true
	}
	return model.MonitorPolling, false
}

func (m *Monitor) finish(state model.MonitorState) model.MonitorState {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()

	m.sink.OnTerminal(m.filename, state == model.MonitorSucceeded)
	return state
}
