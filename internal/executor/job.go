package executor

import (
	"sync"
	"sync/atomic"

	"github.com/ytget/download-manager/internal/model"
)

// Progress receives byte counts from a backend
type Progress interface {
	// SetTotal records the expected size; values <= 0 mean unknown
	SetTotal(total int64)
	// Set records the absolute number of bytes transferred
	Set(transferred int64)
	// Add adds n bytes to the transferred count
	Add(n int64)
}

type job struct {
	handle      model.TransferHandle
	url         string
	dest        string
	backend     string
	transferred atomic.Int64
	total       atomic.Int64

	mu     sync.Mutex
	status model.TransferStatus
	reason string
}

func newJob(handle model.TransferHandle, url, dest, backend string) *job {
	return &job{
		handle:  handle,
		url:     url,
		dest:    dest,
		backend: backend,
		status:  model.TransferStatusPending,
	}
}

func (j *job) SetTotal(total int64)  { j.total.Store(total) }
func (j *job) Set(transferred int64) { j.transferred.Store(transferred) }
func (j *job) Add(n int64)           { j.transferred.Add(n) }

func (j *job) setStatus(status model.TransferStatus, reason string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.IsTerminal() {
		return
	}
	j.status = status
	j.reason = reason
}

func (j *job) info() model.TransferInfo {
	j.mu.Lock()
	status, reason := j.status, j.reason
	j.mu.Unlock()

	return model.TransferInfo{
		BytesTransferred: j.transferred.Load(),
		BytesTotal:       j.total.Load(),
		Status:           status,
		Reason:           reason,
	}
}
