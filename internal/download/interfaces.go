package download

import (
	"context"

	"github.com/ytget/download-manager/internal/model"
)

// Executor is the external service that performs the byte transfer.
type Executor interface {
	// Enqueue schedules url to be saved as filename and returns a handle for it.
	Enqueue(ctx context.Context, url, filename string, visibility model.Visibility) (model.TransferHandle, error)
	// Query reports the progress and status of a transfer.
	Query(ctx context.Context, handle model.TransferHandle) (model.TransferInfo, error)
}

// ProgressSink receives the events of a single monitor.
type ProgressSink interface {
	OnProgress(filename string, percent int)
	OnTerminal(filename string, succeeded bool)
}

// Listener receives notifications for the UI. Implementations must be safe for
// concurrent use: monitors call it from their own goroutines. OnListChanged is
// called while the list is locked and must not call back into the list, except
// for LastSaveError.
type Listener interface {
	ProgressSink
	OnSubmitAck()
	OnListChanged(entries []model.DownloadEntry)
}

// Downloader defines the interface the UI uses to drive the core.
type Downloader interface {
	SetListener(Listener)
	Submit(ctx context.Context, url string) (model.TransferHandle, error)
	Remove(index int) bool
	Entries() []model.DownloadEntry
	Transfers() []model.Transfer
	LastSaveError() error
	Shutdown()
}
