package model

// TransferStatus is the status reported by the download service for one transfer
type TransferStatus string

const (
	// TransferStatusPending means the transfer is queued but no bytes moved yet
	TransferStatusPending TransferStatus = "pending"

	// TransferStatusRunning means bytes are being transferred
	TransferStatusRunning TransferStatus = "running"

	// TransferStatusSucceeded means the file is complete at its destination
	TransferStatusSucceeded TransferStatus = "succeeded"

	// TransferStatusFailed means the service gave up on the transfer
	TransferStatusFailed TransferStatus = "failed"
)

// String returns the string representation of TransferStatus
func (ts TransferStatus) String() string {
	return string(ts)
}

// IsTerminal returns true if the service will not change the status again
func (ts TransferStatus) IsTerminal() bool {
	return ts == TransferStatusSucceeded || ts == TransferStatusFailed
}

// MonitorState is the state of a progress monitor bound to one transfer
type MonitorState string

const (
	// MonitorPolling means the monitor keeps querying the service
	MonitorPolling MonitorState = "Polling"

	// MonitorSucceeded means the transfer completed
	MonitorSucceeded MonitorState = "Succeeded"

	// MonitorFailed means the transfer failed or could not be queried
	MonitorFailed MonitorState = "Failed"
)

// String returns the string representation of MonitorState
func (ms MonitorState) String() string {
	return string(ms)
}

// IsTerminal returns true for Succeeded and Failed
func (ms MonitorState) IsTerminal() bool {
	return ms == MonitorSucceeded || ms == MonitorFailed
}

// Visibility selects where the download service places a finished file
type Visibility string

const (
	// VisibilityPublic stores into the user's Downloads directory and announces completion
	VisibilityPublic Visibility = "public"

	// VisibilityPrivate stores into the application's own storage directory
	VisibilityPrivate Visibility = "private"
)
