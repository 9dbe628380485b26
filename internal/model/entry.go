package model

import "time"

// DownloadEntry is one filename tracked in the visible download list
type DownloadEntry struct {
	Filename string
}

// TransferHandle is the opaque id the download service returns on enqueue
type TransferHandle string

// TransferInfo is a point-in-time answer to a status query
type TransferInfo struct {
	BytesTransferred int64
	BytesTotal       int64 // 0 or less when unknown
	Status           TransferStatus
	Reason           string // failure reason if any
}

// Percent returns floor(transferred*100/total); ok is false when the total is unknown
func (ti TransferInfo) Percent() (percent int, ok bool) {
	if ti.BytesTotal <= 0 {
		return 0, false
	}
	return int(ti.BytesTransferred * 100 / ti.BytesTotal), true
}

// Transfer is the submitter's record of one enqueued transfer
type Transfer struct {
	Handle     TransferHandle
	URL        string
	Filename   string
	State      MonitorState
	Percent    int       // last reported percent, -1 if unknown
	StartedAt  time.Time // when the transfer was enqueued
	FinishedAt time.Time // when the monitor reached a terminal state
}

// Filenames converts list entries into their filenames preserving order
func Filenames(entries []DownloadEntry) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Filename)
	}
	return names
}
