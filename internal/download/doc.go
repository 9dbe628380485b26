package download

// Package download implements the core download pipeline: it derives a
// destination filename from a URL, hands the transfer to an external download
// service, supervises one progress monitor per transfer, and keeps the ordered
// list of tracked filenames consistent with its persisted copy.
