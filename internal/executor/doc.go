package executor

// Package executor is the in-process download service the core delegates byte
// transfer to. A Router hands each URL to the first backend that accepts it
// (magnet links, media pages via yt-dlp, plain HTTP) and answers status
// queries by transfer handle.
