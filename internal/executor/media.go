package executor

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

const mediaProgressInterval = 500 * time.Millisecond

// MediaBackend downloads media pages through yt-dlp
type MediaBackend struct {
	hosts      []string
	maxRetries int
	retryDelay time.Duration
}

// NewMediaBackend creates a backend matching hosts and their subdomains
func NewMediaBackend(hosts []string) *MediaBackend {
	normalized := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			normalized = append(normalized, h)
		}
	}
	return &MediaBackend{
		hosts:      normalized,
		maxRetries: 1,
		retryDelay: 2 * time.Second,
	}
}

func (b *MediaBackend) Name() string { return "media" }

func (b *MediaBackend) Accepts(u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range b.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func (b *MediaBackend) Close() error { return nil }

// Transfer runs yt-dlp with dest as a literal output path
func (b *MediaBackend) Transfer(ctx context.Context, rawURL, dest string, progress Progress) error {
	dl := ytdlp.New().
		ForceOverwrites().
		NoPlaylist().
		Output(strings.ReplaceAll(dest, "%", "%%"))

	dl.ProgressFunc(mediaProgressInterval, func(update ytdlp.ProgressUpdate) {
		if update.TotalBytes > 0 {
			progress.SetTotal(int64(update.TotalBytes))
		}
		progress.Set(int64(update.DownloadedBytes))
	})

	return b.runWithRetry(ctx, dl, rawURL)
}

func (b *MediaBackend) runWithRetry(ctx context.Context, dl *ytdlp.Command, rawURL string) error {
	var lastErr error
	for attempt := 0; attempt <= b.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(b.retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			log.Printf("Retrying %s, attempt %d", rawURL, attempt+1)
		}

		_, err := dl.Run(ctx, rawURL)
		if err == nil {
			return nil
		}
		lastErr = err
		log.Printf("Attempt %d failed for %s: %v", attempt+1, rawURL, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("yt-dlp failed: %w", lastErr)
}
