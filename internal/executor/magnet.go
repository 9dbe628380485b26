package executor

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/anacrolix/torrent"

	"github.com/ytget/download-manager/internal/platform"
)

const magnetStatInterval = 500 * time.Millisecond

// MagnetBackend downloads magnet links with a torrent client per transfer
type MagnetBackend struct {
	bytesPerSecond int64
	statInterval   time.Duration
}

// NewMagnetBackend creates a backend; bytesPerSecond <= 0 disables throttling
func NewMagnetBackend(bytesPerSecond int64) *MagnetBackend {
	return &MagnetBackend{
		bytesPerSecond: bytesPerSecond,
		statInterval:   magnetStatInterval,
	}
}

func (b *MagnetBackend) Name() string { return "magnet" }

func (b *MagnetBackend) Accepts(u *url.URL) bool {
	return u.Scheme == "magnet"
}

func (b *MagnetBackend) Close() error { return nil }

// Transfer stores the torrent's content under dest, which becomes a directory
func (b *MagnetBackend) Transfer(ctx context.Context, rawURL, dest string, progress Progress) error {
	if err := platform.CreateDirectoryIfNotExists(dest); err != nil {
		return err
	}

	cfg := torrent.NewDefaultClientConfig()
	cfg.DataDir = dest
	cfg.ListenPort = 0
	cfg.Seed = false
	if l := newLimiter(b.bytesPerSecond); l != nil {
		cfg.DownloadRateLimiter = l
	}

	client, err := torrent.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to start torrent client: %w", err)
	}
	defer client.Close()

	t, err := client.AddMagnet(rawURL)
	if err != nil {
		return fmt.Errorf("invalid magnet link: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.GotInfo():
	}

	total := t.Length()
	progress.SetTotal(total)
	t.DownloadAll()

	ticker := time.NewTicker(b.statInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done := t.BytesCompleted()
			progress.Set(done)
			if done >= total {
				return nil
			}
		}
	}
}
