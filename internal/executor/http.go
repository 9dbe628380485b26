package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/ytget/download-manager/internal/platform"
)

const (
	copyBufferSize = 32 * 1024

	// PartialSuffix marks files still being written
	PartialSuffix = ".part"
)

// ErrInsufficientSpace is returned when the destination volume cannot hold the file
var ErrInsufficientSpace = errors.New("not enough free space")

// HTTPBackend fetches plain http and https URLs
type HTTPBackend struct {
	client    *http.Client
	limiter   *rate.Limiter
	freeSpace func(path string) (uint64, error)
}

// NewHTTPBackend creates a backend; bytesPerSecond <= 0 disables throttling
func NewHTTPBackend(client *http.Client, bytesPerSecond int64) *HTTPBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPBackend{
		client:    client,
		limiter:   newLimiter(bytesPerSecond),
		freeSpace: platform.FreeSpace,
	}
}

func newLimiter(bytesPerSecond int64) *rate.Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}
	// WaitN fails for n above the burst, so it must cover a whole buffer
	burst := int(bytesPerSecond)
	if burst < copyBufferSize {
		burst = copyBufferSize
	}
	return rate.NewLimiter(rate.Limit(bytesPerSecond), burst)
}

func (b *HTTPBackend) Name() string { return "http" }

func (b *HTTPBackend) Accepts(u *url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (b *HTTPBackend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

// Transfer streams the response body into dest+".part" and renames it on success
func (b *HTTPBackend) Transfer(ctx context.Context, rawURL, dest string, progress Progress) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	dir := filepath.Dir(dest)
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return err
	}

	if resp.ContentLength > 0 {
		progress.SetTotal(resp.ContentLength)
		if free, err := b.freeSpace(dir); err == nil && uint64(resp.ContentLength) > free {
			return fmt.Errorf("%w: need %s, have %s", ErrInsufficientSpace,
				humanize.Bytes(uint64(resp.ContentLength)), humanize.Bytes(free))
		} else if err != nil {
			log.Printf("Free space check skipped for %s: %v", dir, err)
		}
	}

	partial := dest + PartialSuffix
	f, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", partial, err)
	}

	written, copyErr := b.copy(ctx, f, resp.Body, progress)
	closeErr := f.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr == nil && resp.ContentLength > 0 && written != resp.ContentLength {
		copyErr = fmt.Errorf("short body: got %d of %d bytes", written, resp.ContentLength)
	}
	if copyErr != nil {
		os.Remove(partial)
		return copyErr
	}

	if err := os.Rename(partial, dest); err != nil {
		os.Remove(partial)
		return fmt.Errorf("failed to move %s into place: %w", dest, err)
	}
	return nil
}

func (b *HTTPBackend) copy(ctx context.Context, dst io.Writer, src io.Reader, progress Progress) (int64, error) {
	buf := make([]byte, copyBufferSize)
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if b.limiter != nil {
				if err := b.limiter.WaitN(ctx, n); err != nil {
					return written, err
				}
			}
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, fmt.Errorf("write failed: %w", err)
			}
			written += int64(n)
			progress.Add(int64(n))
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("read failed: %w", readErr)
		}
	}
}
