package executor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type countingProgress struct {
	total       atomic.Int64
	transferred atomic.Int64
}

func (p *countingProgress) SetTotal(total int64)  { p.total.Store(total) }
func (p *countingProgress) Set(transferred int64) { p.transferred.Store(transferred) }
func (p *countingProgress) Add(n int64)           { p.transferred.Add(n) }

func TestHTTPBackend_Accepts(t *testing.T) {
	b := NewHTTPBackend(nil, 0)

	tests := []struct {
		url      string
		expected bool
	}{
		{"http://example.com/a", true},
		{"https://example.com/a", true},
		{"https:///nohost", false},
		{"ftp://example.com/a", false},
		{"magnet:?xt=urn:btih:abc", false},
	}

	for _, tt := range tests {
		u, err := url.Parse(tt.url)
		if err != nil {
			t.Fatal(err)
		}
		if got := b.Accepts(u); got != tt.expected {
			t.Errorf("Accepts(%s) = %v, expected %v", tt.url, got, tt.expected)
		}
	}
}

func TestHTTPBackend_Transfer(t *testing.T) {
	body := strings.Repeat("x", 100*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write([]byte(body))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "nested", "file.bin")
	b := NewHTTPBackend(srv.Client(), 0)
	p := &countingProgress{}

	if err := b.Transfer(context.Background(), srv.URL+"/file.bin", dest, p); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read destination: %v", err)
	}
	if string(data) != body {
		t.Errorf("Expected %d bytes, got %d", len(body), len(data))
	}
	if p.total.Load() != int64(len(body)) || p.transferred.Load() != int64(len(body)) {
		t.Errorf("Expected progress %d/%d, got %d/%d", len(body), len(body), p.transferred.Load(), p.total.Load())
	}
	if _, err := os.Stat(dest + PartialSuffix); !os.IsNotExist(err) {
		t.Error("Expected partial file to be renamed away")
	}
}

func TestHTTPBackend_RateLimited(t *testing.T) {
	body := strings.Repeat("y", 4*copyBufferSize)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.Client(), 1<<30)
	if b.limiter == nil {
		t.Fatal("Expected limiter to be configured")
	}
	if b.limiter.Burst() < copyBufferSize {
		t.Errorf("Expected burst of at least %d, got %d", copyBufferSize, b.limiter.Burst())
	}

	dest := filepath.Join(t.TempDir(), "limited.bin")
	if err := b.Transfer(context.Background(), srv.URL, dest, &countingProgress{}); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if info, err := os.Stat(dest); err != nil || info.Size() != int64(len(body)) {
		t.Errorf("Expected %d bytes on disk, got %v (err %v)", len(body), info, err)
	}
}

func TestNewLimiter(t *testing.T) {
	if newLimiter(0) != nil || newLimiter(-5) != nil {
		t.Error("Expected no limiter for non-positive rates")
	}
	if l := newLimiter(10); l == nil || l.Burst() != copyBufferSize {
		t.Errorf("Expected burst raised to buffer size")
	}
	if l := newLimiter(10 * copyBufferSize); l == nil || l.Burst() != 10*copyBufferSize {
		t.Errorf("Expected burst equal to rate")
	}
}

func TestHTTPBackend_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "missing.bin")
	b := NewHTTPBackend(srv.Client(), 0)
	err := b.Transfer(context.Background(), srv.URL+"/missing.bin", dest, &countingProgress{})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("Expected 404 error, got %v", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("Expected no destination file")
	}
}

func TestHTTPBackend_InsufficientSpace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.Write(make([]byte, 1000))
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.Client(), 0)
	b.freeSpace = func(string) (uint64, error) { return 10, nil }

	dest := filepath.Join(t.TempDir(), "big.bin")
	err := b.Transfer(context.Background(), srv.URL, dest, &countingProgress{})
	if !errors.Is(err, ErrInsufficientSpace) {
		t.Fatalf("Expected ErrInsufficientSpace, got %v", err)
	}
	if _, err := os.Stat(dest + PartialSuffix); !os.IsNotExist(err) {
		t.Error("Expected no partial file")
	}
}

func TestHTTPBackend_FreeSpaceErrorIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.Client(), 0)
	b.freeSpace = func(string) (uint64, error) { return 0, errors.New("statfs unsupported") }

	dest := filepath.Join(t.TempDir(), "ok.txt")
	if err := b.Transfer(context.Background(), srv.URL, dest, &countingProgress{}); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
}

func TestHTTPBackend_Cancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "10")
		w.Write([]byte("abc"))
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	p := &countingProgress{}
	dest := filepath.Join(t.TempDir(), "slow.bin")

	done := make(chan error, 1)
	b := NewHTTPBackend(srv.Client(), 0)
	go func() { done <- b.Transfer(ctx, srv.URL, dest, p) }()

	for p.transferred.Load() == 0 {
		select {
		case err := <-done:
			t.Fatalf("Transfer ended early: %v", err)
		default:
			time.Sleep(time.Millisecond)
		}
	}
	cancel()

	if err := <-done; err == nil {
		t.Fatal("Expected error after cancellation")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("Expected no destination file")
	}
	if _, err := os.Stat(dest + PartialSuffix); !os.IsNotExist(err) {
		t.Error("Expected partial file to be removed")
	}
}

func TestRouter_WithHTTPBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	r := NewRouter(Dirs{Public: dir, Private: dir}, 1, NewHTTPBackend(srv.Client(), 0))
	defer r.Close()

	h, err := r.Enqueue(context.Background(), srv.URL+"/payload.txt", "payload.txt", "public")
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	info := waitForStatus(t, r, h, "succeeded")
	if info.BytesTotal != int64(len("payload")) {
		t.Errorf("Expected total %d, got %d", len("payload"), info.BytesTotal)
	}
	if _, err := os.Stat(filepath.Join(dir, "payload.txt")); err != nil {
		t.Errorf("Expected file on disk: %v", err)
	}
}
