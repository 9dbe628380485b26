package config

import (
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"github.com/ytget/download-manager/internal/platform"
	"github.com/ytget/download-manager/internal/store"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir  = "download_directory"
	KeyPrivateDir   = "private_directory"
	KeyPollInterval = "poll_interval_ms"
	KeyMaxMonitors  = "max_active_monitors"
	KeyQueryTimeout = "query_timeout_seconds"
	KeyRateLimit    = "rate_limit_bytes"
	KeyListStorage  = "list_storage"
	KeyMediaHosts   = "media_hosts"
	KeyMaxParallel  = "max_parallel_downloads"
	KeyLanguage     = "app_language"
	KeyNotify       = "notify_on_complete"
)

// Default values
const (
	DefaultPollIntervalMs = 1000
	DefaultMaxMonitors    = 8
	DefaultQueryTimeout   = 30
	DefaultRateLimit      = 0 // unlimited
	DefaultListStorage    = store.BackendFile
	DefaultMediaHosts     = "youtube.com,www.youtube.com,m.youtube.com,youtu.be"
	DefaultMaxParallel    = 2
	DefaultLanguage       = "system"
	DefaultNotify         = true
)

// Bounds
const (
	MinPollIntervalMs = 100
	MaxPollIntervalMs = 60000
	MinMonitors       = 1
	MaxMonitors       = 64
	MinQueryTimeout   = 1
	MaxQueryTimeout   = 600
	MinParallel       = 1
	MaxParallel       = 10
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// Preferences exposes the underlying preferences for stores that share them
func (s *Settings) Preferences() fyne.Preferences {
	return s.app.Preferences()
}

// GetDownloadDirectory returns the public downloads directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = "/tmp/downloads"
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the public downloads directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetPrivateDirectory returns the app-private directory used for private transfers and the list file
func (s *Settings) GetPrivateDirectory() string {
	dir := s.app.Preferences().String(KeyPrivateDir)
	if dir == "" {
		defaultDir, err := platform.GetAppDataDir(s.app.UniqueID())
		if err != nil {
			defaultDir = "/tmp/download-manager"
		}
		s.SetPrivateDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetPrivateDirectory sets the app-private directory
func (s *Settings) SetPrivateDirectory(dir string) {
	s.app.Preferences().SetString(KeyPrivateDir, dir)
}

// GetPollInterval returns the delay between two status queries of one monitor
func (s *Settings) GetPollInterval() time.Duration {
	value := s.app.Preferences().Int(KeyPollInterval)
	if value <= 0 {
		s.SetPollInterval(DefaultPollIntervalMs * time.Millisecond)
		return DefaultPollIntervalMs * time.Millisecond
	}
	return time.Duration(value) * time.Millisecond
}

// SetPollInterval sets the poll interval, clamped to [100ms, 60s]
func (s *Settings) SetPollInterval(interval time.Duration) {
	ms := int(interval / time.Millisecond)
	if ms < MinPollIntervalMs {
		ms = MinPollIntervalMs
	}
	if ms > MaxPollIntervalMs {
		ms = MaxPollIntervalMs
	}
	s.app.Preferences().SetInt(KeyPollInterval, ms)
}

// GetMaxActiveMonitors returns how many monitors may poll at the same time
func (s *Settings) GetMaxActiveMonitors() int {
	value := s.app.Preferences().Int(KeyMaxMonitors)
	if value <= 0 {
		s.SetMaxActiveMonitors(DefaultMaxMonitors)
		return DefaultMaxMonitors
	}
	return value
}

// SetMaxActiveMonitors sets the monitor cap, clamped to [1, 64]
func (s *Settings) SetMaxActiveMonitors(count int) {
	if count < MinMonitors {
		count = MinMonitors
	}
	if count > MaxMonitors {
		count = MaxMonitors
	}
	s.app.Preferences().SetInt(KeyMaxMonitors, count)
}

// GetQueryTimeout returns the bound on a single status query
func (s *Settings) GetQueryTimeout() time.Duration {
	value := s.app.Preferences().Int(KeyQueryTimeout)
	if value <= 0 {
		s.SetQueryTimeout(DefaultQueryTimeout * time.Second)
		return DefaultQueryTimeout * time.Second
	}
	return time.Duration(value) * time.Second
}

// SetQueryTimeout sets the query timeout, clamped to [1s, 600s]
func (s *Settings) SetQueryTimeout(timeout time.Duration) {
	sec := int(timeout / time.Second)
	if sec < MinQueryTimeout {
		sec = MinQueryTimeout
	}
	if sec > MaxQueryTimeout {
		sec = MaxQueryTimeout
	}
	s.app.Preferences().SetInt(KeyQueryTimeout, sec)
}

// GetRateLimit returns the HTTP download rate limit in bytes per second, 0 for unlimited
func (s *Settings) GetRateLimit() int64 {
	value := s.app.Preferences().IntWithFallback(KeyRateLimit, DefaultRateLimit)
	if value < 0 {
		return 0
	}
	return int64(value)
}

// SetRateLimit sets the HTTP download rate limit
func (s *Settings) SetRateLimit(bytesPerSecond int64) {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}
	s.app.Preferences().SetInt(KeyRateLimit, int(bytesPerSecond))
}

// GetListStorage returns the backend keeping the download list
func (s *Settings) GetListStorage() string {
	backend := s.app.Preferences().String(KeyListStorage)
	if backend == "" {
		s.SetListStorage(DefaultListStorage)
		return DefaultListStorage
	}
	return backend
}

// SetListStorage sets the list backend; unknown values fall back to the default
func (s *Settings) SetListStorage(backend string) {
	if backend != store.BackendFile && backend != store.BackendPreferences {
		backend = DefaultListStorage
	}
	s.app.Preferences().SetString(KeyListStorage, backend)
}

// GetListStorageOptions returns available list backends
func (s *Settings) GetListStorageOptions() []string {
	return []string{store.BackendFile, store.BackendPreferences}
}

// GetMediaHosts returns the hosts handed to the media backend
func (s *Settings) GetMediaHosts() []string {
	raw := s.app.Preferences().StringWithFallback(KeyMediaHosts, DefaultMediaHosts)
	var hosts []string
	for _, host := range strings.Split(raw, ",") {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			hosts = append(hosts, host)
		}
	}
	return hosts
}

// SetMediaHosts sets the media hosts
func (s *Settings) SetMediaHosts(hosts []string) {
	s.app.Preferences().SetString(KeyMediaHosts, strings.Join(hosts, ","))
}

// GetMaxParallelDownloads returns how many transfers may move bytes at once
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelDownloads(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	if count < MinParallel {
		count = MinParallel
	}
	if count > MaxParallel {
		count = MaxParallel
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetNotifyOnComplete returns whether finished public downloads raise a system notification
func (s *Settings) GetNotifyOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyNotify, DefaultNotify)
}

// SetNotifyOnComplete sets the completion notification flag
func (s *Settings) SetNotifyOnComplete(enabled bool) {
	s.app.Preferences().SetBool(KeyNotify, enabled)
}
