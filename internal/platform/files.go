package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sync/errgroup"
)

// Operating system constants
const (
	OSAndroid = "android"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// AndroidDownloadsDir is the shared storage Downloads directory on Android
const AndroidDownloadsDir = "/sdcard/Download"

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// EnsureDirectories creates every directory in parallel and returns the first failure
func EnsureDirectories(dirs ...string) error {
	var g errgroup.Group
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		g.Go(func() error {
			if err := CreateDirectoryIfNotExists(dir); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// IsAndroid reports whether the process runs on Android
func IsAndroid() bool {
	return runtime.GOOS == OSAndroid ||
		os.Getenv("ANDROID_DATA") != "" ||
		os.Getenv("ANDROID_ROOT") != "" ||
		os.Getenv("ANDROID_STORAGE") != "" ||
		filepath.Base(os.Args[0]) == "libdist.so" // Fyne Android apps run as libdist.so
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	// Files placed here show up in the system Downloads view
	if IsAndroid() {
		return AndroidDownloadsDir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, "Downloads"), nil
}

// GetAppDataDir returns the per-user data directory for appID
func GetAppDataDir(appID string) (string, error) {
	if appID == "" {
		return "", fmt.Errorf("empty application id")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	return filepath.Join(configDir, appID), nil
}

// FreeSpace returns the bytes available to the user on the filesystem holding path.
// The nearest existing ancestor is probed when path does not exist yet.
func FreeSpace(path string) (uint64, error) {
	probe := path
	for {
		if _, err := os.Stat(probe); err == nil {
			break
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			break
		}
		probe = parent
	}

	usage, err := disk.Usage(probe)
	if err != nil {
		return 0, fmt.Errorf("failed to get disk usage for %s: %w", probe, err)
	}
	return usage.Free, nil
}
