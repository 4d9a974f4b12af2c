package platform

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Byte size units
const (
	BytesPerMB = 1024 * 1024
	BytesPerGB = 1024 * 1024 * 1024
)

// CreateDirectoryIfNotExists creates the directory and any missing parents
func CreateDirectoryIfNotExists(dir string) error {
	if dir == "" {
		return fmt.Errorf("directory path is empty")
	}
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// CleanupFile removes a file if it exists. Failures are logged, never fatal.
func CleanupFile(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}
	if err := os.Remove(path); err != nil {
		log.Warnf("Failed to cleanup file %s: %v", path, err)
		return
	}
	log.Infof("Cleaned up file: %s", path)
}

// FileSizeMB returns the file size in megabytes, or 0 if the file cannot be stat'd
func FileSizeMB(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / BytesPerMB
}

// FileSizeGB returns the file size in gigabytes, or 0 if the file cannot be stat'd
func FileSizeGB(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / BytesPerGB
}
