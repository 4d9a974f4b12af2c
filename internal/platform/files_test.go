package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "a", "b", "c")

	if err := CreateDirectoryIfNotExists(dir); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Expected directory to exist, got %v", err)
	}
	if !info.IsDir() {
		t.Errorf("Expected %s to be a directory", dir)
	}

	// Creating it again must be a no-op
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		t.Errorf("Expected no error on existing directory, got %v", err)
	}
}

func TestCreateDirectoryIfNotExists_Empty(t *testing.T) {
	if err := CreateDirectoryIfNotExists(""); err == nil {
		t.Error("Expected error for empty path, got nil")
	}
}

func TestCleanupFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "temp.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	CleanupFile(path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected %s to be removed", path)
	}

	// Missing file and empty path must not panic
	CleanupFile(path)
	CleanupFile("")
}

func TestFileSizeMB(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(path, make([]byte, 2*BytesPerMB), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if size := FileSizeMB(path); size != 2.0 {
		t.Errorf("FileSizeMB() = %f, expected 2.0", size)
	}

	if size := FileSizeMB(filepath.Join(dir, "missing.bin")); size != 0 {
		t.Errorf("FileSizeMB() for missing file = %f, expected 0", size)
	}
}
