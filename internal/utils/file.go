package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// ArtifactPath builds a timestamped file path for a debug artifact,
// creating the directory on first use. Timestamps keep artifacts from
// consecutive runs from overwriting each other.
func ArtifactPath(dir, stem, format string) (string, error) {
	if err := EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	ts := time.Now().Format("20060102_150405.000")
	ts = strings.ReplaceAll(ts, ".", "_")
	name := fmt.Sprintf("%s_%s.%s", ts, stem, strings.ToLower(format))
	return filepath.Join(dir, name), nil
}
