package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/isseis/go-elf-inspect/internal/safefileio"
	"github.com/oklog/ulid/v2"
)

// Common errors
var (
	ErrEmptyLogDirectory = errors.New("log directory cannot be empty")
)

const (
	logDirPerm  os.FileMode = 0o750
	logFilePerm os.FileMode = 0o600

	unknownHost = "unknown"
)

// SafeFileOpener creates log files without following symlinks.
type SafeFileOpener struct {
	fs safefileio.FileSystem
}

// NewSafeFileOpener returns an opener over fs, or over the default
// FileSystem when fs is nil.
func NewSafeFileOpener(fs safefileio.FileSystem) *SafeFileOpener {
	if fs == nil {
		fs = safefileio.DefaultFileSystem()
	}
	return &SafeFileOpener{fs: fs}
}

// CreateLogFile creates path exclusively, making its directory first.
func (s *SafeFileOpener) CreateLogFile(path string) (safefileio.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := s.fs.SafeOpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, logFilePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s safely: %w", path, err)
	}
	return file, nil
}

// GenerateLogFilename returns dir/<host>_<timestamp>_<runID>.json.
func GenerateLogFilename(dir, runID string, now time.Time) string {
	filename := fmt.Sprintf("%s_%s_%s.json", hostname(), now.UTC().Format("20060102T150405Z"), runID)
	return filepath.Join(dir, filename)
}

// GenerateRunID returns a new ULID. Run IDs sort by creation time.
func GenerateRunID() string {
	return ulid.Make().String()
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return unknownHost
	}
	return h
}
