package safefileio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// FileSystem opens files without following symbolic links in any path
// component.
type FileSystem interface {
	SafeOpenFile(name string, flag int, perm os.FileMode) (File, error)
}

// File is the subset of *os.File used by callers of this package.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.ReaderAt
	io.Closer
	Stat() (os.FileInfo, error)
}

// FileSystemConfig configures NewFileSystem.
type FileSystemConfig struct {
	// DisableOpenat2 forces the portable O_NOFOLLOW path even where openat2
	// is available.
	DisableOpenat2 bool
}

type osFS struct {
	openat2Available bool
}

// NewFileSystem returns a FileSystem backed by the local disk.
func NewFileSystem(cfg FileSystemConfig) FileSystem {
	return &osFS{openat2Available: !cfg.DisableOpenat2 && isOpenat2Available()}
}

var defaultFS = NewFileSystem(FileSystemConfig{})

// DefaultFileSystem returns the process-wide FileSystem.
func DefaultFileSystem() FileSystem {
	return defaultFS
}

// SafeOpenFile opens name with flag and perm, refusing to traverse a
// symbolic link anywhere in the resolved absolute path.
func (fs *osFS) SafeOpenFile(name string, flag int, perm os.FileMode) (File, error) {
	absPath, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilePath, err)
	}
	f, err := fs.safeOpenFileInternal(absPath, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// safeOpenFileFallback opens with O_NOFOLLOW, which only guards the final
// component, then checks every parent directory with Lstat.
func safeOpenFileFallback(absPath string, flag int, perm os.FileMode) (*os.File, error) {
	// #nosec G304 - absPath is cleaned by filepath.Abs and O_NOFOLLOW is set
	file, err := os.OpenFile(absPath, flag|unix.O_NOFOLLOW, perm)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrExist):
			return nil, ErrFileExists
		case isNoFollowError(err):
			return nil, ErrIsSymlink
		case errors.Is(err, os.ErrNotExist):
			return nil, err
		default:
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
	}

	if err := verifyPathComponents(absPath); err != nil {
		_ = file.Close()
		return nil, err
	}
	return file, nil
}

// verifyPathComponents checks if any component of the path is a symlink.
// This is called after opening the file to prevent TOCTOU attacks.
func verifyPathComponents(absPath string) error {
	dir, err := filepath.Abs(filepath.Dir(absPath))
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := dir
	for {
		parent := filepath.Dir(current)
		if parent == current {
			break // Reached root directory
		}

		fi, err := os.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("failed to stat %s: %w", current, err)
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s", ErrIsSymlink, current)
		}

		current = parent
	}

	return nil
}

// MaxFileSize is the maximum allowed file size for SafeReadFile (1 MB).
// SafeReadFile is meant for configuration files, not binaries.
const MaxFileSize = 1 << 20

// SafeReadFile reads a file through the default FileSystem.
func SafeReadFile(filePath string) ([]byte, error) {
	return SafeReadFileWithFS(filePath, defaultFS)
}

// SafeReadFileWithFS reads a regular file of at most MaxFileSize bytes.
func SafeReadFileWithFS(filePath string, fs FileSystem) (content []byte, err error) {
	file, err := fs.SafeOpenFile(filePath, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
	}()

	fileInfo, err := ValidateRegularFile(file, filePath)
	if err != nil {
		return nil, err
	}
	if fileInfo.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	content, err = io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(content)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return content, nil
}

// ValidateRegularFile checks through the open descriptor that file is a
// regular file and returns its FileInfo.
func ValidateRegularFile(file File, filePath string) (os.FileInfo, error) {
	fileInfo, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: not a regular file: %s", ErrInvalidFilePath, filePath)
	}

	return fileInfo, nil
}
