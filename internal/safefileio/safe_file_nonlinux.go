//go:build !linux

package safefileio

import (
	"os"
)

// isOpenat2Available always returns false on non-Linux platforms
func isOpenat2Available() bool {
	return false
}

// safeOpenFileInternal always takes the portable path.
func (fs *osFS) safeOpenFileInternal(absPath string, flag int, perm os.FileMode) (*os.File, error) {
	return safeOpenFileFallback(absPath, flag, perm)
}
