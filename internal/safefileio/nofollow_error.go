package safefileio

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// isNoFollowError reports whether an O_NOFOLLOW open failed because the
// final component is a symlink. Linux returns ELOOP, FreeBSD EMLINK.
func isNoFollowError(err error) bool {
	var e *os.PathError
	if !errors.As(err, &e) {
		return false
	}
	return errors.Is(e.Err, unix.ELOOP) || errors.Is(e.Err, unix.EMLINK)
}
