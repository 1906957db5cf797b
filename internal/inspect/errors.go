package inspect

import "errors"

var (
	// ErrNotRegularFile is returned for devices, FIFOs, directories and sockets.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrFileTooLarge is returned when a file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrStringTable describes an unusable section name string table.
	ErrStringTable = errors.New("bad section name string table")

	// ErrInterpreter describes an unreadable PT_INTERP segment.
	ErrInterpreter = errors.New("bad program interpreter")
)
