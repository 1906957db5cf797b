package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfigPath is returned when the config file path is invalid
	ErrInvalidConfigPath = errors.New("invalid config file path")

	// ErrUnknownKey is returned when the file sets a key the loader does not know
	ErrUnknownKey = errors.New("unknown configuration key")

	// ErrInvalidMaxFileSize is returned when limits.max_file_size is not positive
	ErrInvalidMaxFileSize = errors.New("max_file_size must be positive")

	// ErrInvalidFormat is returned for an unknown output.format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidColor is returned for an unknown output.color
	ErrInvalidColor = errors.New("invalid color mode")

	// ErrInvalidLogLevel is returned for an unknown log.level
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidJobs is returned when run.jobs is negative
	ErrInvalidJobs = errors.New("jobs must be positive")
)

// ValidationError names the offending key.
type ValidationError struct {
	Key   string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s = %v: %v", e.Key, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
