package config

import (
	"errors"

	"github.com/isseis/go-elf-inspect/internal/logging"
	"github.com/isseis/go-elf-inspect/internal/terminal"
)

// Validate checks a Config after ApplyDefaults. The first invalid field is
// reported as a *ValidationError.
func Validate(cfg *Config) error {
	if cfg.Limits.MaxFileSize != nil && *cfg.Limits.MaxFileSize <= 0 {
		return &ValidationError{Key: "limits.max_file_size", Value: *cfg.Limits.MaxFileSize, Err: ErrInvalidMaxFileSize}
	}

	switch cfg.Output.Format {
	case FormatText, FormatJSON:
	default:
		return &ValidationError{Key: "output.format", Value: cfg.Output.Format, Err: ErrInvalidFormat}
	}

	if _, err := terminal.ParseColorMode(cfg.Output.Color); err != nil {
		return &ValidationError{Key: "output.color", Value: cfg.Output.Color, Err: errors.Join(ErrInvalidColor, err)}
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return &ValidationError{Key: "log.level", Value: cfg.Log.Level, Err: errors.Join(ErrInvalidLogLevel, err)}
	}

	if cfg.Run.Jobs < 1 {
		return &ValidationError{Key: "run.jobs", Value: cfg.Run.Jobs, Err: ErrInvalidJobs}
	}

	return nil
}
