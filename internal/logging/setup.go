package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/isseis/go-elf-inspect/internal/safefileio"
	"github.com/isseis/go-elf-inspect/internal/terminal"
)

// ErrInvalidLogLevel is returned by ParseLevel.
var ErrInvalidLogLevel = errors.New("invalid log level")

// logSchemaVersion is written to every JSON log record.
const logSchemaVersion = 1

// Config holds all configuration for logger setup.
type Config struct {
	Level slog.Level

	// Console receives human-readable output, normally stderr.
	Console      io.Writer
	Capabilities terminal.Capabilities

	// LogDir enables a per-run JSON log file when non-empty.
	LogDir string
	RunID  string

	// FS opens the log file. Nil means safefileio.DefaultFileSystem.
	FS safefileio.FileSystem

	now func() time.Time
}

// Logger is a configured *slog.Logger plus the resources it owns.
type Logger struct {
	*slog.Logger

	// LogPath is the JSON log file, or "" when none was requested.
	LogPath string
	file    io.Closer
}

// Close closes the JSON log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLevel accepts debug, info, warn or error, case insensitive.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
	return level, nil
}

// Setup builds the console handlers and the optional JSON file handler and
// joins them with a MultiHandler. It does not touch slog.Default.
func Setup(cfg Config) (*Logger, error) {
	if cfg.Console == nil {
		cfg.Console = os.Stderr
	}
	if cfg.Capabilities == nil {
		cfg.Capabilities = terminal.NewCapabilities(terminal.Options{})
	}
	if cfg.RunID == "" {
		cfg.RunID = GenerateRunID()
	}
	now := cfg.now
	if now == nil {
		now = time.Now
	}

	interactive, err := NewInteractiveHandler(InteractiveHandlerOptions{
		Level:        cfg.Level,
		Writer:       cfg.Console,
		Capabilities: cfg.Capabilities,
		Formatter:    NewDefaultMessageFormatter(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create interactive handler: %w", err)
	}

	text, err := NewConditionalTextHandler(ConditionalTextHandlerOptions{
		Capabilities:       cfg.Capabilities,
		TextHandlerOptions: &slog.HandlerOptions{Level: cfg.Level},
		Writer:             cfg.Console,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conditional text handler: %w", err)
	}

	out := &Logger{}
	var jsonHandler slog.Handler
	if cfg.LogDir != "" {
		out.LogPath = GenerateLogFilename(cfg.LogDir, cfg.RunID, now())
		f, err := NewSafeFileOpener(cfg.FS).CreateLogFile(out.LogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out.file = f
		jsonHandler = slog.NewJSONHandler(f, &slog.HandlerOptions{Level: cfg.Level}).WithAttrs([]slog.Attr{
			slog.String(FieldHostname, hostname()),
			slog.Int(FieldPID, os.Getpid()),
			slog.Int(FieldSchemaVersion, logSchemaVersion),
			slog.String(FieldRunID, cfg.RunID),
		})
	}

	out.Logger = slog.New(NewMultiHandler(interactive, text, jsonHandler))
	return out, nil
}
