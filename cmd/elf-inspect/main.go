// Package main provides the elf-inspect command. It prints the file header,
// section headers and program headers of ELF files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/isseis/go-elf-inspect/internal/color"
	"github.com/isseis/go-elf-inspect/internal/config"
	"github.com/isseis/go-elf-inspect/internal/elfhdr"
	"github.com/isseis/go-elf-inspect/internal/inspect"
	"github.com/isseis/go-elf-inspect/internal/logging"
	"github.com/isseis/go-elf-inspect/internal/report"
	"github.com/isseis/go-elf-inspect/internal/terminal"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var errNoFilesProvided = errors.New("at least one file path must be provided")

type options struct {
	configPath string
	fileHeader bool
	sections   bool
	segments   bool
	all        bool
	noFollow   bool

	format      string
	color       string
	jobs        int
	logLevel    string
	logDir      string
	maxFileSize int64

	// set holds the names of flags given on the command line.
	set   map[string]bool
	files []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		printUsage(fs, stderr)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	// Validate has accepted both values.
	colorMode, _ := terminal.ParseColorMode(cfg.Output.Color)
	level, _ := logging.ParseLevel(cfg.Log.Level)

	logger, err := logging.Setup(logging.Config{
		Level:   level,
		Console: stderr,
		Capabilities: terminal.NewCapabilities(terminal.Options{
			Color:    colorMode,
			Detector: terminal.DetectorOptions{Output: stderr},
		}),
		LogDir: cfg.Log.Dir,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	defer func() {
		if err := logger.Close(); err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: failed to close log file: %v\n", err)
		}
	}()
	if logger.LogPath != "" {
		logger.Debug("writing JSON log", slog.String(logging.FieldPath, logger.LogPath))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inspector := inspect.New(inspect.Options{
		MaxFileSize: *cfg.Limits.MaxFileSize,
		Limits:      elfhdr.Limits{MaxTableBytes: *cfg.Limits.MaxTableBytes},
		Jobs:        cfg.Run.Jobs,
		Logger:      logger.Logger,

		RefuseSymlinks: opts.noFollow,
	})
	results := inspector.InspectAll(ctx, opts.files)

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			_, _ = fmt.Fprintf(stderr, "%s: %v\n", r.Path, r.Err)
		}
	}

	if err := writeResults(stdout, cfg, opts, colorMode, results); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return exitFailure
	}

	logger.Debug("done",
		slog.Int(logging.FieldFiles, len(results)),
		slog.Int(logging.FieldFailed, failures))
	if failures > 0 {
		return exitFailure
	}
	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}

	fs := flag.NewFlagSet("elf-inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs, stderr) }
	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML configuration file")
	fs.BoolVar(&opts.fileHeader, "file-header", false, "Display the ELF file header")
	fs.BoolVar(&opts.sections, "sections", false, "Display the section headers")
	fs.BoolVar(&opts.segments, "segments", false, "Display the program headers")
	fs.BoolVar(&opts.all, "all", false, "Display everything (default when no part is selected)")
	fs.BoolVar(&opts.noFollow, "no-follow", false, "Refuse input paths that contain a symbolic link")
	fs.StringVar(&opts.format, "format", config.DefaultFormat, "Output format: text or json")
	fs.StringVar(&opts.color, "color", config.DefaultColor, "Colorize text output: auto, always or never")
	fs.IntVar(&opts.jobs, "j", config.DefaultJobs, "Number of files decoded concurrently")
	fs.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&opts.logDir, "log-dir", "", "Directory for a per-run JSON log file")
	fs.Int64Var(&opts.maxFileSize, "max-file-size", config.DefaultMaxFileSize, "Largest file size accepted, in bytes")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}

	opts.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	opts.files = fs.Args()
	if len(opts.files) == 0 {
		return nil, fs, errNoFilesProvided
	}
	return opts, fs, nil
}

// loadConfig reads the configuration file, if any, then applies flags given
// on the command line and validates the result.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.NewLoader().LoadFile(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.set["format"] {
		cfg.Output.Format = opts.format
	}
	if opts.set["color"] {
		cfg.Output.Color = opts.color
	}
	if opts.set["j"] {
		cfg.Run.Jobs = opts.jobs
	}
	if opts.set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}
	if opts.set["log-dir"] {
		cfg.Log.Dir = opts.logDir
	}
	if opts.set["max-file-size"] {
		cfg.Limits.MaxFileSize = &opts.maxFileSize
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeResults(w io.Writer, cfg *config.Config, opts *options, mode terminal.ColorMode, results []report.Result) error {
	if cfg.Output.Format == config.FormatJSON {
		return report.WriteJSON(w, results)
	}

	caps := terminal.NewCapabilities(terminal.Options{
		Color:    mode,
		Detector: terminal.DetectorOptions{Output: w},
	})
	textOpts := report.Options{
		Header:   opts.fileHeader,
		Sections: opts.sections,
		Segments: opts.segments,
		Palette:  color.NewPalette(caps.SupportsColor()),
	}
	if opts.all {
		textOpts.Header, textOpts.Sections, textOpts.Segments = true, true, true
	}

	first := true
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false
		if err := report.WriteText(w, r.File, textOpts); err != nil {
			return err
		}
	}
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	if fs == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "Usage: %s [flags] <file> [<file>...]\n", filepath.Base(os.Args[0]))
	fs.PrintDefaults()
}
