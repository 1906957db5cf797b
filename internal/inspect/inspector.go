// Package inspect opens files safely, decodes them with elfhdr and turns the
// decoded image into a report.File.
package inspect

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/isseis/go-elf-inspect/internal/elfhdr"
	"github.com/isseis/go-elf-inspect/internal/logging"
	"github.com/isseis/go-elf-inspect/internal/report"
	"github.com/isseis/go-elf-inspect/internal/safefileio"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxFileSize is used when Options.MaxFileSize is zero (1 GB).
const DefaultMaxFileSize = 1 << 30

// Options configures an Inspector. Zero fields take defaults, except Limits
// where the zero value means no table cap.
type Options struct {
	FS          safefileio.FileSystem
	MaxFileSize int64
	Limits      elfhdr.Limits
	Jobs        int
	Logger      *slog.Logger

	// RefuseSymlinks rejects input paths with a symlink in any component
	// instead of resolving them first.
	RefuseSymlinks bool
}

// Inspector builds reports for files on disk.
type Inspector struct {
	fs          safefileio.FileSystem
	maxFileSize int64
	limits      elfhdr.Limits
	jobs        int
	logger      *slog.Logger
	refuseLinks bool
}

// New returns an Inspector.
func New(opts Options) *Inspector {
	in := &Inspector{
		fs:          opts.FS,
		maxFileSize: opts.MaxFileSize,
		limits:      opts.Limits,
		jobs:        opts.Jobs,
		logger:      opts.Logger,
		refuseLinks: opts.RefuseSymlinks,
	}
	if in.fs == nil {
		in.fs = safefileio.DefaultFileSystem()
	}
	if in.maxFileSize <= 0 {
		in.maxFileSize = DefaultMaxFileSize
	}
	if in.jobs < 1 {
		in.jobs = 1
	}
	if in.logger == nil {
		in.logger = slog.Default()
	}
	return in
}

// Inspect decodes the ELF file at path. Symlinks in path are resolved first
// unless Options.RefuseSymlinks is set; the report keeps path as given. Decode errors are returned as is so
// callers can match them with errors.Is against the elfhdr sentinels.
// Problems resolving section names or the interpreter only add warnings.
func (in *Inspector) Inspect(path string) (*report.File, error) {
	logger := in.logger.With(slog.String(logging.FieldPath, path))

	openPath := path
	if !in.refuseLinks {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path: %w", err)
		}
		if resolved != path {
			logger.Debug("resolved symlink", slog.String(logging.FieldTarget, resolved))
		}
		openPath = resolved
	}

	file, err := in.fs.SafeOpenFile(openPath, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Warn("error closing file", slog.Any(logging.FieldError, closeErr))
		}
	}()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, fileInfo.Mode())
	}
	if fileInfo.Size() > in.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, fileInfo.Size(), in.maxFileSize)
	}

	img, err := elfhdr.Decode(elfhdr.NewSource(file), elfhdr.WithLimits(in.limits))
	if err != nil {
		logger.Debug("decode failed", slog.Any(logging.FieldError, err))
		return nil, err
	}
	defer func() { _ = img.Close() }()

	rep := buildReport(path, img)
	logger.Debug("decoded",
		slog.String(logging.FieldClass, img.Class().String()),
		slog.Int(logging.FieldSections, len(rep.Sections)),
		slog.Int(logging.FieldSegments, len(rep.Segments)))

	sections := img.SectionInfos()
	names, err := sectionNames(file, img.Info().Shstrndx, sections, fileInfo.Size(), in.limits)
	if err != nil {
		logger.Warn("section names unavailable", slog.Any(logging.FieldError, err))
		rep.Warnings = append(rep.Warnings, err.Error())
	}
	for i, name := range names {
		rep.Sections[i].Name = name
	}

	interp, err := interpreter(file, img.ProgramInfos(), fileInfo.Size())
	if err != nil {
		logger.Warn("program interpreter unavailable", slog.Any(logging.FieldError, err))
		rep.Warnings = append(rep.Warnings, err.Error())
	}
	rep.Interpreter = interp

	return rep, nil
}

// InspectAll inspects paths with up to Options.Jobs files open at once.
// Results are in input order; a failure for one path does not stop the
// others. Paths not yet started when ctx is cancelled get ctx.Err().
func (in *Inspector) InspectAll(ctx context.Context, paths []string) []report.Result {
	results := make([]report.Result, len(paths))

	var g errgroup.Group
	g.SetLimit(in.jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i].Path = path
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].File, results[i].Err = in.Inspect(path)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func buildReport(path string, img elfhdr.Image) *report.File {
	id := img.Ident()
	h := img.Info()

	rep := &report.File{
		Path: path,
		Ident: report.Ident{
			Magic:      fmt.Sprintf("% x", id.Raw[:]),
			Class:      id.Class.String(),
			Data:       id.Encoding.String(),
			Version:    id.Version,
			OSABI:      report.OSABIName(id.OSABI),
			ABIVersion: id.ABIVersion,
			HostOrder:  id.Encoding == elfhdr.HostEncoding(),
		},
		Header: report.Header{
			Type:      report.TypeName(h.Type),
			Machine:   report.MachineName(h.Machine),
			Version:   h.Version,
			Entry:     h.Entry,
			Phoff:     h.Phoff,
			Shoff:     h.Shoff,
			Flags:     h.Flags,
			Ehsize:    h.Ehsize,
			Phentsize: h.Phentsize,
			Phnum:     h.Phnum,
			Shentsize: h.Shentsize,
			Shnum:     h.Shnum,
			Shstrndx:  h.Shstrndx,
		},
	}

	sections := img.SectionInfos()
	rep.Sections = make([]report.Section, len(sections))
	for i, s := range sections {
		rep.Sections[i] = report.Section{
			Index:     i,
			Type:      report.SectionTypeName(s.Type),
			Flags:     report.SectionFlagLetters(s.Flags),
			Addr:      s.Addr,
			Off:       s.Off,
			Size:      s.Size,
			Link:      s.Link,
			Info:      s.Info,
			Addralign: s.Addralign,
			Entsize:   s.Entsize,
		}
	}

	programs := img.ProgramInfos()
	rep.Segments = make([]report.Segment, len(programs))
	for i, p := range programs {
		rep.Segments[i] = report.Segment{
			Index:  i,
			Type:   report.ProgTypeName(p.Type),
			Flags:  report.ProgFlagLetters(p.Flags),
			Off:    p.Off,
			Vaddr:  p.Vaddr,
			Paddr:  p.Paddr,
			Filesz: p.Filesz,
			Memsz:  p.Memsz,
			Align:  p.Align,
		}
	}

	return rep
}
