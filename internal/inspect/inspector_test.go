//go:build test

package inspect

import (
	"bytes"
	"context"
	"debug/elf"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/isseis/go-elf-inspect/internal/elfhdr"
	elfhdrtesting "github.com/isseis/go-elf-inspect/internal/elfhdr/testing"
	"github.com/isseis/go-elf-inspect/internal/safefileio"
	safefileiotesting "github.com/isseis/go-elf-inspect/internal/safefileio/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestInspect_Executable64(t *testing.T) {
	path := elfhdrtesting.WriteFile(t, tempDir(t), "exe", elfhdrtesting.Executable64())

	rep, err := New(Options{}).Inspect(path)
	require.NoError(t, err)

	assert.Equal(t, path, rep.Path)
	assert.Equal(t, "ELF64", rep.Ident.Class)
	assert.Equal(t, "2's complement, little endian", rep.Ident.Data)
	assert.Equal(t, "NONE", rep.Ident.OSABI)
	assert.Equal(t, "7f 45 4c 46 02 01 01 00 00 00 00 00 00 00 00 00", rep.Ident.Magic)
	assert.Equal(t, elfhdr.HostEncoding() == elfhdr.EncodingLittleEndian, rep.Ident.HostOrder)

	assert.Equal(t, "EXEC", rep.Header.Type)
	assert.Equal(t, "X86_64", rep.Header.Machine)
	assert.Equal(t, uint64(0x401000), rep.Header.Entry)

	require.Len(t, rep.Sections, 4)
	names := make([]string, len(rep.Sections))
	for i, s := range rep.Sections {
		names[i] = s.Name
		assert.Equal(t, i, s.Index)
	}
	assert.Equal(t, []string{"", ".text", ".data", ".shstrtab"}, names)
	assert.Equal(t, "NULL", rep.Sections[0].Type)
	assert.Equal(t, "PROGBITS", rep.Sections[1].Type)
	assert.Equal(t, "AX", rep.Sections[1].Flags)
	assert.Equal(t, "WA", rep.Sections[2].Flags)
	assert.Equal(t, "STRTAB", rep.Sections[3].Type)

	require.Len(t, rep.Segments, 2)
	assert.Equal(t, "LOAD", rep.Segments[0].Type)
	assert.Equal(t, "R  ", rep.Segments[0].Flags)
	assert.Equal(t, "R E", rep.Segments[1].Flags)

	assert.Empty(t, rep.Interpreter)
	assert.Empty(t, rep.Warnings)
}

func TestInspect_Shared32BigEndian(t *testing.T) {
	path := elfhdrtesting.WriteFile(t, tempDir(t), "lib.so", elfhdrtesting.Shared32BE())

	rep, err := New(Options{}).Inspect(path)
	require.NoError(t, err)

	assert.Equal(t, "ELF32", rep.Ident.Class)
	assert.Equal(t, "2's complement, big endian", rep.Ident.Data)
	assert.Equal(t, "DYN", rep.Header.Type)
	assert.Equal(t, "PPC", rep.Header.Machine)
	require.Len(t, rep.Sections, 3)
	assert.Equal(t, ".text", rep.Sections[1].Name)
	assert.Equal(t, uint64(0x10000400), rep.Sections[1].Addr)
}

func TestInspect_Interpreter(t *testing.T) {
	spec := elfhdrtesting.Executable64()
	spec.Type = elf.ET_DYN
	spec.Interp = "/lib64/ld-linux-x86-64.so.2"
	path := elfhdrtesting.WriteFile(t, tempDir(t), "pie", spec)

	rep, err := New(Options{}).Inspect(path)
	require.NoError(t, err)

	assert.Equal(t, "/lib64/ld-linux-x86-64.so.2", rep.Interpreter)
	require.Len(t, rep.Segments, 3)
	assert.Equal(t, "INTERP", rep.Segments[0].Type)
}

func TestInspect_NoNameTable(t *testing.T) {
	spec := elfhdrtesting.Executable64()
	spec.WithNames = false
	path := elfhdrtesting.WriteFile(t, tempDir(t), "nonames", spec)

	rep, err := New(Options{}).Inspect(path)
	require.NoError(t, err)

	require.Len(t, rep.Sections, 3)
	for _, s := range rep.Sections {
		assert.Empty(t, s.Name)
	}
	assert.Empty(t, rep.Warnings)
}

func TestInspect_BadNameTableIsWarning(t *testing.T) {
	data, _ := elfhdrtesting.Build(t, elfhdrtesting.Executable64())
	// e_shstrndx sits in the last two bytes of the 64-bit header; point it
	// at .text, which is not a string table.
	binary.LittleEndian.PutUint16(data[62:], 1)
	path := filepath.Join(tempDir(t), "badstrtab")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	rep, err := New(Options{}).Inspect(path)
	require.NoError(t, err)

	require.Len(t, rep.Warnings, 1)
	assert.Contains(t, rep.Warnings[0], "bad section name string table")
	for _, s := range rep.Sections {
		assert.Empty(t, s.Name)
	}
}

func TestInspect_FollowsSymlinks(t *testing.T) {
	dir := tempDir(t)
	libDir := filepath.Join(dir, "usr", "lib")
	require.NoError(t, os.MkdirAll(libDir, 0o700))
	libPath := elfhdrtesting.WriteFile(t, libDir, "libdemo.so.1.2.3", elfhdrtesting.Shared32BE())
	soname := filepath.Join(libDir, "libdemo.so.1")
	require.NoError(t, os.Symlink(filepath.Base(libPath), soname))
	// usrmerge style: /lib -> usr/lib
	require.NoError(t, os.Symlink(filepath.Join("usr", "lib"), filepath.Join(dir, "lib")))

	tests := []struct {
		name string
		path string
	}{
		{name: "symlinked file", path: soname},
		{name: "symlinked directory", path: filepath.Join(dir, "lib", "libdemo.so.1.2.3")},
		{name: "both", path: filepath.Join(dir, "lib", "libdemo.so.1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := New(Options{}).Inspect(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.path, rep.Path)
			assert.Equal(t, "ELF32", rep.Ident.Class)
			assert.Equal(t, "PPC", rep.Header.Machine)
		})
	}
}

func TestInspect_ResolvedPathIsOpened(t *testing.T) {
	dir := tempDir(t)
	target := elfhdrtesting.WriteFile(t, dir, "exe", elfhdrtesting.Executable64())
	link := filepath.Join(dir, "exe.link")
	require.NoError(t, os.Symlink(target, link))

	fs := safefileiotesting.NewMockFileSystem()
	fs.SafeOpenFileFunc = func(name string, flag int, perm os.FileMode) (safefileio.File, error) {
		return safefileio.DefaultFileSystem().SafeOpenFile(name, flag, perm)
	}

	_, err := New(Options{FS: fs}).Inspect(link)
	require.NoError(t, err)
	assert.Equal(t, []string{target}, fs.OpenCalls)
}

func TestInspect_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string) string
		opts    Options
		wantErr error
	}{
		{
			name: "not ELF",
			setup: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "script.sh")
				require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o600))
				return path
			},
			wantErr: elfhdr.ErrNotELF,
		},
		{
			name: "truncated",
			setup: func(t *testing.T, dir string) string {
				data, _ := elfhdrtesting.Build(t, elfhdrtesting.Executable64())
				path := filepath.Join(dir, "cut")
				require.NoError(t, os.WriteFile(path, data[:100], 0o600))
				return path
			},
			wantErr: elfhdr.ErrTruncatedRead,
		},
		{
			name: "table over limit",
			setup: func(t *testing.T, dir string) string {
				return elfhdrtesting.WriteFile(t, dir, "exe", elfhdrtesting.Executable64())
			},
			opts:    Options{Limits: elfhdr.Limits{MaxTableBytes: 64}},
			wantErr: elfhdr.ErrAllocation,
		},
		{
			name: "directory",
			setup: func(_ *testing.T, dir string) string {
				return dir
			},
			wantErr: ErrNotRegularFile,
		},
		{
			name: "too large",
			setup: func(t *testing.T, dir string) string {
				return elfhdrtesting.WriteFile(t, dir, "exe", elfhdrtesting.Executable64())
			},
			opts:    Options{MaxFileSize: 16},
			wantErr: ErrFileTooLarge,
		},
		{
			name: "missing",
			setup: func(_ *testing.T, dir string) string {
				return filepath.Join(dir, "missing")
			},
			wantErr: os.ErrNotExist,
		},
		{
			name: "symlink refused",
			setup: func(t *testing.T, dir string) string {
				target := elfhdrtesting.WriteFile(t, dir, "exe", elfhdrtesting.Executable64())
				link := filepath.Join(dir, "link")
				require.NoError(t, os.Symlink(target, link))
				return link
			},
			opts:    Options{RefuseSymlinks: true},
			wantErr: safefileio.ErrIsSymlink,
		},
		{
			name: "dangling symlink",
			setup: func(t *testing.T, dir string) string {
				link := filepath.Join(dir, "libgone.so.1")
				require.NoError(t, os.Symlink(filepath.Join(dir, "libgone.so.1.2.3"), link))
				return link
			},
			wantErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t, tempDir(t))

			rep, err := New(tt.opts).Inspect(path)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, rep)
		})
	}
}

func TestInspect_UsesFileSystem(t *testing.T) {
	errDenied := errors.New("denied")
	fs := safefileiotesting.NewMockFileSystem()
	fs.SafeOpenFileFunc = func(string, int, os.FileMode) (safefileio.File, error) {
		return nil, errDenied
	}

	_, err := New(Options{FS: fs, RefuseSymlinks: true}).Inspect("/usr/bin/true")
	assert.ErrorIs(t, err, errDenied)
	assert.Equal(t, []string{"/usr/bin/true"}, fs.OpenCalls)
}

func TestInspectAll_KeepsInputOrder(t *testing.T) {
	dir := tempDir(t)
	exe := elfhdrtesting.WriteFile(t, dir, "exe", elfhdrtesting.Executable64())
	lib := elfhdrtesting.WriteFile(t, dir, "lib.so", elfhdrtesting.Shared32BE())
	missing := filepath.Join(dir, "missing")
	text := filepath.Join(dir, "README")
	require.NoError(t, os.WriteFile(text, []byte("plain text, long enough to identify"), 0o600))

	paths := []string{exe, missing, lib, text, exe}
	results := New(Options{Jobs: 2}).InspectAll(context.Background(), paths)

	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	require.NoError(t, results[0].Err)
	assert.Equal(t, "ELF64", results[0].File.Ident.Class)
	assert.ErrorIs(t, results[1].Err, os.ErrNotExist)
	require.NoError(t, results[2].Err)
	assert.Equal(t, "ELF32", results[2].File.Ident.Class)
	assert.ErrorIs(t, results[3].Err, elfhdr.ErrNotELF)
	require.NoError(t, results[4].Err)
}

func TestInspectAll_CancelledContext(t *testing.T) {
	path := elfhdrtesting.WriteFile(t, tempDir(t), "exe", elfhdrtesting.Executable64())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := New(Options{}).InspectAll(ctx, []string{path, path})
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Nil(t, r.File)
	}
}

func TestSectionNames(t *testing.T) {
	strtab := []byte("\x00.text\x00.data\x00")
	data := append(bytes.Repeat([]byte{0xee}, 8), strtab...)
	r := bytes.NewReader(data)
	sections := []elfhdr.SectionInfo{
		{},
		{Name: 1},
		{Name: 7},
		{Name: 0, Type: elf.SHT_STRTAB, Off: 8, Size: uint64(len(strtab))},
	}

	names, err := sectionNames(r, 3, sections, int64(len(data)), elfhdr.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, []string{"", ".text", ".data", ""}, names)

	sections[1].Name = 100
	_, err = sectionNames(r, 3, sections, int64(len(data)), elfhdr.DefaultLimits())
	assert.ErrorIs(t, err, ErrStringTable)

	sections[1].Name = 1
	_, err = sectionNames(r, 9, sections, int64(len(data)), elfhdr.DefaultLimits())
	assert.ErrorIs(t, err, ErrStringTable)

	_, err = sectionNames(r, 3, sections, int64(len(data)), elfhdr.Limits{MaxTableBytes: 4})
	assert.ErrorIs(t, err, ErrStringTable)

	sections[3].Size = 1 << 20
	_, err = sectionNames(r, 3, sections, int64(len(data)), elfhdr.DefaultLimits())
	assert.ErrorIs(t, err, ErrStringTable)
}

func TestInterpreter_Bounds(t *testing.T) {
	data := []byte("/lib/ld.so\x00")
	r := bytes.NewReader(data)

	got, err := interpreter(r, []elfhdr.ProgramInfo{{Type: elf.PT_LOAD}, {Type: elf.PT_INTERP, Filesz: uint64(len(data))}}, int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, "/lib/ld.so", got)

	_, err = interpreter(r, []elfhdr.ProgramInfo{{Type: elf.PT_INTERP, Off: 4, Filesz: uint64(len(data))}}, int64(len(data)))
	assert.ErrorIs(t, err, ErrInterpreter)

	_, err = interpreter(r, []elfhdr.ProgramInfo{{Type: elf.PT_INTERP, Filesz: maxInterpreterLen + 1}}, 1<<20)
	assert.ErrorIs(t, err, ErrInterpreter)

	got, err = interpreter(r, nil, int64(len(data)))
	require.NoError(t, err)
	assert.Empty(t, got)
}
