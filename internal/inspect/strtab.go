package inspect

import (
	"bytes"
	"debug/elf"
	"fmt"
	"io"

	"github.com/isseis/go-elf-inspect/internal/elfhdr"
)

// maxInterpreterLen bounds the PT_INTERP path (PATH_MAX).
const maxInterpreterLen = 4096

// readRegion reads size bytes at off, refusing regions that run past
// fileSize.
func readRegion(r io.ReaderAt, off, size uint64, fileSize int64) ([]byte, error) {
	end := off + size
	if end < off || end > uint64(fileSize) { // #nosec G115 - fileSize comes from Stat and is non-negative
		return nil, fmt.Errorf("region [%#x, +%#x) exceeds file size %d", off, size, fileSize)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(r, int64(off), int64(size)), buf); err != nil { // #nosec G115 - bounded by fileSize above
		return nil, err
	}
	return buf, nil
}

// sectionNames resolves every section's name from the table at index
// shstrndx. A file without a name table (SHN_UNDEF) yields nil names and no
// error.
func sectionNames(r io.ReaderAt, shstrndx uint16, sections []elfhdr.SectionInfo, fileSize int64, limits elfhdr.Limits) ([]string, error) {
	if len(sections) == 0 || shstrndx == uint16(elf.SHN_UNDEF) {
		return nil, nil
	}
	if int(shstrndx) >= len(sections) {
		return nil, fmt.Errorf("%w: index %d out of range (%d sections)", ErrStringTable, shstrndx, len(sections))
	}
	strtab := sections[shstrndx]
	if strtab.Type != elf.SHT_STRTAB {
		return nil, fmt.Errorf("%w: section %d has type %s", ErrStringTable, shstrndx, strtab.Type)
	}
	if limits.MaxTableBytes != 0 && strtab.Size > limits.MaxTableBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit %d", ErrStringTable, strtab.Size, limits.MaxTableBytes)
	}

	data, err := readRegion(r, strtab.Off, strtab.Size, fileSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStringTable, err)
	}

	names := make([]string, len(sections))
	for i, s := range sections {
		if uint64(s.Name) >= uint64(len(data)) {
			if s.Name == 0 {
				continue
			}
			return nil, fmt.Errorf("%w: section %d name offset %#x past end of table", ErrStringTable, i, s.Name)
		}
		name := data[s.Name:]
		if end := bytes.IndexByte(name, 0); end >= 0 {
			name = name[:end]
		}
		names[i] = string(name)
	}
	return names, nil
}

// interpreter returns the path named by the first PT_INTERP segment, or ""
// when there is none.
func interpreter(r io.ReaderAt, programs []elfhdr.ProgramInfo, fileSize int64) (string, error) {
	for _, p := range programs {
		if p.Type != elf.PT_INTERP {
			continue
		}
		if p.Filesz > maxInterpreterLen {
			return "", fmt.Errorf("%w: %d bytes", ErrInterpreter, p.Filesz)
		}
		data, err := readRegion(r, p.Off, p.Filesz, fileSize)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInterpreter, err)
		}
		return string(bytes.TrimRight(data, "\x00")), nil
	}
	return "", nil
}
