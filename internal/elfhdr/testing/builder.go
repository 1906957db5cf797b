//go:build test

// Package elfhdrtesting provides test helpers that synthesize ELF images.
package elfhdrtesting

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Section describes one section header to emit. Fields are widened to 64
// bits and truncated for ELF32 images.
type Section struct {
	Name      string
	Type      elf.SectionType
	Flags     uint64
	Addr      uint64
	Off       uint64
	Size      uint64
	Link      uint32
	Info      uint32
	Addralign uint64
	Entsize   uint64
}

// Program describes one program header to emit.
type Program struct {
	Type   elf.ProgType
	Flags  elf.ProgFlag
	Off    uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

// Spec describes a synthetic ELF image.
type Spec struct {
	Class   elf.Class
	Data    elf.Data
	OSABI   elf.OSABI
	Type    elf.Type
	Machine elf.Machine
	Entry   uint64
	Flags   uint32

	Programs []Program
	Sections []Section

	// WithNames appends a .shstrtab section holding every section name and
	// points e_shstrndx at it.
	WithNames bool

	// Interp, when set, prepends a PT_INTERP segment whose NUL-terminated
	// path is stored after the section headers.
	Interp string
}

type header32 struct {
	Ident                                                [16]byte
	Type, Machine                                        uint16
	Version, Entry, Phoff, Shoff, Flags                  uint32
	Ehsize, Phentsize, Phnum, Shentsize, Shnum, Shstrndx uint16
}

type header64 struct {
	Ident                                                [16]byte
	Type, Machine                                        uint16
	Version                                              uint32
	Entry, Phoff, Shoff                                  uint64
	Flags                                                uint32
	Ehsize, Phentsize, Phnum, Shentsize, Shnum, Shstrndx uint16
}

type section32 struct {
	Name, Type, Flags, Addr, Off, Size, Link, Info, Addralign, Entsize uint32
}

type section64 struct {
	Name, Type         uint32
	Flags, Addr, Off   uint64
	Size               uint64
	Link, Info         uint32
	Addralign, Entsize uint64
}

type prog32 struct {
	Type, Off, Vaddr, Paddr, Filesz, Memsz, Flags, Align uint32
}

type prog64 struct {
	Type, Flags                             uint32
	Off, Vaddr, Paddr, Filesz, Memsz, Align uint64
}

// Layout records where Build placed each part of the image.
type Layout struct {
	Phoff    uint64
	Shoff    uint64
	StrOff   uint64
	Shstrndx uint16
	// InterpOff is where the interpreter path was stored, if any.
	InterpOff uint64
}

// Build encodes spec and returns the image bytes and their layout. The
// image is laid out as header, program headers, string data, then section
// headers.
func Build(t *testing.T, spec Spec) ([]byte, Layout) {
	t.Helper()

	order := byteOrder(spec.Data)
	is64 := spec.Class == elf.ELFCLASS64

	ehsize, phentsize, shentsize := uint64(52), uint64(32), uint64(40)
	if is64 {
		ehsize, phentsize, shentsize = 64, 56, 64
	}

	programs := append([]Program(nil), spec.Programs...)
	if spec.Interp != "" {
		programs = append([]Program{{Type: elf.PT_INTERP, Flags: elf.PF_R, Filesz: uint64(len(spec.Interp) + 1), Memsz: uint64(len(spec.Interp) + 1), Align: 1}}, programs...)
	}
	sections := append([]Section(nil), spec.Sections...)
	var strtab []byte
	nameOffsets := make([]uint32, len(sections)+1)
	var layout Layout

	if spec.WithNames {
		strtab = append(strtab, 0)
		for i, s := range sections {
			if s.Name == "" {
				continue
			}
			nameOffsets[i] = uint32(len(strtab))
			strtab = append(strtab, s.Name...)
			strtab = append(strtab, 0)
		}
		nameOffsets[len(sections)] = uint32(len(strtab))
		strtab = append(strtab, ".shstrtab"...)
		strtab = append(strtab, 0)
	}

	layout.Phoff = ehsize
	layout.StrOff = layout.Phoff + uint64(len(programs))*phentsize
	layout.Shoff = align8(layout.StrOff + uint64(len(strtab)))

	if spec.WithNames {
		layout.Shstrndx = uint16(len(sections))
		sections = append(sections, Section{
			Name:      ".shstrtab",
			Type:      elf.SHT_STRTAB,
			Off:       layout.StrOff,
			Size:      uint64(len(strtab)),
			Addralign: 1,
		})
	}

	if spec.Interp != "" {
		layout.InterpOff = layout.Shoff + uint64(len(sections))*shentsize
		programs[0].Off = layout.InterpOff
	}

	var ident [16]byte
	copy(ident[:], elf.ELFMAG)
	ident[elf.EI_CLASS] = byte(spec.Class)
	ident[elf.EI_DATA] = byte(spec.Data)
	ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	ident[elf.EI_OSABI] = byte(spec.OSABI)

	phoff, shoff := layout.Phoff, layout.Shoff
	if len(programs) == 0 {
		phoff = 0
	}
	if len(sections) == 0 {
		shoff = 0
	}

	var buf bytes.Buffer
	if is64 {
		write(t, &buf, order, header64{
			Ident: ident, Type: uint16(spec.Type), Machine: uint16(spec.Machine),
			Version: uint32(elf.EV_CURRENT), Entry: spec.Entry, Phoff: phoff, Shoff: shoff,
			Flags: spec.Flags, Ehsize: uint16(ehsize), Phentsize: uint16(phentsize),
			Phnum: uint16(len(programs)), Shentsize: uint16(shentsize),
			Shnum: uint16(len(sections)), Shstrndx: layout.Shstrndx,
		})
	} else {
		write(t, &buf, order, header32{
			Ident: ident, Type: uint16(spec.Type), Machine: uint16(spec.Machine),
			Version: uint32(elf.EV_CURRENT), Entry: uint32(spec.Entry), Phoff: uint32(phoff), Shoff: uint32(shoff),
			Flags: spec.Flags, Ehsize: uint16(ehsize), Phentsize: uint16(phentsize),
			Phnum: uint16(len(programs)), Shentsize: uint16(shentsize),
			Shnum: uint16(len(sections)), Shstrndx: layout.Shstrndx,
		})
	}

	for _, p := range programs {
		if is64 {
			write(t, &buf, order, prog64{
				Type: uint32(p.Type), Flags: uint32(p.Flags), Off: p.Off, Vaddr: p.Vaddr,
				Paddr: p.Paddr, Filesz: p.Filesz, Memsz: p.Memsz, Align: p.Align,
			})
		} else {
			write(t, &buf, order, prog32{
				Type: uint32(p.Type), Off: uint32(p.Off), Vaddr: uint32(p.Vaddr), Paddr: uint32(p.Paddr),
				Filesz: uint32(p.Filesz), Memsz: uint32(p.Memsz), Flags: uint32(p.Flags), Align: uint32(p.Align),
			})
		}
	}

	buf.Write(strtab)
	buf.Write(make([]byte, int(layout.Shoff)-buf.Len()))

	for i, s := range sections {
		name := uint32(0)
		if spec.WithNames {
			name = nameOffsets[i]
		}
		if is64 {
			write(t, &buf, order, section64{
				Name: name, Type: uint32(s.Type), Flags: s.Flags, Addr: s.Addr, Off: s.Off,
				Size: s.Size, Link: s.Link, Info: s.Info, Addralign: s.Addralign, Entsize: s.Entsize,
			})
		} else {
			write(t, &buf, order, section32{
				Name: name, Type: uint32(s.Type), Flags: uint32(s.Flags), Addr: uint32(s.Addr),
				Off: uint32(s.Off), Size: uint32(s.Size), Link: s.Link, Info: s.Info,
				Addralign: uint32(s.Addralign), Entsize: uint32(s.Entsize),
			})
		}
	}

	if spec.Interp != "" {
		buf.WriteString(spec.Interp)
		buf.WriteByte(0)
	}

	return buf.Bytes(), layout
}

// WriteFile builds spec into dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name string, spec Spec) string {
	t.Helper()
	data, _ := Build(t, spec)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// Executable64 returns a small x86-64 executable with two segments, a null
// section, .text and .data.
func Executable64() Spec {
	return Spec{
		Class:   elf.ELFCLASS64,
		Data:    elf.ELFDATA2LSB,
		Type:    elf.ET_EXEC,
		Machine: elf.EM_X86_64,
		Entry:   0x401000,
		Programs: []Program{
			{Type: elf.PT_LOAD, Flags: elf.PF_R, Vaddr: 0x400000, Paddr: 0x400000, Filesz: 0x1000, Memsz: 0x1000, Align: 0x1000},
			{Type: elf.PT_LOAD, Flags: elf.PF_R | elf.PF_X, Off: 0x1000, Vaddr: 0x401000, Paddr: 0x401000, Filesz: 0x200, Memsz: 0x200, Align: 0x1000},
		},
		Sections: []Section{
			{},
			{Name: ".text", Type: elf.SHT_PROGBITS, Flags: uint64(elf.SHF_ALLOC | elf.SHF_EXECINSTR), Addr: 0x401000, Off: 0x1000, Size: 0x200, Addralign: 16},
			{Name: ".data", Type: elf.SHT_PROGBITS, Flags: uint64(elf.SHF_ALLOC | elf.SHF_WRITE), Addr: 0x402000, Off: 0x1200, Size: 0x40, Addralign: 8},
		},
		WithNames: true,
	}
}

// Shared32BE returns a big-endian 32-bit PowerPC shared object.
func Shared32BE() Spec {
	return Spec{
		Class:   elf.ELFCLASS32,
		Data:    elf.ELFDATA2MSB,
		Type:    elf.ET_DYN,
		Machine: elf.EM_PPC,
		Entry:   0x10000400,
		Programs: []Program{
			{Type: elf.PT_LOAD, Flags: elf.PF_R | elf.PF_X, Vaddr: 0x10000000, Paddr: 0x10000000, Filesz: 0x800, Memsz: 0x800, Align: 0x10000},
		},
		Sections: []Section{
			{},
			{Name: ".text", Type: elf.SHT_PROGBITS, Flags: uint64(elf.SHF_ALLOC | elf.SHF_EXECINSTR), Addr: 0x10000400, Off: 0x400, Size: 0x100, Addralign: 4},
		},
		WithNames: true,
	}
}

func byteOrder(d elf.Data) binary.ByteOrder {
	if d == elf.ELFDATA2MSB {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func write(t *testing.T, buf *bytes.Buffer, order binary.ByteOrder, v any) {
	t.Helper()
	require.NoError(t, binary.Write(buf, order, v))
}

func align8(v uint64) uint64 {
	return (v + 7) &^ 7
}
