package elfhdr

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"slices"
)

// HeaderInfo is a width-independent view of a file header. 32-bit fields
// are widened to 64 bits.
type HeaderInfo struct {
	Type      elf.Type
	Machine   elf.Machine
	Version   uint32
	Entry     uint64
	Phoff     uint64
	Shoff     uint64
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

// SectionInfo is a width-independent view of one section header.
type SectionInfo struct {
	Name      uint32
	Type      elf.SectionType
	Flags     elf.SectionFlag
	Addr      uint64
	Off       uint64
	Size      uint64
	Link      uint32
	Info      uint32
	Addralign uint64
	Entsize   uint64
}

// ProgramInfo is a width-independent view of one program header.
type ProgramInfo struct {
	Type   elf.ProgType
	Flags  elf.ProgFlag
	Off    uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

// Image is a decoded ELF file: identification, file header, section
// header table, and program header table, all of one class. It is
// implemented only by *Image32 and *Image64; use a type switch to reach the
// class-specific records.
type Image interface {
	Ident() Ident
	Class() Class
	ByteOrder() binary.ByteOrder
	Info() HeaderInfo
	SectionInfos() []SectionInfo
	ProgramInfos() []ProgramInfo
	// Close releases the decoded tables. Calling it more than once is a no-op.
	Close() error

	sealed()
}

// Image32 is a decoded ELFCLASS32 file.
type Image32 struct {
	ident    Ident
	header   Header32
	sections []Section32
	programs []Prog32
	closed   bool
}

// Image64 is a decoded ELFCLASS64 file.
type Image64 struct {
	ident    Ident
	header   Header64
	sections []Section64
	programs []Prog64
	closed   bool
}

var (
	_ Image = (*Image32)(nil)
	_ Image = (*Image64)(nil)
)

// Option configures Decode.
type Option func(*decodeOptions)

type decodeOptions struct {
	limits Limits
}

// WithLimits overrides DefaultLimits.
func WithLimits(l Limits) Option {
	return func(o *decodeOptions) {
		o.limits = l
	}
}

// Decode reads the identification of src, selects the record layout for the
// declared class, and decodes the file header and both header tables. Either every part decodes
// or the first error is returned and no image is built.
func Decode(src ByteSource, opts ...Option) (Image, error) {
	o := decodeOptions{limits: DefaultLimits()}
	for _, opt := range opts {
		opt(&o)
	}

	id, err := ReadIdent(src)
	if err != nil {
		return nil, err
	}

	// The only branch on class; everything below works on concrete layouts.
	switch id.Class {
	case Class32:
		img, err := decode32(src, id, o.limits)
		if err != nil {
			return nil, err
		}
		return img, nil
	case Class64:
		img, err := decode64(src, id, o.limits)
		if err != nil {
			return nil, err
		}
		return img, nil
	default:
		// ReadIdent only returns supported classes.
		panic(fmt.Sprintf("elfhdr: ReadIdent returned class %d", id.Class))
	}
}

func decode32(src ByteSource, id Ident, limits Limits) (*Image32, error) {
	h, err := decodeHeader32(src, id)
	if err != nil {
		return nil, err
	}
	order := id.Encoding.ByteOrder()
	sections, err := decodeTable(src, TableSpec{
		Name:      SectionTable,
		Offset:    uint64(h.Shoff),
		EntrySize: h.Shentsize,
		Count:     h.Shnum,
	}, Section32Size, order, limits, decodeSection32)
	if err != nil {
		return nil, err
	}
	programs, err := decodeTable(src, TableSpec{
		Name:      ProgramTable,
		Offset:    uint64(h.Phoff),
		EntrySize: h.Phentsize,
		Count:     h.Phnum,
	}, Prog32Size, order, limits, decodeProg32)
	if err != nil {
		return nil, err
	}
	return &Image32{ident: id, header: h, sections: sections, programs: programs}, nil
}

func decode64(src ByteSource, id Ident, limits Limits) (*Image64, error) {
	h, err := decodeHeader64(src, id)
	if err != nil {
		return nil, err
	}
	order := id.Encoding.ByteOrder()
	sections, err := decodeTable(src, TableSpec{
		Name:      SectionTable,
		Offset:    h.Shoff,
		EntrySize: h.Shentsize,
		Count:     h.Shnum,
	}, Section64Size, order, limits, decodeSection64)
	if err != nil {
		return nil, err
	}
	programs, err := decodeTable(src, TableSpec{
		Name:      ProgramTable,
		Offset:    h.Phoff,
		EntrySize: h.Phentsize,
		Count:     h.Phnum,
	}, Prog64Size, order, limits, decodeProg64)
	if err != nil {
		return nil, err
	}
	return &Image64{ident: id, header: h, sections: sections, programs: programs}, nil
}

func (*Image32) sealed() {}
func (*Image64) sealed() {}

func (m *Image32) Ident() Ident                { return m.ident }
func (m *Image64) Ident() Ident                { return m.ident }
func (m *Image32) Class() Class                { return Class32 }
func (m *Image64) Class() Class                { return Class64 }
func (m *Image32) ByteOrder() binary.ByteOrder { return m.ident.Encoding.ByteOrder() }
func (m *Image64) ByteOrder() binary.ByteOrder { return m.ident.Encoding.ByteOrder() }

// Header returns a copy of the file header.
func (m *Image32) Header() Header32 { return m.header }

// Header returns a copy of the file header.
func (m *Image64) Header() Header64 { return m.header }

// Sections returns a copy of the section header table, or nil once closed.
func (m *Image32) Sections() []Section32 { return slices.Clone(m.sections) }

// Sections returns a copy of the section header table, or nil once closed.
func (m *Image64) Sections() []Section64 { return slices.Clone(m.sections) }

// Programs returns a copy of the program header table, or nil once closed.
func (m *Image32) Programs() []Prog32 { return slices.Clone(m.programs) }

// Programs returns a copy of the program header table, or nil once closed.
func (m *Image64) Programs() []Prog64 { return slices.Clone(m.programs) }

// Closed reports whether Close has been called.
func (m *Image32) Closed() bool { return m.closed }

// Closed reports whether Close has been called.
func (m *Image64) Closed() bool { return m.closed }

func (m *Image32) Close() error {
	if m.closed {
		return nil
	}
	m.sections, m.programs = nil, nil
	m.closed = true
	return nil
}

func (m *Image64) Close() error {
	if m.closed {
		return nil
	}
	m.sections, m.programs = nil, nil
	m.closed = true
	return nil
}

func (m *Image32) Info() HeaderInfo {
	h := m.header
	return HeaderInfo{
		Type:      h.Type,
		Machine:   h.Machine,
		Version:   h.Version,
		Entry:     uint64(h.Entry),
		Phoff:     uint64(h.Phoff),
		Shoff:     uint64(h.Shoff),
		Flags:     h.Flags,
		Ehsize:    h.Ehsize,
		Phentsize: h.Phentsize,
		Phnum:     h.Phnum,
		Shentsize: h.Shentsize,
		Shnum:     h.Shnum,
		Shstrndx:  h.Shstrndx,
	}
}

func (m *Image64) Info() HeaderInfo {
	h := m.header
	return HeaderInfo{
		Type:      h.Type,
		Machine:   h.Machine,
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
	}
}

func (m *Image32) SectionInfos() []SectionInfo {
	out := make([]SectionInfo, len(m.sections))
	for i, s := range m.sections {
		out[i] = SectionInfo{
			Name:      s.Name,
			Type:      s.Type,
			Flags:     elf.SectionFlag(s.Flags),
			Addr:      uint64(s.Addr),
			Off:       uint64(s.Off),
			Size:      uint64(s.Size),
			Link:      s.Link,
			Info:      s.Info,
			Addralign: uint64(s.Addralign),
			Entsize:   uint64(s.Entsize),
		}
	}
	return out
}

func (m *Image64) SectionInfos() []SectionInfo {
	out := make([]SectionInfo, len(m.sections))
	for i, s := range m.sections {
		out[i] = SectionInfo{
			Name: s.Name,
			Type: s.Type,
			// Only the low 32 flag bits are defined by the gABI.
			Flags:     elf.SectionFlag(s.Flags),
			Addr:      s.Addr,
			Off:       s.Off,
			Size:      s.Size,
			Link:      s.Link,
			Info:      s.Info,
			Addralign: s.Addralign,
			Entsize:   s.Entsize,
		}
	}
	return out
}

func (m *Image32) ProgramInfos() []ProgramInfo {
	out := make([]ProgramInfo, len(m.programs))
	for i, p := range m.programs {
		out[i] = ProgramInfo{
			Type:   p.Type,
			Flags:  p.Flags,
			Off:    uint64(p.Off),
			Vaddr:  uint64(p.Vaddr),
			Paddr:  uint64(p.Paddr),
			Filesz: uint64(p.Filesz),
			Memsz:  uint64(p.Memsz),
			Align:  uint64(p.Align),
		}
	}
	return out
}

func (m *Image64) ProgramInfos() []ProgramInfo {
	out := make([]ProgramInfo, len(m.programs))
	for i, p := range m.programs {
		out[i] = ProgramInfo{
			Type:   p.Type,
			Flags:  p.Flags,
			Off:    p.Off,
			Vaddr:  p.Vaddr,
			Paddr:  p.Paddr,
			Filesz: p.Filesz,
			Memsz:  p.Memsz,
			Align:  p.Align,
		}
	}
	return out
}
