package elfhdr

import (
	"bytes"
	"debug/elf"
	"fmt"
)

// Fixed file header sizes.
const (
	Header32Size = 52
	Header64Size = 64
)

// Header32 is the ELF32 file header (Elf32_Ehdr).
type Header32 struct {
	Ident     [IdentSize]byte
	Type      elf.Type
	Machine   elf.Machine
	Version   uint32
	Entry     uint32
	Phoff     uint32
	Shoff     uint32
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

// Header64 is the ELF64 file header (Elf64_Ehdr).
type Header64 struct {
	Ident     [IdentSize]byte
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

// readHeaderBytes reads size bytes at offset 0 and checks that the
// identification prefix still matches what ReadIdent saw.
func readHeaderBytes(src ByteSource, id Ident, size int) ([]byte, error) {
	if err := src.Seek(0); err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	if err := src.ReadExact(buf); err != nil {
		return nil, fmt.Errorf("read %s file header: %w", id.Class, err)
	}
	if !bytes.Equal(buf[:IdentSize], id.Raw[:]) {
		return nil, ErrSourceChanged
	}
	return buf, nil
}

func decodeHeader32(src ByteSource, id Ident) (Header32, error) {
	var h Header32
	buf, err := readHeaderBytes(src, id, Header32Size)
	if err != nil {
		return h, err
	}
	copy(h.Ident[:], buf[:IdentSize])
	d := fieldDecoder{buf: buf, order: id.Encoding.ByteOrder(), off: IdentSize}
	h.Type = elf.Type(d.u16())
	h.Machine = elf.Machine(d.u16())
	h.Version = d.u32()
	h.Entry = d.u32()
	h.Phoff = d.u32()
	h.Shoff = d.u32()
	h.Flags = d.u32()
	h.Ehsize = d.u16()
	h.Phentsize = d.u16()
	h.Phnum = d.u16()
	h.Shentsize = d.u16()
	h.Shnum = d.u16()
	h.Shstrndx = d.u16()
	return h, nil
}

func decodeHeader64(src ByteSource, id Ident) (Header64, error) {
	var h Header64
	buf, err := readHeaderBytes(src, id, Header64Size)
	if err != nil {
		return h, err
	}
	copy(h.Ident[:], buf[:IdentSize])
	d := fieldDecoder{buf: buf, order: id.Encoding.ByteOrder(), off: IdentSize}
	h.Type = elf.Type(d.u16())
	h.Machine = elf.Machine(d.u16())
	h.Version = d.u32()
	h.Entry = d.u64()
	h.Phoff = d.u64()
	h.Shoff = d.u64()
	h.Flags = d.u32()
	h.Ehsize = d.u16()
	h.Phentsize = d.u16()
	h.Phnum = d.u16()
	h.Shentsize = d.u16()
	h.Shnum = d.u16()
	h.Shstrndx = d.u16()
	return h, nil
}

// MarshalBinary encodes the header in the byte order named by its own
// EI_DATA byte.
func (h *Header32) MarshalBinary() ([]byte, error) {
	order := Encoding(h.Ident[elf.EI_DATA]).ByteOrder()
	if order == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedEncoding, h.Ident[elf.EI_DATA])
	}
	buf := make([]byte, Header32Size)
	copy(buf, h.Ident[:])
	e := fieldEncoder{buf: buf, order: order, off: IdentSize}
	e.u16(uint16(h.Type))
	e.u16(uint16(h.Machine))
	e.u32(h.Version)
	e.u32(h.Entry)
	e.u32(h.Phoff)
	e.u32(h.Shoff)
	e.u32(h.Flags)
	e.u16(h.Ehsize)
	e.u16(h.Phentsize)
	e.u16(h.Phnum)
	e.u16(h.Shentsize)
	e.u16(h.Shnum)
	e.u16(h.Shstrndx)
	return buf, nil
}

// MarshalBinary encodes the header in the byte order named by its own
// EI_DATA byte.
func (h *Header64) MarshalBinary() ([]byte, error) {
	order := Encoding(h.Ident[elf.EI_DATA]).ByteOrder()
	if order == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedEncoding, h.Ident[elf.EI_DATA])
	}
	buf := make([]byte, Header64Size)
	copy(buf, h.Ident[:])
	e := fieldEncoder{buf: buf, order: order, off: IdentSize}
	e.u16(uint16(h.Type))
	e.u16(uint16(h.Machine))
	e.u32(h.Version)
	e.u64(h.Entry)
	e.u64(h.Phoff)
	e.u64(h.Shoff)
	e.u32(h.Flags)
	e.u16(h.Ehsize)
	e.u16(h.Phentsize)
	e.u16(h.Phnum)
	e.u16(h.Shentsize)
	e.u16(h.Shnum)
	e.u16(h.Shstrndx)
	return buf, nil
}
