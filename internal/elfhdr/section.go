package elfhdr

import (
	"debug/elf"
	"encoding/binary"
)

// Section header record sizes.
const (
	Section32Size = 40
	Section64Size = 64
)

// Section32 is one raw Elf32_Shdr record.
type Section32 struct {
	Name      uint32
	Type      elf.SectionType
	Flags     uint32
	Addr      uint32
	Off       uint32
	Size      uint32
	Link      uint32
	Info      uint32
	Addralign uint32
	Entsize   uint32
}

// Section64 is one raw Elf64_Shdr record.
type Section64 struct {
	Name      uint32
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

func decodeSection32(buf []byte, order binary.ByteOrder) Section32 {
	d := fieldDecoder{buf: buf, order: order}
	return Section32{
		Name:      d.u32(),
		Type:      elf.SectionType(d.u32()),
		Flags:     d.u32(),
		Addr:      d.u32(),
		Off:       d.u32(),
		Size:      d.u32(),
		Link:      d.u32(),
		Info:      d.u32(),
		Addralign: d.u32(),
		Entsize:   d.u32(),
	}
}

func decodeSection64(buf []byte, order binary.ByteOrder) Section64 {
	d := fieldDecoder{buf: buf, order: order}
	return Section64{
		Name:      d.u32(),
		Type:      elf.SectionType(d.u32()),
		Flags:     d.u64(),
		Addr:      d.u64(),
		Off:       d.u64(),
		Size:      d.u64(),
		Link:      d.u32(),
		Info:      d.u32(),
		Addralign: d.u64(),
		Entsize:   d.u64(),
	}
}
