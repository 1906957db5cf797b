package elfhdr

import (
	"debug/elf"
	"encoding/binary"
)

// Program header record sizes.
const (
	Prog32Size = 32
	Prog64Size = 56
)

// Prog32 is one raw Elf32_Phdr record.
type Prog32 struct {
	Type   elf.ProgType
	Off    uint32
	Vaddr  uint32
	Paddr  uint32
	Filesz uint32
	Memsz  uint32
	Flags  elf.ProgFlag
	Align  uint32
}

// Prog64 is one raw Elf64_Phdr record. Flags sits second in the 64-bit layout.
type Prog64 struct {
	Type   elf.ProgType
	Flags  elf.ProgFlag
	Off    uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

func decodeProg32(buf []byte, order binary.ByteOrder) Prog32 {
	d := fieldDecoder{buf: buf, order: order}
	return Prog32{
		Type:   elf.ProgType(d.u32()),
		Off:    d.u32(),
		Vaddr:  d.u32(),
		Paddr:  d.u32(),
		Filesz: d.u32(),
		Memsz:  d.u32(),
		Flags:  elf.ProgFlag(d.u32()),
		Align:  d.u32(),
	}
}

func decodeProg64(buf []byte, order binary.ByteOrder) Prog64 {
	d := fieldDecoder{buf: buf, order: order}
	return Prog64{
		Type:   elf.ProgType(d.u32()),
		Flags:  elf.ProgFlag(d.u32()),
		Off:    d.u64(),
		Vaddr:  d.u64(),
		Paddr:  d.u64(),
		Filesz: d.u64(),
		Memsz:  d.u64(),
		Align:  d.u64(),
	}
}
