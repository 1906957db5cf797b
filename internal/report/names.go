package report

import (
	"debug/elf"
	"fmt"
	"strings"
)

// enumName strips prefix from a debug/elf stringer result. Values the
// stringer does not know come back as "NEAREST+offset" or a bare number;
// those are shown as readelf does, "<unknown>: 0x..".
func enumName(s, prefix string, v uint32) string {
	if strings.ContainsRune(s, '+') || strings.TrimLeft(s, "0123456789") == "" {
		return fmt.Sprintf("<unknown>: %#x", v)
	}
	return strings.TrimPrefix(s, prefix)
}

// TypeName renders an ELF type without its ET_ prefix.
func TypeName(t elf.Type) string { return enumName(t.String(), "ET_", uint32(t)) }

// MachineName renders a machine without its EM_ prefix.
func MachineName(m elf.Machine) string { return enumName(m.String(), "EM_", uint32(m)) }

// OSABIName renders an OS/ABI without its ELFOSABI_ prefix.
func OSABIName(o elf.OSABI) string { return enumName(o.String(), "ELFOSABI_", uint32(o)) }

// SectionTypeName renders a section type without its SHT_ prefix.
func SectionTypeName(t elf.SectionType) string { return enumName(t.String(), "SHT_", uint32(t)) }

// ProgTypeName renders a segment type without its PT_ prefix.
func ProgTypeName(t elf.ProgType) string { return enumName(t.String(), "PT_", uint32(t)) }

var sectionFlagLetters = []struct {
	flag   elf.SectionFlag
	letter byte
}{
	{elf.SHF_WRITE, 'W'},
	{elf.SHF_ALLOC, 'A'},
	{elf.SHF_EXECINSTR, 'X'},
	{elf.SHF_MERGE, 'M'},
	{elf.SHF_STRINGS, 'S'},
	{elf.SHF_INFO_LINK, 'I'},
	{elf.SHF_LINK_ORDER, 'L'},
	{elf.SHF_OS_NONCONFORMING, 'O'},
	{elf.SHF_GROUP, 'G'},
	{elf.SHF_TLS, 'T'},
	{elf.SHF_COMPRESSED, 'C'},
}

// SectionFlagLetters renders flags with readelf's key letters, e.g. "AX".
// Bits without a letter are shown as "x".
func SectionFlagLetters(f elf.SectionFlag) string {
	var sb strings.Builder
	rest := f
	for _, fl := range sectionFlagLetters {
		if f&fl.flag != 0 {
			sb.WriteByte(fl.letter)
			rest &^= fl.flag
		}
	}
	if rest != 0 {
		sb.WriteByte('x')
	}
	return sb.String()
}

// ProgFlagLetters renders segment permissions as readelf does, e.g. "R E".
func ProgFlagLetters(f elf.ProgFlag) string {
	b := []byte("   ")
	if f&elf.PF_R != 0 {
		b[0] = 'R'
	}
	if f&elf.PF_W != 0 {
		b[1] = 'W'
	}
	if f&elf.PF_X != 0 {
		b[2] = 'E'
	}
	return string(b)
}
