package elfhdr

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/cpu"
)

// elfMagicStr is the ELF magic number string literal.
const elfMagicStr = "\x7fELF"

// IdentSize is the length of the identification prefix (EI_NIDENT).
const IdentSize = elf.EI_NIDENT

// Class is the address width declared by EI_CLASS.
type Class uint8

const (
	ClassNone Class = 0
	Class32   Class = 1
	Class64   Class = 2
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case Class32:
		return "ELF32"
	case Class64:
		return "ELF64"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Encoding is the data encoding declared by EI_DATA.
type Encoding uint8

const (
	EncodingNone         Encoding = 0
	EncodingLittleEndian Encoding = 1
	EncodingBigEndian    Encoding = 2
)

func (e Encoding) String() string {
	switch e {
	case EncodingNone:
		return "none"
	case EncodingLittleEndian:
		return "2's complement, little endian"
	case EncodingBigEndian:
		return "2's complement, big endian"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

// ByteOrder returns the binary.ByteOrder for a supported encoding and nil otherwise.
func (e Encoding) ByteOrder() binary.ByteOrder {
	switch e {
	case EncodingLittleEndian:
		return binary.LittleEndian
	case EncodingBigEndian:
		return binary.BigEndian
	default:
		return nil
	}
}

// HostEncoding returns the byte order of the running process.
func HostEncoding() Encoding {
	if cpu.IsBigEndian {
		return EncodingBigEndian
	}
	return EncodingLittleEndian
}

// Ident is the decoded identification prefix.
type Ident struct {
	Raw      [IdentSize]byte
	Class    Class
	Encoding Encoding
	Version  uint8

	// OSABI and ABIVersion are reported as found; they are not validated.
	OSABI      elf.OSABI
	ABIVersion uint8
}

// ReadIdent reads the identification prefix at offset 0 and validates the
// signature, class, data encoding, and version bytes. Bytes 7 through 15 are
// not checked: OSABI and ABI version are legitimately non-zero on several
// systems and the remaining padding carries no meaning.
func ReadIdent(src ByteSource) (Ident, error) {
	var id Ident
	if err := src.Seek(0); err != nil {
		return id, err
	}
	if err := src.ReadExact(id.Raw[:]); err != nil {
		return id, fmt.Errorf("read identification: %w", err)
	}
	if !bytes.Equal(id.Raw[:len(elfMagicStr)], []byte(elfMagicStr)) {
		return id, fmt.Errorf("%w: magic % x", ErrNotELF, id.Raw[:len(elfMagicStr)])
	}

	switch c := Class(id.Raw[elf.EI_CLASS]); c {
	case Class32, Class64:
		id.Class = c
	default:
		return id, fmt.Errorf("%w: %d", ErrUnsupportedClass, uint8(c))
	}

	switch e := Encoding(id.Raw[elf.EI_DATA]); e {
	case EncodingLittleEndian, EncodingBigEndian:
		id.Encoding = e
	default:
		return id, fmt.Errorf("%w: %d", ErrUnsupportedEncoding, uint8(e))
	}

	if v := id.Raw[elf.EI_VERSION]; v != byte(elf.EV_CURRENT) {
		return id, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	id.Version = id.Raw[elf.EI_VERSION]
	id.OSABI = elf.OSABI(id.Raw[elf.EI_OSABI])
	id.ABIVersion = id.Raw[elf.EI_ABIVERSION]

	return id, nil
}
