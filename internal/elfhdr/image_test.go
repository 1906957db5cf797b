//go:build test

package elfhdr

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"

	elfhdrtesting "github.com/isseis/go-elf-inspect/internal/elfhdr/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Executable64(t *testing.T) {
	data, layout := elfhdrtesting.Build(t, elfhdrtesting.Executable64())

	img, err := Decode(NewSource(bytes.NewReader(data)))
	require.NoError(t, err)
	defer func() { require.NoError(t, img.Close()) }()

	assert.Equal(t, Class64, img.Class())
	assert.Equal(t, EncodingLittleEndian, img.Ident().Encoding)
	assert.Equal(t, binary.LittleEndian, img.ByteOrder())

	img64, ok := img.(*Image64)
	require.True(t, ok, "expected *Image64, got %T", img)
	assert.Equal(t, elf.EM_X86_64, img64.Header().Machine)

	sections := img64.Sections()
	require.Len(t, sections, 4)
	assert.Equal(t, Section64{}, sections[0])
	assert.Equal(t, elf.SHT_PROGBITS, sections[1].Type)
	assert.Equal(t, uint64(elf.SHF_ALLOC|elf.SHF_EXECINSTR), sections[1].Flags)
	assert.Equal(t, uint64(0x401000), sections[1].Addr)
	assert.Equal(t, uint64(0x200), sections[1].Size)
	assert.Equal(t, elf.SHT_STRTAB, sections[layout.Shstrndx].Type)
	assert.Equal(t, layout.StrOff, sections[layout.Shstrndx].Off)

	programs := img64.Programs()
	require.Len(t, programs, 2)
	assert.Equal(t, elf.PT_LOAD, programs[1].Type)
	assert.Equal(t, elf.PF_R|elf.PF_X, programs[1].Flags)
	assert.Equal(t, uint64(0x1000), programs[1].Off)
	assert.Equal(t, uint64(0x401000), programs[1].Vaddr)
}

func TestDecode_Shared32BigEndian(t *testing.T) {
	data, _ := elfhdrtesting.Build(t, elfhdrtesting.Shared32BE())

	img, err := Decode(NewSource(bytes.NewReader(data)))
	require.NoError(t, err)

	img32, ok := img.(*Image32)
	require.True(t, ok, "expected *Image32, got %T", img)
	assert.Equal(t, EncodingBigEndian, img32.Ident().Encoding)
	assert.Equal(t, elf.ET_DYN, img32.Header().Type)
	assert.Equal(t, elf.EM_PPC, img32.Header().Machine)

	require.Len(t, img32.Sections(), 3)
	assert.Equal(t, uint32(0x10000400), img32.Sections()[1].Addr)
	require.Len(t, img32.Programs(), 1)
	assert.Equal(t, uint32(0x10000), img32.Programs()[0].Align)
}

func TestDecode_UniformViewsMatchAcrossClasses(t *testing.T) {
	spec64 := elfhdrtesting.Executable64()
	spec32 := elfhdrtesting.Executable64()
	spec32.Class = elf.ELFCLASS32
	spec32.Machine = elf.EM_386

	decode := func(spec elfhdrtesting.Spec) Image {
		data, _ := elfhdrtesting.Build(t, spec)
		img, err := Decode(NewSource(bytes.NewReader(data)))
		require.NoError(t, err)
		return img
	}

	img64 := decode(spec64)
	img32 := decode(spec32)

	info32, info64 := img32.Info(), img64.Info()
	assert.Equal(t, info64.Entry, info32.Entry)
	assert.Equal(t, info64.Shnum, info32.Shnum)
	assert.Equal(t, info64.Phnum, info32.Phnum)
	assert.Equal(t, elf.EM_386, info32.Machine)

	s32, s64 := img32.SectionInfos(), img64.SectionInfos()
	require.Len(t, s32, len(s64))
	for i := range s64 {
		assert.Equal(t, s64[i].Type, s32[i].Type, "section %d", i)
		assert.Equal(t, s64[i].Flags, s32[i].Flags, "section %d", i)
		assert.Equal(t, s64[i].Addr, s32[i].Addr, "section %d", i)
		assert.Equal(t, s64[i].Size, s32[i].Size, "section %d", i)
	}

	p32, p64 := img32.ProgramInfos(), img64.ProgramInfos()
	require.Len(t, p32, len(p64))
	for i := range p64 {
		assert.Equal(t, p64[i], p32[i], "program %d", i)
	}
}

func TestDecode_BigEndianMatchesLittleEndianTwin(t *testing.T) {
	little := elfhdrtesting.Executable64()
	big := elfhdrtesting.Executable64()
	big.Data = elf.ELFDATA2MSB

	decode := func(spec elfhdrtesting.Spec) Image {
		data, _ := elfhdrtesting.Build(t, spec)
		img, err := Decode(NewSource(bytes.NewReader(data)))
		require.NoError(t, err)
		return img
	}

	le, be := decode(little), decode(big)
	assert.Equal(t, le.Info(), be.Info())
	assert.Equal(t, le.SectionInfos(), be.SectionInfos())
	assert.Equal(t, le.ProgramInfos(), be.ProgramInfos())
}

func TestDecode_NotELFDoesNoFurtherReads(t *testing.T) {
	src := newRecordingSource([]byte("MZ\x90\x00 this is a PE file, not ELF"))

	img, err := Decode(src)
	require.ErrorIs(t, err, ErrNotELF)
	assert.Nil(t, img)
	assert.Len(t, src.reads, 1)
}

func TestDecode_FailsAtomically(t *testing.T) {
	data, layout := elfhdrtesting.Build(t, elfhdrtesting.Executable64())

	tests := []struct {
		name    string
		data    []byte
		opts    []Option
		wantErr error
	}{
		{name: "cut inside header", data: data[:50], wantErr: ErrTruncatedRead},
		{name: "cut right after header", data: data[:layout.Phoff+10], wantErr: ErrTruncatedRead},
		{name: "cut inside section table", data: data[:len(data)-1], wantErr: ErrTruncatedRead},
		{name: "table over limit", data: data, opts: []Option{WithLimits(Limits{MaxTableBytes: 64})}, wantErr: ErrAllocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(newRecordingSource(tt.data), tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, img)
		})
	}
}

func TestDecode_SectionTableBeforeProgramTable(t *testing.T) {
	data, layout := elfhdrtesting.Build(t, elfhdrtesting.Executable64())
	src := newRecordingSource(data)

	_, err := Decode(src)
	require.NoError(t, err)

	// ident, header, 4 section entries, 2 program entries
	require.Len(t, src.reads, 2+4+2)
	assert.Equal(t, int64(layout.Shoff), src.reads[2].offset)
	assert.Equal(t, int64(layout.Phoff), src.reads[6].offset)
}

func TestImage_CloseIsIdempotent(t *testing.T) {
	data, _ := elfhdrtesting.Build(t, elfhdrtesting.Executable64())
	img, err := Decode(NewSource(bytes.NewReader(data)))
	require.NoError(t, err)

	img64 := img.(*Image64)
	require.NotEmpty(t, img64.Sections())

	require.NoError(t, img.Close())
	assert.True(t, img64.Closed())
	assert.Nil(t, img64.Sections())
	assert.Nil(t, img64.Programs())
	assert.Empty(t, img.SectionInfos())
	assert.Empty(t, img.ProgramInfos())

	assert.NoError(t, img.Close())

	// The header carries no separate storage and stays readable.
	assert.Equal(t, elf.EM_X86_64, img.Info().Machine)
}

func TestImage_AccessorsReturnCopies(t *testing.T) {
	data, _ := elfhdrtesting.Build(t, elfhdrtesting.Executable64())
	img, err := Decode(NewSource(bytes.NewReader(data)))
	require.NoError(t, err)
	img64 := img.(*Image64)

	sections := img64.Sections()
	sections[1].Addr = 0xdead
	programs := img64.Programs()
	programs[0].Type = elf.PT_NOTE
	h := img64.Header()
	h.Machine = elf.EM_ARM

	assert.Equal(t, uint64(0x401000), img64.Sections()[1].Addr)
	assert.Equal(t, elf.PT_LOAD, img64.Programs()[0].Type)
	assert.Equal(t, elf.EM_X86_64, img64.Header().Machine)
	assert.Equal(t, elf.EM_X86_64, img.Info().Machine)
}

func TestImage_Close32(t *testing.T) {
	data, _ := elfhdrtesting.Build(t, elfhdrtesting.Shared32BE())
	img, err := Decode(NewSource(bytes.NewReader(data)))
	require.NoError(t, err)

	require.NoError(t, img.Close())
	require.NoError(t, img.Close())
	assert.True(t, img.(*Image32).Closed())
	assert.Nil(t, img.(*Image32).Sections())
}

func TestDecode_NoTables(t *testing.T) {
	data, _ := elfhdrtesting.Build(t, elfhdrtesting.Spec{
		Class:   elf.ELFCLASS64,
		Data:    elf.ELFDATA2LSB,
		Type:    elf.ET_REL,
		Machine: elf.EM_AARCH64,
	})
	src := newRecordingSource(data)

	img, err := Decode(src)
	require.NoError(t, err)
	assert.Empty(t, img.SectionInfos())
	assert.Empty(t, img.ProgramInfos())
	assert.Len(t, src.reads, 2)
}
