package elfhdr

import (
	"errors"
	"fmt"
)

// Static errors
var (
	// ErrNotELF indicates the identification prefix does not start with the
	// ELF signature. No further read is attempted once this is reported.
	ErrNotELF = errors.New("file is not an ELF binary")

	// ErrUnsupportedClass indicates EI_CLASS is neither ELFCLASS32 nor ELFCLASS64.
	ErrUnsupportedClass = errors.New("unsupported ELF class")

	// ErrUnsupportedEncoding indicates EI_DATA is neither ELFDATA2LSB nor ELFDATA2MSB.
	ErrUnsupportedEncoding = errors.New("unsupported ELF data encoding")

	// ErrUnsupportedVersion indicates EI_VERSION is not EV_CURRENT.
	ErrUnsupportedVersion = errors.New("unsupported ELF identification version")

	// ErrTruncatedRead indicates fewer bytes were available than a record needs.
	ErrTruncatedRead = errors.New("truncated read")

	// ErrAllocation indicates table storage could not be obtained.
	ErrAllocation = errors.New("table allocation failed")

	// ErrInvalidEntrySize indicates a table entry size smaller than its record.
	ErrInvalidEntrySize = errors.New("invalid table entry size")

	// ErrSourceChanged indicates the identification bytes differ between the
	// identification read and the header read.
	ErrSourceChanged = errors.New("identification bytes changed during decode")

	// ErrOffsetOverflow is the cause recorded when a table offset cannot be
	// represented as a file position.
	ErrOffsetOverflow = errors.New("offset overflows file position")
)

// TruncatedReadError reports a read that could not be satisfied in full.
type TruncatedReadError struct {
	Offset int64
	Want   int
	Got    int
	Cause  error
}

func (e *TruncatedReadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("truncated read at offset %d: want %d bytes, got %d: %v", e.Offset, e.Want, e.Got, e.Cause)
	}
	return fmt.Sprintf("truncated read at offset %d: want %d bytes, got %d", e.Offset, e.Want, e.Got)
}

func (e *TruncatedReadError) Unwrap() error {
	return e.Cause
}

// Is makes every TruncatedReadError match ErrTruncatedRead.
func (e *TruncatedReadError) Is(target error) bool {
	return target == ErrTruncatedRead
}

// AllocationError reports a table whose storage would exceed the configured limit.
type AllocationError struct {
	Table string
	Bytes uint64
	Limit uint64
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("%s table needs %d bytes, limit is %d", e.Table, e.Bytes, e.Limit)
}

// Is makes every AllocationError match ErrAllocation.
func (e *AllocationError) Is(target error) bool {
	return target == ErrAllocation
}

// EntrySizeError reports a header-declared entry size too small for its record.
type EntrySizeError struct {
	Table     string
	EntrySize uint16
	Record    int
}

func (e *EntrySizeError) Error() string {
	return fmt.Sprintf("%s table entry size %d is smaller than record size %d", e.Table, e.EntrySize, e.Record)
}

// Is makes every EntrySizeError match ErrInvalidEntrySize.
func (e *EntrySizeError) Is(target error) bool {
	return target == ErrInvalidEntrySize
}
