package elfhdr

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Table names used in errors.
const (
	SectionTable = "section header"
	ProgramTable = "program header"
)

// TableSpec locates a header table as declared by the file header.
type TableSpec struct {
	Name      string
	Offset    uint64
	EntrySize uint16
	Count     uint16
}

// Limits bounds the storage a decode may allocate.
type Limits struct {
	// MaxTableBytes caps count*record size for a single table. Zero means no cap.
	MaxTableBytes uint64
}

// DefaultLimits returns the limits used when none are given.
func DefaultLimits() Limits {
	return Limits{MaxTableBytes: 16 << 20}
}

// decodeTable reads spec.Count fixed-size records. Entry i is read from
// spec.Offset + i*spec.EntrySize in ascending order; the first failure
// discards everything read so far.
func decodeTable[T any](
	src ByteSource,
	spec TableSpec,
	recordSize int,
	order binary.ByteOrder,
	limits Limits,
	decode func([]byte, binary.ByteOrder) T,
) ([]T, error) {
	if spec.Count == 0 {
		return []T{}, nil
	}
	if int(spec.EntrySize) < recordSize {
		return nil, &EntrySizeError{Table: spec.Name, EntrySize: spec.EntrySize, Record: recordSize}
	}

	need := uint64(spec.Count) * uint64(recordSize)
	if limits.MaxTableBytes > 0 && need > limits.MaxTableBytes {
		return nil, &AllocationError{Table: spec.Name, Bytes: need, Limit: limits.MaxTableBytes}
	}

	stride := uint64(spec.EntrySize)
	span := (uint64(spec.Count)-1)*stride + uint64(recordSize)
	if spec.Offset > math.MaxInt64 || span > math.MaxInt64-spec.Offset {
		return nil, &TruncatedReadError{
			Offset: int64(min(spec.Offset, math.MaxInt64)), // #nosec G115 - bounded by min
			Want:   recordSize,
			Cause:  fmt.Errorf("%s table at %#x: %w", spec.Name, spec.Offset, ErrOffsetOverflow),
		}
	}
	if err := checkFits(src, spec, span); err != nil {
		return nil, err
	}

	table := make([]T, spec.Count)
	buf := make([]byte, recordSize)
	for i := range table {
		off := int64(spec.Offset + uint64(i)*stride)
		if err := src.Seek(off); err != nil {
			return nil, fmt.Errorf("%s table entry %d: %w", spec.Name, i, err)
		}
		if err := src.ReadExact(buf); err != nil {
			return nil, fmt.Errorf("%s table entry %d: %w", spec.Name, i, err)
		}
		table[i] = decode(buf, order)
	}
	return table, nil
}

// checkFits rejects a table that ends past a source of known length
// before any storage is allocated for it.
func checkFits(src ByteSource, spec TableSpec, span uint64) error {
	s, ok := src.(sizer)
	if !ok {
		return nil
	}
	size, err := s.Size()
	if err != nil {
		return err
	}
	if spec.Offset+span <= uint64(size) {
		return nil
	}
	got := 0
	if uint64(size) > spec.Offset {
		got = int(uint64(size) - spec.Offset)
	}
	return fmt.Errorf("%s table: %w", spec.Name, &TruncatedReadError{
		Offset: int64(spec.Offset),
		Want:   int(span),
		Got:    got,
	})
}
