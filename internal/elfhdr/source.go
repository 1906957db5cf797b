package elfhdr

import (
	"errors"
	"fmt"
	"io"
)

// ByteSource is a seekable source that only hands out complete reads.
// Implementations need not be safe for concurrent use.
type ByteSource interface {
	// Seek moves the read cursor to an absolute offset.
	Seek(offset int64) error
	// ReadExact fills buf completely or fails. A short read is reported
	// as an error matching ErrTruncatedRead.
	ReadExact(buf []byte) error
}

// sizer is implemented by sources that know their total length.
type sizer interface {
	Size() (int64, error)
}

// Source adapts an io.ReadSeeker to ByteSource.
type Source struct {
	rs  io.ReadSeeker
	pos int64
}

// NewSource returns a ByteSource reading from rs.
func NewSource(rs io.ReadSeeker) *Source {
	return &Source{rs: rs}
}

// Seek implements ByteSource.
func (s *Source) Seek(offset int64) error {
	if offset < 0 {
		return fmt.Errorf("seek to offset %d: %w", offset, ErrOffsetOverflow)
	}
	if _, err := s.rs.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek to offset %d: %w", offset, err)
	}
	s.pos = offset
	return nil
}

// ReadExact implements ByteSource.
func (s *Source) ReadExact(buf []byte) error {
	n, err := io.ReadFull(s.rs, buf)
	start := s.pos
	s.pos += int64(n)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &TruncatedReadError{Offset: start, Want: len(buf), Got: n}
	}
	return fmt.Errorf("read %d bytes at offset %d: %w", len(buf), start, err)
}

// Size reports the length of the underlying stream. The cursor is
// restored afterwards.
func (s *Source) Size() (int64, error) {
	end, err := s.rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("determine source size: %w", err)
	}
	if _, err := s.rs.Seek(s.pos, io.SeekStart); err != nil {
		return 0, fmt.Errorf("restore source position: %w", err)
	}
	return end, nil
}
