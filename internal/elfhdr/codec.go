package elfhdr

import "encoding/binary"

// fieldDecoder walks a fixed-layout record buffer field by field.
// Callers size the buffer for the whole record before decoding.
type fieldDecoder struct {
	buf   []byte
	order binary.ByteOrder
	off   int
}

func (d *fieldDecoder) u16() uint16 {
	v := d.order.Uint16(d.buf[d.off:])
	d.off += 2
	return v
}

func (d *fieldDecoder) u32() uint32 {
	v := d.order.Uint32(d.buf[d.off:])
	d.off += 4
	return v
}

func (d *fieldDecoder) u64() uint64 {
	v := d.order.Uint64(d.buf[d.off:])
	d.off += 8
	return v
}

// fieldEncoder is the inverse of fieldDecoder.
type fieldEncoder struct {
	buf   []byte
	order binary.ByteOrder
	off   int
}

func (e *fieldEncoder) u16(v uint16) {
	e.order.PutUint16(e.buf[e.off:], v)
	e.off += 2
}

func (e *fieldEncoder) u32(v uint32) {
	e.order.PutUint32(e.buf[e.off:], v)
	e.off += 4
}

func (e *fieldEncoder) u64(v uint64) {
	e.order.PutUint64(e.buf[e.off:], v)
	e.off += 8
}
