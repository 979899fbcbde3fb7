package dns

import (
	"encoding/binary"
	"fmt"
)

// Reader is a cursored reader over an immutable byte view of a whole
// datagram. The cursor is kept separate from the buffer (rather than
// re-slicing it on every read) because compression pointers reference
// absolute offsets into the *original* datagram; any consumer that needs to
// jump backwards needs the full buffer, not just what remains ahead of the
// cursor.
type Reader struct {
	buf []byte
	off int
}

// NewReader wraps buf for cursored reads starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int { return r.off }

// Seek moves the cursor to an absolute offset without bounds-checking the
// destination; the next read reports ErrShortRead if it doesn't fit.
func (r *Reader) Seek(off int) { r.off = off }

// Remaining reports how many bytes are left to read from the cursor.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) require(n int) error {
	if r.off+n > len(r.buf) || r.off < 0 {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortRead, n, r.off, len(r.buf))
	}
	return nil
}

// ReadU8 reads one big-endian byte and advances the cursor.
func (r *Reader) ReadU8() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

// PeekU8 reads one byte without advancing the cursor.
func (r *Reader) PeekU8() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	return r.buf[r.off], nil
}

// ReadU16 reads a big-endian uint16 and advances the cursor.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.off : r.off+2])
	r.off += 2
	return v, nil
}

// ReadU32 reads a big-endian uint32 and advances the cursor.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.off : r.off+4])
	r.off += 4
	return v, nil
}

// ReadExact copies the next n bytes and advances the cursor.
func (r *Reader) ReadExact(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrShortRead, n)
	}
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, r.buf[r.off:r.off+n])
	r.off += n
	return b, nil
}

// Writer accumulates encoded wire bytes.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer, pre-sized for typical DNS messages.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 128)}
}

// Bytes returns the encoded bytes accumulated so far.
func (w *Writer) Bytes() []byte { return w.buf }

// Len reports how many bytes have been written so far.
func (w *Writer) Len() int { return len(w.buf) }

// WriteU8 appends one big-endian byte.
func (w *Writer) WriteU8(v byte) {
	w.buf = append(w.buf, v)
}

// WriteU16 appends a big-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteU32 appends a big-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteBytes appends raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}
