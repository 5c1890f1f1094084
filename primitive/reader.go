package primitive

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/torresjeff/flv/internal/binary24"
)

const bufferSize = 64 * 1024

// Reader decodes big-endian scalars from a seekable stream. Reads are
// buffered; Offset always reports the logical position in the stream.
type Reader struct {
	rs  io.ReadSeeker
	br  *bufio.Reader
	off int64
	buf [8]byte
}

func NewReader(rs io.ReadSeeker) (*Reader, error) {
	if rs == nil {
		return nil, ErrNilReader
	}
	off, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	return &Reader{rs: rs, br: bufio.NewReaderSize(rs, bufferSize), off: off}, nil
}

// Offset returns the position of the next byte to be read.
func (r *Reader) Offset() int64 {
	return r.off
}

// Read reads exactly len(p) bytes into p.
// It returns the number of bytes copied and an error if fewer bytes were read.
// The error is EOF only if no bytes were read.
// If an EOF happens after reading some but not all the bytes,
// Read returns ErrUnexpectedEOF.
func (r *Reader) Read(p []byte) (n int, err error) {
	n, err = io.ReadFull(r.br, p)
	r.off += int64(n)
	return n, err
}

// Seek sets the logical position. Forward seeks that stay inside the
// buffered window do not touch the underlying stream.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.off + offset
	case io.SeekEnd:
		n, err := r.rs.Seek(offset, io.SeekEnd)
		if err != nil {
			return r.off, err
		}
		r.br.Reset(r.rs)
		r.off = n
		return n, nil
	default:
		return r.off, errors.Errorf("invalid whence %d", whence)
	}
	if abs < 0 {
		return r.off, errors.Errorf("negative position %d", abs)
	}
	if d := abs - r.off; d >= 0 && d <= int64(r.br.Buffered()) {
		n, _ := r.br.Discard(int(d))
		r.off += int64(n)
		return r.off, nil
	}
	if _, err := r.rs.Seek(abs, io.SeekStart); err != nil {
		return r.off, err
	}
	r.br.Reset(r.rs)
	r.off = abs
	return abs, nil
}

// Skip advances the position by n bytes without reading them.
func (r *Reader) Skip(n int64) error {
	_, err := r.Seek(n, io.SeekCurrent)
	return err
}

// Peek returns the next n bytes without consuming them.
func (r *Reader) Peek(n int) ([]byte, error) {
	b, err := r.br.Peek(n)
	if err != nil {
		return nil, endOfData(err)
	}
	return b, nil
}

func (r *Reader) next(n int) ([]byte, error) {
	b := r.buf[:n]
	if _, err := r.Read(b); err != nil {
		return nil, endOfData(err)
	}
	return b, nil
}

// Bytes reads exactly n bytes into a newly allocated slice.
func (r *Reader) Bytes(n int64) ([]byte, error) {
	if n <= bufferSize {
		b := make([]byte, n)
		if _, err := r.Read(b); err != nil {
			return nil, endOfData(err)
		}
		return b, nil
	}
	// Declared lengths come from the stream; don't trust them for one big allocation.
	var buf bytes.Buffer
	copied, err := io.CopyN(&buf, r.br, n)
	r.off += copied
	if err != nil {
		return nil, endOfData(err)
	}
	return buf.Bytes(), nil
}

func (r *Reader) Uint8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) Uint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

func (r *Reader) Uint24() (uint32, error) {
	b, err := r.next(3)
	if err != nil {
		return 0, err
	}
	return binary24.BigEndian.Uint24(b), nil
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) Float64() (float64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// ExtendedInt32 reads an FLV extended timestamp.
func (r *Reader) ExtendedInt32() (int32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary24.Extended.Int32(b), nil
}

func endOfData(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrEndOfData
	}
	return err
}
