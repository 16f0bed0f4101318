package ecoff

import (
	"encoding/binary"
	"errors"
	"io"
)

// reader is a positioned big-endian view of a seekable source. The total
// length is learned once, so every read can be checked before it is issued.
type reader struct {
	r    io.ReadSeeker
	off  int64
	size int64
}

func newReader(rs io.ReadSeeker) (*reader, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, &IOError{Err: err}
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, &IOError{Err: err}
	}
	return &reader{r: rs, size: size}, nil
}

func (r *reader) remaining() int64 {
	if r.off >= r.size {
		return 0
	}
	return r.size - r.off
}

// seek moves to an absolute offset. Offsets past the end are accepted here
// and fail on the next read.
func (r *reader) seek(off int64) error {
	if off < 0 {
		return layoutErrorf("negative seek offset %d", off)
	}
	if _, err := r.r.Seek(off, io.SeekStart); err != nil {
		return &IOError{Err: err}
	}
	r.off = off
	return nil
}

// readN reads exactly n bytes. After an error the position is unspecified.
func (r *reader) readN(n int) ([]byte, error) {
	if n < 0 {
		return nil, layoutErrorf("invalid read length %d", n)
	}
	if avail := r.remaining(); int64(n) > avail {
		return nil, &TruncatedError{Requested: int64(n), Available: avail}
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(r.r, buf)
	r.off += int64(got)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &TruncatedError{Requested: int64(n), Available: int64(got)}
		}
		return nil, &IOError{Err: err}
	}
	return buf, nil
}

func (r *reader) readU16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) readU32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}
