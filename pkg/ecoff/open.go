package ecoff

import (
	"bytes"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Open decodes the object file at path with a lenient decoder.
func Open(path string) (*File, error) {
	return Decoder{}.Open(path)
}

// NewFile decodes an object file from a random-access reader of the given
// size with a lenient decoder.
func NewFile(r io.ReaderAt, size int64) (*File, error) {
	return Decoder{}.NewFile(r, size)
}

// NewFile decodes size bytes of r starting at offset 0.
func (d Decoder) NewFile(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 {
		return nil, &DecodeError{Stage: StageFileHeader, Err: layoutErrorf("negative input size %d", size)}
	}
	return d.Decode(io.NewSectionReader(r, 0, size))
}

// Open maps path read-only and decodes it. If mmap is unavailable the file
// is read into memory instead. Decoded payloads are copies, so the mapping
// is released before Open returns.
func (d Decoder) Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Stage: StageFileHeader, Err: &IOError{Err: err}}
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, &DecodeError{Stage: StageFileHeader, Err: &IOError{Err: err}}
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		// cannot index this file as a []byte on this architecture.
		return nil, &DecodeError{Stage: StageFileHeader, Err: layoutErrorf("file too large: %d bytes", size64)}
	}
	size := int(size64)

	if size > 0 {
		data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
		if err == nil {
			defer func() { _ = unix.Munmap(data) }()
			return d.Decode(bytes.NewReader(data))
		}
	}

	// Fallback path that does not require mmap support.
	data, err := readAllAt(f, size)
	if err != nil {
		return nil, &DecodeError{Stage: StageFileHeader, Err: &IOError{Err: err}}
	}
	return d.Decode(bytes.NewReader(data))
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}
