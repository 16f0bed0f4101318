package ecoff

import (
	"bytes"
	"errors"
	"testing"
)

func TestReaderBigEndian(t *testing.T) {
	t.Parallel()

	r, err := newReader(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0xaa, 0xbb}))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	if r.size != 8 {
		t.Fatalf("size: got %d", r.size)
	}

	u16, err := r.readU16()
	if err != nil || u16 != 0x0102 {
		t.Fatalf("readU16: got %#x, %v", u16, err)
	}
	u32, err := r.readU32()
	if err != nil || u32 != 0x03040506 {
		t.Fatalf("readU32: got %#x, %v", u32, err)
	}
	if r.off != 6 {
		t.Fatalf("offset: got %d want 6", r.off)
	}

	_, err = r.readU32()
	var te *TruncatedError
	if !errors.As(err, &te) || te.Requested != 4 || te.Available != 2 {
		t.Fatalf("expected truncation 4/2, got %v", err)
	}
}

func TestReaderSeek(t *testing.T) {
	t.Parallel()

	r, err := newReader(bytes.NewReader([]byte("0123456789")))
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	if err := r.seek(7); err != nil {
		t.Fatalf("seek: %v", err)
	}
	b, err := r.readN(3)
	if err != nil || string(b) != "789" {
		t.Fatalf("readN after seek: got %q, %v", b, err)
	}

	// Seeking past the end is accepted; the next read fails.
	if err := r.seek(100); err != nil {
		t.Fatalf("seek past end: %v", err)
	}
	_, err = r.readN(1)
	var te *TruncatedError
	if !errors.As(err, &te) || te.Available != 0 {
		t.Fatalf("expected truncation with nothing available, got %v", err)
	}

	if err := r.seek(0); err != nil {
		t.Fatalf("re-seek: %v", err)
	}
	if b, err := r.readN(0); err != nil || len(b) != 0 {
		t.Fatalf("zero read: %v", err)
	}
}
