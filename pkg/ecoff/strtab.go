package ecoff

import (
	"bytes"
	"iter"
)

// StringTable is one contiguous blob of NUL-terminated strings, addressed by
// byte offset. It is not split until asked.
type StringTable struct {
	data []byte
}

// NewStringTable wraps data without copying it.
func NewStringTable(data []byte) StringTable {
	return StringTable{data: data}
}

// Len returns the blob size in bytes.
func (t StringTable) Len() int {
	return len(t.data)
}

// Bytes returns the raw blob. The caller must not modify it.
func (t StringTable) Bytes() []byte {
	return t.data
}

// String returns the string starting at off, up to the next NUL or the end
// of the blob. An offset past the end is an invalid layout.
func (t StringTable) String(off uint32) (string, error) {
	if int64(off) > int64(len(t.data)) {
		return "", layoutErrorf("string offset %d beyond table length %d", off, len(t.data))
	}
	rest := t.data[off:]
	if i := bytes.IndexByte(rest, 0); i >= 0 {
		rest = rest[:i]
	}
	return string(rest), nil
}

// All yields every string with its offset in blob order. A trailing string
// without a terminator is still yielded. Each call starts from the
// beginning.
func (t StringTable) All() iter.Seq2[uint32, string] {
	return func(yield func(uint32, string) bool) {
		data := t.data
		off := 0
		for off < len(data) {
			end := bytes.IndexByte(data[off:], 0)
			next := off + end + 1
			if end < 0 {
				end = len(data) - off
				next = len(data)
			}
			if !yield(uint32(off), string(data[off:off+end])) {
				return
			}
			off = next
		}
	}
}

// Strings collects All into a slice.
func (t StringTable) Strings() []string {
	out := []string{}
	for _, s := range t.All() {
		out = append(out, s)
	}
	return out
}

func readStringTable(r *reader, off, size uint32) (StringTable, error) {
	if int64(size) > r.size {
		return StringTable{}, layoutErrorf("string table size %d exceeds input length %d", size, r.size)
	}
	if err := r.seek(int64(off)); err != nil {
		return StringTable{}, err
	}
	data, err := r.readN(int(size))
	if err != nil {
		return StringTable{}, err
	}
	return StringTable{data: data}, nil
}
