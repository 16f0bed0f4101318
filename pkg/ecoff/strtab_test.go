package ecoff

import (
	"errors"
	"reflect"
	"testing"
)

func TestStringTableAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		blob string
		want []string
		offs []uint32
	}{
		{"empty", "", []string{}, nil},
		{"terminated", "ab\x00cd\x00", []string{"ab", "cd"}, []uint32{0, 3}},
		{"unterminated tail", "ab\x00cd", []string{"ab", "cd"}, []uint32{0, 3}},
		{"leading empty", "\x00x\x00", []string{"", "x"}, []uint32{0, 1}},
		{"adjacent terminators", "a\x00\x00b\x00", []string{"a", "", "b"}, []uint32{0, 2, 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			st := NewStringTable([]byte(tc.blob))
			if got := st.Strings(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("strings: got %q want %q", got, tc.want)
			}
			var offs []uint32
			for off := range st.All() {
				offs = append(offs, off)
			}
			if !reflect.DeepEqual(offs, tc.offs) {
				t.Fatalf("offsets: got %v want %v", offs, tc.offs)
			}
		})
	}
}

func TestStringTableRestartable(t *testing.T) {
	t.Parallel()

	st := NewStringTable([]byte("one\x00two\x00three\x00"))
	seq := st.All()

	var first []string
	for _, s := range seq {
		first = append(first, s)
		if len(first) == 2 {
			break
		}
	}
	if !reflect.DeepEqual(first, []string{"one", "two"}) {
		t.Fatalf("early stop: got %q", first)
	}

	var second []string
	for _, s := range seq {
		second = append(second, s)
	}
	if !reflect.DeepEqual(second, []string{"one", "two", "three"}) {
		t.Fatalf("restart: got %q", second)
	}
}

func TestStringTableString(t *testing.T) {
	t.Parallel()

	st := NewStringTable([]byte("main\x00printf"))

	tests := []struct {
		off  uint32
		want string
	}{
		{0, "main"},
		{2, "in"},
		{4, ""},
		{5, "printf"},
		{11, ""},
	}
	for _, tc := range tests {
		got, err := st.String(tc.off)
		if err != nil {
			t.Fatalf("String(%d): %v", tc.off, err)
		}
		if got != tc.want {
			t.Fatalf("String(%d): got %q want %q", tc.off, got, tc.want)
		}
	}

	_, err := st.String(12)
	if !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("expected invalid layout past end, got %v", err)
	}
	var le *LayoutError
	if !errors.As(err, &le) || le.Reason == "" {
		t.Fatalf("expected *LayoutError with reason, got %v", err)
	}
}
