package ecoff

import (
	"fmt"
	"io"
	"strings"
)

// Strictness selects how much beyond structural validity a decode checks.
type Strictness int

const (
	// Lenient accepts any magic numbers and validates offsets and sizes only.
	Lenient Strictness = iota
	// Strict also requires known file, optional header and symbolic header
	// magics.
	Strict
)

func (s Strictness) String() string {
	switch s {
	case Lenient:
		return "lenient"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("strictness(%d)", int(s))
	}
}

// ParseStrictness maps "lenient" or "strict" to a Strictness.
func ParseStrictness(s string) (Strictness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	}
	return Lenient, fmt.Errorf("ecoff: unknown strictness %q", s)
}

// Decoder decodes object files. The zero value is a lenient decoder.
type Decoder struct {
	Strictness Strictness
}

// Decode decodes a whole object file from r with a lenient decoder.
func Decode(r io.ReadSeeker) (*File, error) {
	return Decoder{}.Decode(r)
}

// Decode reads r from offset 0 in the fixed order file header, optional
// header, section headers, section payloads, symbolic header, local strings,
// external strings. It returns a complete File or a *DecodeError.
func (d Decoder) Decode(rs io.ReadSeeker) (*File, error) {
	r, err := newReader(rs)
	if err != nil {
		return nil, &DecodeError{Stage: StageFileHeader, Err: err}
	}

	fail := func(stage Stage, err error) (*File, error) {
		return nil, &DecodeError{Stage: stage, Err: err}
	}

	fh, err := decodeFileHeader(r)
	if err != nil {
		return fail(StageFileHeader, err)
	}
	if d.Strictness == Strict && !fh.KnownMagic() {
		return fail(StageFileHeader, layoutErrorf("unknown file magic %#04x", fh.Magic))
	}

	out := &File{FileHeader: fh}

	if fh.OptionalHeaderSize > 0 {
		if fh.OptionalHeaderSize != OptionalHeaderSize {
			return fail(StageOptionalHeader, layoutErrorf(
				"declared optional header size %d, expected %d", fh.OptionalHeaderSize, OptionalHeaderSize))
		}
		oh, err := decodeOptionalHeader(r)
		if err != nil {
			return fail(StageOptionalHeader, err)
		}
		if d.Strictness == Strict {
			switch oh.Magic {
			case OMagic, NMagic, ZMagic:
			default:
				return fail(StageOptionalHeader, layoutErrorf("unknown optional header magic %#o", oh.Magic))
			}
		}
		out.OptionalHeader = &oh
	}

	count := int(fh.SectionCount)
	// Capacity is capped by what the stream can hold; a short table still
	// fails at the first header that crosses the end.
	headers := make([]SectionHeader, 0, min(count, int(r.remaining()/SectionHeaderSize)))
	for i := range count {
		sh, err := decodeSectionHeader(r)
		if err != nil {
			return nil, &DecodeError{Stage: StageSectionHeader, Index: i + 1, Count: count, Err: err}
		}
		headers = append(headers, sh)
	}

	out.Sections = make([]Section, len(headers))
	for i := range headers {
		data, err := readSectionData(r, &headers[i])
		if err != nil {
			return nil, &DecodeError{Stage: StageSectionData, Index: i + 1, Count: len(headers), Err: err}
		}
		out.Sections[i] = Section{Header: headers[i], Data: data}
	}

	if err := r.seek(int64(fh.SymbolTableOffset)); err != nil {
		return fail(StageSymbolicHeader, err)
	}
	sym, err := decodeSymbolicHeader(r)
	if err != nil {
		return fail(StageSymbolicHeader, err)
	}
	if d.Strictness == Strict && sym.Magic != MagicSymbolic {
		return fail(StageSymbolicHeader, layoutErrorf("unknown symbolic header magic %#04x", sym.Magic))
	}
	out.SymbolicHeader = sym

	if out.LocalStrings, err = readStringTable(r, sym.LocalStrOffset, sym.LocalStrMax); err != nil {
		return fail(StageLocalStrings, err)
	}
	if out.ExternalStrings, err = readStringTable(r, sym.ExtStrOffset, sym.ExtStrMax); err != nil {
		return fail(StageExternalStrings, err)
	}

	return out, nil
}
