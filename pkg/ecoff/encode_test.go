package ecoff

import "encoding/binary"

// encodeFile lays f out at the offsets its headers declare. Section headers
// follow the file and optional headers directly.
func encodeFile(f *File) []byte {
	be := binary.BigEndian

	hdrEnd := FileHeaderSize
	if f.OptionalHeader != nil {
		hdrEnd += OptionalHeaderSize
	}
	end := uint64(hdrEnd + len(f.Sections)*SectionHeaderSize)
	grow := func(e uint64) {
		end = max(end, e)
	}
	for i := range f.Sections {
		grow(uint64(f.Sections[i].Header.DataOffset) + uint64(len(f.Sections[i].Data)))
	}
	sym := f.SymbolicHeader
	grow(uint64(f.FileHeader.SymbolTableOffset) + SymbolicHeaderSize)
	grow(uint64(sym.LocalStrOffset) + uint64(f.LocalStrings.Len()))
	grow(uint64(sym.ExtStrOffset) + uint64(f.ExternalStrings.Len()))

	buf := make([]byte, end)

	fh := f.FileHeader
	be.PutUint16(buf[0:], fh.Magic)
	be.PutUint16(buf[2:], fh.SectionCount)
	be.PutUint32(buf[4:], fh.Timestamp)
	be.PutUint32(buf[8:], fh.SymbolTableOffset)
	be.PutUint32(buf[12:], fh.SymbolCount)
	be.PutUint16(buf[16:], fh.OptionalHeaderSize)
	be.PutUint16(buf[18:], fh.Flags)

	off := FileHeaderSize
	if oh := f.OptionalHeader; oh != nil {
		p := buf[off:]
		be.PutUint16(p[0:], oh.Magic)
		be.PutUint16(p[2:], oh.VersionStamp)
		words := []uint32{
			oh.TextSize, oh.DataSize, oh.BSSSize, oh.Entry,
			oh.TextStart, oh.DataStart, oh.BSSStart, oh.GPRMask,
			oh.CPRMask[0], oh.CPRMask[1], oh.CPRMask[2], oh.CPRMask[3],
			oh.GPValue,
		}
		for i, w := range words {
			be.PutUint32(p[4+4*i:], w)
		}
		off += OptionalHeaderSize
	}

	for i := range f.Sections {
		h := f.Sections[i].Header
		p := buf[off:]
		copy(p[0:8], h.Name[:])
		be.PutUint32(p[8:], h.PhysAddr)
		be.PutUint32(p[12:], h.VirtAddr)
		be.PutUint32(p[16:], h.Size)
		be.PutUint32(p[20:], h.DataOffset)
		be.PutUint32(p[24:], h.RelocOffset)
		be.PutUint32(p[28:], h.LineOffset)
		be.PutUint16(p[32:], h.RelocCount)
		be.PutUint16(p[34:], h.LineCount)
		be.PutUint32(p[36:], uint32(h.Flags))
		off += SectionHeaderSize
		copy(buf[h.DataOffset:], f.Sections[i].Data)
	}

	p := buf[fh.SymbolTableOffset:]
	be.PutUint16(p[0:], sym.Magic)
	be.PutUint16(p[2:], sym.VersionStamp)
	for i, w := range sym.words() {
		be.PutUint32(p[4+4*i:], *w)
	}

	copy(buf[sym.LocalStrOffset:], f.LocalStrings.Bytes())
	copy(buf[sym.ExtStrOffset:], f.ExternalStrings.Bytes())
	return buf
}

// objectBuilder assigns offsets for a well-formed object: headers, then
// payloads, then the symbolic header, then local and external strings.
type objectBuilder struct {
	magic    uint16
	optional *OptionalHeader
	sections []Section
	sym      SymbolicHeader
	local    []byte
	external []byte
}

func (b objectBuilder) build() (*File, []byte) {
	f := &File{
		FileHeader: FileHeader{
			Magic:        b.magic,
			SectionCount: uint16(len(b.sections)),
			Timestamp:    0x5f5e1000,
			SymbolCount:  3,
			Flags:        FlagLocalsStripped,
		},
		SymbolicHeader: b.sym,
	}
	off := uint32(FileHeaderSize)
	if b.optional != nil {
		oh := *b.optional
		f.OptionalHeader = &oh
		f.FileHeader.OptionalHeaderSize = OptionalHeaderSize
		off += OptionalHeaderSize
	}
	off += uint32(len(b.sections) * SectionHeaderSize)

	f.Sections = make([]Section, len(b.sections))
	for i, s := range b.sections {
		s.Header.Size = uint32(len(s.Data))
		s.Header.DataOffset = off
		if s.Data == nil {
			s.Data = []byte{}
		}
		off += s.Header.Size
		f.Sections[i] = s
	}

	f.FileHeader.SymbolTableOffset = off
	off += SymbolicHeaderSize

	f.SymbolicHeader.LocalStrOffset = off
	f.SymbolicHeader.LocalStrMax = uint32(len(b.local))
	off += uint32(len(b.local))
	f.SymbolicHeader.ExtStrOffset = off
	f.SymbolicHeader.ExtStrMax = uint32(len(b.external))

	f.LocalStrings = NewStringTable(nonNil(b.local))
	f.ExternalStrings = NewStringTable(nonNil(b.external))
	return f, encodeFile(f)
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

func sectionName(s string) [8]byte {
	var n [8]byte
	copy(n[:], s)
	return n
}
