// Package ecoff decodes big-endian ECOFF (Extended COFF) object files.
//
// A decode reads the file header, the optional a.out header when one is
// declared, every section header with its payload, the symbolic header and
// the local and external string tables. It never interprets symbols,
// relocations or line numbers; it only locates them.
package ecoff

import (
	"bytes"
	"fmt"
	"strings"
)

// Fixed on-disk record widths.
const (
	FileHeaderSize     = 20
	OptionalHeaderSize = 56
	SectionHeaderSize  = 40
	SymbolicHeaderSize = 96
)

// File header magics.
const (
	MagicMIPSEB   uint16 = 0x0160
	MagicMIPSEL   uint16 = 0x0162
	MagicMIPSEB2  uint16 = 0x0163
	MagicMIPSEL2  uint16 = 0x0166
	MagicMIPSEB3  uint16 = 0x0140
	MagicMIPSEL3  uint16 = 0x0142
	MagicAlpha    uint16 = 0x0183
	MagicSymbolic uint16 = 0x7009
)

// Optional header magics.
const (
	OMagic uint16 = 0o407
	NMagic uint16 = 0o410
	ZMagic uint16 = 0o413
)

// File header flags.
const (
	FlagRelocsStripped uint16 = 0x0001
	FlagExecutable     uint16 = 0x0002
	FlagLinesStripped  uint16 = 0x0004
	FlagLocalsStripped uint16 = 0x0008
)

// SectionFlags is the s_flags word of a section header.
type SectionFlags uint32

const (
	STypText     SectionFlags = 0x00000020
	STypData     SectionFlags = 0x00000040
	STypBSS      SectionFlags = 0x00000080
	STypRData    SectionFlags = 0x00000100
	STypSData    SectionFlags = 0x00000200
	STypSBSS     SectionFlags = 0x00000400
	STypUCode    SectionFlags = 0x00000800
	STypGOT      SectionFlags = 0x00001000
	STypDynamic  SectionFlags = 0x00002000
	STypDynSym   SectionFlags = 0x00004000
	STypRelDyn   SectionFlags = 0x00008000
	STypDynStr   SectionFlags = 0x00010000
	STypHash     SectionFlags = 0x00020000
	STypDSOList  SectionFlags = 0x00040000
	STypMSym     SectionFlags = 0x00080000
	STypConflict SectionFlags = 0x00100000
	STypFini     SectionFlags = 0x01000000
	STypComment  SectionFlags = 0x02000000
	STypLitA     SectionFlags = 0x04000000
	STypLit8     SectionFlags = 0x08000000
	STypLit4     SectionFlags = 0x10000000
	STypInit     SectionFlags = 0x80000000
)

var sectionFlagNames = []struct {
	flag SectionFlags
	name string
}{
	{STypText, "text"},
	{STypData, "data"},
	{STypBSS, "bss"},
	{STypRData, "rdata"},
	{STypSData, "sdata"},
	{STypSBSS, "sbss"},
	{STypUCode, "ucode"},
	{STypGOT, "got"},
	{STypDynamic, "dynamic"},
	{STypDynSym, "dynsym"},
	{STypRelDyn, "rel.dyn"},
	{STypDynStr, "dynstr"},
	{STypHash, "hash"},
	{STypDSOList, "dsolist"},
	{STypMSym, "msym"},
	{STypConflict, "conflict"},
	{STypFini, "fini"},
	{STypComment, "comment"},
	{STypLitA, "lita"},
	{STypLit8, "lit8"},
	{STypLit4, "lit4"},
	{STypInit, "init"},
}

func (f SectionFlags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	rest := f
	for _, n := range sectionFlagNames {
		if f&n.flag != 0 {
			names = append(names, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("%#x", uint32(rest)))
	}
	return strings.Join(names, "|")
}

// FileHeader is the 20-byte record at offset 0.
type FileHeader struct {
	Magic              uint16
	SectionCount       uint16
	Timestamp          uint32
	SymbolTableOffset  uint32
	SymbolCount        uint32
	OptionalHeaderSize uint16
	Flags              uint16
}

// KnownMagic reports whether Magic is one of the ECOFF file magics.
func (h *FileHeader) KnownMagic() bool {
	switch h.Magic {
	case MagicMIPSEB, MagicMIPSEL, MagicMIPSEB2, MagicMIPSEL2,
		MagicMIPSEB3, MagicMIPSEL3, MagicAlpha:
		return true
	}
	return false
}

// OptionalHeader is the a.out header that follows the file header when
// FileHeader.OptionalHeaderSize is non-zero.
type OptionalHeader struct {
	Magic        uint16
	VersionStamp uint16
	TextSize     uint32
	DataSize     uint32
	BSSSize      uint32
	Entry        uint32
	TextStart    uint32
	DataStart    uint32
	BSSStart     uint32
	GPRMask      uint32
	CPRMask      [4]uint32
	GPValue      uint32
}

// SectionHeader is one 40-byte entry of the section table.
type SectionHeader struct {
	Name        [8]byte
	PhysAddr    uint32
	VirtAddr    uint32
	Size        uint32
	DataOffset  uint32
	RelocOffset uint32
	LineOffset  uint32
	RelocCount  uint16
	LineCount   uint16
	Flags       SectionFlags
}

// NameString returns the section name up to the first NUL byte. Names that
// fill all eight bytes have no terminator.
func (h *SectionHeader) NameString() string {
	name := h.Name[:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return string(name)
}

// End returns the exclusive end offset of the section payload.
func (h *SectionHeader) End() uint64 {
	return uint64(h.DataOffset) + uint64(h.Size)
}

// Section is a section header together with its raw payload.
type Section struct {
	Header SectionHeader
	Data   []byte
}

// SymbolicHeader (HDRR) describes where each symbolic sub-table lives.
// Only the string table ranges are followed by the decoder.
type SymbolicHeader struct {
	Magic             uint16
	VersionStamp      uint16
	LineMax           uint32
	LineBytes         uint32
	LineOffset        uint32
	DenseMax          uint32
	DenseOffset       uint32
	ProcMax           uint32
	ProcOffset        uint32
	LocalSymMax       uint32
	LocalSymOffset    uint32
	OptMax            uint32
	OptOffset         uint32
	AuxMax            uint32
	AuxOffset         uint32
	LocalStrMax       uint32
	LocalStrOffset    uint32
	ExtStrMax         uint32
	ExtStrOffset      uint32
	FileDescMax       uint32
	FileDescOffset    uint32
	RelFileDescCount  uint32
	RelFileDescOffset uint32
	ExtSymMax         uint32
	ExtSymOffset      uint32
}

// SubTable is a (count, offset) pair from the symbolic header.
type SubTable struct {
	Name   string
	Count  uint32
	Offset uint32
}

// SubTables lists every sub-table range in on-disk order. Line numbers
// carry their byte size rather than an entry count.
func (h *SymbolicHeader) SubTables() []SubTable {
	return []SubTable{
		{"line", h.LineBytes, h.LineOffset},
		{"dense", h.DenseMax, h.DenseOffset},
		{"proc", h.ProcMax, h.ProcOffset},
		{"local_sym", h.LocalSymMax, h.LocalSymOffset},
		{"opt", h.OptMax, h.OptOffset},
		{"aux", h.AuxMax, h.AuxOffset},
		{"local_str", h.LocalStrMax, h.LocalStrOffset},
		{"ext_str", h.ExtStrMax, h.ExtStrOffset},
		{"file_desc", h.FileDescMax, h.FileDescOffset},
		{"rel_file_desc", h.RelFileDescCount, h.RelFileDescOffset},
		{"ext_sym", h.ExtSymMax, h.ExtSymOffset},
	}
}

// File is a fully decoded object file. It is never modified after Decode
// returns it.
type File struct {
	FileHeader FileHeader
	// OptionalHeader is nil when the file header declares none.
	OptionalHeader  *OptionalHeader
	Sections        []Section
	SymbolicHeader  SymbolicHeader
	LocalStrings    StringTable
	ExternalStrings StringTable
}

// Section returns the first section with the given name, or nil.
func (f *File) Section(name string) *Section {
	for i := range f.Sections {
		if f.Sections[i].Header.NameString() == name {
			return &f.Sections[i]
		}
	}
	return nil
}
