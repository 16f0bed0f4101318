// Package report renders decoded ECOFF objects for people and programs.
package report

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"

	"github.com/samcharles93/ecoff/pkg/ecoff"
)

// Options selects what a Document carries beyond the headers.
type Options struct {
	Strings bool // include decoded string tables
	Data    bool // include section payloads as hex
}

type Document struct {
	Path            string             `json:"path,omitempty"`
	FileHeader      FileHeaderDoc      `json:"file_header"`
	OptionalHeader  *OptionalHeaderDoc `json:"optional_header,omitempty"`
	Sections        []SectionDoc       `json:"sections"`
	SymbolicHeader  SymbolicHeaderDoc  `json:"symbolic_header"`
	LocalStrings    []StringDoc        `json:"local_strings,omitempty"`
	ExternalStrings []StringDoc        `json:"external_strings,omitempty"`
}

type FileHeaderDoc struct {
	Magic              string    `json:"magic"`
	SectionCount       uint16    `json:"section_count"`
	Timestamp          time.Time `json:"timestamp"`
	SymbolTableOffset  uint32    `json:"symbol_table_offset"`
	SymbolCount        uint32    `json:"symbol_count"`
	OptionalHeaderSize uint16    `json:"optional_header_size"`
	Flags              uint16    `json:"flags"`
}

type OptionalHeaderDoc struct {
	Magic        string    `json:"magic"`
	VersionStamp uint16    `json:"version_stamp"`
	TextSize     uint32    `json:"text_size"`
	DataSize     uint32    `json:"data_size"`
	BSSSize      uint32    `json:"bss_size"`
	Entry        string    `json:"entry"`
	TextStart    string    `json:"text_start"`
	DataStart    string    `json:"data_start"`
	BSSStart     string    `json:"bss_start"`
	GPRMask      string    `json:"gpr_mask"`
	CPRMask      [4]string `json:"cpr_mask"`
	GPValue      string    `json:"gp_value"`
}

type SectionDoc struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	PhysAddr    string `json:"paddr"`
	VirtAddr    string `json:"vaddr"`
	Size        uint32 `json:"size"`
	DataOffset  uint32 `json:"data_offset"`
	RelocOffset uint32 `json:"reloc_offset"`
	LineOffset  uint32 `json:"line_offset"`
	RelocCount  uint16 `json:"reloc_count"`
	LineCount   uint16 `json:"line_count"`
	Flags       string `json:"flags"`
	Data        string `json:"data,omitempty"`
}

type SymbolicHeaderDoc struct {
	Magic        string        `json:"magic"`
	VersionStamp uint16        `json:"version_stamp"`
	Tables       []SubTableDoc `json:"tables"`
}

type SubTableDoc struct {
	Name   string `json:"name"`
	Count  uint32 `json:"count"`
	Offset uint32 `json:"offset"`
}

type StringDoc struct {
	Offset uint32 `json:"offset"`
	Value  string `json:"value"`
}

// Build converts a decoded file into a Document.
func Build(path string, f *ecoff.File, opts Options) Document {
	fh := f.FileHeader
	doc := Document{
		Path: path,
		FileHeader: FileHeaderDoc{
			Magic:              fmt.Sprintf("%#04x", fh.Magic),
			SectionCount:       fh.SectionCount,
			Timestamp:          time.Unix(int64(fh.Timestamp), 0).UTC(),
			SymbolTableOffset:  fh.SymbolTableOffset,
			SymbolCount:        fh.SymbolCount,
			OptionalHeaderSize: fh.OptionalHeaderSize,
			Flags:              fh.Flags,
		},
		Sections: make([]SectionDoc, 0, len(f.Sections)),
	}

	if oh := f.OptionalHeader; oh != nil {
		doc.OptionalHeader = &OptionalHeaderDoc{
			Magic:        fmt.Sprintf("%#o", oh.Magic),
			VersionStamp: oh.VersionStamp,
			TextSize:     oh.TextSize,
			DataSize:     oh.DataSize,
			BSSSize:      oh.BSSSize,
			Entry:        addr(oh.Entry),
			TextStart:    addr(oh.TextStart),
			DataStart:    addr(oh.DataStart),
			BSSStart:     addr(oh.BSSStart),
			GPRMask:      addr(oh.GPRMask),
			GPValue:      addr(oh.GPValue),
		}
		for i, m := range oh.CPRMask {
			doc.OptionalHeader.CPRMask[i] = addr(m)
		}
	}

	for i := range f.Sections {
		h := &f.Sections[i].Header
		sd := SectionDoc{
			Index:       i,
			Name:        h.NameString(),
			PhysAddr:    addr(h.PhysAddr),
			VirtAddr:    addr(h.VirtAddr),
			Size:        h.Size,
			DataOffset:  h.DataOffset,
			RelocOffset: h.RelocOffset,
			LineOffset:  h.LineOffset,
			RelocCount:  h.RelocCount,
			LineCount:   h.LineCount,
			Flags:       h.Flags.String(),
		}
		if opts.Data {
			sd.Data = hex.EncodeToString(f.Sections[i].Data)
		}
		doc.Sections = append(doc.Sections, sd)
	}

	sym := &f.SymbolicHeader
	doc.SymbolicHeader = SymbolicHeaderDoc{
		Magic:        fmt.Sprintf("%#04x", sym.Magic),
		VersionStamp: sym.VersionStamp,
	}
	for _, st := range sym.SubTables() {
		doc.SymbolicHeader.Tables = append(doc.SymbolicHeader.Tables, SubTableDoc(st))
	}

	if opts.Strings {
		doc.LocalStrings = Strings(f.LocalStrings)
		doc.ExternalStrings = Strings(f.ExternalStrings)
	}
	return doc
}

// Strings lists every string of a table with its offset.
func Strings(t ecoff.StringTable) []StringDoc {
	out := []StringDoc{}
	for off, s := range t.All() {
		out = append(out, StringDoc{Offset: off, Value: s})
	}
	return out
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

func addr(v uint32) string {
	return fmt.Sprintf("%#08x", v)
}
