// Package ecofftest builds synthetic big-endian ECOFF objects for tests.
package ecofftest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/ecoff/pkg/ecoff"
)

type Section struct {
	Name  string
	Flags ecoff.SectionFlags
	Data  []byte
}

// Object is laid out as headers, section payloads, symbolic header, local
// strings, external strings.
type Object struct {
	Magic    uint16
	Optional *ecoff.OptionalHeader
	Sections []Section
	Local    []byte
	External []byte
}

// Simple returns a two-section object with a few strings.
func Simple() Object {
	return Object{
		Magic:    ecoff.MagicMIPSEB,
		Optional: &ecoff.OptionalHeader{Magic: ecoff.OMagic, TextSize: 8, DataSize: 4, Entry: 0x400000},
		Sections: []Section{
			{Name: ".text", Flags: ecoff.STypText, Data: []byte{0x03, 0xe0, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00}},
			{Name: ".data", Flags: ecoff.STypData, Data: []byte{1, 2, 3, 4}},
		},
		Local:    []byte("\x00crt0.s\x00start\x00"),
		External: []byte("main\x00exit\x00"),
	}
}

func (o Object) Bytes() []byte {
	be := binary.BigEndian
	var buf []byte
	put16 := func(v uint16) { buf = be.AppendUint16(buf, v) }
	put32 := func(v uint32) { buf = be.AppendUint32(buf, v) }

	hdrs := ecoff.FileHeaderSize + len(o.Sections)*ecoff.SectionHeaderSize
	optSize := uint16(0)
	if o.Optional != nil {
		optSize = ecoff.OptionalHeaderSize
		hdrs += ecoff.OptionalHeaderSize
	}
	payload := 0
	for _, s := range o.Sections {
		payload += len(s.Data)
	}
	symptr := uint32(hdrs + payload)
	localOff := symptr + ecoff.SymbolicHeaderSize
	extOff := localOff + uint32(len(o.Local))

	put16(o.Magic)
	put16(uint16(len(o.Sections)))
	put32(0x5f5e1000)
	put32(symptr)
	put32(0)
	put16(optSize)
	put16(0)

	if oh := o.Optional; oh != nil {
		put16(oh.Magic)
		put16(oh.VersionStamp)
		for _, w := range []uint32{
			oh.TextSize, oh.DataSize, oh.BSSSize, oh.Entry,
			oh.TextStart, oh.DataStart, oh.BSSStart, oh.GPRMask,
			oh.CPRMask[0], oh.CPRMask[1], oh.CPRMask[2], oh.CPRMask[3],
			oh.GPValue,
		} {
			put32(w)
		}
	}

	off := uint32(hdrs)
	for _, s := range o.Sections {
		var name [8]byte
		copy(name[:], s.Name)
		buf = append(buf, name[:]...)
		put32(0)
		put32(0)
		put32(uint32(len(s.Data)))
		put32(off)
		put32(0)
		put32(0)
		put16(0)
		put16(0)
		put32(uint32(s.Flags))
		off += uint32(len(s.Data))
	}
	for _, s := range o.Sections {
		buf = append(buf, s.Data...)
	}

	words := make([]uint32, 23)
	words[13] = uint32(len(o.Local))
	words[14] = localOff
	words[15] = uint32(len(o.External))
	words[16] = extOff
	put16(ecoff.MagicSymbolic)
	put16(0)
	for _, w := range words {
		put32(w)
	}
	buf = append(buf, o.Local...)
	buf = append(buf, o.External...)
	return buf
}

// WriteFile writes data under t.TempDir() and returns its path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
