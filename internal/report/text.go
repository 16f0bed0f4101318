package report

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/samcharles93/ecoff/pkg/ecoff"
)

// TextOptions selects the optional blocks of a text listing.
type TextOptions struct {
	Sections bool
	Symbolic bool
	Strings  bool
	Data     bool
	// DataLimit caps the hex dump per section; 0 means no limit.
	DataLimit int
}

// WriteText prints a human-readable listing of f.
func WriteText(w io.Writer, path string, f *ecoff.File, opts TextOptions) error {
	p := &printer{w: w}

	p.printf("ECOFF Inspect: %s\n", path)
	fh := f.FileHeader
	p.section("File Header")
	magic := fmt.Sprintf("%#04x", fh.Magic)
	if !fh.KnownMagic() {
		magic += " (unknown)"
	}
	p.row("magic", magic)
	p.rowInt("sections", int(fh.SectionCount))
	p.row("timestamp", fmt.Sprintf("%d", fh.Timestamp))
	p.row("symptr", fmt.Sprintf("%#x", fh.SymbolTableOffset))
	p.rowInt("nsyms", int(fh.SymbolCount))
	p.row("opthdr", fmt.Sprintf("%d", fh.OptionalHeaderSize))
	p.row("flags", fileFlags(fh.Flags))

	if oh := f.OptionalHeader; oh != nil {
		p.section("Optional Header")
		p.row("magic", fmt.Sprintf("%#o", oh.Magic))
		p.row("vstamp", fmt.Sprintf("%#04x", oh.VersionStamp))
		p.row("tsize", formatBytes(uint64(oh.TextSize)))
		p.row("dsize", formatBytes(uint64(oh.DataSize)))
		p.row("bsize", formatBytes(uint64(oh.BSSSize)))
		p.row("entry", addr(oh.Entry))
		p.row("text_start", addr(oh.TextStart))
		p.row("data_start", addr(oh.DataStart))
		p.row("bss_start", addr(oh.BSSStart))
		p.row("gprmask", addr(oh.GPRMask))
		p.row("cprmask", fmt.Sprintf("%s %s %s %s",
			addr(oh.CPRMask[0]), addr(oh.CPRMask[1]), addr(oh.CPRMask[2]), addr(oh.CPRMask[3])))
		p.row("gp_value", addr(oh.GPValue))
	}

	if opts.Sections {
		p.section("Sections")
		p.printf("%-4s %-8s %-10s %-10s %-10s %-10s %-6s %s\n",
			"idx", "name", "vaddr", "size", "offset", "relptr", "nreloc", "flags")
		for i := range f.Sections {
			h := &f.Sections[i].Header
			p.printf("%-4d %-8s %-10s %-10d %-10d %-10d %-6d %s\n",
				i, h.NameString(), addr(h.VirtAddr), h.Size, h.DataOffset, h.RelocOffset, h.RelocCount, h.Flags)
		}
	}

	if opts.Symbolic {
		sym := &f.SymbolicHeader
		p.section("Symbolic Header")
		p.row("magic", fmt.Sprintf("%#04x", sym.Magic))
		p.row("vstamp", fmt.Sprintf("%#04x", sym.VersionStamp))
		for _, st := range sym.SubTables() {
			p.row(st.Name, fmt.Sprintf("count=%d off=%#x", st.Count, st.Offset))
		}
	}

	if opts.Strings {
		p.stringTable("Local Strings", f.LocalStrings)
		p.stringTable("External Strings", f.ExternalStrings)
	}

	if opts.Data {
		for i := range f.Sections {
			s := &f.Sections[i]
			p.section(fmt.Sprintf("Section %d (%s) data", i, s.Header.NameString()))
			data := s.Data
			if opts.DataLimit > 0 && len(data) > opts.DataLimit {
				data = data[:opts.DataLimit]
			}
			if len(data) == 0 {
				p.printf("(empty)\n")
				continue
			}
			p.printf("%s", hex.Dump(data))
			if len(data) < len(s.Data) {
				p.printf("... (%d of %d bytes shown)\n", len(data), len(s.Data))
			}
		}
	}

	return p.err
}

// WriteStrings prints a string table as offset/value lines.
func WriteStrings(w io.Writer, title string, t ecoff.StringTable) error {
	p := &printer{w: w}
	p.stringTable(title, t)
	return p.err
}

// Summary is a one-line description used by batch listings.
func Summary(f *ecoff.File) string {
	var total uint64
	for i := range f.Sections {
		total += uint64(len(f.Sections[i].Data))
	}
	opt := "no"
	if f.OptionalHeader != nil {
		opt = "yes"
	}
	return fmt.Sprintf("magic=%#04x sections=%d payload=%s opthdr=%s local_strings=%s external_strings=%s",
		f.FileHeader.Magic, len(f.Sections), formatBytes(total), opt,
		formatBytes(uint64(f.LocalStrings.Len())), formatBytes(uint64(f.ExternalStrings.Len())))
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, a...)
}

func (p *printer) section(title string) {
	line := strings.Repeat("-", len(title)+8)
	p.printf("\n%s\n--- %s ---\n%s\n", line, title, line)
}

func (p *printer) row(label, value string) {
	if value == "" {
		return
	}
	p.printf("%-24s %s\n", label+":", value)
}

func (p *printer) rowInt(label string, v int) {
	p.row(label, fmt.Sprintf("%d", v))
}

func (p *printer) stringTable(title string, t ecoff.StringTable) {
	p.section(title)
	if t.Len() == 0 {
		p.printf("(empty)\n")
		return
	}
	for off, s := range t.All() {
		p.printf("%8d  %q\n", off, s)
	}
}

func fileFlags(f uint16) string {
	var names []string
	for _, n := range []struct {
		bit  uint16
		name string
	}{
		{ecoff.FlagRelocsStripped, "relocs_stripped"},
		{ecoff.FlagExecutable, "exec"},
		{ecoff.FlagLinesStripped, "lines_stripped"},
		{ecoff.FlagLocalsStripped, "locals_stripped"},
	} {
		if f&n.bit != 0 {
			names = append(names, n.name)
			f &^= n.bit
		}
	}
	if f != 0 {
		names = append(names, fmt.Sprintf("%#x", f))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func formatBytes(b uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.2f GiB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
