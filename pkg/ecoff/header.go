package ecoff

// The decoders below read one record field by field in on-disk order and
// return the first failure with no partial record.

func decodeFileHeader(r *reader) (FileHeader, error) {
	var (
		h   FileHeader
		err error
	)
	if h.Magic, err = r.readU16(); err != nil {
		return FileHeader{}, err
	}
	if h.SectionCount, err = r.readU16(); err != nil {
		return FileHeader{}, err
	}
	if h.Timestamp, err = r.readU32(); err != nil {
		return FileHeader{}, err
	}
	if h.SymbolTableOffset, err = r.readU32(); err != nil {
		return FileHeader{}, err
	}
	if h.SymbolCount, err = r.readU32(); err != nil {
		return FileHeader{}, err
	}
	if h.OptionalHeaderSize, err = r.readU16(); err != nil {
		return FileHeader{}, err
	}
	if h.Flags, err = r.readU16(); err != nil {
		return FileHeader{}, err
	}
	return h, nil
}

func decodeOptionalHeader(r *reader) (OptionalHeader, error) {
	var (
		h   OptionalHeader
		err error
	)
	if h.Magic, err = r.readU16(); err != nil {
		return OptionalHeader{}, err
	}
	if h.VersionStamp, err = r.readU16(); err != nil {
		return OptionalHeader{}, err
	}
	words := []*uint32{
		&h.TextSize, &h.DataSize, &h.BSSSize, &h.Entry,
		&h.TextStart, &h.DataStart, &h.BSSStart, &h.GPRMask,
		&h.CPRMask[0], &h.CPRMask[1], &h.CPRMask[2], &h.CPRMask[3],
		&h.GPValue,
	}
	if err := readWords(r, words); err != nil {
		return OptionalHeader{}, err
	}
	return h, nil
}

func decodeSectionHeader(r *reader) (SectionHeader, error) {
	var h SectionHeader
	name, err := r.readN(len(h.Name))
	if err != nil {
		return SectionHeader{}, err
	}
	copy(h.Name[:], name)

	words := []*uint32{
		&h.PhysAddr, &h.VirtAddr, &h.Size,
		&h.DataOffset, &h.RelocOffset, &h.LineOffset,
	}
	if err := readWords(r, words); err != nil {
		return SectionHeader{}, err
	}
	if h.RelocCount, err = r.readU16(); err != nil {
		return SectionHeader{}, err
	}
	if h.LineCount, err = r.readU16(); err != nil {
		return SectionHeader{}, err
	}
	flags, err := r.readU32()
	if err != nil {
		return SectionHeader{}, err
	}
	h.Flags = SectionFlags(flags)
	return h, nil
}

func decodeSymbolicHeader(r *reader) (SymbolicHeader, error) {
	var (
		h   SymbolicHeader
		err error
	)
	if h.Magic, err = r.readU16(); err != nil {
		return SymbolicHeader{}, err
	}
	if h.VersionStamp, err = r.readU16(); err != nil {
		return SymbolicHeader{}, err
	}
	if err := readWords(r, h.words()); err != nil {
		return SymbolicHeader{}, err
	}
	return h, nil
}

// words returns the 32-bit fields of h in on-disk order.
func (h *SymbolicHeader) words() []*uint32 {
	return []*uint32{
		&h.LineMax, &h.LineBytes, &h.LineOffset,
		&h.DenseMax, &h.DenseOffset,
		&h.ProcMax, &h.ProcOffset,
		&h.LocalSymMax, &h.LocalSymOffset,
		&h.OptMax, &h.OptOffset,
		&h.AuxMax, &h.AuxOffset,
		&h.LocalStrMax, &h.LocalStrOffset,
		&h.ExtStrMax, &h.ExtStrOffset,
		&h.FileDescMax, &h.FileDescOffset,
		&h.RelFileDescCount, &h.RelFileDescOffset,
		&h.ExtSymMax, &h.ExtSymOffset,
	}
}

func readWords(r *reader, dst []*uint32) error {
	for _, p := range dst {
		v, err := r.readU32()
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}
