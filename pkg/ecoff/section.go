package ecoff

// readSectionData seeks to the section payload and reads it whole, whatever
// the section flags. The caller must re-seek before reading anything else.
func readSectionData(r *reader, h *SectionHeader) ([]byte, error) {
	if int64(h.Size) > r.size {
		return nil, layoutErrorf("section %q size %d exceeds input length %d", h.NameString(), h.Size, r.size)
	}
	if err := r.seek(int64(h.DataOffset)); err != nil {
		return nil, err
	}
	return r.readN(int(h.Size))
}
