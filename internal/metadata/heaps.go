package metadata

import "fmt"

// heaps gives read access to the four metadata heaps (§II.24.2.3). All of
// them are addressed by byte offset except #GUID, which is addressed by a
// 1-based 16-byte-element index.
type heaps struct {
	strings []byte
	blob    []byte
	guid    []byte
}

func (h *heaps) string(idx uint32) (string, error) {
	if idx == 0 {
		return "", nil
	}
	if int(idx) >= len(h.strings) {
		return "", fmt.Errorf("metadata: string heap index %d out of range", idx)
	}
	end := idx
	for int(end) < len(h.strings) && h.strings[end] != 0 {
		end++
	}
	return string(h.strings[idx:end]), nil
}

func (h *heaps) blobBytes(idx uint32) ([]byte, error) {
	if idx == 0 {
		return nil, nil
	}
	if int(idx) >= len(h.blob) {
		return nil, fmt.Errorf("metadata: blob heap index %d out of range", idx)
	}
	n, headerLen, err := readCompressedUint(h.blob[idx:])
	if err != nil {
		return nil, err
	}
	start := int(idx) + headerLen
	end := start + int(n)
	if end > len(h.blob) {
		return nil, fmt.Errorf("metadata: blob heap entry at %d extends past end of heap", idx)
	}
	return h.blob[start:end], nil
}

func (h *heaps) guidValue(idx uint32) ([16]byte, error) {
	var out [16]byte
	if idx == 0 {
		return out, nil
	}
	start := (idx - 1) * 16
	if int(start)+16 > len(h.guid) {
		return out, fmt.Errorf("metadata: GUID heap index %d out of range", idx)
	}
	copy(out[:], h.guid[start:start+16])
	return out, nil
}

// readCompressedUint decodes an ECMA-335 §II.23.2 compressed unsigned
// integer from the start of b, returning the value and the number of bytes
// its encoding occupied.
func readCompressedUint(b []byte) (uint32, int, error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("metadata: empty compressed integer")
	}
	first := b[0]
	switch {
	case first&0x80 == 0:
		return uint32(first), 1, nil
	case first&0xC0 == 0x80:
		if len(b) < 2 {
			return 0, 0, fmt.Errorf("metadata: truncated 2-byte compressed integer")
		}
		return (uint32(first&0x3F) << 8) | uint32(b[1]), 2, nil
	case first&0xE0 == 0xC0:
		if len(b) < 4 {
			return 0, 0, fmt.Errorf("metadata: truncated 4-byte compressed integer")
		}
		return (uint32(first&0x1F) << 24) | (uint32(b[1]) << 16) | (uint32(b[2]) << 8) | uint32(b[3]), 4, nil
	default:
		return 0, 0, fmt.Errorf("metadata: invalid compressed integer prefix 0x%02x", first)
	}
}

// decodeTypeDefOrRefOrSpec decodes a compressed TypeDefOrRefOrSpec token as
// used inside signature blobs (§II.23.2.8): the low 2 bits select the
// table, the rest (after un-shifting the compressed integer) is the RID.
func decodeTypeDefOrRefOrSpec(v uint32) (tableID, uint32) {
	tables := []tableID{tblTypeDef, tblTypeRef, tblTypeSpec}
	tag := v & 0x3
	if int(tag) >= len(tables) {
		return tblNone, 0
	}
	return tables[tag], v >> 2
}
