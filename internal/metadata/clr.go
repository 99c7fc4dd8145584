package metadata

import (
	"encoding/binary"
	"fmt"
)

// clrHeader is the COR20 header (ECMA-335 §II.25.3.3); only the metadata
// directory is needed — WinRT images carry no IL to execute.
type clrHeader struct {
	metadataRVA  uint32
	metadataSize uint32
}

func (p *peImage) readCLRHeader() (clrHeader, error) {
	o := p.clrHeaderOffset
	d := p.data
	if int(o)+24 > len(d) {
		return clrHeader{}, fmt.Errorf("metadata: truncated CLR header")
	}
	return clrHeader{
		metadataRVA:  binary.LittleEndian.Uint32(d[o+8:]),
		metadataSize: binary.LittleEndian.Uint32(d[o+12:]),
	}, nil
}

// metadataRoot is the "BSJB" logical metadata root (ECMA-335 §II.24.2.1):
// a version string followed by a directory of named streams. The two
// streams this package cares about are "#~" (the compressed table stream)
// and the three heaps ("#Strings", "#US", "#GUID", "#Blob").
type metadataRoot struct {
	streams map[string][]byte
}

const bsjbSignature = 0x424a5342

func parseMetadataRoot(data []byte) (*metadataRoot, error) {
	if len(data) < 16 {
		return nil, fmt.Errorf("metadata: truncated metadata root")
	}
	if binary.LittleEndian.Uint32(data) != bsjbSignature {
		return nil, fmt.Errorf("metadata: bad metadata root signature (not BSJB)")
	}
	versionLen := binary.LittleEndian.Uint32(data[12:])
	off := 16 + versionLen
	off = align4(off)
	if int(off)+4 > len(data) {
		return nil, fmt.Errorf("metadata: truncated metadata root after version string")
	}
	// Flags (reserved, 2 bytes) + stream count (2 bytes).
	streamCount := binary.LittleEndian.Uint16(data[off+2:])
	off += 4

	root := &metadataRoot{streams: make(map[string][]byte)}
	for i := 0; i < int(streamCount); i++ {
		if int(off)+8 > len(data) {
			return nil, fmt.Errorf("metadata: truncated stream header %d", i)
		}
		streamOffset := binary.LittleEndian.Uint32(data[off:])
		streamSize := binary.LittleEndian.Uint32(data[off+4:])
		off += 8
		nameStart := off
		nameEnd := nameStart
		for nameEnd < uint32(len(data)) && data[nameEnd] != 0 {
			nameEnd++
		}
		name := string(data[nameStart:nameEnd])
		off = align4(nameEnd + 1)

		if int(streamOffset)+int(streamSize) > len(data) {
			return nil, fmt.Errorf("metadata: stream %q extends past end of metadata root", name)
		}
		root.streams[name] = data[streamOffset : streamOffset+streamSize]
	}
	return root, nil
}

func align4(v uint32) uint32 {
	return (v + 3) &^ 3
}
