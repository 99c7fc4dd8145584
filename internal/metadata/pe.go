// Package metadata is the Metadata Facade: it wraps the raw ECMA-335 CLI
// metadata tables embedded in a `.winmd` file and exposes them as typed,
// already-resolved rows (TypeDef, MethodDef, Field, Property, Event, Param,
// CustomAttribute) behind a namespace/name-keyed cache.
//
// A `.winmd` file is an ordinary PE/COR20 image whose text section carries
// only metadata (no IL bodies). This file locates the CLR header inside that
// PE image; metadata_tables.go and signature.go decode what lives inside it.
package metadata

import (
	"encoding/binary"
	"fmt"
)

// peImage is the minimal slice of a PE/COFF image this package needs: enough
// to find the CLR (COR20) header and translate its RVA to a file offset.
// Everything else about the PE container (sections' permissions, relocations,
// imports, resources, ...) is irrelevant to a metadata-only consumer.
type peImage struct {
	data            []byte
	sections        []peSection
	pe32Plus        bool
	clrHeaderOffset uint32
}

type peSection struct {
	virtualAddress uint32
	virtualSize    uint32
	rawOffset      uint32
	rawSize        uint32
}

const (
	dosHeaderSize   = 0x40
	dataDirCOMDescr = 14 // IMAGE_DIRECTORY_ENTRY_COMHEADER
)

func parsePE(data []byte) (*peImage, error) {
	if len(data) < dosHeaderSize || string(data[0:2]) != "MZ" {
		return nil, fmt.Errorf("metadata: not a PE image (missing MZ signature)")
	}
	lfanew := binary.LittleEndian.Uint32(data[0x3c:])
	if int(lfanew)+24 > len(data) {
		return nil, fmt.Errorf("metadata: truncated PE header")
	}
	if string(data[lfanew:lfanew+4]) != "PE\x00\x00" {
		return nil, fmt.Errorf("metadata: missing PE signature")
	}

	coffOff := lfanew + 4
	numSections := binary.LittleEndian.Uint16(data[coffOff+2:])
	optHeaderSize := binary.LittleEndian.Uint16(data[coffOff+16:])
	optHeaderOff := coffOff + 20
	if int(optHeaderOff)+2 > len(data) {
		return nil, fmt.Errorf("metadata: truncated optional header")
	}
	magic := binary.LittleEndian.Uint16(data[optHeaderOff:])
	pe32Plus := magic == 0x20b

	var numDataDirOff uint32
	if pe32Plus {
		numDataDirOff = optHeaderOff + 108
	} else {
		numDataDirOff = optHeaderOff + 92
	}
	numDataDir := binary.LittleEndian.Uint32(data[numDataDirOff:])
	dataDirOff := numDataDirOff + 4

	img := &peImage{data: data, pe32Plus: pe32Plus}

	sectionTableOff := optHeaderOff + uint32(optHeaderSize)
	for i := 0; i < int(numSections); i++ {
		off := sectionTableOff + uint32(i)*40
		if int(off)+40 > len(data) {
			break
		}
		img.sections = append(img.sections, peSection{
			virtualSize:    binary.LittleEndian.Uint32(data[off+8:]),
			virtualAddress: binary.LittleEndian.Uint32(data[off+12:]),
			rawSize:        binary.LittleEndian.Uint32(data[off+16:]),
			rawOffset:      binary.LittleEndian.Uint32(data[off+20:]),
		})
	}

	if dataDirCOMDescr >= int(numDataDir) {
		return nil, fmt.Errorf("metadata: no COM descriptor data directory")
	}
	comDirOff := dataDirOff + dataDirCOMDescr*8
	comRVA := binary.LittleEndian.Uint32(data[comDirOff:])
	comSize := binary.LittleEndian.Uint32(data[comDirOff+4:])
	if comRVA == 0 {
		return nil, fmt.Errorf("metadata: file has no CLR header (not a managed/WinRT image)")
	}

	comOff, err := img.rvaToOffset(comRVA)
	if err != nil {
		return nil, err
	}
	if int(comOff)+int(comSize) > len(data) {
		return nil, fmt.Errorf("metadata: CLR header extends past end of file")
	}

	img.clrHeaderOffset = comOff
	return img, nil
}

func (p *peImage) rvaToOffset(rva uint32) (uint32, error) {
	for _, s := range p.sections {
		if rva >= s.virtualAddress && rva < s.virtualAddress+s.virtualSize {
			return s.rawOffset + (rva - s.virtualAddress), nil
		}
	}
	return 0, fmt.Errorf("metadata: RVA %#x not contained in any section", rva)
}
