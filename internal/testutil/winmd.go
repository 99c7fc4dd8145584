// Package testutil provides test fixtures for tswinrt, including a
// hand-built synthetic .winmd image for driving the metadata reader and
// the projection pipeline end to end without a real-world file on disk.
package testutil

import "encoding/binary"

// SyntheticWinmd assembles a minimal but structurally valid PE32/COR20
// image wrapping a hand-built ECMA-335 metadata root. It declares the
// universal "<Module>" pseudo-type every real file carries plus one WinRT
// type, Contoso.Widgets.Gizmo, extending System.Object via a TypeRef,
// inside an assembly named Contoso.Widgets, version 1.0.0.0.
func SyntheticWinmd() []byte {
	// ---- #Strings heap ----
	heap := []byte{0x00}
	strIdx := map[string]uint16{}
	addStr := func(s string) {
		strIdx[s] = uint16(len(heap))
		heap = append(heap, s...)
		heap = append(heap, 0)
	}
	addStr("<Module>")
	addStr("Gizmo")
	addStr("Contoso.Widgets")
	addStr("System")
	addStr("Object")

	// ---- "#~" compressed table stream (ECMA-335 §II.24.2.6) ----
	var ts []byte
	put16 := func(v uint16) { ts = append(ts, byte(v), byte(v>>8)) }
	put32 := func(v uint32) { ts = append(ts, byte(v), byte(v>>8), byte(v>>16), byte(v>>24)) }
	put64 := func(v uint64) { put32(uint32(v)); put32(uint32(v >> 32)) }

	put32(0)                    // Reserved
	ts = append(ts, 2, 0, 0, 1) // MajorVersion, MinorVersion, HeapSizes, Reserved2
	// Valid mask: TypeRef (0x01), TypeDef (0x02), Assembly (0x20).
	valid := uint64(1)<<0x01 | uint64(1)<<0x02 | uint64(1)<<0x20
	put64(valid)
	put64(0) // Sorted

	put32(1) // TypeRef row count
	put32(2) // TypeDef row count
	put32(1) // Assembly row count

	// TypeRef #1: System.Object
	put16(0) // ResolutionScope (never decoded by the reader)
	put16(strIdx["Object"])
	put16(strIdx["System"])

	// TypeDef #1: <Module>, with no base type.
	put32(0) // Flags
	put16(strIdx["<Module>"])
	put16(0) // Namespace (empty string, index 0)
	put16(0) // Extends: null
	put16(1) // FieldList
	put16(1) // MethodList

	// TypeDef #2: Contoso.Widgets.Gizmo, extends TypeRef #1 (System.Object).
	put32(0x00004000) // TypeAttributes.WindowsRuntime
	put16(strIdx["Gizmo"])
	put16(strIdx["Contoso.Widgets"])
	put16(uint16(1<<2 | 1)) // Extends: TypeDefOrRef{tag=TypeRef, rid=1}
	put16(1)                // FieldList
	put16(1)                // MethodList

	// Assembly
	put32(0x8004) // HashAlgId (SHA1)
	put16(1)      // MajorVersion
	put16(0)      // MinorVersion
	put16(0)      // BuildNumber
	put16(0)      // RevisionNumber
	put32(0)      // Flags
	put16(0)      // PublicKey (blob index)
	put16(strIdx["Contoso.Widgets"])
	put16(0) // Culture

	// ---- BSJB metadata root (ECMA-335 §II.24.2.1) ----
	version := append([]byte("WindowsRuntime 1.4"), 0)
	var root []byte
	rput16 := func(v uint16) { root = append(root, byte(v), byte(v>>8)) }
	rput32 := func(v uint32) { root = append(root, byte(v), byte(v>>8), byte(v>>16), byte(v>>24)) }

	root = append(root, "BSJB"...)
	rput16(1) // MajorVersion
	rput16(1) // MinorVersion
	rput32(0) // Reserved
	rput32(uint32(len(version)))
	root = append(root, version...)
	for len(root)%4 != 0 {
		root = append(root, 0)
	}
	rput16(0) // Flags
	rput16(2) // StreamCount

	const tildeNameField = 4    // "#~\0" padded to a 4-byte boundary
	const stringsNameField = 12 // "#Strings\0" padded to a 4-byte boundary
	streamDirSize := uint32(2*8 + tildeNameField + stringsNameField)
	tildeOff := uint32(len(root)) + streamDirSize
	stringsOff := tildeOff + uint32(len(ts))

	rput32(tildeOff)
	rput32(uint32(len(ts)))
	root = append(root, "#~"...)
	root = append(root, 0, 0) // pad 3-byte "#~\0" name to 4 bytes

	rput32(stringsOff)
	rput32(uint32(len(heap)))
	root = append(root, "#Strings"...)
	root = append(root, 0, 0, 0, 0) // pad 9-byte "#Strings\0" name to 12 bytes

	root = append(root, ts...)
	root = append(root, heap...)

	// ---- COR20 (CLR) header (ECMA-335 §II.25.3.3) ----
	const sectionVA = uint32(0x400)
	clr := make([]byte, 72)
	binary.LittleEndian.PutUint32(clr[0:], 72) // cb
	metadataRVA := sectionVA + uint32(len(clr))
	binary.LittleEndian.PutUint32(clr[8:], metadataRVA)
	binary.LittleEndian.PutUint32(clr[12:], uint32(len(root)))

	sectionContent := append(clr, root...)

	// ---- PE/COFF headers, identity-mapped (file offset == RVA) ----
	const lfanew = 0x80
	buf := make([]byte, lfanew)
	buf[0], buf[1] = 'M', 'Z'
	binary.LittleEndian.PutUint32(buf[0x3c:], lfanew)

	buf = append(buf, "PE\x00\x00"...)
	coff := make([]byte, 20)
	binary.LittleEndian.PutUint16(coff[2:], 1) // NumberOfSections
	const optHeaderSize = 224
	binary.LittleEndian.PutUint16(coff[16:], optHeaderSize)
	buf = append(buf, coff...)

	opt := make([]byte, optHeaderSize)
	binary.LittleEndian.PutUint16(opt[0:], 0x10b) // PE32 magic
	binary.LittleEndian.PutUint32(opt[92:], 16)   // NumberOfRvaAndSizes
	comDirOff := 96 + 14*8
	binary.LittleEndian.PutUint32(opt[comDirOff:], sectionVA)                     // COM descriptor RVA
	binary.LittleEndian.PutUint32(opt[comDirOff+4:], uint32(len(sectionContent))) // COM descriptor size
	buf = append(buf, opt...)

	section := make([]byte, 40)
	copy(section[0:8], ".text\x00\x00\x00")
	binary.LittleEndian.PutUint32(section[8:], uint32(len(sectionContent)))  // VirtualSize
	binary.LittleEndian.PutUint32(section[12:], sectionVA)                   // VirtualAddress
	binary.LittleEndian.PutUint32(section[16:], uint32(len(sectionContent))) // SizeOfRawData
	binary.LittleEndian.PutUint32(section[20:], sectionVA)                   // PointerToRawData
	buf = append(buf, section...)

	for uint32(len(buf)) < sectionVA {
		buf = append(buf, 0)
	}
	buf = append(buf, sectionContent...)

	return buf
}
