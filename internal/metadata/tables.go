package metadata

import (
	"encoding/binary"
	"fmt"
)

// tableID identifies one of the ECMA-335 metadata tables (§II.22). Only the
// subset WinRT projection actually reads is given a schema in tableSchemas;
// anything else present in a file is a parse error (see readTableStream).
type tableID int

// tblNone marks an unused slot in a coded-index table list (a tag value
// WinRT metadata never actually produces, such as HasCustomAttribute's
// Permission/StandAloneSig/File/ExportedType/ManifestResource slots).
const tblNone tableID = -1

const (
	tblModule                 tableID = 0x00
	tblTypeRef                tableID = 0x01
	tblTypeDef                tableID = 0x02
	tblField                  tableID = 0x04
	tblMethodDef              tableID = 0x06
	tblParam                  tableID = 0x08
	tblInterfaceImpl          tableID = 0x09
	tblMemberRef              tableID = 0x0A
	tblConstant               tableID = 0x0B
	tblCustomAttribute        tableID = 0x0C
	tblEventMap               tableID = 0x12
	tblEvent                  tableID = 0x14
	tblPropertyMap            tableID = 0x15
	tblProperty               tableID = 0x17
	tblMethodSemantics        tableID = 0x18
	tblModuleRef              tableID = 0x1A
	tblTypeSpec               tableID = 0x1B
	tblAssembly               tableID = 0x20
	tblAssemblyRef            tableID = 0x23
	tblNestedClass            tableID = 0x29
	tblGenericParam           tableID = 0x2A
	tblMethodSpec             tableID = 0x2B
	tblGenericParamConstraint tableID = 0x2C
)

const maxTableID = 0x2C

// colKind says how to decode one column of a table row.
type colKind int

const (
	colU16 colKind = iota
	colU32
	colString
	colGUID
	colBlob
	colSimple // RID into a single table
	colCoded  // tagged index into a fixed set of tables
)

type colSpec struct {
	kind  colKind
	table tableID        // colSimple
	coded codedIndexKind // colCoded
}

// codedIndexKind is one of ECMA-335 §II.24.2.6's tagged-union index shapes:
// the low `tagBits` bits select a table from `tables`, the rest is the RID.
type codedIndexKind struct {
	tagBits uint
	tables  []tableID
}

var (
	typeDefOrRef        = codedIndexKind{2, []tableID{tblTypeDef, tblTypeRef, tblTypeSpec}}
	hasConstant         = codedIndexKind{2, []tableID{tblField, tblParam, tblProperty}}
	hasCustomAttribute  = codedIndexKind{5, []tableID{tblMethodDef, tblField, tblTypeRef, tblTypeDef, tblParam, tblInterfaceImpl, tblMemberRef, tblModule, tblNone /* Permission */, tblProperty, tblEvent, tblNone /* StandAloneSig */, tblModuleRef, tblTypeSpec, tblAssembly, tblAssemblyRef, tblNone /* File */, tblNone /* ExportedType */, tblNone /* ManifestResource */, tblGenericParam, tblGenericParamConstraint, tblMethodSpec}}
	memberRefParent     = codedIndexKind{3, []tableID{tblTypeDef, tblTypeRef, tblModuleRef, tblMethodDef, tblTypeSpec}}
	hasSemantics        = codedIndexKind{1, []tableID{tblEvent, tblProperty}}
	methodDefOrRef      = codedIndexKind{1, []tableID{tblMethodDef, tblMemberRef}}
	customAttributeType = codedIndexKind{3, []tableID{tblNone, tblNone, tblMethodDef, tblMemberRef, tblNone}}
	typeOrMethodDef     = codedIndexKind{1, []tableID{tblTypeDef, tblMethodDef}}
)

// tableSchemas lists, in file order, the columns of every table this package
// is able to read. Row layouts are fixed by ECMA-335 §II.22; ports of this
// reader for a new table only ever need to add an entry here.
var tableSchemas = map[tableID][]colSpec{
	tblModule:                 {{kind: colU16}, {kind: colString}, {kind: colGUID}, {kind: colGUID}, {kind: colGUID}},
	tblTypeRef:                {{kind: colCoded, coded: resolutionScope}, {kind: colString}, {kind: colString}},
	tblTypeDef:                {{kind: colU32}, {kind: colString}, {kind: colString}, {kind: colCoded, coded: typeDefOrRef}, {kind: colSimple, table: tblField}, {kind: colSimple, table: tblMethodDef}},
	tblField:                  {{kind: colU16}, {kind: colString}, {kind: colBlob}},
	tblMethodDef:              {{kind: colU32}, {kind: colU16}, {kind: colU16}, {kind: colString}, {kind: colBlob}, {kind: colSimple, table: tblParam}},
	tblParam:                  {{kind: colU16}, {kind: colU16}, {kind: colString}},
	tblInterfaceImpl:          {{kind: colSimple, table: tblTypeDef}, {kind: colCoded, coded: typeDefOrRef}},
	tblMemberRef:              {{kind: colCoded, coded: memberRefParent}, {kind: colString}, {kind: colBlob}},
	tblConstant:               {{kind: colU16}, {kind: colCoded, coded: hasConstant}, {kind: colBlob}},
	tblCustomAttribute:        {{kind: colCoded, coded: hasCustomAttribute}, {kind: colCoded, coded: customAttributeType}, {kind: colBlob}},
	tblEventMap:               {{kind: colSimple, table: tblTypeDef}, {kind: colSimple, table: tblEvent}},
	tblEvent:                  {{kind: colU16}, {kind: colString}, {kind: colCoded, coded: typeDefOrRef}},
	tblPropertyMap:            {{kind: colSimple, table: tblTypeDef}, {kind: colSimple, table: tblProperty}},
	tblProperty:               {{kind: colU16}, {kind: colString}, {kind: colBlob}},
	tblMethodSemantics:        {{kind: colU16}, {kind: colSimple, table: tblMethodDef}, {kind: colCoded, coded: hasSemantics}},
	tblModuleRef:              {{kind: colString}},
	tblTypeSpec:               {{kind: colBlob}},
	tblAssembly:               {{kind: colU32}, {kind: colU16}, {kind: colU16}, {kind: colU16}, {kind: colU16}, {kind: colU32}, {kind: colBlob}, {kind: colString}, {kind: colString}},
	tblAssemblyRef:            {{kind: colU16}, {kind: colU16}, {kind: colU16}, {kind: colU16}, {kind: colU32}, {kind: colBlob}, {kind: colString}, {kind: colString}, {kind: colBlob}},
	tblNestedClass:            {{kind: colSimple, table: tblTypeDef}, {kind: colSimple, table: tblTypeDef}},
	tblGenericParam:           {{kind: colU16}, {kind: colU16}, {kind: colCoded, coded: typeOrMethodDef}, {kind: colString}},
	tblMethodSpec:             {{kind: colCoded, coded: methodDefOrRef}, {kind: colBlob}},
	tblGenericParamConstraint: {{kind: colSimple, table: tblGenericParam}, {kind: colCoded, coded: typeDefOrRef}},
}

var resolutionScope = codedIndexKind{2, []tableID{tblModule, tblModuleRef, tblAssemblyRef, tblTypeRef}}

// table holds the decoded rows of one metadata table. Every column is
// widened to uint32 regardless of its on-disk width (2 or 4 bytes); string,
// blob and GUID columns hold heap offsets/indices to be resolved on demand.
type table struct {
	rows [][]uint32
}

func (t *table) rowCount() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// rawTables decodes the "#~" table stream header and every row of every
// table it describes, per ECMA-335 §II.24.2.6.
type rawTables struct {
	tables        map[tableID]*table
	stringIdxSize uint32
	guidIdxSize   uint32
	blobIdxSize   uint32
}

func readTableStream(data []byte) (*rawTables, error) {
	if len(data) < 24 {
		return nil, fmt.Errorf("metadata: truncated table stream header")
	}
	heapSizes := data[6]
	rt := &rawTables{
		tables:        make(map[tableID]*table),
		stringIdxSize: heapIdxSize(heapSizes, 0x01),
		guidIdxSize:   heapIdxSize(heapSizes, 0x02),
		blobIdxSize:   heapIdxSize(heapSizes, 0x04),
	}
	valid := binary.LittleEndian.Uint64(data[8:])

	off := uint32(24)
	rowCounts := make(map[tableID]uint32)
	var present []tableID
	for id := tableID(0); id <= maxTableID; id++ {
		if valid&(1<<uint(id)) == 0 {
			continue
		}
		if int(off)+4 > len(data) {
			return nil, fmt.Errorf("metadata: truncated row-count vector")
		}
		rowCounts[id] = binary.LittleEndian.Uint32(data[off:])
		off += 4
		present = append(present, id)
	}

	simpleIdxSize := func(t tableID) uint32 {
		if rowCounts[t] >= 1<<16 {
			return 4
		}
		return 2
	}
	codedIdxSize := func(c codedIndexKind) uint32 {
		threshold := uint32(1) << (16 - c.tagBits)
		for _, t := range c.tables {
			if t == tblNone {
				continue
			}
			if rowCounts[t] >= threshold {
				return 4
			}
		}
		return 2
	}
	colSize := func(c colSpec) uint32 {
		switch c.kind {
		case colU16:
			return 2
		case colU32:
			return 4
		case colString:
			return rt.stringIdxSize
		case colGUID:
			return rt.guidIdxSize
		case colBlob:
			return rt.blobIdxSize
		case colSimple:
			return simpleIdxSize(c.table)
		case colCoded:
			return codedIdxSize(c.coded)
		}
		panic("metadata: unreachable column kind")
	}

	for _, id := range present {
		schema, ok := tableSchemas[id]
		if !ok {
			return nil, fmt.Errorf("metadata: unsupported metadata table 0x%02x present in file", id)
		}
		n := int(rowCounts[id])
		tab := &table{rows: make([][]uint32, n)}
		for i := 0; i < n; i++ {
			row := make([]uint32, len(schema))
			for ci, c := range schema {
				size := colSize(c)
				var v uint32
				if size == 2 {
					if int(off)+2 > len(data) {
						return nil, fmt.Errorf("metadata: truncated row in table 0x%02x", id)
					}
					v = uint32(binary.LittleEndian.Uint16(data[off:]))
				} else {
					if int(off)+4 > len(data) {
						return nil, fmt.Errorf("metadata: truncated row in table 0x%02x", id)
					}
					v = binary.LittleEndian.Uint32(data[off:])
				}
				off += size
				row[ci] = v
			}
			tab.rows[i] = row
		}
		rt.tables[id] = tab
	}

	return rt, nil
}

func heapIdxSize(heapSizes byte, bit byte) uint32 {
	if heapSizes&bit != 0 {
		return 4
	}
	return 2
}

// decodeCoded splits a coded-index value into its target table and 1-based
// row index, or (tblNone, 0) if the tag selects an unsupported table or the
// row index is 0. Row index 0 is never a valid row in any metadata table
// (rows are 1-based), so per ECMA-335 it always means "no reference" —
// e.g. every <Module> pseudo-type and every interface TypeDef encodes its
// absent base type this way.
func decodeCoded(c codedIndexKind, value uint32) (tableID, uint32) {
	tagMask := uint32(1)<<c.tagBits - 1
	tag := value & tagMask
	rid := value >> c.tagBits
	if rid == 0 || int(tag) >= len(c.tables) || c.tables[tag] == tblNone {
		return tblNone, 0
	}
	return c.tables[tag], rid
}
