package emit

import (
	"github.com/tswinrt/tswinrt/internal/metadata"
	"github.com/tswinrt/tswinrt/internal/policy"
)

// writeEnum renders a WinRT enum as a TypeScript enum, following the
// FlagsAttribute split between decimal ordinal values and hex bitmask
// values (spec §4.F "Enum").
func writeEnum(w *typeWriter, td *metadata.TypeDef) {
	isFlags := metadata.HasAttribute(td.Attributes, "System", "FlagsAttribute")

	w.e.Block("export enum %s", td.Name)
	ordinal := uint32(0)
	for _, f := range td.Fields {
		if f.Constant == nil {
			continue
		}

		name := policy.NormalizeMember(f.Name)
		value := f.Constant.UInt32()
		if !isFlags {
			value = uint32(f.Constant.Int32())
		}

		if value != ordinal || isFlags {
			if isFlags {
				w.e.Line("%s = 0x%x,", name, value)
			} else {
				w.e.Line("%s = %d,", name, int32(value))
			}
		} else {
			w.e.Line("%s,", name)
		}
		ordinal++
	}
	w.e.EndBlock()
}
