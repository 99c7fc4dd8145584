package emit

import (
	"github.com/tswinrt/tswinrt/internal/metadata"
	"github.com/tswinrt/tswinrt/internal/policy"
	"github.com/tswinrt/tswinrt/internal/typesystem"
)

// writeStruct renders a WinRT struct as a TypeScript interface. Field
// types never get the array suffix even when the underlying signature is
// an szarray, unlike method parameters and return values (spec §4.F
// "Struct").
func writeStruct(w *typeWriter, td *metadata.TypeDef) error {
	w.e.Block("export interface %s", td.Name)
	for _, f := range td.Fields {
		sem := semanticsOf(w.cache, f.Type)
		typeName := w.r.Render(sem, true)

		prefix := ""
		if f.IsStatic() {
			prefix = "static "
		}

		name := policy.NormalizeMember(f.Name)
		if f.Constant != nil && sem.Kind == typesystem.KindGuid {
			w.e.Line("%s%s: %s; /* %s */", prefix, name, typeName, metadata.FormatGUID(f.Constant.GUID()))
		} else {
			w.e.Line("%s%s: %s;", prefix, name, typeName)
		}
	}
	w.e.EndBlock()
	return nil
}
