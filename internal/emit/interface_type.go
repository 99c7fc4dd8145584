package emit

import (
	"github.com/tswinrt/tswinrt/internal/metadata"
	"github.com/tswinrt/tswinrt/internal/typesystem"
)

// writeInterface renders a WinRT interface as a TypeScript interface:
// property and method signatures only, plus any base interfaces it
// extends.
func writeInterface(w *typeWriter, td *metadata.TypeDef) error {
	name := declaredName(td) + genericParamList(td)

	w.e.RawIndented("export interface " + name)
	writeInheritedTypes(w, td, typesystem.Semantics{Kind: typesystem.KindObject}, true)
	w.e.Raw(guidComment(td))
	w.e.Raw(" {\n")
	w.e.Indent()

	writeProperties(w, td, true)
	writeMethodList(w, td, false)
	writeEventList(w, td, true)

	w.e.Dedent()
	w.e.Line("}")
	return nil
}
