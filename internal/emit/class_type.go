package emit

import (
	"github.com/tswinrt/tswinrt/internal/metadata"
	"github.com/tswinrt/tswinrt/internal/typesystem"
)

// writeClass renders a WinRT runtime class as a TypeScript class:
// properties with a null initializer, constructors (commented out when
// more than one overload exists, since TypeScript allows only one
// constructor signature to carry a body), ordinary methods with
// not-implemented body stubs, and events.
func writeClass(w *typeWriter, td *metadata.TypeDef) error {
	name := declaredName(td) + genericParamList(td)

	baseSem := typesystem.Semantics{Kind: typesystem.KindObject}
	if td.Extends != nil {
		baseSem = semanticsOf(w.cache, *td.Extends)
	}

	if w.opts.EnableDecorators && w.opts.GenerateShims {
		helper := w.r.ReferenceHelper("Windows.Foundation.Interop", "GenerateShim")
		w.e.Line("@%s('%s.%s')", helper, td.Namespace, td.Name)
	}

	w.e.RawIndented("export class " + name)
	writeInheritedTypes(w, td, baseSem, false)
	w.e.Raw(guidComment(td))
	w.e.Raw(" { \n")
	w.e.Indent()

	if !hasConstructors(td) && !metadata.HasAttribute(td.Attributes, "Windows.Foundation.Metadata", "ActivatableAttribute") {
		w.e.Line("// static-only type: no ActivatableAttribute, no declared constructor")
	}

	writeProperties(w, td, false)
	writeCtors(w, td)
	writeMethodList(w, td, true)
	writeEventList(w, td, false)

	w.e.Dedent()
	w.e.Line("}")
	return nil
}
