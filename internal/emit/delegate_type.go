package emit

import (
	"fmt"

	"github.com/tswinrt/tswinrt/internal/metadata"
)

// writeDelegate renders a WinRT delegate as a TypeScript function type
// alias, derived from its sole Invoke method.
func writeDelegate(w *typeWriter, td *metadata.TypeDef) error {
	name := declaredName(td) + genericParamList(td)

	var invoke *metadata.MethodDef
	for i := range td.Methods {
		if td.Methods[i].IsSpecialName() && td.Methods[i].Name == "Invoke" {
			invoke = &td.Methods[i]
			break
		}
	}
	if invoke == nil {
		return fmt.Errorf("emit: delegate %s.%s has no Invoke method", td.Namespace, td.Name)
	}

	returnName, _ := returnTypeName(w, invoke, outIndexes(invoke))

	w.e.RawIndented("export type " + name + " = (")
	writeParameterList(w, invoke, true)
	w.e.Raw(") => " + returnName + ";" + guidComment(td) + "\n")
	return nil
}

func outIndexes(m *metadata.MethodDef) []int {
	var out []int
	for i, p := range m.OrderedParams() {
		if p.IsOut() {
			out = append(out, i)
		}
	}
	return out
}
