package emit

import (
	"sort"
	"strings"

	"github.com/tswinrt/tswinrt/internal/metadata"
	"github.com/tswinrt/tswinrt/internal/policy"
	"github.com/tswinrt/tswinrt/internal/typesystem"
)

// withTypeDef pushes a generic-argument scope when sem is an instance of
// a generic type and invokes fn with the instance's own definition,
// mirroring for_typedef's "peel an instantiation down to its
// declaration" behavior. Unresolved external references (Definition nil)
// are skipped, since there is nothing further to walk into.
func withTypeDef(w *typeWriter, sem typesystem.Semantics, fn func(*metadata.TypeDef)) {
	switch sem.Kind {
	case typesystem.KindDefinition:
		if sem.Definition != nil {
			fn(sem.Definition)
		}
	case typesystem.KindInstance:
		if sem.Definition == nil {
			return
		}
		guard := w.r.Stack.Push(sem.GenericArgs)
		defer guard.Close()
		fn(sem.Definition)
	}
}

// writeInheritedTypes writes the "extends"/"implements" clause shared by
// interfaces and classes. base is the Extends semantics (zero value Kind
// KindObject for "extends nothing", since System.Object/Attribute both
// collapse to KindObject).
func writeInheritedTypes(w *typeWriter, td *metadata.TypeDef, base typesystem.Semantics, isInterface bool) {
	delimiter := " extends "
	write := func(name string) {
		w.e.Raw(delimiter)
		w.e.Raw(name)
		delimiter = ", "
	}

	if base.Kind != typesystem.KindObject {
		write(w.r.Render(base, false))
	}
	if !isInterface {
		delimiter = " implements "
	}

	for _, impl := range td.Interfaces {
		sem := semanticsOf(w.cache, impl.Interface)
		isDefault := impl.IsDefault()
		withTypeDef(w, sem, func(ifaceTD *metadata.TypeDef) {
			if isExclusiveTo(ifaceTD) && !w.opts.IncludeExclusive {
				return
			}
			rendered := w.r.Render(sem, false)
			if isDefault && !isInterface {
				rendered += " /* default */"
			}
			write(rendered)
		})
	}
}

func isExclusiveTo(td *metadata.TypeDef) bool {
	return td.Category() == metadata.CategoryInterface &&
		metadata.HasAttribute(td.Attributes, "Windows.Foundation.Metadata", "ExclusiveToAttribute")
}

// writeProperties renders every declared property. Interface properties
// get no initializer; class properties get "= null" the way the original
// always does, having commented out its own attempt at emitting getter
// bodies directly.
func writeProperties(w *typeWriter, td *metadata.TypeDef, isInterface bool) {
	for _, p := range td.Properties {
		sem := semanticsOf(w.cache, p.Type)
		typeName := w.r.Render(sem, true)
		if p.Type.IsArray {
			typeName += "[]"
		}

		prefix := ""
		if (p.Getter != nil && p.Getter.IsStatic()) || (p.Setter != nil && p.Setter.IsStatic()) {
			prefix = "static "
		}
		if p.Getter != nil && p.Setter == nil {
			prefix += "readonly "
		}

		suffix := ""
		if !isInterface {
			suffix = " = null"
		}

		w.e.Line("%s%s: %s%s;", prefix, policy.NormalizeMember(p.Name), typeName, suffix)
	}
}

// hasConstructors reports whether td declares any `.ctor` method, used to
// decide (alongside ActivatableAttribute) whether a class is a real
// activatable type or a static-only surface (SPEC_FULL.md §5,
// "ActivatableAttribute").
func hasConstructors(td *metadata.TypeDef) bool {
	for i := range td.Methods {
		if td.Methods[i].IsSpecialName() && td.Methods[i].Name == ".ctor" {
			return true
		}
	}
	return false
}

// writeCtors renders constructors (class only). A type with no .ctor
// methods at all gets no constructor member, matching write_ctors's
// early return when both the longest and shortest constructor parameter
// lists are zero length and there were no constructors to sort in the
// first place.
func writeCtors(w *typeWriter, td *metadata.TypeDef) {
	var ctors []*metadata.MethodDef
	for i := range td.Methods {
		m := &td.Methods[i]
		if !m.IsSpecialName() {
			continue
		}
		if m.Name == ".ctor" {
			ctors = append(ctors, m)
		}
	}
	if len(ctors) == 0 {
		return
	}

	sort.SliceStable(ctors, func(i, j int) bool {
		return len(ctors[i].OrderedParams()) < len(ctors[j].OrderedParams())
	})

	single := len(ctors) == 1
	for _, ctor := range ctors {
		params := ctor.OrderedParams()
		prefix := "constructor("
		if !single {
			prefix = "// constructor("
		}
		w.e.RawIndented(prefix)
		for i, p := range params {
			if i > 0 {
				w.e.Raw(", ")
			}
			sem := semanticsOf(w.cache, ctor.Signature.ParamTypes[i])
			w.e.Raw(policy.NormalizeMember(p.Name) + ": " + w.r.Render(sem, true))
		}
		w.e.Raw(")")

		if single {
			w.e.Raw(" {\n")
			w.e.Indent()
			w.e.Line("console.warn('%s.ctor not implemented')", td.Name)
			w.e.Dedent()
			w.e.Line("}")
		} else {
			w.e.Raw(";\n")
		}
	}

	if !single {
		w.e.Line("constructor(...args) { }")
	}
}

// isNoException reports whether m is documented as unable to throw: either
// it carries NoExceptionAttribute directly, or it is a `remove_*` event
// accessor, which the original treats as implicitly no-throw since
// unsubscribing a handler that was never subscribed is defined to be a
// no-op (SPEC_FULL.md §5, "remove_ overload suppression").
func isNoException(m *metadata.MethodDef) bool {
	if m.IsRemoveOverload() {
		return true
	}
	return metadata.HasAttribute(m.Attributes, "Windows.Foundation.Metadata", "NoExceptionAttribute")
}

// writeMethodList renders ordinary (non-special-name) methods.
// includeSignature controls whether a body stub is written (class) or a
// bare signature (interface).
func writeMethodList(w *typeWriter, td *metadata.TypeDef, includeSignature bool) {
	seen := make(map[string]bool)
	for i := range td.Methods {
		m := &td.Methods[i]
		if m.IsSpecialName() {
			continue
		}
		if m.Name == "IndexOf" {
			continue
		}

		returnName, _ := returnTypeName(w, m, outIndexes(m))
		shouldThrow := returnName != "void"

		name := m.Name
		if ov, ok := metadata.Attribute(m.Attributes, "Windows.Foundation.Metadata", "OverloadAttribute"); ok {
			if s, err := metadata.StringArg(ov); err == nil {
				name = s
			}
		}

		methodName := policy.NormalizeMember(name)
		if seen[methodName] {
			w.warnf("%s.%s: overload %q discarded, projected name %q already emitted",
				td.Namespace, td.Name, m.Name, methodName)
			continue
		}
		seen[methodName] = true

		if includeSignature && isNoException(m) {
			w.e.Line("/** @noexcept */")
		}

		prefix := ""
		if m.IsStatic() {
			prefix = "static "
		}

		w.e.RawIndented(prefix + methodName + "(")
		writeParameterList(w, m, false)
		w.e.Raw("): " + returnName)

		if includeSignature {
			w.e.Raw(" {\n")
			w.e.Indent()
			writeMethodBody(w, td, m, methodName, returnName, shouldThrow)
			w.e.Dedent()
			w.e.Line("}")
		} else {
			w.e.Raw(";\n")
		}
	}
}

func writeMethodBody(w *typeWriter, td *metadata.TypeDef, m *metadata.MethodDef, methodName, returnName string, shouldThrow bool) {
	if shape, ok := policy.AsyncReturnShape(returnName); ok {
		w.r.RenderAsyncHelper(shape) // records the import; the call-target name itself is fixed in Expr
		msg := td.Name + "#" + methodName + " not implemented"
		expr := strings.ReplaceAll(shape.Expr, "%s", "'"+msg+"'")
		w.e.Line("return %s;", expr)
		return
	}
	if shouldThrow {
		w.e.Line("throw new Error('%s#%s not implemented')", td.Name, methodName)
		return
	}
	w.e.Line("console.warn('%s#%s not implemented')", td.Name, methodName)
}

// returnTypeName computes a method's TypeScript return type: void, a
// single value, or (when more than one out-parameter/return combination
// exists) a structured object literal type (spec §4.F "Return shape").
func returnTypeName(w *typeWriter, m *metadata.MethodDef, outParams []int) (string, bool) {
	if len(outParams) == 0 {
		if !m.Signature.HasReturn {
			return "void", false
		}
		sem := semanticsOf(w.cache, m.Signature.ReturnType)
		name := w.r.Render(sem, true)
		if m.Signature.ReturnType.IsArray {
			name += "[]"
		}
		return name, true
	}

	if len(outParams) == 1 && !m.Signature.HasReturn {
		idx := outParams[0]
		sem := semanticsOf(w.cache, m.Signature.ParamTypes[idx])
		name := w.r.Render(sem, true)
		if m.Signature.ParamTypes[idx].IsArray {
			name += "[]"
		}
		return name, true
	}

	params := m.OrderedParams()
	var fields []string
	if m.Signature.HasReturn {
		returnName := "returnValue"
		if rp, ok := m.ReturnParam(); ok && rp.Name != "" {
			returnName = rp.Name
		}
		sem := semanticsOf(w.cache, m.Signature.ReturnType)
		t := w.r.Render(sem, true)
		if m.Signature.ReturnType.IsArray {
			t += "[]"
		}
		fields = append(fields, policy.NormalizeMember(returnName)+": "+t)
	}
	for _, idx := range outParams {
		sem := semanticsOf(w.cache, m.Signature.ParamTypes[idx])
		t := w.r.Render(sem, true)
		if m.Signature.ParamTypes[idx].IsArray {
			t += "[]"
		}
		fields = append(fields, policy.NormalizeMember(params[idx].Name)+": "+t)
	}
	return "{ " + strings.Join(fields, ", ") + " }", true
}

// writeParameterList renders the non-out parameters of m, in order,
// skipping the first when skipFirst is set (a delegate's Invoke carries
// its own "this"-like leading sender parameter in some WinRT delegate
// shapes, mirrored from write_parameter_list's skip_first argument).
func writeParameterList(w *typeWriter, m *metadata.MethodDef, skipFirst bool) {
	params := m.OrderedParams()
	first := true
	start := 0
	if skipFirst {
		start = 1
	}
	for i := start; i < len(params); i++ {
		if params[i].IsOut() {
			continue
		}
		if !first {
			w.e.Raw(", ")
		}
		first = false

		sem := semanticsOf(w.cache, m.Signature.ParamTypes[i])
		typeName := w.r.Render(sem, true)
		if m.Signature.ParamTypes[i].IsArray {
			typeName += "[]"
		}
		w.e.Raw(policy.NormalizeMember(params[i].Name) + ": " + typeName)
	}
}

// writeEventList renders declared events: interface members get a plain
// "on<name>: HandlerType" field; class members get a private Set-backed
// listener array plus an "on<name>" setter that subscribes to it, along
// with the shared addEventListener/removeEventListener dispatch pair
// (spec §4.F "Event").
func writeEventList(w *typeWriter, td *metadata.TypeDef, isInterface bool) {
	if len(td.Events) == 0 {
		return
	}

	anyStatic := false
	anyNonStatic := false
	if !isInterface {
		w.e.Blank()
	}

	for _, evt := range td.Events {
		sem := semanticsOf(w.cache, evt.Handler)
		eventTypeName := w.r.Render(sem, false)
		eventName := strings.ToLower(policy.NormalizeMember(evt.Name))
		arrayName := "__" + policy.NormalizeMember(evt.Name)

		isStatic := (evt.Add != nil && evt.Add.IsStatic()) || (evt.Remove != nil && evt.Remove.IsStatic())
		thisStr := "this."
		if isStatic {
			thisStr = td.Name + "."
			anyStatic = true
		} else {
			anyNonStatic = true
		}

		if isInterface {
			w.e.Line("on%s: %s;", eventName, eventTypeName)
			continue
		}

		prefix := "private "
		if isStatic {
			prefix += "static "
		}
		w.e.Line("%s%s: Set<%s> = new Set();", prefix, arrayName, eventTypeName)

		if w.opts.EnableDecorators {
			helper := w.r.ReferenceHelper("Windows.Foundation.Interop", "Enumerable")
			w.e.Line("@%s(true)", helper)
		}

		staticPrefix := ""
		if isStatic {
			staticPrefix = "static "
		}
		w.e.Block("%sset on%s(handler: %s)", staticPrefix, eventName, eventTypeName)
		w.e.Line("%s%s.add(handler);", thisStr, arrayName)
		w.e.EndBlock()
		w.e.Blank()
	}

	if anyNonStatic {
		writeEventListenerFunction(w, td, "add", "add", false, isInterface)
		if !isInterface {
			w.e.Blank()
		}
		writeEventListenerFunction(w, td, "remove", "delete", false, isInterface)
	}
	if anyStatic {
		writeEventListenerFunction(w, td, "static add", "add", true, isInterface)
		if !isInterface {
			w.e.Blank()
		}
		writeEventListenerFunction(w, td, "static remove", "delete", true, isInterface)
	}
}

func writeEventListenerFunction(w *typeWriter, td *metadata.TypeDef, name, method string, doStatic, isInterface bool) {
	w.e.RawIndented(name + "EventListener(name: string, handler: any)")
	if isInterface {
		w.e.Raw("\n")
		return
	}

	w.e.Raw(" {\n")
	w.e.Indent()
	w.e.Block("switch (name)")

	thisStr := "this."
	if doStatic {
		thisStr = td.Name + "."
	}

	for _, evt := range td.Events {
		isStatic := (evt.Add != nil && evt.Add.IsStatic()) || (evt.Remove != nil && evt.Remove.IsStatic())
		if isStatic != doStatic {
			continue
		}
		eventName := strings.ToLower(policy.NormalizeMember(evt.Name))
		arrayName := "__" + policy.NormalizeMember(evt.Name)
		w.e.Line("case '%s':", eventName)
		w.e.Indent()
		w.e.Line("%s%s.%s(handler);", thisStr, arrayName, method)
		w.e.Line("break;")
		w.e.Dedent()
	}

	if !doStatic && td.Extends != nil {
		if base, ok := w.cache.ResolveTypeDef(td.Extends.Namespace, td.Extends.TypeName); ok && len(base.Events) > 0 {
			w.e.Line("default:")
			w.e.Indent()
			w.e.Line("super.%sEventListener(name, handler);", name)
			w.e.Line("break;")
			w.e.Dedent()
		}
	}

	w.e.EndBlock()
	w.e.Dedent()
	w.e.Line("}")
}
