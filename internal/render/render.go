// Package render turns typesystem.Semantics into the TypeScript source
// text that names a type, tracking which other declarations get
// referenced along the way so the emitter can build an import section.
package render

import (
	"strings"

	"github.com/tswinrt/tswinrt/internal/metadata"
	"github.com/tswinrt/tswinrt/internal/policy"
	"github.com/tswinrt/tswinrt/internal/typesystem"
)

// Reference records one other declaration a rendered name depended on,
// so the emitter can compute an import statement for it. Namespace/Name
// identify the target; a synthetic async helper carries no Definition.
type Reference struct {
	Namespace string
	Name      string
}

// Renderer names types in the context of a single file being emitted,
// with the generic argument scope currently open (for resolving
// GenericParamRef occurrences). Every Definition/Instance rendered is
// recorded as a reference — one output file per type means even a
// same-namespace sibling needs an import; only the type being emitted
// itself is excluded, by the emitter, at header-write time.
type Renderer struct {
	Cache *metadata.Cache
	Stack *typesystem.GenericArgStack

	imports map[Reference]bool
	order   []Reference
}

// New returns a Renderer for one file's emission.
func New(cache *metadata.Cache, stack *typesystem.GenericArgStack) *Renderer {
	return &Renderer{
		Cache:   cache,
		Stack:   stack,
		imports: make(map[Reference]bool),
	}
}

// Imports returns the references accumulated since the Renderer was
// created, in first-seen order.
func (r *Renderer) Imports() []Reference {
	out := make([]Reference, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Renderer) reference(namespace, name string) {
	ref := Reference{Namespace: namespace, Name: name}
	if r.imports[ref] {
		return
	}
	r.imports[ref] = true
	r.order = append(r.order, ref)
}

var fundamentalNames = map[metadata.ElementKind]string{
	metadata.KindBoolean: "boolean",
	metadata.KindChar:    "string",
	metadata.KindI1:      "number",
	metadata.KindU1:      "number",
	metadata.KindI2:      "number",
	metadata.KindU2:      "number",
	metadata.KindI4:      "number",
	metadata.KindU4:      "number",
	metadata.KindI8:      "number",
	metadata.KindU8:      "number",
	metadata.KindR4:      "number",
	metadata.KindR8:      "number",
	metadata.KindString:  "string",
}

// Render names sem. fullyProjected controls the one case where it
// matters: a KindInstance of IReference`1 renders as `T | null` only
// when fullyProjected is set (field/param/return/property position);
// a plain generic-argument occurrence of IReference`1 (nested inside
// another instantiation) renders as an ordinary qualified generic name.
func (r *Renderer) Render(sem typesystem.Semantics, fullyProjected bool) string {
	switch sem.Kind {
	case typesystem.KindFundamental:
		name, ok := fundamentalNames[sem.Fundamental]
		if !ok {
			return "unknown"
		}
		return name

	case typesystem.KindObject:
		return "any"

	case typesystem.KindGuid:
		return "string"

	case typesystem.KindTypeMarker:
		return "any"

	case typesystem.KindGenericParamDef:
		return sem.ParamName

	case typesystem.KindGenericParamRef:
		// A generic parameter's resolved argument is never itself
		// treated as fully projected — matching generic_type_name,
		// which calls projection_type_name without forwarding the
		// caller's fullyProjected flag.
		resolved, err := r.Stack.Resolve(sem.ParamIndex)
		if err != nil {
			return "unknown"
		}
		return r.Render(resolved, false)

	case typesystem.KindDefinition:
		return r.renderDefinition(sem, fullyProjected)

	case typesystem.KindInstance:
		return r.renderInstance(sem, fullyProjected)
	}
	return "unknown"
}

// renderDefinition names a bare (non-instantiated) type reference: a
// remap-table hit (only ever consulted in a fully-projected context —
// field, parameter, return, property position, never a base type or
// event-type reference), then the qualified/aliased name, with its own
// generic parameter list appended when it declares one (the original's
// type_name always writes the declaring type's own parameter names,
// never an instantiation's arguments, since a bare Definition reference
// can only occur where WinRT itself forbids an open generic — the type's
// own declaration header and its Extends/Interfaces list).
func (r *Renderer) renderDefinition(sem typesystem.Semantics, fullyProjected bool) string {
	if fullyProjected {
		if mapped, ok := policy.Remap(sem.Namespace, sem.Name); ok {
			return mapped
		}
	}
	base := r.bareName(sem.Namespace, sem.Name)
	if sem.Definition == nil || len(sem.Definition.GenericParams) == 0 {
		return base
	}
	params := make([]string, len(sem.Definition.GenericParams))
	for i, gp := range sem.Definition.GenericParams {
		params[i] = gp.Name
	}
	return base + "<" + strings.Join(params, ", ") + ">"
}

// renderInstance names a closed generic instantiation: Name<Arg, ...>,
// with the IReference`1 fully-projected special case (spec §4.E)
// collapsing to `Arg | null` and rendering its own argument with
// fullyProjected forced true, since a value pulled out of an
// IReference<T> is itself a complete, top-level occurrence of T. The
// remap table is never consulted here: a generic instance's own base
// name and its arguments are rendered without forwarding fullyProjected,
// matching generic_type_instance_name, which only special-cases
// IReference and otherwise always writes the qualified generic name.
func (r *Renderer) renderInstance(sem typesystem.Semantics, fullyProjected bool) string {
	if fullyProjected && sem.Namespace == "Windows.Foundation" && sem.Name == "IReference`1" && len(sem.GenericArgs) == 1 {
		inner := r.Render(sem.GenericArgs[0], true)
		return inner + " | null"
	}

	args := make([]string, len(sem.GenericArgs))
	for i, a := range sem.GenericArgs {
		args[i] = r.Render(a, false)
	}
	base := r.bareName(sem.Namespace, sem.Name)
	return base + "<" + strings.Join(args, ", ") + ">"
}

// bareName records an import reference (unless sem lives in the file's
// own namespace) and returns the name's own identifier, stripping the
// backtick-arity suffix WinMD appends to generic type names
// (`IVector`1` -> `IVector`) since the target language spells arity with
// angle brackets rather than a name suffix.
func (r *Renderer) bareName(namespace, name string) string {
	r.reference(namespace, name)
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	return name
}

// ReferenceHelper records an import for a synthetic support type (a
// decorator like GenerateShim or Enumerable) that lives under
// Windows.Foundation.Interop without resolving against loaded metadata,
// and returns its bare identifier.
func (r *Renderer) ReferenceHelper(namespace, name string) string {
	return r.bareName(namespace, name)
}

// RenderAsyncHelper names the synthetic async-support type a method stub
// calls into, recording the corresponding import the same way any other
// cross-namespace reference would be (spec §4.D "Async return shaping").
func (r *Renderer) RenderAsyncHelper(shape policy.AsyncShape) string {
	name := shape.HelperName
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	r.reference(shape.HelperNamespace, shape.HelperName)
	return name
}
