package typesystem

import "github.com/tswinrt/tswinrt/internal/metadata"

// FromGenericParam builds the Semantics for a generic type's own
// parameter declaration (the `T` in `interface IVector<T>`), as opposed
// to a reference to it inside a member signature (KindGenericParamRef,
// produced by Of on a Var). Declarations are never resolved through a
// GenericArgStack — they describe the parameter itself, not a use of it.
func FromGenericParam(gp metadata.GenericParam) Semantics {
	return Semantics{Kind: KindGenericParamDef, ParamIndex: uint32(gp.Number), ParamName: gp.Name}
}
