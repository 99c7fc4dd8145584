// Package typesystem turns the raw type signatures the metadata package
// decodes into a normalized, tagged representation: TypeSemantics. Every
// other package downstream (policy, render) works against TypeSemantics,
// never against metadata.Signature directly.
package typesystem

import (
	"errors"
	"fmt"

	"github.com/tswinrt/tswinrt/internal/metadata"
)

// Kind discriminates the variants of Semantics.
type Kind int

const (
	KindFundamental Kind = iota
	KindObject
	KindGuid
	KindTypeMarker
	KindDefinition
	KindGenericParamRef
	KindGenericParamDef
	KindInstance
)

// ErrUnsupported is returned (possibly wrapped) whenever a signature
// carries a generic method type parameter (ELEMENT_TYPE_MVAR). WinRT has
// no generic methods, so this only ever fires on malformed input.
var ErrUnsupported = errors.New("typesystem: unsupported generic method parameter")

// Semantics is the normalized, already-resolved meaning of a type
// reference. Exactly the fields relevant to Kind are populated; the rest
// are zero. Resolving a KindGenericParamRef against the active
// GenericArgStack is the Name Renderer's job, not Of's: Of is a pure,
// context-free structural mapping from a signature to a tagged value.
type Semantics struct {
	Kind Kind

	Fundamental metadata.ElementKind // KindFundamental

	// KindDefinition / KindInstance: the referenced type's identity.
	// Definition is non-nil only when the type was declared in one of the
	// files Cache loaded; an unresolved external reference (a type from an
	// assembly this run never opened) still carries Namespace/Name so the
	// renderer can qualify it, but Definition stays nil.
	Definition *metadata.TypeDef
	Namespace  string
	Name       string

	GenericArgs []Semantics // KindInstance

	// KindGenericParamRef: the ordinal into the enclosing generic scope.
	// KindGenericParamDef: the declared parameter's ordinal and name.
	ParamIndex uint32
	ParamName  string
}

// Of normalizes a decoded signature into Semantics. It never consults a
// GenericArgStack: a Var element always becomes a KindGenericParamRef,
// deferring resolution to whoever is rendering it with scope in hand.
func Of(cache *metadata.Cache, sig metadata.Signature) (Semantics, error) {
	switch sig.Kind {
	case metadata.KindBoolean, metadata.KindChar, metadata.KindI1, metadata.KindU1,
		metadata.KindI2, metadata.KindU2, metadata.KindI4, metadata.KindU4,
		metadata.KindI8, metadata.KindU8, metadata.KindR4, metadata.KindR8,
		metadata.KindString:
		return Semantics{Kind: KindFundamental, Fundamental: sig.Kind}, nil

	case metadata.KindObject:
		return Semantics{Kind: KindObject}, nil

	case metadata.KindClassOrValueType:
		return ofDefinition(cache, sig.Namespace, sig.TypeName, nil), nil

	case metadata.KindVar:
		return Semantics{Kind: KindGenericParamRef, ParamIndex: sig.Index}, nil

	case metadata.KindMVar:
		return Semantics{}, fmt.Errorf("%w: method type parameter #%d", ErrUnsupported, sig.Index)

	case metadata.KindGenericInst:
		args := make([]Semantics, len(sig.GenericArgs))
		for i, a := range sig.GenericArgs {
			arg, err := Of(cache, a)
			if err != nil {
				return Semantics{}, err
			}
			args[i] = arg
		}
		return ofDefinition(cache, sig.GenericNamespace, sig.GenericTypeName, args), nil

	default:
		return Semantics{}, fmt.Errorf("typesystem: unrecognized signature kind %v", sig.Kind)
	}
}

// ofDefinition builds a KindDefinition or KindInstance Semantics (a nil
// args selects Definition), special-casing the class/valuetype names
// WinRT projects as dedicated primitives rather than class references:
// System.Object and System.Attribute both collapse to the Object
// sentinel, System.Guid to Guid, System.Type to TypeMarker.
func ofDefinition(cache *metadata.Cache, namespace, name string, args []Semantics) Semantics {
	if namespace == "System" {
		switch name {
		case "Object", "Attribute":
			return Semantics{Kind: KindObject}
		case "Guid":
			return Semantics{Kind: KindGuid}
		case "Type":
			return Semantics{Kind: KindTypeMarker}
		}
	}

	td, _ := cache.ResolveTypeDef(namespace, name)
	if args == nil {
		return Semantics{Kind: KindDefinition, Definition: td, Namespace: namespace, Name: name}
	}
	return Semantics{Kind: KindInstance, Definition: td, Namespace: namespace, Name: name, GenericArgs: args}
}

// CheckArity validates that a KindInstance's argument count matches its
// Definition's declared generic parameter count, when Definition is known
// (an external/unresolved generic type can't be checked this way).
func (s Semantics) CheckArity() error {
	if s.Kind != KindInstance || s.Definition == nil {
		return nil
	}
	if len(s.GenericArgs) != len(s.Definition.GenericParams) {
		return fmt.Errorf("typesystem: %s.%s expects %d generic argument(s), got %d",
			s.Namespace, s.Name, len(s.Definition.GenericParams), len(s.GenericArgs))
	}
	return nil
}
