package metadata

import "fmt"

// ElementKind is the element-type tag of a decoded signature (ECMA-335
// §II.23.1.16), trimmed to the variants WinRT metadata actually uses.
type ElementKind int

const (
	KindBoolean ElementKind = iota
	KindChar
	KindI1
	KindU1
	KindI2
	KindU2
	KindI4
	KindU4
	KindI8
	KindU8
	KindR4
	KindR8
	KindString
	KindObject
	KindClassOrValueType // Token identifies a TypeDef/TypeRef/TypeSpec
	KindVar              // generic type parameter, Index is the declaring type's slot
	KindMVar             // generic method parameter — never projectable
	KindGenericInst
)

// TableKind says which table a TypeDefOrRefOrSpec token names.
type TableKind int

const (
	TableTypeDef TableKind = iota
	TableTypeRef
	TableTypeSpec
)

// TypeDefOrRefToken identifies a row via a coded TypeDefOrRef(OrSpec) index.
type TypeDefOrRefToken struct {
	Table TableKind
	RID   uint32
}

// Signature is a decoded type signature: a field's type, a method's return
// or parameter type, or a generic argument. IsArray mirrors the source
// representation, where array-ness is an orthogonal flag on the signature
// rather than its own Type Semantics variant (spec §3, §4.F method params).
type Signature struct {
	IsArray bool

	Kind  ElementKind
	Token TypeDefOrRefToken // KindClassOrValueType, pre-resolution
	Index uint32            // KindVar / KindMVar

	// Namespace/TypeName are filled in by the hydrator once Token has been
	// traced back to the TypeDef or TypeRef it names (a bare
	// TypeDefOrRefToken is only meaningful within the metadata file that
	// produced it; callers outside this package should use these instead).
	Namespace string
	TypeName  string

	GenericType      TypeDefOrRefToken // KindGenericInst, pre-resolution
	GenericNamespace string
	GenericTypeName  string
	GenericArgs      []Signature // KindGenericInst
}

// MethodSignature is a method's fully decoded shape: its parameter types in
// declaration order and its return type, if it has one (§4.B method_signature).
type MethodSignature struct {
	HasReturn  bool
	ReturnType Signature
	ParamTypes []Signature
}

func elementTableToken(raw uint32) (TypeDefOrRefToken, error) {
	t, rid := decodeTypeDefOrRefOrSpec(raw)
	var kind TableKind
	switch t {
	case tblTypeDef:
		kind = TableTypeDef
	case tblTypeRef:
		kind = TableTypeRef
	case tblTypeSpec:
		kind = TableTypeSpec
	default:
		return TypeDefOrRefToken{}, fmt.Errorf("metadata: signature token does not name a type")
	}
	return TypeDefOrRefToken{Table: kind, RID: rid}, nil
}

// parseSignature decodes one type from a signature blob starting at b[0],
// returning the decoded Signature and the number of bytes consumed.
func parseSignature(b []byte) (Signature, int, error) {
	if len(b) == 0 {
		return Signature{}, 0, fmt.Errorf("metadata: empty type signature")
	}

	var sig Signature
	pos := 0

	// ELEMENT_TYPE_SZARRAY wraps an element type; it's the only array shape
	// WinRT metadata emits (no multi-dimensional ELEMENT_TYPE_ARRAY).
	for pos < len(b) && b[pos] == 0x1d {
		sig.IsArray = true
		pos++
	}

	if pos >= len(b) {
		return Signature{}, 0, fmt.Errorf("metadata: truncated type signature")
	}

	elem := b[pos]
	pos++

	switch elem {
	case 0x02:
		sig.Kind = KindBoolean
	case 0x03:
		sig.Kind = KindChar
	case 0x04:
		sig.Kind = KindI1
	case 0x05:
		sig.Kind = KindU1
	case 0x06:
		sig.Kind = KindI2
	case 0x07:
		sig.Kind = KindU2
	case 0x08:
		sig.Kind = KindI4
	case 0x09:
		sig.Kind = KindU4
	case 0x0A:
		sig.Kind = KindI8
	case 0x0B:
		sig.Kind = KindU8
	case 0x0C:
		sig.Kind = KindR4
	case 0x0D:
		sig.Kind = KindR8
	case 0x0E:
		sig.Kind = KindString
	case 0x1C:
		sig.Kind = KindObject
	case 0x11, 0x12: // VALUETYPE, CLASS
		raw, n, err := readCompressedUint(b[pos:])
		if err != nil {
			return Signature{}, 0, err
		}
		pos += n
		tok, err := elementTableToken(raw)
		if err != nil {
			return Signature{}, 0, err
		}
		sig.Kind = KindClassOrValueType
		sig.Token = tok
	case 0x13: // VAR
		idx, n, err := readCompressedUint(b[pos:])
		if err != nil {
			return Signature{}, 0, err
		}
		pos += n
		sig.Kind = KindVar
		sig.Index = idx
	case 0x1E: // MVAR
		idx, n, err := readCompressedUint(b[pos:])
		if err != nil {
			return Signature{}, 0, err
		}
		pos += n
		sig.Kind = KindMVar
		sig.Index = idx
	case 0x15: // GENERICINST
		if pos >= len(b) {
			return Signature{}, 0, fmt.Errorf("metadata: truncated generic instantiation")
		}
		classOrValue := b[pos]
		pos++
		if classOrValue != 0x11 && classOrValue != 0x12 {
			return Signature{}, 0, fmt.Errorf("metadata: generic instantiation of non-class/valuetype")
		}
		raw, n, err := readCompressedUint(b[pos:])
		if err != nil {
			return Signature{}, 0, err
		}
		pos += n
		tok, err := elementTableToken(raw)
		if err != nil {
			return Signature{}, 0, err
		}
		argCount, n, err := readCompressedUint(b[pos:])
		if err != nil {
			return Signature{}, 0, err
		}
		pos += n
		sig.Kind = KindGenericInst
		sig.GenericType = tok
		sig.GenericArgs = make([]Signature, argCount)
		for i := uint32(0); i < argCount; i++ {
			arg, n, err := parseSignature(b[pos:])
			if err != nil {
				return Signature{}, 0, err
			}
			pos += n
			sig.GenericArgs[i] = arg
		}
	default:
		return Signature{}, 0, fmt.Errorf("metadata: unsupported element type 0x%02x", elem)
	}

	return sig, pos, nil
}

// parseFieldSignature decodes a FieldSig blob (§II.23.2.4): a 0x06
// calling-convention byte followed by the field's type.
func parseFieldSignature(b []byte) (Signature, error) {
	if len(b) == 0 || b[0] != 0x06 {
		return Signature{}, fmt.Errorf("metadata: malformed field signature")
	}
	sig, _, err := parseSignature(b[1:])
	return sig, err
}

// parsePropertySignature decodes a PropertySig blob (§II.23.2.5): a
// calling-convention byte (HASTHIS may be set), a compressed parameter
// count (0 for non-indexed WinRT properties) and the property's type.
func parsePropertySignature(b []byte) (Signature, error) {
	if len(b) == 0 {
		return Signature{}, fmt.Errorf("metadata: empty property signature")
	}
	pos := 1
	paramCount, n, err := readCompressedUint(b[pos:])
	if err != nil {
		return Signature{}, err
	}
	pos += n
	sig, consumed, err := parseSignature(b[pos:])
	if err != nil {
		return Signature{}, err
	}
	pos += consumed
	_ = paramCount // WinRT properties are never indexed; params (if any) are unused
	return sig, nil
}

// parseMethodSignature decodes a MethodDefSig blob (§II.23.2.1): a
// calling-convention byte, compressed parameter count, return type, then
// that many parameter types.
func parseMethodSignature(b []byte) (MethodSignature, error) {
	if len(b) == 0 {
		return MethodSignature{}, fmt.Errorf("metadata: empty method signature")
	}
	pos := 1 // calling convention + HASTHIS flag; irrelevant to projection
	paramCount, n, err := readCompressedUint(b[pos:])
	if err != nil {
		return MethodSignature{}, err
	}
	pos += n

	var ms MethodSignature
	if pos < len(b) && b[pos] == 0x01 { // ELEMENT_TYPE_VOID, only legal as a return type
		pos++
		ms.HasReturn = false
	} else {
		ret, consumed, err := parseSignature(b[pos:])
		if err != nil {
			return MethodSignature{}, err
		}
		pos += consumed
		ms.HasReturn = true
		ms.ReturnType = ret
	}

	ms.ParamTypes = make([]Signature, 0, paramCount)
	for i := uint32(0); i < paramCount; i++ {
		p, n, err := parseSignature(b[pos:])
		if err != nil {
			return MethodSignature{}, err
		}
		pos += n
		ms.ParamTypes = append(ms.ParamTypes, p)
	}
	return ms, nil
}
