package metadata

import (
	"fmt"
	"sort"
)

// TypeDef is a hydrated row of the TypeDef table: a type's name, its
// namespace, its base type (if any) and the ranges of Field/MethodDef rows
// it owns (ECMA-335 §II.22.37, runs to the next TypeDef's first index).
type TypeDef struct {
	Token     TypeDefOrRefToken
	Flags     uint32
	Name      string
	Namespace string
	Extends   *Signature

	Fields  []Field
	Methods []MethodDef

	GenericParams []GenericParam
	Interfaces    []InterfaceImpl
	Attributes    []CustomAttribute

	Properties []Property
	Events     []Event
}

// Field is a hydrated Field row.
type Field struct {
	RID        uint32
	Flags      uint16
	Name       string
	Type       Signature
	Attributes []CustomAttribute
	Constant   *Constant
}

// Field flag bits (§II.23.1.5) this package inspects.
const (
	FieldStatic = 0x0010
)

// IsStatic reports the FieldAttributes.Static bit.
func (f *Field) IsStatic() bool { return f.Flags&FieldStatic != 0 }

// Constant is a decoded Constant table row (§II.22.9): the raw little-
// endian bytes of an enum member's value, interpreted as signed or
// unsigned 32-bit by the caller depending on whether the owning enum
// carries FlagsAttribute (spec §4.F, "Enum").
type Constant struct {
	Raw []byte
}

// Int32 interprets the constant's raw bytes as a signed 32-bit value.
func (c *Constant) Int32() int32 {
	return int32(c.u32())
}

// UInt32 interprets the constant's raw bytes as an unsigned 32-bit value.
func (c *Constant) UInt32() uint32 {
	return c.u32()
}

func (c *Constant) u32() uint32 {
	var v uint32
	for i := 0; i < len(c.Raw) && i < 4; i++ {
		v |= uint32(c.Raw[i]) << (8 * i)
	}
	return v
}

// GUID interprets the constant's raw bytes as a 16-byte value in the same
// disk-native layout GuidAttribute uses, for struct-valued Guid constants.
func (c *Constant) GUID() [16]byte {
	var out [16]byte
	copy(out[:], c.Raw)
	return out
}

// ReturnParam reports the method's own Sequence-0 Param row, if the
// signature's return value was given an explicit name in metadata (used
// as the structured-return field name in place of the "returnValue"
// default, spec §4.F "Return shape").
func (m *MethodDef) ReturnParam() (Param, bool) {
	for _, p := range m.Params {
		if p.Sequence == 0 {
			return p, true
		}
	}
	return Param{}, false
}

// OrderedParams returns the method's declared (non-return) Param rows in
// declaration order, positionally aligned with Signature.ParamTypes.
func (m *MethodDef) OrderedParams() []Param {
	out := make([]Param, 0, len(m.Params))
	for _, p := range m.Params {
		if p.Sequence != 0 {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// Param flag bits (§II.23.1.13).
const (
	ParamIn         = 0x0001
	ParamOut        = 0x0002
	ParamOptional   = 0x0010
	ParamHasDefault = 0x1000
)

// Param is a hydrated Param row.
type Param struct {
	Flags    uint16
	Sequence uint16
	Name     string
}

// MethodDef is a hydrated MethodDef row, its decoded signature and its
// ordered parameter metadata (sequence 0 is the return value's own Param
// row, when present, and is never part of ParamList).
type MethodDef struct {
	RID        uint32
	Flags      uint16
	ImplFlags  uint16
	Name       string
	Signature  MethodSignature
	Params     []Param
	Attributes []CustomAttribute
}

// Property is a hydrated Property row plus its accessor methods, resolved
// via MethodSemantics.
type Property struct {
	Flags      uint16
	Name       string
	Type       Signature
	Getter     *MethodDef
	Setter     *MethodDef
	Attributes []CustomAttribute
}

// Event is a hydrated Event row plus its accessor methods.
type Event struct {
	Flags      uint16
	Name       string
	Handler    Signature
	Add        *MethodDef
	Remove     *MethodDef
	Attributes []CustomAttribute
}

// InterfaceImpl names one interface a TypeDef implements. Interface is a
// Signature rather than a bare token because WinRT types very commonly
// implement a generic-instantiated interface (IVector<Foo>, IMap<K,V>),
// which is expressed as a TypeSpec, not a plain TypeDef/TypeRef.
type InterfaceImpl struct {
	Interface  Signature
	Attributes []CustomAttribute
}

// IsDefault reports whether this implemented interface carries the
// DefaultAttribute marker identifying it as the type's default COM
// dispatch interface (spec §4.A; SPEC_FULL.md §5 "Default-interface
// dispatch marker").
func (ii InterfaceImpl) IsDefault() bool {
	return HasAttribute(ii.Attributes, "Windows.Foundation.Metadata", "DefaultAttribute")
}

// GenericParam is a hydrated GenericParam row: its ordinal within the
// owning TypeDef or MethodDef's parameter list, and its declared name.
type GenericParam struct {
	Number uint16
	Flags  uint16
	Name   string
}

// CustomAttribute is a hydrated CustomAttribute row: the namespace and name
// of the attribute type it instantiates, and its raw fixed/named-argument
// blob, left undecoded until a caller needs specific argument values.
type CustomAttribute struct {
	Namespace string
	Name      string
	Value     []byte
}

// typeRef is a hydrated TypeRef row: a type named by another module or
// assembly, resolved lazily since WinRT projection only needs a TypeRef's
// own namespace/name, not the assembly it resolves to.
type typeRef struct {
	Namespace string
	Name      string
}

// memberRef is a hydrated MemberRef row: a reference to a member (almost
// always a constructor, for custom attributes) declared on some other type.
type memberRef struct {
	Class TypeDefOrRefToken // memberRefParent, narrowed to TypeDef/TypeRef
	Name  string
}

// hydrate walks every raw table once and produces the typed views above,
// threading Field/Method/Param/GenericParam/InterfaceImpl/CustomAttribute
// ranges back onto their owning TypeDef.
type hydrator struct {
	raw        *rawTables
	heap       *heaps
	typeDefs   []TypeDef
	typeRefs   []typeRef
	memberRefs []memberRef

	methodByRID        map[uint32]*MethodDef
	fieldByRID         map[uint32]*Field
	interfaceImplByRID map[uint32]*InterfaceImpl
	methodOwner        map[uint32]int // MethodDef RID -> index into typeDefs
}

func hydrate(raw *rawTables, heap *heaps) (*hydrator, error) {
	h := &hydrator{
		raw:                raw,
		heap:               heap,
		methodByRID:        make(map[uint32]*MethodDef),
		fieldByRID:         make(map[uint32]*Field),
		interfaceImplByRID: make(map[uint32]*InterfaceImpl),
		methodOwner:        make(map[uint32]int),
	}
	if err := h.readTypeRefs(); err != nil {
		return nil, err
	}
	if err := h.readMemberRefs(); err != nil {
		return nil, err
	}
	if err := h.readTypeDefs(); err != nil {
		return nil, err
	}
	if err := h.attachInterfaceImpls(); err != nil {
		return nil, err
	}
	if err := h.attachGenericParams(); err != nil {
		return nil, err
	}
	if err := h.attachProperties(); err != nil {
		return nil, err
	}
	if err := h.attachEvents(); err != nil {
		return nil, err
	}
	if err := h.attachCustomAttributes(); err != nil {
		return nil, err
	}
	if err := h.attachConstants(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *hydrator) table(id tableID) *table {
	return h.raw.tables[id]
}

func (h *hydrator) str(idx uint32) string {
	s, err := h.heap.string(idx)
	if err != nil {
		return ""
	}
	return s
}

func (h *hydrator) blob(idx uint32) []byte {
	b, err := h.heap.blobBytes(idx)
	if err != nil {
		return nil
	}
	return b
}

func (h *hydrator) readTypeRefs() error {
	t := h.table(tblTypeRef)
	if t == nil {
		return nil
	}
	h.typeRefs = make([]typeRef, t.rowCount())
	for i, row := range t.rows {
		// columns: ResolutionScope, Name, Namespace
		h.typeRefs[i] = typeRef{Name: h.str(row[1]), Namespace: h.str(row[2])}
	}
	return nil
}

func (h *hydrator) readMemberRefs() error {
	t := h.table(tblMemberRef)
	if t == nil {
		return nil
	}
	h.memberRefs = make([]memberRef, t.rowCount())
	for i, row := range t.rows {
		// columns: Class (memberRefParent), Name, Signature
		mr := memberRef{Name: h.str(row[1])}
		target, rid := decodeCoded(memberRefParent, row[0])
		if target == tblTypeDef || target == tblTypeRef {
			tok, err := tokenFromTable(target, rid)
			if err == nil {
				mr.Class = tok
			}
		}
		h.memberRefs[i] = mr
	}
	return nil
}

// attributeDeclaringType resolves a CustomAttributeType coded index (a
// MethodDef or MemberRef naming a constructor) back to the namespace/name
// of the type that constructor belongs to.
func (h *hydrator) attributeDeclaringType(t tableID, rid uint32) (namespace, name string, err error) {
	switch t {
	case tblMethodDef:
		idx, ok := h.methodOwner[rid]
		if !ok || idx < 0 || idx >= len(h.typeDefs) {
			return "", "", fmt.Errorf("metadata: custom attribute constructor MethodDef %d has no owning type", rid)
		}
		td := h.typeDefs[idx]
		return td.Namespace, td.Name, nil
	case tblMemberRef:
		idx := int(rid) - 1
		if idx < 0 || idx >= len(h.memberRefs) {
			return "", "", fmt.Errorf("metadata: MemberRef token %d out of range", rid)
		}
		mr := h.memberRefs[idx]
		if mr.Class == (TypeDefOrRefToken{}) {
			return "", "", fmt.Errorf("metadata: custom attribute constructor MemberRef %d does not name a type", rid)
		}
		return h.resolveTypeName(mr.Class)
	default:
		return "", "", fmt.Errorf("metadata: custom attribute constructor is neither MethodDef nor MemberRef")
	}
}

// resolveTypeName returns the namespace and name a TypeDefOrRefToken
// denotes, consulting TypeDef or TypeRef as appropriate. TypeSpec tokens
// have no simple name (they denote a signature, usually a generic
// instantiation) and are rejected.
func (h *hydrator) resolveTypeName(tok TypeDefOrRefToken) (namespace, name string, err error) {
	switch tok.Table {
	case TableTypeDef:
		idx := int(tok.RID) - 1
		if idx < 0 || idx >= len(h.typeDefs) {
			return "", "", fmt.Errorf("metadata: TypeDef token %d out of range", tok.RID)
		}
		td := h.typeDefs[idx]
		return td.Namespace, td.Name, nil
	case TableTypeRef:
		idx := int(tok.RID) - 1
		if idx < 0 || idx >= len(h.typeRefs) {
			return "", "", fmt.Errorf("metadata: TypeRef token %d out of range", tok.RID)
		}
		tr := h.typeRefs[idx]
		return tr.Namespace, tr.Name, nil
	default:
		return "", "", fmt.Errorf("metadata: token does not name a simple type")
	}
}

// resolveSignature fills in Namespace/TypeName (and, for generic
// instantiations, GenericNamespace/GenericTypeName and each generic
// argument recursively) on a freshly parsed Signature, tracing its raw
// tokens back to the TypeDef/TypeRef/TypeSpec rows that name them.
func (h *hydrator) resolveSignature(sig *Signature) error {
	switch sig.Kind {
	case KindClassOrValueType:
		ns, name, err := h.resolveTypeName(sig.Token)
		if err != nil {
			return err
		}
		sig.Namespace, sig.TypeName = ns, name
	case KindGenericInst:
		ns, name, err := h.resolveTypeName(sig.GenericType)
		if err != nil {
			return err
		}
		sig.GenericNamespace, sig.GenericTypeName = ns, name
		for i := range sig.GenericArgs {
			if err := h.resolveSignature(&sig.GenericArgs[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveCodedTypeRef decodes a raw TypeDefOrRef(OrSpec) coded-index value
// (as found in TypeDef.Extends, InterfaceImpl.Interface and Event.Handler)
// into a Signature. A TypeSpec target is parsed as a signature blob in its
// own right (this is how a class expresses "implements IVector<Foo>"); a
// TypeDef/TypeRef target becomes a resolved KindClassOrValueType Signature.
func (h *hydrator) resolveCodedTypeRef(raw uint32) (Signature, error) {
	target, rid := decodeCoded(typeDefOrRef, raw)
	switch target {
	case tblTypeSpec:
		t := h.table(tblTypeSpec)
		if t == nil || int(rid) < 1 || int(rid) > t.rowCount() {
			return Signature{}, fmt.Errorf("metadata: TypeSpec token %d out of range", rid)
		}
		blob := h.blob(t.rows[rid-1][0])
		sig, _, err := parseSignature(blob)
		if err != nil {
			return Signature{}, fmt.Errorf("metadata: TypeSpec %d: %w", rid, err)
		}
		if err := h.resolveSignature(&sig); err != nil {
			return Signature{}, err
		}
		return sig, nil
	case tblTypeDef, tblTypeRef:
		tok, err := tokenFromTable(target, rid)
		if err != nil {
			return Signature{}, err
		}
		ns, name, err := h.resolveTypeName(tok)
		if err != nil {
			return Signature{}, err
		}
		return Signature{Kind: KindClassOrValueType, Token: tok, Namespace: ns, TypeName: name}, nil
	default:
		return Signature{}, fmt.Errorf("metadata: coded type reference does not resolve to a type")
	}
}

func (h *hydrator) readTypeDefs() error {
	t := h.table(tblTypeDef)
	if t == nil {
		return fmt.Errorf("metadata: file has no TypeDef table")
	}
	fieldTab := h.table(tblField)
	methodTab := h.table(tblMethodDef)
	paramTab := h.table(tblParam)

	n := t.rowCount()
	h.typeDefs = make([]TypeDef, n)

	// Name/Namespace are filled in a first pass so resolveCodedTypeRef (used
	// below for Extends, and later for InterfaceImpl/Event) can look up any
	// TypeDef target regardless of its row's position relative to the
	// current one.
	for i, row := range t.rows {
		h.typeDefs[i].Token = TypeDefOrRefToken{Table: TableTypeDef, RID: uint32(i + 1)}
		h.typeDefs[i].Flags = row[0]
		h.typeDefs[i].Name = h.str(row[1])
		h.typeDefs[i].Namespace = h.str(row[2])
	}

	fieldStart := func(i int) uint32 {
		if i >= n {
			return uint32(fieldTab.rowCount()) + 1
		}
		return t.rows[i][4]
	}
	methodStart := func(i int) uint32 {
		if i >= n {
			return uint32(methodTab.rowCount()) + 1
		}
		return t.rows[i][5]
	}
	paramStart := func(i int) uint32 {
		if i >= methodTab.rowCount() {
			if paramTab == nil {
				return 1
			}
			return uint32(paramTab.rowCount()) + 1
		}
		return methodTab.rows[i][5]
	}

	for i, row := range t.rows {
		td := h.typeDefs[i]
		if target, _ := decodeCoded(typeDefOrRef, row[3]); target != tblNone {
			sig, err := h.resolveCodedTypeRef(row[3])
			if err != nil {
				return err
			}
			td.Extends = &sig
		}

		if fieldTab != nil {
			lo, hi := fieldStart(i), fieldStart(i+1)
			// Pre-sized so the RID->*Field pointers taken below survive:
			// a growing slice would reallocate and strand earlier pointers.
			td.Fields = make([]Field, 0, hi-lo)
			for fi := lo; fi < hi; fi++ {
				f, err := h.readField(fieldTab, fi)
				if err != nil {
					return err
				}
				td.Fields = append(td.Fields, f)
			}
		}

		if methodTab != nil {
			lo, hi := methodStart(i), methodStart(i+1)
			td.Methods = make([]MethodDef, 0, hi-lo)
			for mi := lo; mi < hi; mi++ {
				m, err := h.readMethod(methodTab, mi, paramStart(int(mi)-1), paramStart(int(mi)))
				if err != nil {
					return err
				}
				td.Methods = append(td.Methods, m)
			}
		}

		h.typeDefs[i] = td
		for fi, fld := range h.typeDefs[i].Fields {
			h.fieldByRID[fld.RID] = &h.typeDefs[i].Fields[fi]
		}
		for mi, m := range h.typeDefs[i].Methods {
			h.methodByRID[m.RID] = &h.typeDefs[i].Methods[mi]
			h.methodOwner[m.RID] = i
		}
	}
	return nil
}

func tokenFromTable(t tableID, rid uint32) (TypeDefOrRefToken, error) {
	switch t {
	case tblTypeDef:
		return TypeDefOrRefToken{Table: TableTypeDef, RID: rid}, nil
	case tblTypeRef:
		return TypeDefOrRefToken{Table: TableTypeRef, RID: rid}, nil
	case tblTypeSpec:
		return TypeDefOrRefToken{Table: TableTypeSpec, RID: rid}, nil
	default:
		return TypeDefOrRefToken{}, fmt.Errorf("metadata: coded index does not resolve to a type table")
	}
}

func (h *hydrator) readField(t *table, rid uint32) (Field, error) {
	row := t.rows[rid-1]
	sig, err := parseFieldSignature(h.blob(row[2]))
	if err != nil {
		return Field{}, fmt.Errorf("metadata: field %q: %w", h.str(row[1]), err)
	}
	if err := h.resolveSignature(&sig); err != nil {
		return Field{}, fmt.Errorf("metadata: field %q: %w", h.str(row[1]), err)
	}
	return Field{
		RID:   rid,
		Flags: uint16(row[0]),
		Name:  h.str(row[1]),
		Type:  sig,
	}, nil
}

func (h *hydrator) readMethod(t *table, rid, paramLo, paramHi uint32) (MethodDef, error) {
	row := t.rows[rid-1]
	name := h.str(row[3])
	sig, err := parseMethodSignature(h.blob(row[4]))
	if err != nil {
		return MethodDef{}, fmt.Errorf("metadata: method %q: %w", name, err)
	}
	if sig.HasReturn {
		if err := h.resolveSignature(&sig.ReturnType); err != nil {
			return MethodDef{}, fmt.Errorf("metadata: method %q return type: %w", name, err)
		}
	}
	for i := range sig.ParamTypes {
		if err := h.resolveSignature(&sig.ParamTypes[i]); err != nil {
			return MethodDef{}, fmt.Errorf("metadata: method %q parameter %d: %w", name, i, err)
		}
	}

	m := MethodDef{
		RID:       rid,
		ImplFlags: uint16(row[1]),
		Flags:     uint16(row[2]),
		Name:      name,
		Signature: sig,
	}

	paramTab := h.table(tblParam)
	if paramTab != nil {
		for pi := paramLo; pi < paramHi; pi++ {
			if pi < 1 || int(pi) > paramTab.rowCount() {
				continue
			}
			prow := paramTab.rows[pi-1]
			m.Params = append(m.Params, Param{
				Flags:    uint16(prow[0]),
				Sequence: uint16(prow[1]),
				Name:     h.str(prow[2]),
			})
		}
	}
	return m, nil
}

func (h *hydrator) attachInterfaceImpls() error {
	t := h.table(tblInterfaceImpl)
	if t == nil {
		return nil
	}

	// Two passes: the owner of each row is known up front, so the
	// per-TypeDef slice can be pre-sized before any pointer into it is
	// taken (a growing slice would reallocate and strand the RID->pointer
	// map used to attach DefaultAttribute custom attributes below).
	owners := make([]int, len(t.rows))
	counts := make(map[int]int)
	for ri, row := range t.rows {
		owners[ri] = -1
		if target, _ := decodeCoded(typeDefOrRef, row[1]); target == tblNone {
			continue
		}
		idx := int(row[0]) - 1
		if idx < 0 || idx >= len(h.typeDefs) {
			continue
		}
		owners[ri] = idx
		counts[idx]++
	}
	for idx, n := range counts {
		h.typeDefs[idx].Interfaces = make([]InterfaceImpl, 0, n)
	}

	for ri, row := range t.rows {
		idx := owners[ri]
		if idx < 0 {
			continue
		}
		sig, err := h.resolveCodedTypeRef(row[1])
		if err != nil {
			return err
		}
		h.typeDefs[idx].Interfaces = append(h.typeDefs[idx].Interfaces, InterfaceImpl{Interface: sig})
		rid := uint32(ri + 1)
		last := &h.typeDefs[idx].Interfaces[len(h.typeDefs[idx].Interfaces)-1]
		h.interfaceImplByRID[rid] = last
	}
	return nil
}

func (h *hydrator) attachGenericParams() error {
	t := h.table(tblGenericParam)
	if t == nil {
		return nil
	}
	for _, row := range t.rows {
		owner, rid := decodeCoded(typeOrMethodDef, row[2])
		gp := GenericParam{Number: uint16(row[0]), Flags: uint16(row[1]), Name: h.str(row[3])}
		if owner == tblTypeDef {
			idx := int(rid) - 1
			if idx >= 0 && idx < len(h.typeDefs) {
				h.typeDefs[idx].GenericParams = append(h.typeDefs[idx].GenericParams, gp)
			}
		}
		// Generic methods (owner == tblMethodDef) do not occur in WinRT
		// metadata; WinRT generics are always interface/delegate-level.
	}
	return nil
}

func (h *hydrator) attachProperties() error {
	mapTab := h.table(tblPropertyMap)
	propTab := h.table(tblProperty)
	if mapTab == nil || propTab == nil {
		return nil
	}
	semantics := h.table(tblMethodSemantics)

	for i, row := range mapTab.rows {
		typeRID := row[0]
		lo := row[1]
		var hi uint32
		if i+1 < len(mapTab.rows) {
			hi = mapTab.rows[i+1][1]
		} else {
			hi = uint32(propTab.rowCount()) + 1
		}
		idx := int(typeRID) - 1
		if idx < 0 || idx >= len(h.typeDefs) {
			continue
		}
		for pi := lo; pi < hi; pi++ {
			prow := propTab.rows[pi-1]
			sig, err := parsePropertySignature(h.blob(prow[2]))
			if err != nil {
				return fmt.Errorf("metadata: property %q: %w", h.str(prow[1]), err)
			}
			if err := h.resolveSignature(&sig); err != nil {
				return fmt.Errorf("metadata: property %q: %w", h.str(prow[1]), err)
			}
			prop := Property{Flags: uint16(prow[0]), Name: h.str(prow[1]), Type: sig}

			if semantics != nil {
				for _, srow := range semantics.rows {
					target, rid := decodeCoded(hasSemantics, srow[2])
					if target != tblProperty || rid != pi {
						continue
					}
					m := h.methodByRID[srow[1]]
					switch srow[0] {
					case 0x0001: // Setter
						prop.Setter = m
					case 0x0002: // Getter
						prop.Getter = m
					}
				}
			}
			h.typeDefs[idx].Properties = append(h.typeDefs[idx].Properties, prop)
		}
	}
	return nil
}

func (h *hydrator) attachEvents() error {
	mapTab := h.table(tblEventMap)
	evTab := h.table(tblEvent)
	if mapTab == nil || evTab == nil {
		return nil
	}
	semantics := h.table(tblMethodSemantics)

	for i, row := range mapTab.rows {
		typeRID := row[0]
		lo := row[1]
		var hi uint32
		if i+1 < len(mapTab.rows) {
			hi = mapTab.rows[i+1][1]
		} else {
			hi = uint32(evTab.rowCount()) + 1
		}
		idx := int(typeRID) - 1
		if idx < 0 || idx >= len(h.typeDefs) {
			continue
		}
		for ei := lo; ei < hi; ei++ {
			erow := evTab.rows[ei-1]
			var handler Signature
			if target, _ := decodeCoded(typeDefOrRef, erow[2]); target != tblNone {
				sig, err := h.resolveCodedTypeRef(erow[2])
				if err != nil {
					return err
				}
				handler = sig
			}
			ev := Event{Flags: uint16(erow[0]), Name: h.str(erow[1]), Handler: handler}

			if semantics != nil {
				for _, srow := range semantics.rows {
					target, rid := decodeCoded(hasSemantics, srow[2])
					if target != tblEvent || rid != ei {
						continue
					}
					m := h.methodByRID[srow[1]]
					switch srow[0] {
					case 0x0008: // AddOn
						ev.Add = m
					case 0x0010: // RemoveOn
						ev.Remove = m
					}
				}
			}
			h.typeDefs[idx].Events = append(h.typeDefs[idx].Events, ev)
		}
	}
	return nil
}

// attachConstants reads the Constant table (§II.22.9) and attaches each
// row's decoded value to the Field it belongs to; WinRT only ever places
// constants on enum member fields.
func (h *hydrator) attachConstants() error {
	t := h.table(tblConstant)
	if t == nil {
		return nil
	}
	for _, row := range t.rows {
		parentTable, parentRID := decodeCoded(hasConstant, row[1])
		if parentTable != tblField {
			continue
		}
		f := h.fieldByRID[parentRID]
		if f == nil {
			continue
		}
		f.Constant = &Constant{Raw: h.blob(row[2])}
	}
	return nil
}

func (h *hydrator) attachCustomAttributes() error {
	t := h.table(tblCustomAttribute)
	if t == nil {
		return nil
	}
	for _, row := range t.rows {
		parentTable, parentRID := decodeCoded(hasCustomAttribute, row[0])
		ctorTable, ctorRID := decodeCoded(customAttributeType, row[1])
		if ctorTable == tblNone {
			continue
		}
		ns, name, err := h.attributeDeclaringType(ctorTable, ctorRID)
		if err != nil {
			// A constructor this package can't trace back to a declaring
			// type (e.g. a ModuleRef- or TypeSpec-parented MemberRef)
			// just means the attribute is unrecognizable; skip it rather
			// than failing the whole file.
			continue
		}
		ca := CustomAttribute{Namespace: ns, Name: name, Value: h.blob(row[2])}

		switch parentTable {
		case tblTypeDef:
			idx := int(parentRID) - 1
			if idx >= 0 && idx < len(h.typeDefs) {
				h.typeDefs[idx].Attributes = append(h.typeDefs[idx].Attributes, ca)
			}
		case tblField:
			if f := h.fieldByRID[parentRID]; f != nil {
				f.Attributes = append(f.Attributes, ca)
			}
		case tblMethodDef:
			if m := h.methodByRID[parentRID]; m != nil {
				m.Attributes = append(m.Attributes, ca)
			}
		case tblInterfaceImpl:
			if ii := h.interfaceImplByRID[parentRID]; ii != nil {
				ii.Attributes = append(ii.Attributes, ca)
			}
		case tblProperty, tblEvent, tblParam:
			// Attached directly on the already-built Property/Event/Param
			// slices would require a second index pass; WinRT projection
			// only reads custom attributes on types, fields and methods, so
			// these are intentionally not collected.
		}
	}
	return nil
}
