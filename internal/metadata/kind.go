package metadata

// TypeDef flag bits this package inspects (ECMA-335 §II.23.1.15,
// extended with the WinRT-specific bit WinMD itself defines).
const (
	TypeInterface      = 0x00000020
	TypeAbstract       = 0x00000080
	TypeSealed         = 0x00000100
	TypeWindowsRuntime = 0x00004000
)

// MethodDef flag bits (§II.23.1.10).
const (
	MethodStatic        = 0x0010
	MethodSpecialName   = 0x0800
	MethodRTSpecialName = 0x1000
)

// Category is the shape a TypeDef projects as, derived from its Flags and
// Extends rather than stored directly (WinRT metadata has no dedicated
// "kind" column; §II.22.37's TypeDef is the same row shape for every kind
// of type, distinguished only by the Interface flag and by which runtime
// type it extends).
type Category int

const (
	CategoryOther Category = iota
	CategoryEnum
	CategoryStruct
	CategoryInterface
	CategoryClass
	CategoryDelegate
)

// Category classifies td. An interface is any TypeDef with the Interface
// flag set; everything else is a value/reference type distinguished by
// its base type's well-known name (System.Enum, System.ValueType,
// System.MulticastDelegate), falling back to CategoryClass — the same
// default the original get_category gives System.Object/System.Attribute
// descendants and ordinary classes alike.
func (td *TypeDef) Category() Category {
	if td.IsInterface() {
		return CategoryInterface
	}
	if td.Extends == nil {
		return CategoryOther
	}
	if td.Extends.Namespace == "System" {
		switch td.Extends.TypeName {
		case "Enum":
			return CategoryEnum
		case "ValueType":
			return CategoryStruct
		case "MulticastDelegate":
			return CategoryDelegate
		}
	}
	return CategoryClass
}

// IsWindowsRuntime reports whether td carries the WinMD WindowsRuntime flag.
func (td *TypeDef) IsWindowsRuntime() bool { return td.Flags&TypeWindowsRuntime != 0 }

// IsInterface reports the TypeAttributes.Interface bit.
func (td *TypeDef) IsInterface() bool { return td.Flags&TypeInterface != 0 }

// IsAbstract reports the TypeAttributes.Abstract bit (set on a static-only
// WinRT class — a class with no instance surface, only statics).
func (td *TypeDef) IsAbstract() bool { return td.Flags&TypeAbstract != 0 }

// IsStatic reports whether a TypeDef is a static-only class: abstract and
// sealed, declared by the CLR for a class with only static members.
func (td *TypeDef) IsStatic() bool {
	return td.Category() == CategoryClass && td.IsAbstract()
}

// IsStatic reports the MethodAttributes.Static bit.
func (m *MethodDef) IsStatic() bool { return m.Flags&MethodStatic != 0 }

// IsSpecialName reports the MethodAttributes.SpecialName bit (property and
// event accessors, operator overloads).
func (m *MethodDef) IsSpecialName() bool { return m.Flags&MethodSpecialName != 0 }

// IsRTSpecialName reports the MethodAttributes.RTSpecialName bit
// (constructors and other runtime-reserved names).
func (m *MethodDef) IsRTSpecialName() bool { return m.Flags&MethodRTSpecialName != 0 }

// IsConstructor reports whether m is a `.ctor` the runtime itself reserved
// the name for.
func (m *MethodDef) IsConstructor() bool {
	return m.IsRTSpecialName() && m.Name == ".ctor"
}

// IsOut reports the ParamAttributes.Out bit on a Param row.
func (p *Param) IsOut() bool { return p.Flags&ParamOut != 0 }

// IsRemoveOverload reports whether a SpecialName method is a `remove_*`
// event-unsubscribe accessor. These are treated as implicitly no-throw,
// matching the original's is_remove_overload, since unsubscribing from an
// event that was never subscribed to is defined to be a no-op rather than
// an error.
func (m *MethodDef) IsRemoveOverload() bool {
	if !m.IsSpecialName() {
		return false
	}
	return len(m.Name) >= len("remove_") && m.Name[:len("remove_")] == "remove_"
}
