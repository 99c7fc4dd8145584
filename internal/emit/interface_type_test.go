package emit

import (
	"strings"
	"testing"

	"github.com/tswinrt/tswinrt/internal/metadata"
)

// A generic interface declares its parameters by name and resolves
// member references to them through the declaration scope WriteType
// pushes — no stack underflow, no backtick in the declaration.
func TestWriteInterface_GenericParameterByDeclaredName(t *testing.T) {
	w := newTestWriter()
	td := &metadata.TypeDef{
		Namespace:     "Contoso.Widgets.Collections",
		Name:          "IWidgetVector`1",
		Flags:         metadata.TypeInterface | metadata.TypeWindowsRuntime,
		GenericParams: []metadata.GenericParam{{Number: 0, Name: "T"}},
		Methods: []metadata.MethodDef{
			{
				Name: "GetAt",
				Signature: metadata.MethodSignature{
					HasReturn:  true,
					ReturnType: metadata.Signature{Kind: metadata.KindVar, Index: 0},
					ParamTypes: []metadata.Signature{{Kind: metadata.KindU4}},
				},
				Params: []metadata.Param{{Sequence: 1, Name: "index"}},
			},
		},
	}

	if err := WriteType(w, td); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := w.e.String()
	if !strings.Contains(out, "export interface IWidgetVector<T> {") {
		t.Errorf("expected a backtick-free generic declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "getAt(index: number): T;") {
		t.Errorf("expected the member to reference T by its declared name, got:\n%s", out)
	}
}

func TestWriteInterface_PropertiesAndMethodsAreSignatureOnly(t *testing.T) {
	w := newTestWriter()
	td := &metadata.TypeDef{
		Namespace: "Contoso.Widgets",
		Name:      "IWidget",
		Flags:     metadata.TypeInterface | metadata.TypeWindowsRuntime,
		Properties: []metadata.Property{
			{
				Name:   "Size",
				Type:   metadata.Signature{Kind: metadata.KindI4},
				Getter: &metadata.MethodDef{Name: "get_Size", Flags: metadata.MethodSpecialName},
			},
		},
		Methods: []metadata.MethodDef{
			{Name: "get_Size", Flags: metadata.MethodSpecialName},
			{Name: "Reset"},
		},
	}

	if err := WriteType(w, td); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := w.e.String()
	if !strings.Contains(out, "readonly size: number;") {
		t.Errorf("expected a readonly property signature, got:\n%s", out)
	}
	if strings.Contains(out, "= null") {
		t.Errorf("expected no initializers on an interface, got:\n%s", out)
	}
	if !strings.Contains(out, "reset(): void;") {
		t.Errorf("expected a bodiless method signature, got:\n%s", out)
	}
	if strings.Contains(out, "not implemented") {
		t.Errorf("expected no stub bodies on an interface, got:\n%s", out)
	}
}

// A nullable property type (IReference`1 in fully-projected position)
// renders as `T | null`, spec §8 scenario 5.
func TestWriteInterface_IReferencePropertyIsNullable(t *testing.T) {
	w := newTestWriter()
	td := &metadata.TypeDef{
		Namespace: "Contoso.Widgets",
		Name:      "IWidget",
		Flags:     metadata.TypeInterface | metadata.TypeWindowsRuntime,
		Properties: []metadata.Property{
			{
				Name: "Timeout",
				Type: metadata.Signature{
					Kind:             metadata.KindGenericInst,
					GenericNamespace: "Windows.Foundation",
					GenericTypeName:  "IReference`1",
					GenericArgs:      []metadata.Signature{{Kind: metadata.KindI4}},
				},
				Getter: &metadata.MethodDef{Name: "get_Timeout", Flags: metadata.MethodSpecialName},
			},
		},
	}

	if err := WriteType(w, td); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(w.e.String(), "readonly timeout: number | null;") {
		t.Errorf("expected a nullable property rendering, got:\n%s", w.e.String())
	}
}
