package emit

import (
	"strings"
	"testing"

	"github.com/tswinrt/tswinrt/internal/metadata"
	"github.com/tswinrt/tswinrt/internal/policy"
	"github.com/tswinrt/tswinrt/internal/render"
	"github.com/tswinrt/tswinrt/internal/typesystem"
)

func classDef(methods ...metadata.MethodDef) *metadata.TypeDef {
	return &metadata.TypeDef{
		Namespace: "Contoso.Widgets",
		Name:      "Widget",
		Flags:     metadata.TypeWindowsRuntime,
		Extends:   &metadata.Signature{Kind: metadata.KindClassOrValueType, Namespace: "System", TypeName: "Object"},
		Methods:   methods,
	}
}

func TestWriteClass_SingleCtorGetsBody(t *testing.T) {
	w := newTestWriter()
	td := classDef(
		metadata.MethodDef{
			Flags: metadata.MethodSpecialName | metadata.MethodRTSpecialName,
			Name:  ".ctor",
			Signature: metadata.MethodSignature{
				ParamTypes: []metadata.Signature{{Kind: metadata.KindString}},
			},
			Params: []metadata.Param{{Sequence: 1, Name: "name"}},
		},
		metadata.MethodDef{
			Name: "GetCount",
			Signature: metadata.MethodSignature{
				HasReturn:  true,
				ReturnType: metadata.Signature{Kind: metadata.KindI4},
			},
		},
	)

	if err := WriteType(w, td); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := w.e.String()
	for _, want := range []string{
		"@GenerateShim('Contoso.Widgets.Widget')",
		"export class Widget {",
		"constructor(name: string) {",
		"console.warn('Widget.ctor not implemented')",
		"getCount(): number {",
		"throw new Error('Widget#getCount not implemented')",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in class output, got:\n%s", want, out)
		}
	}

	imports := w.r.Imports()
	found := false
	for _, ref := range imports {
		if ref == (render.Reference{Namespace: "Windows.Foundation.Interop", Name: "GenerateShim"}) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the GenerateShim helper import, got %v", imports)
	}
}

func TestWriteClass_MultipleCtorsCommentedWithFallback(t *testing.T) {
	w := newTestWriter()
	td := classDef(
		metadata.MethodDef{
			Flags: metadata.MethodSpecialName | metadata.MethodRTSpecialName,
			Name:  ".ctor",
			Signature: metadata.MethodSignature{
				ParamTypes: []metadata.Signature{{Kind: metadata.KindI4}, {Kind: metadata.KindString}},
			},
			Params: []metadata.Param{{Sequence: 1, Name: "value"}, {Sequence: 2, Name: "name"}},
		},
		metadata.MethodDef{
			Flags: metadata.MethodSpecialName | metadata.MethodRTSpecialName,
			Name:  ".ctor",
			Signature: metadata.MethodSignature{
				ParamTypes: []metadata.Signature{{Kind: metadata.KindI4}},
			},
			Params: []metadata.Param{{Sequence: 1, Name: "value"}},
		},
	)

	if err := WriteType(w, td); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := w.e.String()
	if !strings.Contains(out, "// constructor(value: number);") {
		t.Errorf("expected the shorter overload commented out, got:\n%s", out)
	}
	if !strings.Contains(out, "// constructor(value: number, name: string);") {
		t.Errorf("expected the longer overload commented out, got:\n%s", out)
	}
	if !strings.Contains(out, "constructor(...args) { }") {
		t.Errorf("expected the variadic fallback constructor, got:\n%s", out)
	}
}

func TestWriteClass_StaticOnlyNoteWithoutCtorOrActivatable(t *testing.T) {
	w := newTestWriter()
	td := classDef(metadata.MethodDef{
		Flags: metadata.MethodStatic,
		Name:  "GetDefault",
		Signature: metadata.MethodSignature{
			HasReturn:  true,
			ReturnType: metadata.Signature{Kind: metadata.KindString},
		},
	})

	if err := WriteType(w, td); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := w.e.String()
	if !strings.Contains(out, "// static-only type") {
		t.Errorf("expected the static-only note, got:\n%s", out)
	}
	if !strings.Contains(out, "static getDefault(): string {") {
		t.Errorf("expected a static method stub, got:\n%s", out)
	}
	if strings.Contains(out, "constructor(") {
		t.Errorf("expected no constructor on a static-only class, got:\n%s", out)
	}
}

func TestWriteClass_PropertiesGetNullInitializer(t *testing.T) {
	w := newTestWriter()
	td := classDef()
	td.Properties = []metadata.Property{
		{
			Name:   "Label",
			Type:   metadata.Signature{Kind: metadata.KindString},
			Getter: &metadata.MethodDef{Name: "get_Label", Flags: metadata.MethodSpecialName},
		},
	}

	if err := WriteType(w, td); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(w.e.String(), "readonly label: string = null;") {
		t.Errorf("expected a readonly null-initialized property, got:\n%s", w.e.String())
	}
}

func TestWriteClass_DecoratorsOff(t *testing.T) {
	cache := &metadata.Cache{}
	stack := typesystem.NewGenericArgStack()
	opts := policy.Default()
	opts.EnableDecorators = false
	w := &typeWriter{cache: cache, opts: opts, r: render.New(cache, stack), e: NewEmitter()}

	td := classDef()
	if err := WriteType(w, td); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(w.e.String(), "@GenerateShim") {
		t.Errorf("expected no decorator when decorators are disabled, got:\n%s", w.e.String())
	}
}
