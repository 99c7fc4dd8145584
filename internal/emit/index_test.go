package emit

import (
	"path/filepath"
	"testing"

	"github.com/tswinrt/tswinrt/internal/metadata"
	"github.com/tswinrt/tswinrt/internal/render"
)

func TestImportSpecifierFor_SameAssemblyRelativePath(t *testing.T) {
	outDir := filepath.Join("out", "Contoso.Widgets")
	spec := importSpecifierFor("Contoso.Widgets", "Contoso.Widgets.Collections", "IWidgetVector", outDir)
	want := "./Contoso/Widgets/Collections/IWidgetVector"
	if spec != want {
		t.Errorf("expected %s, got %s", want, spec)
	}
}

func TestImportSpecifierFor_WindowsAliasesToSupportPackage(t *testing.T) {
	outDir := filepath.Join("out", "Contoso.Widgets")
	spec := importSpecifierFor("Contoso.Widgets", "Windows.Foundation", "IAsyncAction", outDir)
	want := "winrt/Windows/Foundation/IAsyncAction"
	if spec != want {
		t.Errorf("expected %s, got %s", want, spec)
	}
}

func TestImportSpecifier_MatchesFromDirOutDirBase(t *testing.T) {
	outDir := filepath.Join("out", "Contoso.Widgets")
	fromDir := filepath.Join(outDir, "Contoso", "Widgets")
	ref := render.Reference{Namespace: "Contoso.Widgets.Collections", Name: "IWidgetVector"}

	spec := importSpecifier("Contoso.Widgets", ref, outDir, fromDir)
	want := "./Collections/IWidgetVector"
	if spec != want {
		t.Errorf("expected %s, got %s", want, spec)
	}
}

func TestIndexAlias(t *testing.T) {
	td := &metadata.TypeDef{Name: "IWidgetVector"}
	got := indexAlias("Contoso.Widgets.Collections", td)
	want := "Contoso_Widgets_Collections_IWidgetVector"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestWriteIndexReexport_ClassUsesConst(t *testing.T) {
	out := NewEmitter()
	td := &metadata.TypeDef{Name: "Widget", Flags: 0, Extends: &metadata.Signature{Namespace: "System", TypeName: "Object"}}
	writeIndexReexport(out, "Contoso.Widgets", td)
	got := out.String()
	want := "export const Widget = Contoso_Widgets_Widget;\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestWriteIndexReexport_InterfaceUsesType(t *testing.T) {
	out := NewEmitter()
	td := &metadata.TypeDef{Name: "IWidget", Flags: metadata.TypeInterface}
	writeIndexReexport(out, "Contoso.Widgets", td)
	got := out.String()
	want := "export type IWidget = Contoso_Widgets_IWidget;\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
