package emit

import (
	"testing"

	"github.com/tswinrt/tswinrt/internal/metadata"
)

func int32Constant(v int32) *metadata.Constant {
	return &metadata.Constant{Raw: []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}}
}

// Members are emitted in metadata order; a value gets an explicit
// initializer only where it diverges from the running counter.
func TestWriteEnum_ExplicitValuesWhereCounterDiverges(t *testing.T) {
	w := newTestWriter()
	td := &metadata.TypeDef{
		Namespace: "Windows.Foundation",
		Name:      "AsyncStatus",
		Fields: []metadata.Field{
			{Name: "Canceled", Constant: int32Constant(2)},
			{Name: "Completed", Constant: int32Constant(1)},
			{Name: "Started", Constant: int32Constant(0)},
			{Name: "Error", Constant: int32Constant(3)},
		},
	}

	writeEnum(w, td)

	want := "export enum AsyncStatus {\n" +
		"    canceled = 2,\n" +
		"    completed,\n" +
		"    started = 0,\n" +
		"    error,\n" +
		"}\n"
	if got := w.e.String(); got != want {
		t.Errorf("writeEnum output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// A flags enum always writes explicit values, in hexadecimal, using the
// unsigned reading of each constant.
func TestWriteEnum_FlagsAlwaysExplicitHex(t *testing.T) {
	w := newTestWriter()
	td := &metadata.TypeDef{
		Namespace: "Contoso.Widgets",
		Name:      "WidgetStyles",
		Attributes: []metadata.CustomAttribute{
			{Namespace: "System", Name: "FlagsAttribute"},
		},
		Fields: []metadata.Field{
			{Name: "None", Constant: int32Constant(0)},
			{Name: "Bold", Constant: int32Constant(1)},
			{Name: "Framed", Constant: int32Constant(6)},
		},
	}

	writeEnum(w, td)

	want := "export enum WidgetStyles {\n" +
		"    none = 0x0,\n" +
		"    bold = 0x1,\n" +
		"    framed = 0x6,\n" +
		"}\n"
	if got := w.e.String(); got != want {
		t.Errorf("writeEnum output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// A field without a constant initializer (the value__ instance field
// every CLR enum carries) contributes no member.
func TestWriteEnum_SkipsNonConstantFields(t *testing.T) {
	w := newTestWriter()
	td := &metadata.TypeDef{
		Namespace: "Contoso.Widgets",
		Name:      "WidgetKind",
		Fields: []metadata.Field{
			{Name: "value__", Type: metadata.Signature{Kind: metadata.KindI4}},
			{Name: "Round", Constant: int32Constant(0)},
		},
	}

	writeEnum(w, td)

	want := "export enum WidgetKind {\n" +
		"    round,\n" +
		"}\n"
	if got := w.e.String(); got != want {
		t.Errorf("writeEnum output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
