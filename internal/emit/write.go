package emit

import (
	"fmt"
	"strings"
	"time"

	"github.com/tswinrt/tswinrt/internal/metadata"
	"github.com/tswinrt/tswinrt/internal/policy"
	"github.com/tswinrt/tswinrt/internal/render"
	"github.com/tswinrt/tswinrt/internal/typesystem"
)

// typeWriter holds everything a single TypeDef's emission needs: the
// shared cache and options, a Renderer scoped to the type's own
// namespace (so the renderer's import bookkeeping only records
// cross-namespace references), and the output Emitter.
type typeWriter struct {
	cache    *metadata.Cache
	opts     policy.Options
	r        *render.Renderer
	e        *Emitter
	warnings []string
}

// warnf records a lossy-transformation warning (currently just overload
// dedup, spec §9: "should be flagged in logs") for the driver to print.
func (w *typeWriter) warnf(format string, args ...any) {
	w.warnings = append(w.warnings, fmt.Sprintf(format, args...))
}

// WriteHeader writes the auto-generated banner every emitted file opens
// with, naming the source assembly and its version.
func WriteHeader(e *Emitter, assemblyName string, version [4]uint16, now time.Time) {
	e.Line("// --------------------------------------------------")
	e.Line("// <auto-generated>")
	e.Line("//     This code was generated by tswinrt.")
	e.Line("//     Generated from %s %d.%d.%d.%d at %s",
		assemblyName, version[0], version[1], version[2], version[3], now.Format(time.ANSIC))
	e.Line("// </auto-generated>")
	e.Line("// --------------------------------------------------")
	e.Blank()
}

// WriteType renders td's body (not its imports) into w.e, dispatching by
// category. Types that don't correspond to a renderable category (seen
// in practice only for nested-type leftovers WinRT metadata never
// actually emits at top level) are silently skipped, matching do_write's
// default case.
func WriteType(w *typeWriter, td *metadata.TypeDef) error {
	guard := w.r.Stack.PushDeclaration(td.GenericParams)
	defer guard.Close()

	switch td.Category() {
	case metadata.CategoryEnum:
		writeEnum(w, td)
	case metadata.CategoryStruct:
		return writeStruct(w, td)
	case metadata.CategoryInterface:
		return writeInterface(w, td)
	case metadata.CategoryClass:
		return writeClass(w, td)
	case metadata.CategoryDelegate:
		return writeDelegate(w, td)
	}
	return nil
}

func semanticsOf(cache *metadata.Cache, sig metadata.Signature) typesystem.Semantics {
	sem, err := typesystem.Of(cache, sig)
	if err != nil {
		return typesystem.Semantics{Kind: typesystem.KindObject}
	}
	return sem
}

// guidComment formats td's own GuidAttribute as a trailing doc comment,
// mirroring the struct-constant GUID comment with the same byte layout
// and canonical 8-4-4-4-12 format. Generic type definitions carry no
// GuidAttribute of their own — a parameterized interface's real IID
// depends on the arguments used to close it, computed at runtime rather
// than stored in metadata — so this is skipped whenever td has generic
// parameters.
func guidComment(td *metadata.TypeDef) string {
	if len(td.GenericParams) > 0 {
		return ""
	}
	ca, ok := metadata.Attribute(td.Attributes, "Windows.Foundation.Metadata", "GuidAttribute")
	if !ok {
		return ""
	}
	g, err := metadata.GUID(ca)
	if err != nil {
		return ""
	}
	return " /* " + metadata.FormatGUID(g) + " */"
}

// declaredName is td's own identifier with the backtick-arity suffix
// stripped, for declaration headers (the arity is spelled by the
// generic parameter list instead).
func declaredName(td *metadata.TypeDef) string {
	name := td.Name
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	return name
}

func genericParamList(td *metadata.TypeDef) string {
	if len(td.GenericParams) == 0 {
		return ""
	}
	names := make([]string, len(td.GenericParams))
	for i, gp := range td.GenericParams {
		names[i] = gp.Name
	}
	return "<" + strings.Join(names, ", ") + ">"
}
