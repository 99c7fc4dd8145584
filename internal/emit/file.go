package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tswinrt/tswinrt/internal/metadata"
	"github.com/tswinrt/tswinrt/internal/policy"
	"github.com/tswinrt/tswinrt/internal/render"
	"github.com/tswinrt/tswinrt/internal/typesystem"
)

// Result summarizes one run of WriteFiles, for the driver to report.
type Result struct {
	FilesWritten int
	Skipped      []string // "Namespace.Name" entries should_project_type rejected
	Warnings     []string // lossy-transformation notices (spec §9 overload dedup)
}

// WriteFiles emits one .ts file per projectable type declared in any of
// namespaces, under outDir, laid out as nested directories mirroring the
// dotted namespace (spec §4.G "File layout").
func WriteFiles(cache *metadata.Cache, opts policy.Options, namespaces map[string]bool, outDir string, now time.Time) (Result, error) {
	var res Result

	for _, ns := range cache.Namespaces() {
		if !namespaces[ns] {
			continue
		}
		dir := filepath.Join(append([]string{outDir}, strings.Split(ns, ".")...)...)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("emit: creating %s: %w", dir, err)
		}

		for _, td := range cache.Types(ns) {
			if !policy.ShouldProject(td, opts) {
				res.Skipped = append(res.Skipped, ns+"."+td.Name)
				continue
			}

			warnings, err := writeTypeFile(cache, opts, td, outDir, dir, now)
			if err != nil {
				return res, fmt.Errorf("emit: %s.%s: %w", ns, td.Name, err)
			}
			res.Warnings = append(res.Warnings, warnings...)
			res.FilesWritten++
		}
	}

	return res, nil
}

// writeTypeFile runs the two-pass render for one type and writes its
// file to disk. The first pass discovers cross-namespace references by
// rendering the body into a throwaway buffer; the second pass writes the
// real file with a header that imports exactly those references.
func writeTypeFile(cache *metadata.Cache, opts policy.Options, td *metadata.TypeDef, outDir, dir string, now time.Time) ([]string, error) {
	stack := typesystem.NewGenericArgStack()
	r := render.New(cache, stack)
	w := &typeWriter{cache: cache, opts: opts, r: r, e: NewEmitter()}

	if err := WriteType(w, td); err != nil {
		return nil, err
	}
	imports := r.Imports()
	body := w.e.String()

	path := filepath.Join(dir, td.Name+".ts")
	if shouldPreserveExisting(path) {
		path = filepath.Join(dir, td.Name+".gen.ts")
	}

	out := NewEmitter()
	WriteHeader(out, cache.AssemblyName(), cache.AssemblyVersion(), now)
	ownFullName := td.Namespace + "." + td.Name
	wroteImport := false
	for _, ref := range imports {
		refFullName := ref.Namespace + "." + ref.Name
		if refFullName == ownFullName {
			continue
		}
		writeImportLine(out, cache, opts, cache.AssemblyName(), ref, outDir, dir)
		wroteImport = true
	}
	if wroteImport {
		out.Blank()
	}
	out.Raw(body)

	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		return nil, err
	}
	return w.warnings, nil
}

// shouldPreserveExisting reports whether path already holds hand-edited
// content (anything not starting with the auto-generated header's "//"
// comment marker), in which case regeneration is redirected to a
// sibling ".gen.ts" file rather than overwriting it.
func shouldPreserveExisting(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	header := make([]byte, 2)
	n, _ := f.Read(header)
	return n < 2 || string(header) != "//"
}

// writeImportLine writes one import statement (or a "type X = any" stand-in
// for a type that resolves but was excluded from projection), computing the
// module specifier the same way typePath does.
func writeImportLine(out *Emitter, cache *metadata.Cache, opts policy.Options, assemblyName string, ref render.Reference, outDir, fromDir string) {
	if td, ok := cache.ResolveTypeDef(ref.Namespace, ref.Name); ok && !policy.ShouldProject(td, opts) {
		out.Line("type %s = any", bareIdentifier(ref.Name))
		return
	}

	spec := importSpecifier(assemblyName, ref, outDir, fromDir)
	out.Line("import { %s } from \"%s\";", bareIdentifier(ref.Name), spec)
}

func bareIdentifier(name string) string {
	if i := strings.IndexByte(name, '`'); i >= 0 {
		return name[:i]
	}
	return name
}

// importSpecifier computes the module specifier for a reference to
// another type. References rooted at "Windows" resolve against a
// separately-shipped "winrt" support package unless this run is itself
// generating the Windows assembly, in which case every reference is a
// same-tree relative file import (spec §4.G "Imports").
func importSpecifier(assemblyName string, ref render.Reference, outDir, fromDir string) string {
	bits := strings.Split(ref.Namespace, ".")
	bits = append(bits, ref.Name)

	if bits[0] == "Windows" && assemblyName != "Windows" {
		return "winrt/" + strings.Join(bits, "/")
	}

	target := filepath.Join(append([]string{outDir}, bits...)...)
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		rel = target
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}
