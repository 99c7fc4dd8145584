package emit

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tswinrt/tswinrt/internal/metadata"
	"github.com/tswinrt/tswinrt/internal/policy"
)

// WriteIndex writes the top-level module index (spec §4.G, "write_module"):
// an import for every projectable type aliased by its dotted full name,
// followed by a namespace tree of re-exports, and a final attachment of the
// root namespace object onto a global slot named for the assembly.
func WriteIndex(cache *metadata.Cache, opts policy.Options, namespaces map[string]bool, outDir string, now time.Time) error {
	out := NewEmitter()
	WriteHeader(out, cache.AssemblyName(), cache.AssemblyVersion(), now)

	for _, ns := range cache.Namespaces() {
		if !namespaces[ns] {
			continue
		}
		for _, td := range cache.Types(ns) {
			if !policy.ShouldProject(td, opts) {
				continue
			}
			writeIndexImport(out, cache.AssemblyName(), ns, td, outDir)
		}
	}
	out.Blank()

	var stack []string
	pop := func() {
		stack = stack[:len(stack)-1]
		out.EndBlock()
	}
	push := func(name string) {
		out.Block("export namespace %s", name)
		stack = append(stack, name)
	}

	for _, ns := range cache.Namespaces() {
		if !namespaces[ns] {
			continue
		}
		bits := strings.Split(ns, ".")

		for len(stack) > len(bits) {
			pop()
		}
		for i := min(len(bits), len(stack)) - 1; i > 0; i-- {
			if len(stack) > 0 && stack[len(stack)-1] != bits[i] {
				pop()
			} else {
				break
			}
		}
		for i := len(stack); i < len(bits); i++ {
			push(bits[i])
		}

		for _, td := range cache.Types(ns) {
			if !policy.ShouldProject(td, opts) {
				continue
			}
			writeIndexReexport(out, ns, td)
		}
	}

	for len(stack) > 0 {
		pop()
	}

	out.Line("globalThis['%s'] = %s;", cache.AssemblyName(), cache.AssemblyName())

	return os.WriteFile(filepath.Join(outDir, "index.ts"), []byte(out.String()), 0o644)
}

// indexAlias is the import alias a type's full dotted name collapses to
// ("Windows.Foundation.DateTime" -> "Windows_Foundation_DateTime"), the same
// scheme write_module uses so every projected type gets a collision-free
// top-level import name regardless of which namespace declares it.
func indexAlias(namespace string, td *metadata.TypeDef) string {
	alias := namespace + "." + bareIdentifier(td.Name)
	return strings.ReplaceAll(alias, ".", "_")
}

func writeIndexImport(out *Emitter, assemblyName, namespace string, td *metadata.TypeDef, outDir string) {
	spec := importSpecifierFor(assemblyName, namespace, td.Name, outDir)
	alias := indexAlias(namespace, td)
	out.Line("import { %s as %s } from \"%s\";", bareIdentifier(td.Name), alias, spec)
}

// importSpecifierFor mirrors importSpecifier, computed relative to the
// module index's own directory (the assembly output root) rather than a
// per-type file's directory.
func importSpecifierFor(assemblyName, namespace, name, outDir string) string {
	bits := strings.Split(namespace, ".")
	bits = append(bits, name)

	if bits[0] == "Windows" && assemblyName != "Windows" {
		return "winrt/" + strings.Join(bits, "/")
	}

	target := filepath.Join(append([]string{outDir}, bits...)...)
	rel, err := filepath.Rel(outDir, target)
	if err != nil {
		rel = target
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

func writeIndexReexport(out *Emitter, namespace string, td *metadata.TypeDef) {
	exportKind := "type"
	switch td.Category() {
	case metadata.CategoryClass, metadata.CategoryEnum:
		exportKind = "const"
	}

	params := genericParamList(td)
	alias := indexAlias(namespace, td)
	out.Line("export %s %s%s = %s%s;", exportKind, bareIdentifier(td.Name), params, alias, params)
}
