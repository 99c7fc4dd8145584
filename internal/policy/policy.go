// Package policy holds the Projection Policy: which types are eligible
// for projection, how a member name is normalized into the target
// dialect's casing conventions, the namespace/type remap table for
// well-known WinRT fundamentals, and the async-return shaping rule.
package policy

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tswinrt/tswinrt/internal/metadata"
)

// Options are the policy toggles spec.md leaves to the driver rather
// than exposing as CLI flags (§4.D, §6 "no flags"; SPEC_FULL.md's Open
// Question decision keeps these as constructor fields).
type Options struct {
	// IncludeExclusive projects interfaces marked ExclusiveToAttribute,
	// which are normally suppressed as standalone output (they exist
	// only to carry a class's own members).
	IncludeExclusive bool
	// AllowHidden projects types marked WebHostHiddenAttribute.
	AllowHidden bool
	// EnableDecorators controls whether class emission writes decorator
	// syntax (currently only @GenerateShim, gated further by GenerateShims).
	EnableDecorators bool
	// GenerateShims controls whether class emission attaches the
	// @GenerateShim(...) decorator at all (only takes effect when
	// EnableDecorators is also set, matching the original's
	// `_generate_shims && _enable_decorators` gate).
	GenerateShims bool
}

// Default mirrors the original's compiled-in defaults: exclusive and
// hidden types suppressed, decorators and shims on.
func Default() Options {
	return Options{
		IncludeExclusive: false,
		AllowHidden:      false,
		EnableDecorators: true,
		GenerateShims:    true,
	}
}

const metadataNS = "Windows.Foundation.Metadata"

// ShouldProject is the projectability predicate (spec §3, "Projection
// decision"): the type must carry the WinMD WindowsRuntime flag, must
// not be an exclusive-to interface unless that's explicitly allowed, and
// must not be WebHostHidden unless that's explicitly allowed.
func ShouldProject(td *metadata.TypeDef, opts Options) bool {
	if !td.IsWindowsRuntime() {
		return false
	}
	if isExclusiveTo(td) && !opts.IncludeExclusive {
		return false
	}
	if metadata.HasAttribute(td.Attributes, metadataNS, "WebHostHiddenAttribute") && !opts.AllowHidden {
		return false
	}
	return true
}

// isExclusiveTo reports whether td is an interface that exists only to
// carry a class's members (spec Glossary, "Exclusive-to interface").
func isExclusiveTo(td *metadata.TypeDef) bool {
	return td.Category() == metadata.CategoryInterface &&
		metadata.HasAttribute(td.Attributes, metadataNS, "ExclusiveToAttribute")
}

var bannedIdentifiers = map[string]bool{
	"function":  true,
	"arguments": true,
	"package":   true,
}

var lowerCaser = cases.Lower(language.Und)

// NormalizeMember renders a metadata member name in the target dialect's
// camelCase convention (spec §4.D). A leading run of uppercase letters is
// folded to lowercase up to, but not including, the last letter of that
// run when a further word follows in lowercase — so an acronym prefix
// like "HTML" in "HTMLDocument" collapses to "html" while the "D" that
// starts the next word is left alone. A name that isn't uppercase-led is
// left as-is unless it collides with a reserved word, in which case it
// is prefixed with "__".
func NormalizeMember(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	if !unicode.IsUpper(runes[0]) {
		if bannedIdentifiers[name] {
			return "__" + name
		}
		return name
	}

	scanned := 0
	for scanned < len(runes) && unicode.IsUpper(runes[scanned]) {
		scanned++
	}
	if scanned < len(runes) && unicode.IsLower(runes[scanned]) && scanned > 1 {
		scanned--
	}

	start := lowerCaser.String(string(runes[:scanned]))
	end := string(runes[scanned:])
	return start + end
}

// remapEntry is the namespace/type remap table (spec §4.D): well-known
// WinRT fundamentals that project to a built-in target type rather than
// an imported declaration, applied only in fully-projected contexts
// (field/param/return/property types), never to the declaration of the
// type itself or to import-path computation.
var remapTable = map[string]map[string]string{
	"Windows.Foundation": {
		"DateTime": "Date",
		"TimeSpan": "number",
		"HResult":  "number",
	},
}

// Remap looks up namespace.name in the remap table, returning the
// replacement and true if one exists.
func Remap(namespace, name string) (string, bool) {
	ns, ok := remapTable[namespace]
	if !ok {
		return "", false
	}
	mapped, ok := ns[name]
	return mapped, ok
}

// asyncPrefixes is ordered longest-prefix-first so "IAsyncAction" doesn't
// shadow "IAsyncActionWithProgress", and "IAsyncOperation" doesn't shadow
// "IAsyncOperationWithProgress" (spec §4.D, "Async return shaping").
var asyncPrefixes = []struct {
	prefix      string
	helperNS    string
	helperName  string // backtick-suffixed import identity, arity stripped for the symbol
	constructor string // expression template; %s is the not-implemented message literal
}{
	{"IAsyncActionWithProgress", "Windows.Foundation.Interop", "AsyncActionWithProgress`1",
		"AsyncActionWithProgress.from(async () => console.warn(%s))"},
	{"IAsyncOperationWithProgress", "Windows.Foundation.Interop", "AsyncOperationWithProgress`2",
		"AsyncOperationWithProgress.from(async () => { throw new Error(%s) })"},
	{"IAsyncAction", "Windows.Foundation.Interop", "AsyncAction",
		"AsyncAction.from(async () => console.warn(%s))"},
	{"IAsyncOperation", "Windows.Foundation.Interop", "AsyncOperation`1",
		"AsyncOperation.from(async () => { throw new Error(%s) })"},
}

// AsyncShape is the async-support helper a method body stub should use in
// place of a plain throw/warn, chosen by the longest matching prefix of
// the method's rendered return type name.
type AsyncShape struct {
	HelperNamespace string
	HelperName      string
	Expr            string // %s-templated; caller supplies the quoted message
}

// AsyncReturnShape reports the async stub for renderedReturnType, if any.
func AsyncReturnShape(renderedReturnType string) (AsyncShape, bool) {
	for _, p := range asyncPrefixes {
		if strings.HasPrefix(renderedReturnType, p.prefix) {
			return AsyncShape{HelperNamespace: p.helperNS, HelperName: p.helperName, Expr: p.constructor}, true
		}
	}
	return AsyncShape{}, false
}
