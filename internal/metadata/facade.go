package metadata

import (
	"fmt"
	"os"
	"sort"

	"github.com/edsrzf/mmap-go"
)

// Cache is the Metadata Facade: a namespace/name-keyed view over every
// TypeDef declared across one or more loaded `.winmd` files.
type Cache struct {
	assemblyName    string
	assemblyVersion [4]uint16

	namespaces map[string][]*TypeDef
	byFull     map[string]*TypeDef

	mmaps []mmap.MMap
	files []*os.File
}

// Load memory-maps and decodes every `.winmd` file in paths, merging their
// TypeDefs into one cache. The caller must call Close when done.
func Load(paths []string) (*Cache, error) {
	c := &Cache{
		namespaces: make(map[string][]*TypeDef),
		byFull:     make(map[string]*TypeDef),
	}
	ok := false
	defer func() {
		if !ok {
			c.Close()
		}
	}()

	for _, p := range paths {
		if err := c.loadFile(p); err != nil {
			return nil, fmt.Errorf("metadata: %s: %w", p, err)
		}
	}

	for ns, types := range c.namespaces {
		sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
		c.namespaces[ns] = types
	}

	ok = true
	return c, nil
}

func (c *Cache) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	c.files = append(c.files, f)

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return err
	}
	c.mmaps = append(c.mmaps, m)
	data := []byte(m)

	pe, err := parsePE(data)
	if err != nil {
		return err
	}
	clr, err := pe.readCLRHeader()
	if err != nil {
		return err
	}
	mdOff, err := pe.rvaToOffset(clr.metadataRVA)
	if err != nil {
		return err
	}
	if int(mdOff)+int(clr.metadataSize) > len(data) {
		return fmt.Errorf("metadata root extends past end of file")
	}
	root, err := parseMetadataRoot(data[mdOff : mdOff+clr.metadataSize])
	if err != nil {
		return err
	}

	tableStream, ok := root.streams["#~"]
	if !ok {
		return fmt.Errorf("file has no \"#~\" table stream")
	}
	raw, err := readTableStream(tableStream)
	if err != nil {
		return err
	}

	heap := &heaps{
		strings: root.streams["#Strings"],
		blob:    root.streams["#Blob"],
		guid:    root.streams["#GUID"],
	}

	hyd, err := hydrate(raw, heap)
	if err != nil {
		return err
	}

	if c.assemblyName == "" {
		if asm := raw.tables[tblAssembly]; asm != nil && asm.rowCount() > 0 {
			row := asm.rows[0]
			c.assemblyName = mustString(heap, row[7])
			c.assemblyVersion = [4]uint16{uint16(row[1]), uint16(row[2]), uint16(row[3]), uint16(row[4])}
		}
	}

	for i := range hyd.typeDefs {
		td := &hyd.typeDefs[i]
		if td.Name == "<Module>" {
			continue
		}
		c.namespaces[td.Namespace] = append(c.namespaces[td.Namespace], td)
		c.byFull[td.Namespace+"."+td.Name] = td
	}
	return nil
}

func mustString(h *heaps, idx uint32) string {
	s, err := h.string(idx)
	if err != nil {
		return ""
	}
	return s
}

// AssemblyName is the name of the first loaded file's Assembly row (WinRT
// metadata files carry exactly one Assembly row per file, and a multi-file
// load is expected to be one assembly's primary file plus its dependency
// closure, so the first file's identity wins).
func (c *Cache) AssemblyName() string { return c.assemblyName }

// AssemblyVersion is the {Major,Minor,Build,Revision} tuple of AssemblyName.
func (c *Cache) AssemblyVersion() [4]uint16 { return c.assemblyVersion }

// Namespaces lists every namespace with at least one declared type, sorted.
func (c *Cache) Namespaces() []string {
	out := make([]string, 0, len(c.namespaces))
	for ns := range c.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Types returns namespace's declared types, sorted by simple name.
func (c *Cache) Types(namespace string) []*TypeDef {
	return c.namespaces[namespace]
}

// TypeByFullName looks up a type by "Namespace.Name".
func (c *Cache) TypeByFullName(fullName string) (*TypeDef, bool) {
	td, ok := c.byFull[fullName]
	return td, ok
}

// ResolveTypeDef follows a Signature's resolved Namespace/TypeName back to
// the TypeDef it names, when that type is declared in one of the loaded
// files (as opposed to an external assembly this cache never loaded).
func (c *Cache) ResolveTypeDef(namespace, name string) (*TypeDef, bool) {
	td, ok := c.byFull[namespace+"."+name]
	return td, ok
}

// Attribute returns the first attribute in attrs whose declaring type
// matches (namespace, name) exactly, mirroring how WinRT metadata treats
// most annotation attributes as singletons per target.
func Attribute(attrs []CustomAttribute, namespace, name string) (CustomAttribute, bool) {
	for _, a := range attrs {
		if a.Namespace == namespace && a.Name == name {
			return a, true
		}
	}
	return CustomAttribute{}, false
}

// HasAttribute reports whether attrs carries an attribute matching
// (namespace, name), without needing its decoded value.
func HasAttribute(attrs []CustomAttribute, namespace, name string) bool {
	_, ok := Attribute(attrs, namespace, name)
	return ok
}

// Close unmaps and closes every file this cache opened.
func (c *Cache) Close() error {
	var firstErr error
	for _, m := range c.mmaps {
		if err := m.Unmap(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, f := range c.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
