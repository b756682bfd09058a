// # internal/resolver/naming.go
package resolver

import (
	"path"
	"strings"
)

// Index is the immutable set of canonical names for one run. It is built
// once before resolution fans out and only read afterwards.
type Index struct {
	names map[string]bool
}

func NewIndex(names []string) *Index {
	idx := &Index{names: make(map[string]bool, len(names))}
	for _, n := range names {
		idx.names[n] = true
	}
	return idx
}

func (i *Index) Has(name string) bool {
	return i.names[name]
}

// CanonicalName derives the module identity from a project-relative path.
// Python files get dotted names (pkg/mod.py -> pkg.mod, __init__.py names
// its package); path-addressed languages keep the full relative path.
func CanonicalName(unitPath string) string {
	unitPath = path.Clean(strings.TrimPrefix(unitPath, "./"))
	if DetectLanguage(unitPath) != "python" {
		return unitPath
	}

	trimmed := strings.TrimSuffix(unitPath, path.Ext(unitPath))
	parts := strings.Split(trimmed, "/")
	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return trimmed
	}
	return strings.Join(parts, ".")
}

func resolveImport(lang, unitPath, canonical string, imp rawImport, index *Index) []string {
	switch lang {
	case "python":
		return resolvePythonImport(canonical, imp, index)
	case "javascript", "typescript":
		return resolvePathImport(unitPath, imp.spec, index, []string{".js", ".mjs", ".cjs", ".ts"})
	case "html":
		return resolvePathImport(unitPath, imp.spec, index, nil)
	case "css":
		return resolvePathImport(unitPath, imp.spec, index, []string{".css"})
	default:
		return nil
	}
}

// resolvePythonImport maps one python import onto the analyzed set.
// Relative imports resolve against the importing module's package; the
// dotted target is matched exactly, then with trailing components
// trimmed, since "from a.b import c" may name either module a.b.c or a
// symbol inside a.b. From-import items each resolve against module.item
// first so submodule imports produce distinct references.
func resolvePythonImport(fromModule string, imp rawImport, index *Index) []string {
	base := imp.spec
	if imp.relative {
		parts := strings.Split(fromModule, ".")
		if imp.level > len(parts) {
			return nil
		}
		prefix := strings.Join(parts[:len(parts)-imp.level], ".")
		switch {
		case prefix == "":
			base = imp.spec
		case imp.spec == "":
			base = prefix
		default:
			base = prefix + "." + imp.spec
		}
	}

	var refs []string
	matchedItems := false
	for _, item := range imp.items {
		candidate := item
		if base != "" {
			candidate = base + "." + item
		}
		if index.Has(candidate) {
			refs = append(refs, candidate)
			matchedItems = true
		}
	}
	if matchedItems {
		return refs
	}

	if target, ok := matchDotted(base, index); ok {
		// One reference per item keeps the edge weight equal to the
		// number of names pulled from the target module.
		occurrences := len(imp.items)
		if occurrences == 0 {
			occurrences = 1
		}
		for i := 0; i < occurrences; i++ {
			refs = append(refs, target)
		}
	}
	return refs
}

func matchDotted(name string, index *Index) (string, bool) {
	for name != "" {
		if index.Has(name) {
			return name, true
		}
		dot := strings.LastIndex(name, ".")
		if dot < 0 {
			return "", false
		}
		name = name[:dot]
	}
	return "", false
}

// resolvePathImport handles ./-style specifiers for javascript, html and
// css units. Bare specifiers (external packages) and absolute URLs are
// dropped; project-absolute paths resolve from the scan root.
func resolvePathImport(unitPath, spec string, index *Index, extensions []string) []string {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.Contains(spec, "://") || strings.HasPrefix(spec, "//") {
		return nil
	}
	if i := strings.IndexAny(spec, "?#"); i >= 0 {
		spec = spec[:i]
	}

	var resolved string
	switch {
	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		resolved = path.Join(path.Dir(unitPath), spec)
	case strings.HasPrefix(spec, "/"):
		resolved = strings.TrimPrefix(spec, "/")
	default:
		// Bare specifier: an external package, unless it names a
		// project file outright (html commonly omits the leading ./).
		resolved = path.Join(path.Dir(unitPath), spec)
	}
	resolved = path.Clean(resolved)

	candidates := []string{resolved}
	for _, ext := range extensions {
		candidates = append(candidates, resolved+ext)
	}
	if len(extensions) > 0 {
		for _, ext := range extensions {
			candidates = append(candidates, path.Join(resolved, "index"+ext))
		}
	}

	for _, c := range candidates {
		if index.Has(c) {
			return []string{c}
		}
	}
	return nil
}
