// # internal/resolver/resolver.go
//
// A Resolver turns one source unit into (canonical module name, referenced
// canonical names). It is purely functional over its inputs and safe to
// call from multiple goroutines: grammars are immutable after load and
// every parse uses its own tree-sitter parser.
package resolver

import (
	"bytes"
	"path"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"cbsf/internal/cbsferr"
)

// rawImport is one import-like statement before canonical resolution.
type rawImport struct {
	spec     string
	relative bool
	level    int      // python: count of leading dots
	items    []string // python: from-import items
}

type extractor interface {
	imports(root *sitter.Node, source []byte) []rawImport
}

type Resolver struct {
	loader     *GrammarLoader
	extractors map[string]extractor
}

func New(loader *GrammarLoader) *Resolver {
	r := &Resolver{
		loader:     loader,
		extractors: make(map[string]extractor),
	}
	r.extractors["python"] = &pythonExtractor{}
	r.extractors["javascript"] = &javascriptExtractor{}
	r.extractors["typescript"] = &javascriptExtractor{}
	r.extractors["html"] = &htmlExtractor{}
	r.extractors["css"] = &cssExtractor{}
	return r
}

// Resolve parses one unit and maps its imports onto the analyzed set.
// References outside the set are dropped silently; repeated references to
// the same target are kept so the builder can weight them. A parse
// failure returns the canonical name with a PARSE_ERROR: the caller
// records the module as a node with no outgoing references.
func (r *Resolver) Resolve(unitPath string, content []byte, index *Index) (canonical string, refs []string, err error) {
	lang := DetectLanguage(unitPath)
	canonical = CanonicalName(unitPath)

	if lang == "" {
		return canonical, nil, cbsferr.AddContext(
			cbsferr.New(cbsferr.CodeParseError, "no resolver dialect for file"),
			cbsferr.CtxPath, unitPath)
	}

	grammar := r.loader.Language(lang)
	ext := r.extractors[lang]
	if grammar == nil || ext == nil {
		return canonical, nil, cbsferr.AddContext(
			cbsferr.New(cbsferr.CodeParseError, "grammar not loaded"),
			cbsferr.CtxLanguage, lang)
	}

	if bytes.IndexByte(content, 0) >= 0 {
		return canonical, nil, cbsferr.AddContext(
			cbsferr.New(cbsferr.CodeParseError, "binary content"),
			cbsferr.CtxPath, unitPath)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return canonical, nil, cbsferr.AddContext(
			cbsferr.New(cbsferr.CodeParseError, "parse failed"),
			cbsferr.CtxPath, unitPath)
	}
	defer tree.Close()

	for _, imp := range ext.imports(tree.RootNode(), content) {
		refs = append(refs, resolveImport(lang, unitPath, canonical, imp, index)...)
	}
	return canonical, refs, nil
}

// DetectLanguage maps a file extension to a resolver dialect.
func DetectLanguage(unitPath string) string {
	switch strings.ToLower(path.Ext(unitPath)) {
	case ".py":
		return "python"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	case ".ts":
		return "typescript"
	case ".html", ".htm":
		return "html"
	case ".css":
		return "css"
	default:
		return ""
	}
}
