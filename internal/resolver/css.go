// # internal/resolver/css.go
package resolver

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type cssExtractor struct{}

func (e *cssExtractor) imports(root *sitter.Node, source []byte) []rawImport {
	var out []rawImport
	walkTree(root, func(node *sitter.Node) {
		if node.Kind() != "import_statement" {
			return
		}
		if spec := e.extractImport(node, source); spec != "" {
			out = append(out, rawImport{spec: spec})
		}
	})
	return out
}

func (e *cssExtractor) extractImport(node *sitter.Node, source []byte) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "string_value", "string":
			return trimQuoted(nodeText(child, source))
		case "call_expression":
			// @import url("style.css")
			raw := nodeText(child, source)
			if start := strings.IndexAny(raw, "\"'"); start >= 0 {
				if end := strings.LastIndexAny(raw, "\"'"); end > start {
					return raw[start+1 : end]
				}
			}
		}
	}
	return ""
}
