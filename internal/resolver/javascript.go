// # internal/resolver/javascript.go
package resolver

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// javascriptExtractor covers both javascript and typescript: the import
// surface we care about is identical in the two grammars.
type javascriptExtractor struct{}

func (e *javascriptExtractor) imports(root *sitter.Node, source []byte) []rawImport {
	var out []rawImport
	walkTree(root, func(node *sitter.Node) {
		switch node.Kind() {
		case "import_statement", "export_statement":
			if spec := stringSource(node, source); spec != "" {
				out = append(out, rawImport{spec: spec})
			}
		case "call_expression":
			if spec := e.extractCall(node, source); spec != "" {
				out = append(out, rawImport{spec: spec})
			}
		}
	})
	return out
}

// stringSource reads the module specifier of an import or re-export.
// Plain export statements have no source child and yield "".
func stringSource(node *sitter.Node, source []byte) string {
	if src := node.ChildByFieldName("source"); src != nil {
		return trimQuoted(nodeText(src, source))
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "string" {
			return trimQuoted(nodeText(child, source))
		}
	}
	return ""
}

// extractCall picks up require("mod") and dynamic import("mod").
func (e *javascriptExtractor) extractCall(node *sitter.Node, source []byte) string {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	callee := nodeText(fn, source)
	if callee != "require" && callee != "import" {
		return ""
	}

	args := node.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	for i := uint(0); i < args.ChildCount(); i++ {
		arg := args.Child(i)
		if arg.Kind() == "string" {
			return trimQuoted(nodeText(arg, source))
		}
	}
	return ""
}
