// # internal/resolver/python.go
package resolver

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type pythonExtractor struct{}

func (e *pythonExtractor) imports(root *sitter.Node, source []byte) []rawImport {
	var out []rawImport
	walkTree(root, func(node *sitter.Node) {
		switch node.Kind() {
		case "import_statement":
			out = append(out, e.extractImport(node, source)...)
		case "import_from_statement":
			out = append(out, e.extractFromImport(node, source))
		}
	})
	return out
}

func (e *pythonExtractor) extractImport(node *sitter.Node, source []byte) []rawImport {
	var out []rawImport
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "dotted_name", "identifier":
			out = append(out, rawImport{spec: nodeText(child, source)})
		case "aliased_import":
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
					out = append(out, rawImport{spec: nodeText(sub, source)})
					break
				}
			}
		}
	}
	return out
}

func (e *pythonExtractor) extractFromImport(node *sitter.Node, source []byte) rawImport {
	imp := rawImport{}
	pastImport := false

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "import":
			pastImport = true
		case "relative_import":
			imp.relative = true
			relText := nodeText(child, source)
			imp.spec = strings.TrimLeft(relText, ".")
			imp.level = len(relText) - len(imp.spec)
		case "dotted_name", "identifier":
			if pastImport {
				imp.items = append(imp.items, nodeText(child, source))
			} else {
				imp.spec = nodeText(child, source)
			}
		case "import_list", "aliased_import":
			collectItems(child, source, &imp.items)
		case "wildcard_import":
			// "from m import *" pulls every name; one reference to m.
		}
	}
	return imp
}

func collectItems(node *sitter.Node, source []byte, items *[]string) {
	kind := node.Kind()
	if kind == "identifier" || kind == "dotted_name" {
		*items = append(*items, nodeText(node, source))
		return
	}
	if kind == "aliased_import" {
		// Only the original name counts, not the alias.
		for i := uint(0); i < node.ChildCount(); i++ {
			sub := node.Child(i)
			if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
				*items = append(*items, nodeText(sub, source))
				return
			}
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		collectItems(node.Child(i), source, items)
	}
}
