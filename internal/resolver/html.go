// # internal/resolver/html.go
package resolver

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type htmlExtractor struct{}

func (e *htmlExtractor) imports(root *sitter.Node, source []byte) []rawImport {
	var out []rawImport
	walkTree(root, func(node *sitter.Node) {
		kind := node.Kind()
		if kind != "start_tag" && kind != "self_closing_tag" {
			return
		}
		if spec := e.extractTag(node, source); spec != "" {
			out = append(out, rawImport{spec: spec})
		}
	})
	return out
}

// extractTag pulls the reference attribute of script and link tags.
func (e *htmlExtractor) extractTag(node *sitter.Node, source []byte) string {
	tag := ""
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "tag_name" {
			tag = strings.ToLower(strings.TrimSpace(nodeText(child, source)))
			break
		}
	}
	if tag != "script" && tag != "link" {
		return ""
	}
	want := "src"
	if tag == "link" {
		want = "href"
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		attr := node.Child(i)
		if attr.Kind() != "attribute" {
			continue
		}
		name := ""
		value := ""
		for j := uint(0); j < attr.ChildCount(); j++ {
			part := attr.Child(j)
			switch part.Kind() {
			case "attribute_name":
				name = strings.ToLower(strings.TrimSpace(nodeText(part, source)))
			case "quoted_attribute_value", "attribute_value":
				value = trimQuoted(nodeText(part, source))
			}
		}
		if name == want && value != "" {
			return value
		}
	}
	return ""
}
