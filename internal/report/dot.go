// # internal/report/dot.go
package report

import (
	"fmt"
	"strings"

	"cbsf/internal/graph"
	"cbsf/internal/metrics"
)

type DOTGenerator struct {
	graph  *graph.Graph
	result *metrics.Result
}

// NewDOTGenerator renders the module graph for graphviz. A metrics result
// is optional; when present, community membership colors the nodes.
func NewDOTGenerator(g *graph.Graph, result *metrics.Result) *DOTGenerator {
	return &DOTGenerator{graph: g, result: result}
}

var communityFills = []string{
	"lightsteelblue", "mistyrose", "palegreen", "wheat",
	"thistle", "lightsalmon", "paleturquoise", "khaki",
}

func (d *DOTGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph modules {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=10, fillcolor=\"white\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8];\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	fills := d.communityFill()
	for _, node := range d.graph.Nodes {
		label := fmt.Sprintf("%s\\n(%d bytes)", node.Name, node.Size)
		if fill, ok := fills[node.Name]; ok {
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", fillcolor=\"%s\"];\n", node.Name, label, fill))
		} else {
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\"];\n", node.Name, label))
		}
	}
	buf.WriteString("\n")

	for _, edge := range d.graph.Edges {
		from := d.graph.Nodes[edge.Source].Name
		to := d.graph.Nodes[edge.Target].Name
		if edge.Weight > 1 {
			buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [label=\"%d\", penwidth=%.1f];\n",
				from, to, edge.Weight, edgeWidth(edge.Weight)))
		} else {
			buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\";\n", from, to))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func (d *DOTGenerator) communityFill() map[string]string {
	fills := make(map[string]string)
	if d.result == nil {
		return fills
	}
	for i, community := range d.result.Communities {
		if len(community) < 2 {
			continue
		}
		fill := communityFills[i%len(communityFills)]
		for _, name := range community {
			fills[name] = fill
		}
	}
	return fills
}

func edgeWidth(weight int) float64 {
	w := 1.0 + float64(weight)*0.3
	if w > 4.0 {
		return 4.0
	}
	return w
}
