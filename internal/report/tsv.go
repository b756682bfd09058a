// # internal/report/tsv.go
package report

import (
	"fmt"
	"strings"

	"cbsf/internal/graph"
	"cbsf/internal/metrics"
)

type TSVGenerator struct {
	graph  *graph.Graph
	result *metrics.Result
}

func NewTSVGenerator(g *graph.Graph, result *metrics.Result) *TSVGenerator {
	return &TSVGenerator{graph: g, result: result}
}

// GenerateEdges lists every dependency edge with its weight.
func (t *TSVGenerator) GenerateEdges() (string, error) {
	var buf strings.Builder

	buf.WriteString("From\tTo\tWeight\n")
	for _, edge := range t.graph.Edges {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%d\n",
			t.graph.Nodes[edge.Source].Name,
			t.graph.Nodes[edge.Target].Name,
			edge.Weight))
	}

	return buf.String(), nil
}

// GenerateModules lists per-module structural metrics.
func (t *TSVGenerator) GenerateModules() (string, error) {
	var buf strings.Builder

	buf.WriteString("Module\tSize\tFanIn\tFanOut\tInstability\tEntropy\n")
	for _, node := range t.graph.Nodes {
		buf.WriteString(fmt.Sprintf("%s\t%d\t%d\t%d\t%.4f\t%.4f\n",
			node.Name,
			node.Size,
			t.result.FanIn[node.Name],
			t.result.FanOut[node.Name],
			t.result.Instability[node.Name],
			t.result.Entropy[node.Name]))
	}

	return buf.String(), nil
}
