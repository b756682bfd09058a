// # internal/graph/builder.go
package graph

import (
	"sort"

	"cbsf/internal/cbsferr"
)

// ModuleResult is one resolved module: canonical name, source byte size,
// and referenced canonical names (one entry per reference occurrence).
type ModuleResult struct {
	Name       string
	Size       int64
	References []string
}

// Build merges per-module results into a graph. The merge is keyed by
// canonical name, so input order does not affect the result. Duplicate
// canonical names are fatal; references to modules outside the merged
// node set and self-references are dropped.
func Build(results []ModuleResult) (*Graph, error) {
	names := make(map[string]bool, len(results))
	for _, r := range results {
		if names[r.Name] {
			return nil, cbsferr.AddContext(
				cbsferr.New(cbsferr.CodeValidationError, "duplicate canonical module name"),
				cbsferr.CtxModule, r.Name)
		}
		names[r.Name] = true
	}

	g := &Graph{Nodes: make([]Node, 0, len(results))}
	for _, r := range results {
		g.Nodes = append(g.Nodes, Node{Name: r.Name, Size: r.Size})
	}
	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].Name < g.Nodes[j].Name })

	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		index[n.Name] = i
	}

	// Collapse repeated references into one weighted edge per ordered pair.
	weights := make(map[[2]int]int)
	for _, r := range results {
		from := index[r.Name]
		for _, ref := range r.References {
			to, ok := index[ref]
			if !ok || to == from {
				continue
			}
			weights[[2]int{from, to}]++
		}
	}

	g.Edges = make([]Edge, 0, len(weights))
	for pair, w := range weights {
		g.Edges = append(g.Edges, Edge{Source: pair[0], Target: pair[1], Weight: w})
	}
	sort.Slice(g.Edges, func(i, j int) bool {
		if g.Edges[i].Source != g.Edges[j].Source {
			return g.Edges[i].Source < g.Edges[j].Source
		}
		return g.Edges[i].Target < g.Edges[j].Target
	})

	return g, nil
}
