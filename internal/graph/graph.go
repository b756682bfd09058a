// # internal/graph/graph.go
package graph

import (
	"sort"

	"cbsf/internal/cbsferr"
)

// Node is one module: canonical name plus the byte size of its source.
type Node struct {
	Name string
	Size int64
}

// Edge is a weighted directed reference between two nodes, addressed by
// node index. Weight counts distinct reference occurrences.
type Edge struct {
	Source int
	Target int
	Weight int
}

// Graph is an arena-style directed graph: nodes sorted by canonical name,
// edges addressed by node index and sorted by (Source, Target). Cycles are
// legal data. The zero value is a valid empty graph.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// NodeIndex returns the index of the named node, or -1.
func (g *Graph) NodeIndex(name string) int {
	i := sort.Search(len(g.Nodes), func(i int) bool { return g.Nodes[i].Name >= name })
	if i < len(g.Nodes) && g.Nodes[i].Name == name {
		return i
	}
	return -1
}

// Clone returns a deep copy; stage handoffs pass copies so no two
// components alias the same backing arrays.
func (g *Graph) Clone() *Graph {
	return &Graph{
		Nodes: append([]Node(nil), g.Nodes...),
		Edges: append([]Edge(nil), g.Edges...),
	}
}

// Equal reports structural identity: same node list and same weighted
// edge list.
func (g *Graph) Equal(other *Graph) bool {
	if len(g.Nodes) != len(other.Nodes) || len(g.Edges) != len(other.Edges) {
		return false
	}
	for i := range g.Nodes {
		if g.Nodes[i] != other.Nodes[i] {
			return false
		}
	}
	for i := range g.Edges {
		if g.Edges[i] != other.Edges[i] {
			return false
		}
	}
	return true
}

// Validate checks the structural invariants: unique sorted node names,
// edge endpoints in bounds, positive weights, no self-loops.
func (g *Graph) Validate() error {
	for i := 1; i < len(g.Nodes); i++ {
		if g.Nodes[i-1].Name == g.Nodes[i].Name {
			return cbsferr.AddContext(
				cbsferr.New(cbsferr.CodeValidationError, "duplicate node name"),
				cbsferr.CtxModule, g.Nodes[i].Name)
		}
		if g.Nodes[i-1].Name > g.Nodes[i].Name {
			return cbsferr.New(cbsferr.CodeValidationError, "nodes not sorted by canonical name")
		}
	}
	for _, e := range g.Edges {
		if e.Source < 0 || e.Source >= len(g.Nodes) || e.Target < 0 || e.Target >= len(g.Nodes) {
			return cbsferr.New(cbsferr.CodeValidationError, "edge endpoint out of bounds")
		}
		if e.Source == e.Target {
			return cbsferr.New(cbsferr.CodeValidationError, "self-loop edge")
		}
		if e.Weight < 1 {
			return cbsferr.New(cbsferr.CodeValidationError, "edge weight below 1")
		}
	}
	return nil
}

// Adjacency returns outgoing edge lists indexed by source node.
func (g *Graph) Adjacency() [][]Edge {
	adj := make([][]Edge, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.Source] = append(adj[e.Source], e)
	}
	return adj
}
