// # internal/metrics/engine_test.go
package metrics

import (
	"math"
	"testing"

	"cbsf/internal/graph"
)

func TestEvaluate_EmptyGraph(t *testing.T) {
	r := Evaluate(&graph.Graph{}, 100, 0)

	if !r.EmptyGraph {
		t.Error("Expected EmptyGraph flag")
	}
	if r.NodeCount != 0 || r.EdgeCount != 0 {
		t.Errorf("Expected zero counts, got %d/%d", r.NodeCount, r.EdgeCount)
	}
	if r.Density != 0 || r.LargestComponent != 0 {
		t.Errorf("Expected zero connectivity, got %v/%d", r.Density, r.LargestComponent)
	}
	if r.AggregateEntropy != 0 {
		t.Errorf("Expected zero aggregate entropy, got %v", r.AggregateEntropy)
	}
	if r.CompressionRatioDefined {
		t.Error("Compression ratio must be undefined at zero source bytes")
	}
	if !math.IsNaN(r.CompressionRatio) {
		t.Errorf("Expected NaN compression ratio, got %v", r.CompressionRatio)
	}
}

func TestEvaluate_CompressionRatio(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{{Name: "a", Size: 10000}}}
	r := Evaluate(g, 500, 10000)

	if !r.CompressionRatioDefined {
		t.Fatal("Expected defined compression ratio")
	}
	if r.CompressionRatio != 0.05 {
		t.Errorf("Expected ratio 0.05, got %v", r.CompressionRatio)
	}
	if r.CompressionRatio >= 1.0 {
		t.Error("Ratio must be below 1.0 for a compact encoding")
	}
}

func chainGraph() *graph.Graph {
	// a -> b -> c, plus a -> c
	return &graph.Graph{
		Nodes: []graph.Node{{Name: "a", Size: 100}, {Name: "b", Size: 100}, {Name: "c", Size: 100}},
		Edges: []graph.Edge{
			{Source: 0, Target: 1, Weight: 2},
			{Source: 0, Target: 2, Weight: 2},
			{Source: 1, Target: 2, Weight: 4},
		},
	}
}

func TestEvaluate_FanInFanOut(t *testing.T) {
	r := Evaluate(chainGraph(), 1, 300)

	if r.FanOut["a"] != 4 || r.FanIn["a"] != 0 {
		t.Errorf("Unexpected a fan: in=%d out=%d", r.FanIn["a"], r.FanOut["a"])
	}
	if r.FanOut["b"] != 4 || r.FanIn["b"] != 2 {
		t.Errorf("Unexpected b fan: in=%d out=%d", r.FanIn["b"], r.FanOut["b"])
	}
	if r.FanIn["c"] != 6 || r.FanOut["c"] != 0 {
		t.Errorf("Unexpected c fan: in=%d out=%d", r.FanIn["c"], r.FanOut["c"])
	}
}

func TestEvaluate_InstabilityBounds(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{{Name: "a"}, {Name: "b"}, {Name: "isolated"}},
		Edges: []graph.Edge{{Source: 0, Target: 1, Weight: 3}},
	}
	r := Evaluate(g, 1, 1)

	for name, inst := range r.Instability {
		if inst < 0 || inst > 1 {
			t.Errorf("Instability out of [0,1] for %s: %v", name, inst)
		}
	}
	if r.Instability["a"] != 1 {
		t.Errorf("Pure source must have instability 1, got %v", r.Instability["a"])
	}
	if r.Instability["b"] != 0 {
		t.Errorf("Pure sink must have instability 0, got %v", r.Instability["b"])
	}
	if r.Instability["isolated"] != 0 {
		t.Errorf("Isolated node must have instability 0, got %v", r.Instability["isolated"])
	}
}

func TestEvaluate_Entropy(t *testing.T) {
	r := Evaluate(chainGraph(), 1, 300)

	for name, h := range r.Entropy {
		if h < 0 {
			t.Errorf("Negative entropy for %s: %v", name, h)
		}
	}
	// a has two equally-weighted outgoing edges: exactly 1 bit.
	if math.Abs(r.Entropy["a"]-1.0) > 1e-12 {
		t.Errorf("Expected 1 bit for a, got %v", r.Entropy["a"])
	}
	// b has a single outgoing edge: exactly 0.
	if r.Entropy["b"] != 0 {
		t.Errorf("Expected 0 entropy for single edge, got %v", r.Entropy["b"])
	}
	if r.Entropy["c"] != 0 {
		t.Errorf("Expected 0 entropy for sink, got %v", r.Entropy["c"])
	}
	// Size-weighted mean over a and b (both size 100): (1 + 0) / 2.
	if math.Abs(r.AggregateEntropy-0.5) > 1e-12 {
		t.Errorf("Expected aggregate entropy 0.5, got %v", r.AggregateEntropy)
	}
}

func TestEvaluate_Density(t *testing.T) {
	r := Evaluate(chainGraph(), 1, 300)
	// 3 edges out of 3*2 possible ordered pairs.
	if math.Abs(r.Density-0.5) > 1e-12 {
		t.Errorf("Expected density 0.5, got %v", r.Density)
	}
}

func TestEvaluate_WeakComponents(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}},
		Edges: []graph.Edge{
			{Source: 0, Target: 1, Weight: 1},
			{Source: 2, Target: 3, Weight: 1},
		},
	}
	r := Evaluate(g, 1, 1)
	if r.ComponentCount != 2 {
		t.Errorf("Expected 2 components, got %d", r.ComponentCount)
	}
	if r.LargestComponent != 2 {
		t.Errorf("Expected largest component of 2, got %d", r.LargestComponent)
	}
}

func TestDetectCommunities_TwoClusters(t *testing.T) {
	// Two triangles joined by one weak edge.
	g := &graph.Graph{
		Nodes: []graph.Node{
			{Name: "a"}, {Name: "b"}, {Name: "c"},
			{Name: "x"}, {Name: "y"}, {Name: "z"},
		},
		Edges: []graph.Edge{
			{Source: 0, Target: 1, Weight: 5},
			{Source: 1, Target: 2, Weight: 5},
			{Source: 2, Target: 0, Weight: 5},
			{Source: 3, Target: 4, Weight: 5},
			{Source: 4, Target: 5, Weight: 5},
			{Source: 5, Target: 3, Weight: 5},
			{Source: 0, Target: 3, Weight: 1},
		},
	}

	communities, q := detectCommunities(g)
	if len(communities) != 2 {
		t.Fatalf("Expected 2 communities, got %d: %v", len(communities), communities)
	}
	if q <= 0 {
		t.Errorf("Expected positive modularity for clustered graph, got %v", q)
	}

	// Deterministic: same graph, same partition.
	again, q2 := detectCommunities(g)
	if q != q2 || len(again) != len(communities) {
		t.Error("Community detection must be deterministic")
	}
	for i := range communities {
		if len(communities[i]) != len(again[i]) {
			t.Fatalf("Partition changed between runs: %v vs %v", communities, again)
		}
		for j := range communities[i] {
			if communities[i][j] != again[i][j] {
				t.Fatalf("Partition changed between runs: %v vs %v", communities, again)
			}
		}
	}
}

func TestDetectCommunities_NoEdges(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{{Name: "a"}, {Name: "b"}}}
	communities, q := detectCommunities(g)
	if len(communities) != 2 {
		t.Errorf("Expected singleton communities, got %v", communities)
	}
	if q != 0 {
		t.Errorf("Expected zero modularity without edges, got %v", q)
	}
}
