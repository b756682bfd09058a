// # internal/metrics/engine.go
package metrics

import (
	"math"

	"cbsf/internal/graph"
)

// Result is the full evaluation of one decoded graph. Per-node maps are
// keyed by canonical module name. Degenerate inputs produce defined
// sentinel values with the corresponding flags set, never a panic.
type Result struct {
	CompressionRatio        float64
	CompressionRatioDefined bool

	NodeCount        int
	EdgeCount        int
	Density          float64
	ComponentCount   int
	LargestComponent int

	CommunityCount int
	Communities    [][]string
	Modularity     float64

	FanIn       map[string]int
	FanOut      map[string]int
	Instability map[string]float64
	Entropy     map[string]float64

	AvgFanIn       float64
	AvgFanOut      float64
	AvgInstability float64

	AggregateEntropy float64

	EmptyGraph bool
}

// Evaluate computes every metric from the graph alone plus the two byte
// counts. It is a pure function: the same graph always yields the same
// result.
func Evaluate(g *graph.Graph, encodedBytes, totalSourceBytes int64) *Result {
	r := &Result{
		NodeCount:   len(g.Nodes),
		EdgeCount:   len(g.Edges),
		FanIn:       make(map[string]int, len(g.Nodes)),
		FanOut:      make(map[string]int, len(g.Nodes)),
		Instability: make(map[string]float64, len(g.Nodes)),
		Entropy:     make(map[string]float64, len(g.Nodes)),
	}

	if totalSourceBytes > 0 {
		r.CompressionRatio = float64(encodedBytes) / float64(totalSourceBytes)
		r.CompressionRatioDefined = true
	} else {
		r.CompressionRatio = math.NaN()
	}

	if len(g.Nodes) == 0 {
		r.EmptyGraph = true
		r.Communities = [][]string{}
		return r
	}

	if len(g.Nodes) > 1 {
		maxEdges := len(g.Nodes) * (len(g.Nodes) - 1)
		r.Density = float64(len(g.Edges)) / float64(maxEdges)
	}

	r.ComponentCount, r.LargestComponent = weakComponents(g)

	fanIn := make([]int, len(g.Nodes))
	fanOut := make([]int, len(g.Nodes))
	for _, e := range g.Edges {
		fanOut[e.Source] += e.Weight
		fanIn[e.Target] += e.Weight
	}

	adjacency := g.Adjacency()

	var sumIn, sumOut, sumInstability float64
	var entropyWeight, entropyTotal float64
	entropyNodes := 0

	for i, n := range g.Nodes {
		r.FanIn[n.Name] = fanIn[i]
		r.FanOut[n.Name] = fanOut[i]

		// A fully isolated node is maximally stable by convention.
		instability := 0.0
		if total := fanIn[i] + fanOut[i]; total > 0 {
			instability = float64(fanOut[i]) / float64(total)
		}
		r.Instability[n.Name] = instability

		h := outgoingEntropy(adjacency[i])
		r.Entropy[n.Name] = h

		sumIn += float64(fanIn[i])
		sumOut += float64(fanOut[i])
		sumInstability += instability

		if len(adjacency[i]) > 0 {
			entropyNodes++
			entropyWeight += float64(n.Size)
			entropyTotal += h * float64(n.Size)
		}
	}

	n := float64(len(g.Nodes))
	r.AvgFanIn = sumIn / n
	r.AvgFanOut = sumOut / n
	r.AvgInstability = sumInstability / n

	// Size-weighted mean over nodes with outgoing edges; falls back to a
	// plain mean when those nodes carry no recorded source bytes.
	if entropyNodes > 0 {
		if entropyWeight > 0 {
			r.AggregateEntropy = entropyTotal / entropyWeight
		} else {
			var sum float64
			for i := range g.Nodes {
				if len(adjacency[i]) > 0 {
					sum += r.Entropy[g.Nodes[i].Name]
				}
			}
			r.AggregateEntropy = sum / float64(entropyNodes)
		}
	}

	r.Communities, r.Modularity = detectCommunities(g)
	r.CommunityCount = len(r.Communities)

	return r
}

// outgoingEntropy is the base-2 Shannon entropy of a node's outgoing
// weight distribution. Zero or one outgoing edge means zero entropy.
func outgoingEntropy(out []graph.Edge) float64 {
	if len(out) < 2 {
		return 0
	}
	total := 0
	for _, e := range out {
		total += e.Weight
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, e := range out {
		if e.Weight == 0 {
			continue
		}
		p := float64(e.Weight) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}

// weakComponents counts connected components treating edges as
// undirected and returns the size of the largest one.
func weakComponents(g *graph.Graph) (count, largest int) {
	n := len(g.Nodes)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for _, e := range g.Edges {
		a, b := find(e.Source), find(e.Target)
		if a != b {
			parent[a] = b
		}
	}

	sizes := make(map[int]int, n)
	for i := 0; i < n; i++ {
		sizes[find(i)]++
	}
	for _, s := range sizes {
		if s > largest {
			largest = s
		}
	}
	return len(sizes), largest
}
