// # internal/metrics/community.go
package metrics

import (
	"sort"

	"cbsf/internal/graph"
)

const maxPropagationRounds = 50

type neighbor struct {
	node   int
	weight float64
}

// detectCommunities partitions the nodes with deterministic label
// propagation on the undirected weighted projection of the graph.
//
// Nodes are visited in index order (canonical-name sorted). Each node
// adopts the label with the highest total adjacent weight; ties go to the
// smallest label. Updates apply immediately within a round, and the loop
// stops at a fixed point or after maxPropagationRounds. The same graph
// always yields the same partition.
//
// The returned score is the Newman modularity of the partition over the
// undirected weighted projection.
func detectCommunities(g *graph.Graph) ([][]string, float64) {
	n := len(g.Nodes)
	if n == 0 {
		return [][]string{}, 0
	}

	adjacency := undirectedProjection(g)

	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}

	for round := 0; round < maxPropagationRounds; round++ {
		changed := false
		for i := 0; i < n; i++ {
			if len(adjacency[i]) == 0 {
				continue
			}
			weightByLabel := make(map[int]float64)
			for _, nb := range adjacency[i] {
				weightByLabel[labels[nb.node]] += nb.weight
			}

			best := labels[i]
			bestWeight := weightByLabel[best]
			candidates := make([]int, 0, len(weightByLabel))
			for label := range weightByLabel {
				candidates = append(candidates, label)
			}
			sort.Ints(candidates)
			for _, label := range candidates {
				w := weightByLabel[label]
				if w > bestWeight || (w == bestWeight && label < best) {
					best = label
					bestWeight = w
				}
			}

			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	members := make(map[int][]int)
	for i, label := range labels {
		members[label] = append(members[label], i)
	}
	labelOrder := make([]int, 0, len(members))
	for label := range members {
		labelOrder = append(labelOrder, label)
	}
	sort.Ints(labelOrder)

	communities := make([][]string, 0, len(labelOrder))
	for _, label := range labelOrder {
		names := make([]string, 0, len(members[label]))
		for _, idx := range members[label] {
			names = append(names, g.Nodes[idx].Name)
		}
		sort.Strings(names)
		communities = append(communities, names)
	}

	return communities, modularity(adjacency, labels)
}

// undirectedProjection folds both edge directions into one symmetric
// weighted adjacency list with deterministic neighbor order.
func undirectedProjection(g *graph.Graph) [][]neighbor {
	undirected := make(map[[2]int]float64)
	for _, e := range g.Edges {
		u, v := e.Source, e.Target
		if u > v {
			u, v = v, u
		}
		undirected[[2]int{u, v}] += float64(e.Weight)
	}

	pairs := make([][2]int, 0, len(undirected))
	for pair := range undirected {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	adjacency := make([][]neighbor, len(g.Nodes))
	for _, pair := range pairs {
		w := undirected[pair]
		adjacency[pair[0]] = append(adjacency[pair[0]], neighbor{node: pair[1], weight: w})
		adjacency[pair[1]] = append(adjacency[pair[1]], neighbor{node: pair[0], weight: w})
	}
	return adjacency
}

// modularity computes Newman modularity Q over the undirected weighted
// projection: Q = (1/2m) Σ [A_uv − k_u·k_v/(2m)] δ(c_u, c_v). The sum
// runs over all ordered node pairs, adjacent or not.
func modularity(adjacency [][]neighbor, labels []int) float64 {
	n := len(adjacency)
	var twoM float64
	degree := make([]float64, n)
	weights := make([]map[int]float64, n)
	for u, neighbors := range adjacency {
		weights[u] = make(map[int]float64, len(neighbors))
		for _, nb := range neighbors {
			degree[u] += nb.weight
			twoM += nb.weight
			weights[u][nb.node] = nb.weight
		}
	}
	if twoM == 0 {
		return 0
	}

	var q float64
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if labels[u] != labels[v] {
				continue
			}
			q += weights[u][v] - degree[u]*degree[v]/twoM
		}
	}
	return q / twoM
}
