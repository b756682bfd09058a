// # internal/report/summary.go
package report

import (
	"fmt"
	"strings"

	"cbsf/internal/metrics"
)

// Summary renders the evaluation result as a plain-text block for the
// terminal or the configured summary file.
func Summary(result *metrics.Result) string {
	var buf strings.Builder

	buf.WriteString("Summary evaluation\n")
	buf.WriteString("==================\n")

	if result.EmptyGraph {
		buf.WriteString("Graph is empty: no modules were found.\n")
	}

	fmt.Fprintf(&buf, "Modules:            %d\n", result.NodeCount)
	fmt.Fprintf(&buf, "Dependencies:       %d\n", result.EdgeCount)

	if result.CompressionRatioDefined {
		fmt.Fprintf(&buf, "Compression ratio:  %.6f\n", result.CompressionRatio)
	} else {
		buf.WriteString("Compression ratio:  undefined (no source bytes)\n")
	}

	fmt.Fprintf(&buf, "Density:            %.4f\n", result.Density)
	fmt.Fprintf(&buf, "Components:         %d (largest %d)\n", result.ComponentCount, result.LargestComponent)
	fmt.Fprintf(&buf, "Communities:        %d (modularity %.4f)\n", result.CommunityCount, result.Modularity)
	fmt.Fprintf(&buf, "Avg fan-in:         %.4f\n", result.AvgFanIn)
	fmt.Fprintf(&buf, "Avg fan-out:        %.4f\n", result.AvgFanOut)
	fmt.Fprintf(&buf, "Avg instability:    %.4f\n", result.AvgInstability)
	fmt.Fprintf(&buf, "Aggregate entropy:  %.4f\n", result.AggregateEntropy)

	return buf.String()
}
