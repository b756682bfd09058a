// # internal/report/report_test.go
package report

import (
	"strings"
	"testing"

	"cbsf/internal/graph"
	"cbsf/internal/metrics"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build([]graph.ModuleResult{
		{Name: "a", Size: 100, References: []string{"b", "b"}},
		{Name: "b", Size: 50, References: []string{"c"}},
		{Name: "c", Size: 25},
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestDOTGenerate(t *testing.T) {
	g := testGraph(t)
	result := metrics.Evaluate(g, 10, 175)

	out, err := NewDOTGenerator(g, result).Generate()
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(out, "digraph modules {") {
		t.Errorf("missing digraph header: %q", out[:40])
	}
	if !strings.Contains(out, `"a" -> "b" [label="2"`) {
		t.Error("weighted edge missing weight label")
	}
	if !strings.Contains(out, `"b" -> "c";`) {
		t.Error("unit-weight edge should have no label")
	}
	for _, name := range []string{"a", "b", "c"} {
		if !strings.Contains(out, `"`+name+`" [label=`) {
			t.Errorf("node %q missing", name)
		}
	}
}

func TestTSVEdges(t *testing.T) {
	g := testGraph(t)

	out, err := NewTSVGenerator(g, nil).GenerateEdges()
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "From\tTo\tWeight" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("got %d rows, want 2 plus header", len(lines)-1)
	}
	if lines[1] != "a\tb\t2" {
		t.Errorf("first row = %q, want a->b weight 2", lines[1])
	}
}

func TestTSVModules(t *testing.T) {
	g := testGraph(t)
	result := metrics.Evaluate(g, 10, 175)

	out, err := NewTSVGenerator(g, result).GenerateModules()
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d rows, want 3 plus header", len(lines)-1)
	}
	if !strings.HasPrefix(lines[1], "a\t100\t0\t2\t") {
		t.Errorf("module a row = %q", lines[1])
	}
}

func TestSummaryText(t *testing.T) {
	g := testGraph(t)
	result := metrics.Evaluate(g, 10, 175)

	out := Summary(result)
	if !strings.Contains(out, "Modules:            3") {
		t.Errorf("node count missing:\n%s", out)
	}
	if !strings.Contains(out, "Compression ratio:") {
		t.Errorf("ratio line missing:\n%s", out)
	}
}

func TestSummaryUndefinedRatio(t *testing.T) {
	g := &graph.Graph{}
	result := metrics.Evaluate(g, 0, 0)

	out := Summary(result)
	if !strings.Contains(out, "undefined") {
		t.Errorf("expected undefined ratio:\n%s", out)
	}
	if !strings.Contains(out, "Graph is empty") {
		t.Errorf("expected empty graph note:\n%s", out)
	}
}
