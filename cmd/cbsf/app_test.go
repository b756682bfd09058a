// # cmd/cbsf/app_test.go
package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cbsf/internal/config"
)

func TestModulesTSVPath(t *testing.T) {
	cases := map[string]string{
		"deps.tsv":      "deps.modules.tsv",
		"out/edges.tsv": "out/edges.modules.tsv",
		"plain":         "plain.modules",
	}
	for in, want := range cases {
		if got := modulesTSVPath(in); got != want {
			t.Errorf("modulesTSVPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRunGenerateWritesOutputs(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.py"), []byte("import b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "b.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	cfg := config.Default()
	cfg.ScanPaths = []string{root}
	cfg.Output.CBSF = filepath.Join(outDir, "cbsf.bin")
	cfg.Output.DOT = filepath.Join(outDir, "graph.dot")
	cfg.Output.TSV = filepath.Join(outDir, "deps.tsv")
	cfg.Output.Summary = filepath.Join(outDir, "summary.txt")
	cfg.History.Path = filepath.Join(outDir, "history.db")

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	rep, result, err := app.RunGenerate(context.Background())
	if err != nil {
		t.Fatalf("RunGenerate failed: %v", err)
	}
	if rep.NodeCount != 2 || rep.EdgeCount != 1 {
		t.Errorf("report = %d nodes %d edges, want 2/1", rep.NodeCount, rep.EdgeCount)
	}
	if result.NodeCount != 2 {
		t.Errorf("result.NodeCount = %d, want 2", result.NodeCount)
	}

	for _, path := range []string{
		cfg.Output.CBSF,
		cfg.Output.DOT,
		cfg.Output.TSV,
		filepath.Join(outDir, "deps.modules.tsv"),
		cfg.Output.Summary,
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing output %s: %v", path, err)
		}
	}

	dot, err := os.ReadFile(cfg.Output.DOT)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), `"a" -> "b"`) {
		t.Errorf("dot output missing edge:\n%s", dot)
	}
}

func TestRunEvaluateRoundTrip(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.py"), []byte("import b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "b.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.ScanPaths = []string{root}
	cfg.Output.CBSF = filepath.Join(t.TempDir(), "cbsf.bin")

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	rep, _, err := app.RunGenerate(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	result, meta, err := app.RunEvaluate(context.Background(), cfg.Output.CBSF)
	if err != nil {
		t.Fatalf("RunEvaluate failed: %v", err)
	}
	if meta.RunID != rep.RunID {
		t.Errorf("meta.RunID = %q, want %q", meta.RunID, rep.RunID)
	}
	if result.NodeCount != rep.NodeCount || result.EdgeCount != rep.EdgeCount {
		t.Errorf("evaluate mismatch: %d/%d vs %d/%d",
			result.NodeCount, result.EdgeCount, rep.NodeCount, rep.EdgeCount)
	}
}
