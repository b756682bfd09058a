// # internal/config/config_test.go
package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
scan_paths = ["./src"]
extensions = [".py", ".js"]

[exclude]
dirs = [".git", "node_modules"]
files = ["*_test.py"]

[output]
cbsf = "out/cbsf.bin"
dot = "out/graph.dot"
tsv = "out/deps.tsv"

[watch]
debounce = "1s"

[history]
path = "out/history.db"
project = "myproject"
`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.ScanPaths) != 1 || cfg.ScanPaths[0] != "./src" {
		t.Errorf("Unexpected ScanPaths: %v", cfg.ScanPaths)
	}
	if len(cfg.Extensions) != 2 {
		t.Errorf("Expected 2 extensions, got %v", cfg.Extensions)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Output.CBSF != "out/cbsf.bin" {
		t.Errorf("Expected CBSF out/cbsf.bin, got %s", cfg.Output.CBSF)
	}
	if cfg.History.Project != "myproject" {
		t.Errorf("Expected project myproject, got %s", cfg.History.Project)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.ScanPaths) != 1 || cfg.ScanPaths[0] != "." {
		t.Errorf("Expected default scan path '.', got %v", cfg.ScanPaths)
	}
	if len(cfg.Extensions) != 1 || cfg.Extensions[0] != ".py" {
		t.Errorf("Expected default extension .py, got %v", cfg.Extensions)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.RescansPerSec != 1 {
		t.Errorf("Expected default rescan rate 1/s, got %v", cfg.Watch.RescansPerSec)
	}
}
