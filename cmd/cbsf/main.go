// # cmd/cbsf/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cbsf/internal/config"
	"cbsf/internal/observability"
	"cbsf/internal/report"
)

var (
	configPath = flag.String("config", "./cbsf.toml", "Path to config file")
	evaluate   = flag.Bool("evaluate", false, "Evaluate an existing summary document and exit")
	watch      = flag.Bool("watch", false, "Keep watching the scan paths and regenerate on change")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode (implies -watch)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("cbsf v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
			if err == nil {
				output = f
			} else {
				fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./cbsf.toml" && os.IsNotExist(err) {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	// A positional argument overrides the configured scan paths.
	if flag.NArg() > 0 {
		cfg.ScanPaths = []string{flag.Arg(0)}
	}

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if *evaluate {
		path := cfg.Output.CBSF
		if flag.NArg() > 0 {
			path = flag.Arg(0)
		}
		result, meta, err := app.RunEvaluate(ctx, path)
		if err != nil {
			slog.Error("evaluation failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Run %s generated at %s\n\n", meta.RunID, meta.GeneratedTime().Format("2006-01-02 15:04:05"))
		fmt.Print(report.Summary(result))
		os.Exit(0)
	}

	rep, result, err := app.RunGenerate(ctx)
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}

	if !*ui {
		fmt.Printf("Wrote %s (%d bytes, %d modules, %d dependencies)\n\n",
			rep.OutputPath, rep.EncodedBytes, rep.NodeCount, rep.EdgeCount)
		fmt.Print(report.Summary(result))
	}

	if !*watch && !*ui {
		os.Exit(0)
	}

	// Watch mode
	if cfg.Telemetry.ListenAddr != "" {
		server := observability.NewServer(cfg.Telemetry.ListenAddr, VERSION)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer server.Stop(ctx)
	}

	if err := app.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := app.RunUI(rep, result); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		// Block forever
		select {}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cbsf", "cbsf.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "cbsf", "cbsf.log")
	}

	return "cbsf.log"
}
