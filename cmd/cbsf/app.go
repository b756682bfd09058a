// # cmd/cbsf/app.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cbsf/internal/cbsfdoc"
	"cbsf/internal/config"
	"cbsf/internal/history"
	"cbsf/internal/metrics"
	"cbsf/internal/observability"
	"cbsf/internal/pipeline"
	"cbsf/internal/report"
	"cbsf/internal/watcher"
)

type App struct {
	Config   *config.Config
	pipeline *pipeline.Pipeline
	store    *history.Store
	limiter  *watcher.Limiter

	teaProgram *tea.Program
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		Config:   cfg,
		pipeline: pipeline.New(cfg),
		limiter:  watcher.NewLimiter(cfg.Watch.RescansPerSec, cfg.Watch.RescanBurst),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		app.store = store
	}

	return app, nil
}

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// RunGenerate performs one full scan and writes every configured output.
func (a *App) RunGenerate(ctx context.Context) (*pipeline.GenerateReport, *metrics.Result, error) {
	rep, err := a.pipeline.Generate(ctx)
	if err != nil {
		return nil, nil, err
	}

	result := metrics.Evaluate(rep.Graph, rep.EncodedBytes, rep.TotalSourceBytes)

	if err := a.writeOutputs(rep, result); err != nil {
		return nil, nil, err
	}
	a.saveSnapshot(rep.RunID, rep, result)

	return rep, result, nil
}

// RunEvaluate reads the configured summary document back and prints its
// metrics.
func (a *App) RunEvaluate(ctx context.Context, path string) (*metrics.Result, cbsfdoc.Metadata, error) {
	result, meta, err := a.pipeline.Evaluate(ctx, path)
	if err != nil {
		return nil, cbsfdoc.Metadata{}, err
	}

	a.saveSnapshot(meta.RunID, nil, result)
	return result, meta, nil
}

func (a *App) writeOutputs(rep *pipeline.GenerateReport, result *metrics.Result) error {
	out := a.Config.Output

	if out.DOT != "" {
		dot, err := report.NewDOTGenerator(rep.Graph, result).Generate()
		if err != nil {
			return err
		}
		if err := writeOutputFile(out.DOT, dot); err != nil {
			return err
		}
	}

	if out.TSV != "" {
		gen := report.NewTSVGenerator(rep.Graph, result)
		edges, err := gen.GenerateEdges()
		if err != nil {
			return err
		}
		if err := writeOutputFile(out.TSV, edges); err != nil {
			return err
		}

		modules, err := gen.GenerateModules()
		if err != nil {
			return err
		}
		modulesPath := modulesTSVPath(out.TSV)
		if err := writeOutputFile(modulesPath, modules); err != nil {
			return err
		}
	}

	if out.Summary != "" {
		if err := writeOutputFile(out.Summary, report.Summary(result)); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) saveSnapshot(runID string, rep *pipeline.GenerateReport, result *metrics.Result) {
	if a.store == nil {
		return
	}

	snap := history.Snapshot{
		RunID:            runID,
		Timestamp:        time.Now().UTC(),
		NodeCount:        result.NodeCount,
		EdgeCount:        result.EdgeCount,
		CompressionRatio: result.CompressionRatio,
		RatioDefined:     result.CompressionRatioDefined,
		Density:          result.Density,
		ComponentCount:   result.ComponentCount,
		CommunityCount:   result.CommunityCount,
		Modularity:       result.Modularity,
		AvgFanIn:         result.AvgFanIn,
		AvgFanOut:        result.AvgFanOut,
		AvgInstability:   result.AvgInstability,
		AggregateEntropy: result.AggregateEntropy,
	}
	if !snap.RatioDefined {
		snap.CompressionRatio = 0
	}
	if rep != nil {
		snap.EncodedBytes = rep.EncodedBytes
		snap.TotalSourceBytes = rep.TotalSourceBytes
	}

	if err := a.store.SaveSnapshot(a.Config.History.Project, snap); err != nil {
		slog.Warn("failed to save history snapshot", "error", err)
	}
}

// HandleChanges is the watcher callback: changed files trigger a rescan,
// throttled by the rescan limiter.
func (a *App) HandleChanges(paths []string) {
	slog.Debug("source changes detected", "count", len(paths))

	if !a.limiter.Allow() {
		slog.Debug("rescan throttled")
		return
	}
	observability.RescansTotal.Inc()

	rep, result, err := a.RunGenerate(context.Background())
	if err != nil {
		slog.Error("rescan failed", "error", err)
		return
	}

	if a.teaProgram != nil {
		a.teaProgram.Send(newUpdateMsg(rep, result))
	}
}

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Extensions,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	// Runs for the process lifetime, never closed here.
	return w.Watch(a.Config.ScanPaths)
}

func (a *App) RunUI(rep *pipeline.GenerateReport, result *metrics.Result) error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		p.Send(newUpdateMsg(rep, result))
	}()

	_, err := p.Run()
	return err
}

func writeOutputFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// modulesTSVPath derives the per-module table path from the edge table
// path, e.g. deps.tsv becomes deps.modules.tsv.
func modulesTSVPath(edgePath string) string {
	ext := filepath.Ext(edgePath)
	return fmt.Sprintf("%s.modules%s", edgePath[:len(edgePath)-len(ext)], ext)
}
