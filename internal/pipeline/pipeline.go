// # internal/pipeline/pipeline.go
//
// The pipeline ties the stages together: crawl source units, resolve
// them into a module graph, encode the summary document, and evaluate
// metrics from a previously written document.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"cbsf/internal/cbsfdoc"
	"cbsf/internal/cbsferr"
	"cbsf/internal/config"
	"cbsf/internal/graph"
	"cbsf/internal/metrics"
	"cbsf/internal/observability"
	"cbsf/internal/resolver"
	"cbsf/internal/source"
)

// Warning records a source unit that was skipped without aborting the run.
type Warning struct {
	Path   string
	Module string
	Reason string
}

// GenerateReport summarizes one generate run.
type GenerateReport struct {
	RunID            string
	OutputPath       string
	Graph            *graph.Graph
	NodeCount        int
	EdgeCount        int
	TotalSourceBytes int64
	EncodedBytes     int64
	Warnings         []Warning
	Duration         time.Duration
}

type Pipeline struct {
	cfg      *config.Config
	resolver *resolver.Resolver
	workers  int
}

func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		resolver: resolver.New(resolver.NewGrammarLoader()),
		workers:  runtime.NumCPU(),
	}
}

// Generate runs the full crawl, analyze, encode, write sequence and
// returns a report of what was produced.
func (p *Pipeline) Generate(ctx context.Context) (*GenerateReport, error) {
	ctx, span := observability.Tracer.Start(ctx, "pipeline.Generate")
	defer span.End()

	started := time.Now()
	runID := uuid.NewString()
	log := slog.With("run_id", runID)

	set, err := p.crawl(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("crawl complete", "units", len(set.Units), "bytes", set.TotalBytes())

	g, warnings, err := p.Analyze(ctx, set)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn("module skipped", "path", w.Path, "module", w.Module, "reason", w.Reason)
	}

	meta := cbsfdoc.Metadata{
		TotalSourceBytes:    set.TotalBytes(),
		GeneratedAtUnixNano: time.Now().UnixNano(),
		RunID:               runID,
	}

	encStart := time.Now()
	encoded, err := cbsfdoc.Encode(g, meta)
	if err != nil {
		return nil, err
	}
	observability.PipelineDuration.WithLabelValues("encode").Observe(time.Since(encStart).Seconds())

	outPath := p.cfg.Output.CBSF
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, cbsferr.Wrap(err, cbsferr.CodeInternal, "create output directory")
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return nil, cbsferr.Wrap(err, cbsferr.CodeInternal, "write summary document")
	}

	observability.GraphNodes.Set(float64(len(g.Nodes)))
	observability.GraphEdges.Set(float64(len(g.Edges)))
	observability.EncodedBytes.Set(float64(len(encoded)))

	report := &GenerateReport{
		RunID:            runID,
		OutputPath:       outPath,
		Graph:            g,
		NodeCount:        len(g.Nodes),
		EdgeCount:        len(g.Edges),
		TotalSourceBytes: set.TotalBytes(),
		EncodedBytes:     int64(len(encoded)),
		Warnings:         warnings,
		Duration:         time.Since(started),
	}
	log.Info("generate complete",
		"nodes", report.NodeCount,
		"edges", report.EdgeCount,
		"encoded_bytes", report.EncodedBytes,
		"duration", report.Duration)
	return report, nil
}

// Evaluate reads a summary document back and computes its metrics.
func (p *Pipeline) Evaluate(ctx context.Context, path string) (*metrics.Result, cbsfdoc.Metadata, error) {
	_, span := observability.Tracer.Start(ctx, "pipeline.Evaluate")
	defer span.End()

	started := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cbsfdoc.Metadata{}, cbsferr.AddContext(
				cbsferr.Wrap(err, cbsferr.CodeNotFound, "summary document not found"),
				cbsferr.CtxPath, path)
		}
		return nil, cbsfdoc.Metadata{}, cbsferr.Wrap(err, cbsferr.CodeInternal, "read summary document")
	}

	g, meta, err := cbsfdoc.Decode(data)
	if err != nil {
		return nil, cbsfdoc.Metadata{}, err
	}

	result := metrics.Evaluate(g, int64(len(data)), meta.TotalSourceBytes)
	observability.PipelineDuration.WithLabelValues("evaluate").Observe(time.Since(started).Seconds())
	return result, meta, nil
}

func (p *Pipeline) crawl(ctx context.Context) (*source.Set, error) {
	start := time.Now()
	defer func() {
		observability.PipelineDuration.WithLabelValues("crawl").Observe(time.Since(start).Seconds())
	}()

	merged := &source.Set{}
	for _, root := range p.cfg.ScanPaths {
		set, err := source.Crawl(root, p.cfg.Extensions, p.cfg.Exclude.Dirs, p.cfg.Exclude.Files)
		if err != nil {
			return nil, err
		}
		if merged.Root == "" {
			merged.Root = set.Root
		}
		merged.Units = append(merged.Units, set.Units...)
	}
	return merged, nil
}

// Analyze resolves every unit and merges the results into one graph.
// Units that fail to parse become isolated nodes and produce a warning;
// duplicate canonical names abort the run.
func (p *Pipeline) Analyze(ctx context.Context, set *source.Set) (*graph.Graph, []Warning, error) {
	ctx, span := observability.Tracer.Start(ctx, "pipeline.Analyze")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.PipelineDuration.WithLabelValues("analyze").Observe(time.Since(start).Seconds())
	}()

	names := make([]string, len(set.Units))
	seen := make(map[string]string, len(set.Units))
	for i, unit := range set.Units {
		name := resolver.CanonicalName(unit.Path)
		if prev, dup := seen[name]; dup {
			return nil, nil, cbsferr.AddContext(
				cbsferr.New(cbsferr.CodeValidationError,
					fmt.Sprintf("modules %q and %q share canonical name", prev, unit.Path)),
				cbsferr.CtxModule, name)
		}
		seen[name] = unit.Path
		names[i] = name
	}
	index := resolver.NewIndex(names)

	type outcome struct {
		result  graph.ModuleResult
		warning *Warning
	}
	outcomes := make([]outcome, len(set.Units))

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := p.workers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				unit := set.Units[i]
				lang := resolver.DetectLanguage(unit.Path)

				parseStart := time.Now()
				canonical, refs, err := p.resolver.Resolve(unit.Path, unit.Content, index)
				if lang != "" {
					observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(parseStart).Seconds())
				}

				outcomes[i].result = graph.ModuleResult{
					Name:       canonical,
					Size:       unit.Size,
					References: refs,
				}
				if err != nil {
					outcomes[i].result.References = nil
					outcomes[i].warning = &Warning{
						Path:   unit.Path,
						Module: canonical,
						Reason: err.Error(),
					}
				}
			}
		}()
	}

	for i := range set.Units {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	results := make([]graph.ModuleResult, len(outcomes))
	var warnings []Warning
	for i, o := range outcomes {
		results[i] = o.result
		if o.warning != nil {
			warnings = append(warnings, *o.warning)
			observability.ModulesSkippedTotal.Inc()
		}
	}

	g, err := graph.Build(results)
	if err != nil {
		return nil, nil, err
	}
	return g, warnings, nil
}
