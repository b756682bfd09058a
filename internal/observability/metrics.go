package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cbsf_parsing_seconds",
		Help:    "Time spent parsing a source unit.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cbsf_graph_nodes_total",
		Help: "Number of modules in the last generated graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cbsf_graph_edges_total",
		Help: "Number of dependency edges in the last generated graph.",
	})

	EncodedBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cbsf_encoded_bytes",
		Help: "Size in bytes of the last written summary document.",
	})

	PipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cbsf_pipeline_seconds",
		Help:    "Time spent on pipeline stages.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	ModulesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cbsf_modules_skipped_total",
		Help: "Total number of source units skipped with a warning.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cbsf_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cbsf_rescans_total",
		Help: "Total number of rescans triggered by the watcher.",
	})
)
