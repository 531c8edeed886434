package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Model metrics
	ModelCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphqa_model_calls_total",
			Help: "Number of language model calls",
		},
		[]string{"stage", "status"},
	)

	ModelLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphqa_model_call_duration_seconds",
			Help:    "Latency of language model calls",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"stage"},
	)

	// Extraction metrics
	ExtractionParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graphqa_extraction_parse_failures_total",
		Help: "Model responses that could not be parsed into a graph document",
	})

	ExtractedElements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphqa_extracted_elements_total",
			Help: "Nodes and relationships kept or dropped by extraction filtering",
		},
		[]string{"kind", "outcome"},
	)

	DocumentsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graphqa_documents_loaded_total",
		Help: "Graph documents written to the store",
	})

	// Query metrics
	QueryRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphqa_query_runs_total",
			Help: "Question answering runs by final state",
		},
		[]string{"state"},
	)

	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphqa_store_call_duration_seconds",
			Help:    "Latency of graph store calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// System metrics
	SystemGoroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "graphqa_goroutines",
		Help: "Number of goroutines",
	})
)

// ObserveModelCall records one model call that started at start.
func ObserveModelCall(stage string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ModelCalls.WithLabelValues(stage, status).Inc()
	ModelLatency.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func ObserveStoreCall(operation string, start time.Time) {
	StoreLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func UpdateSystemMetrics() {
	SystemGoroutines.Set(float64(runtime.NumGoroutine()))
}
