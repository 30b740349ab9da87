// Package metrics exposes the engine's Prometheus instrumentation. Metrics
// are registered on the default registry; binaries serve them via
// promhttp.Handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuestionsTotal counts questions accepted by Ask.
	QuestionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casegraph_questions_total",
		Help: "Questions processed by the engine.",
	})

	// QueryExecutions counts catalog query executions by query name.
	QueryExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casegraph_query_executions_total",
		Help: "Graph catalog query executions.",
	}, []string{"query"})

	// QueryFailures counts catalog query failures by query name.
	QueryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casegraph_query_failures_total",
		Help: "Graph catalog query failures (isolated, never fatal).",
	}, []string{"query"})

	// FallbackAnswers counts answers served by the deterministic renderer
	// instead of the LLM, labeled by the reason for falling back.
	FallbackAnswers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casegraph_fallback_answers_total",
		Help: "Answers rendered without the LLM.",
	}, []string{"reason"})

	// AskDuration observes end-to-end Ask latency.
	AskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "casegraph_ask_duration_seconds",
		Help:    "End-to-end question handling latency.",
		Buckets: prometheus.DefBuckets,
	})

	// ContextKeys observes how many bundle keys back each answer.
	ContextKeys = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "casegraph_context_keys",
		Help:    "Bundle keys per answer.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})
)
