package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcomes
const (
	OutcomeSuccess   = "success"
	OutcomeEmpty     = "empty_query"
	OutcomeCancelled = "cancelled"
)

var (
	// QueriesTotal counts processed queries by outcome
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medgraph_queries_total",
		Help: "Total processed queries by outcome",
	}, []string{"outcome"})

	// GenerationFallbacksTotal counts template responses by fallback reason
	GenerationFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medgraph_generation_fallbacks_total",
		Help: "Total template fallback responses by reason",
	}, []string{"reason"})

	HallucinationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medgraph_hallucinations_total",
		Help: "Total responses flagged as hallucinated",
	})

	RetrievalLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "medgraph_retrieval_latency_seconds",
		Help:    "Scoring and traversal duration per query",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	EvaluationScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "medgraph_evaluation_score",
		Help:    "Composite evaluation score per query",
		Buckets: []float64{0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
	})

	NodesVisited = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "medgraph_nodes_visited",
		Help:    "Nodes visited per traversal",
		Buckets: []float64{0, 1, 2, 4, 8, 12, 16, 24},
	})
)
