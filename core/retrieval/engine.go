package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/medgraph/core/generation"
	"github.com/siherrmann/medgraph/core/graph"
	"github.com/siherrmann/medgraph/core/grounding"
	"github.com/siherrmann/medgraph/helper"
	"github.com/siherrmann/medgraph/metrics"
	"github.com/siherrmann/medgraph/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrEmptyQuery is returned for queries without any non-whitespace character
var ErrEmptyQuery = errors.New("query is empty")

var tracer = otel.Tracer("medgraph.retrieval")

// Engine runs the pipeline query, scoring, traversal, composition, detection and evaluation
type Engine struct {
	store    graph.Store
	scorer   Scorer
	composer *generation.Composer
	detector *grounding.Detector
	config   model.EngineConfig
	latest   *LatestTraversals
	logger   *slog.Logger
}

// NewEngine creates a new retrieval engine
func NewEngine(store graph.Store, composer *generation.Composer, detector *grounding.Detector, config model.EngineConfig, logger *slog.Logger) (*Engine, error) {
	if store == nil {
		return nil, helper.NewError("engine validation", fmt.Errorf("graph store is nil"))
	}
	err := config.Validate()
	if err != nil {
		return nil, helper.NewError("validate engine config", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if composer == nil {
		composer = generation.NewComposer(nil, config.Generation, logger)
	}
	if detector == nil {
		detector = grounding.NewDetector(config.Detector)
	}

	latest, err := NewLatestTraversals(config.LatestCacheSize)
	if err != nil {
		return nil, err
	}

	return &Engine{
		store:    store,
		scorer:   NewLexicalScorer(config.Scorer),
		composer: composer,
		detector: detector,
		config:   config,
		latest:   latest,
		logger:   logger,
	}, nil
}

// ProcessQuery answers a query from the knowledge graph.
// Only an empty query or the cancellation of ctx yield an error.
func (e *Engine) ProcessQuery(ctx context.Context, query string) (*model.QueryResult, error) {
	ctx, span := tracer.Start(ctx, "retrieval.ProcessQuery", trace.WithAttributes(
		attribute.Int("query_length", len(query)),
	))
	defer span.End()

	if strings.TrimSpace(query) == "" {
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
		span.SetStatus(codes.Error, ErrEmptyQuery.Error())
		return nil, ErrEmptyQuery
	}

	start := time.Now()

	traversal, err := e.retrieve(ctx, query)
	if err != nil {
		return nil, e.cancelled(span, err)
	}
	retrievalLatency := time.Since(start)

	outcome := e.compose(ctx, query, traversal, retrievalLatency)
	if err := ctx.Err(); err != nil {
		return nil, e.cancelled(span, err)
	}

	report := e.detector.Detect(outcome.Text, traversal.Nodes)
	score := Evaluate(traversal)

	result := &model.QueryResult{
		ID:                      uuid.New(),
		Query:                   query,
		Response:                outcome.Text,
		NodesVisited:            traversal.VisitedNodes,
		TraversalPath:           traversal.Path,
		Steps:                   traversal.Steps,
		RetrievalLatencyMs:      retrievalLatency.Milliseconds(),
		EvaluationScore:         score,
		HallucinationDetected:   report.IsHallucinated,
		HallucinationConfidence: report.Confidence,
		HallucinationViolations: report.Violations,
		Generated:               outcome.Generated,
		FallbackReason:          string(outcome.FallbackReason),
		CreatedAt:               time.Now(),
	}

	e.latest.Add(result.ID, traversal)

	metrics.QueriesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.RetrievalLatency.Observe(retrievalLatency.Seconds())
	metrics.EvaluationScore.Observe(score)
	metrics.NodesVisited.Observe(float64(len(traversal.VisitedNodes)))
	if report.IsHallucinated {
		metrics.HallucinationsTotal.Inc()
	}

	span.SetAttributes(
		attribute.String("query_id", result.ID.String()),
		attribute.Int("nodes_visited", len(result.NodesVisited)),
		attribute.Float64("evaluation_score", score),
		attribute.Bool("generated", outcome.Generated),
		attribute.Bool("hallucination_detected", report.IsHallucinated),
	)
	span.SetStatus(codes.Ok, "")

	e.logger.Debug(
		"Processed query",
		slog.String("query_id", result.ID.String()),
		slog.Int("nodes_visited", len(result.NodesVisited)),
		slog.Float64("evaluation_score", score),
		slog.Bool("generated", outcome.Generated),
	)

	return result, nil
}

// retrieve scores all nodes and traverses from the best candidates
func (e *Engine) retrieve(ctx context.Context, query string) (*model.Traversal, error) {
	ctx, span := tracer.Start(ctx, "retrieval.retrieve")
	defer span.End()

	nodes, err := e.store.GetAllNodes(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.logger.Warn("Could not read graph nodes, continuing with an empty graph", slog.String("error", err.Error()))
		nodes = nil
	}

	ranked := RankNodes(e.scorer.Score(query, nodes), nodes)
	span.SetAttributes(
		attribute.Int("nodes", len(nodes)),
		attribute.Int("candidates", len(ranked)),
	)

	traversal, err := graph.Traverse(ctx, e.store, nodeIDs(ranked), e.config.Traversal, e.logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("visited", len(traversal.VisitedNodes)))
	return traversal, nil
}

func (e *Engine) compose(ctx context.Context, query string, traversal *model.Traversal, retrievalLatency time.Duration) generation.Outcome {
	ctx, span := tracer.Start(ctx, "retrieval.compose")
	defer span.End()

	outcome := e.composer.Compose(ctx, query, traversal.Nodes, generation.GraphContext{
		Hops:      traversal.Hops(),
		LatencyMs: retrievalLatency.Milliseconds(),
	})
	if !outcome.Generated {
		metrics.GenerationFallbacksTotal.WithLabelValues(string(outcome.FallbackReason)).Inc()
	}

	span.SetAttributes(
		attribute.Bool("generated", outcome.Generated),
		attribute.String("fallback_reason", string(outcome.FallbackReason)),
	)
	return outcome
}

func (e *Engine) cancelled(span trace.Span, err error) error {
	metrics.QueriesTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// LatestTraversal returns the traversal of a recent query
func (e *Engine) LatestTraversal(queryID uuid.UUID) (*model.Traversal, bool) {
	return e.latest.Get(queryID)
}

// Latest returns the most recent traversal
func (e *Engine) Latest() (uuid.UUID, *model.Traversal, bool) {
	return e.latest.Latest()
}
