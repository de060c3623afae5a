package medgraph

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/siherrmann/medgraph/core/audit"
	"github.com/siherrmann/medgraph/core/generation"
	"github.com/siherrmann/medgraph/core/graph"
	"github.com/siherrmann/medgraph/core/grounding"
	"github.com/siherrmann/medgraph/core/retrieval"
	"github.com/siherrmann/medgraph/database"
	"github.com/siherrmann/medgraph/helper"
	"github.com/siherrmann/medgraph/model"
	loadSql "github.com/siherrmann/medgraph/sql"
)

// Medgraph provides a unified interface to the graph store, the query engine and the audit log
type Medgraph struct {
	DB       *helper.Database
	Nodes    *database.NodesDBHandler
	Edges    *database.EdgesDBHandler
	Queries  *database.QueriesDBHandler
	Feedback *database.FeedbackDBHandler
	Graph    *database.GraphStore
	Engine   *retrieval.Engine
	// Logging
	log *slog.Logger
}

// NewMedgraph creates a new Medgraph instance with all handlers initialized.
// A nil generator answers every query from the response template.
func NewMedgraph(config *helper.DatabaseConfiguration, engineConfig model.EngineConfig, generator generation.Generator) (*Medgraph, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	return NewMedgraphWithLogger(config, engineConfig, generator, logger)
}

// NewMedgraphWithLogger is NewMedgraph with a caller provided logger
func NewMedgraphWithLogger(config *helper.DatabaseConfiguration, engineConfig model.EngineConfig, generator generation.Generator, logger *slog.Logger) (*Medgraph, error) {
	if logger == nil {
		logger = slog.Default()
	}

	err := engineConfig.Validate()
	if err != nil {
		return nil, helper.NewError("validate engine config", err)
	}

	// Initialize database
	db, err := helper.NewDatabase("medgraph", config, logger)
	if err != nil {
		return nil, err
	}

	err = loadSql.Init(db.Instance)
	if err != nil {
		_ = db.Close()
		return nil, helper.NewError("initialize database", err)
	}

	// Queries before feedback, feedback references queries.
	// force=false to not reload if functions already exist
	nodes, err := database.NewNodesDBHandler(db, false)
	if err != nil {
		_ = db.Close()
		return nil, helper.NewError("create nodes handler", err)
	}

	edges, err := database.NewEdgesDBHandler(db, false)
	if err != nil {
		_ = db.Close()
		return nil, helper.NewError("create edges handler", err)
	}

	queries, err := database.NewQueriesDBHandler(db, false)
	if err != nil {
		_ = db.Close()
		return nil, helper.NewError("create queries handler", err)
	}

	feedback, err := database.NewFeedbackDBHandler(db, false)
	if err != nil {
		_ = db.Close()
		return nil, helper.NewError("create feedback handler", err)
	}

	store, err := database.NewGraphStore(nodes, edges)
	if err != nil {
		_ = db.Close()
		return nil, helper.NewError("create graph store", err)
	}

	composer := generation.NewComposer(generator, engineConfig.Generation, logger)
	detector := grounding.NewDetector(engineConfig.Detector)

	engine, err := retrieval.NewEngine(store, composer, detector, engineConfig, logger)
	if err != nil {
		_ = db.Close()
		return nil, helper.NewError("create retrieval engine", err)
	}

	return &Medgraph{
		DB:       db,
		Nodes:    nodes,
		Edges:    edges,
		Queries:  queries,
		Feedback: feedback,
		Graph:    store,
		Engine:   engine,
		log:      logger,
	}, nil
}

// Close closes the database connection
func (m *Medgraph) Close() error {
	return m.DB.Close()
}

// Seed loads the medical device knowledge graph unless the graph already has nodes.
// It reports whether the graph was seeded.
func (m *Medgraph) Seed(ctx context.Context) (bool, error) {
	existing, err := m.Nodes.SelectAllNodes(ctx)
	if err != nil {
		return false, helper.NewError("select nodes", err)
	}
	if len(existing) > 0 {
		m.log.Info("Graph already seeded", slog.Int("nodes", len(existing)))
		return false, nil
	}

	err = graph.Seed(ctx, m.Graph)
	if err != nil {
		return false, err
	}

	m.log.Info("Seeded knowledge graph", slog.Int("nodes", len(graph.SeedNodes())), slog.Int("edges", len(graph.SeedEdges())))
	return true, nil
}

// Query answers a query and records it in the audit log.
// If only persisting fails the result is returned together with the error.
func (m *Medgraph) Query(ctx context.Context, query string) (*model.QueryResult, error) {
	result, err := m.Engine.ProcessQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	err = m.Queries.InsertQuery(ctx, result)
	if err != nil {
		return result, helper.NewError("persist query", err)
	}

	m.log.Info(
		"Persisted query",
		slog.String("query_id", result.ID.String()),
		slog.Int("nodes_visited", len(result.NodesVisited)),
		slog.Float64("evaluation_score", result.EvaluationScore),
		slog.Bool("hallucination_detected", result.HallucinationDetected),
	)

	return result, nil
}

// SubmitFeedback validates and stores feedback for a query
func (m *Medgraph) SubmitFeedback(ctx context.Context, feedback *model.Feedback) error {
	err := m.Feedback.InsertFeedback(ctx, feedback)
	if err != nil {
		return helper.NewError("submit feedback", err)
	}

	m.log.Info("Stored feedback", slog.String("feedback_id", feedback.ID.String()), slog.String("query_id", feedback.QueryID.String()))
	return nil
}

// LatestTraversal returns the traversal of a recently processed query
func (m *Medgraph) LatestTraversal(queryID uuid.UUID) (*model.Traversal, bool) {
	return m.Engine.LatestTraversal(queryID)
}

// Summary aggregates the whole audit log
func (m *Medgraph) Summary(ctx context.Context) (audit.Summary, error) {
	queries, err := m.Queries.SelectAllQueries(ctx)
	if err != nil {
		return audit.Summary{}, helper.NewError("select queries", err)
	}

	feedback, err := m.Feedback.SelectAllFeedback(ctx)
	if err != nil {
		return audit.Summary{}, helper.NewError("select feedback", err)
	}

	return audit.Summarize(queries, feedback), nil
}

// ComplianceReport lists the regulation nodes visited by every recorded query
func (m *Medgraph) ComplianceReport(ctx context.Context) ([]audit.ComplianceEntry, error) {
	queries, nodes, err := m.queriesAndNodes(ctx)
	if err != nil {
		return nil, err
	}

	return audit.ComplianceReport(queries, nodes), nil
}

// ExportCSV writes the audit log as CSV
func (m *Medgraph) ExportCSV(ctx context.Context, w io.Writer) error {
	queries, nodes, err := m.queriesAndNodes(ctx)
	if err != nil {
		return err
	}

	return audit.WriteCSV(w, queries, nodes)
}

// KnowledgeGaps groups negative feedback by query text
func (m *Medgraph) KnowledgeGaps(ctx context.Context) ([]audit.KnowledgeGap, error) {
	feedback, err := m.Feedback.SelectAllFeedback(ctx)
	if err != nil {
		return nil, helper.NewError("select feedback", err)
	}

	queries, err := m.Queries.SelectAllQueries(ctx)
	if err != nil {
		return nil, helper.NewError("select queries", err)
	}

	return audit.KnowledgeGaps(feedback, queries), nil
}

func (m *Medgraph) queriesAndNodes(ctx context.Context) ([]*model.QueryResult, []*model.Node, error) {
	queries, err := m.Queries.SelectAllQueries(ctx)
	if err != nil {
		return nil, nil, helper.NewError("select queries", err)
	}

	nodes, err := m.Nodes.SelectAllNodes(ctx)
	if err != nil {
		return nil, nil, helper.NewError("select nodes", err)
	}

	return queries, nodes, nil
}
