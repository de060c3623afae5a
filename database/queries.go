package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/siherrmann/medgraph/helper"
	"github.com/siherrmann/medgraph/model"
	loadSql "github.com/siherrmann/medgraph/sql"
)

// QueriesDBHandlerFunctions defines the interface for the query audit log.
type QueriesDBHandlerFunctions interface {
	InsertQuery(ctx context.Context, result *model.QueryResult) error
	SelectQuery(ctx context.Context, id uuid.UUID) (*model.QueryResult, error)
	SelectRecentQueries(ctx context.Context, limit int) ([]*model.QueryResult, error)
	SelectAllQueries(ctx context.Context) ([]*model.QueryResult, error)
}

// QueriesDBHandler persists processed queries
type QueriesDBHandler struct {
	db *helper.Database
}

// NewQueriesDBHandler creates a new query audit log handler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewQueriesDBHandler(db *helper.Database, force bool) (*QueriesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	queriesDbHandler := &QueriesDBHandler{
		db: db,
	}

	err := loadSql.LoadQueriesSql(queriesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load queries sql", err)
	}

	err = queriesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized QueriesDBHandler")

	return queriesDbHandler, nil
}

// CreateTable creates the 'queries' table in the database.
// If the table already exists, it does not create it again.
func (h *QueriesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_queries();`)
	if err != nil {
		return helper.NewError("init queries", err)
	}

	h.db.Logger.Info("Checked/created table queries")

	return nil
}

// InsertQuery persists a query result. A nil ID is replaced by a new one,
// CreatedAt is set from the database.
func (h *QueriesDBHandler) InsertQuery(ctx context.Context, result *model.QueryResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}

	path := result.TraversalPath
	if path == nil {
		path = []model.TraversalPathEntry{}
	}
	traversalPath, err := json.Marshal(path)
	if err != nil {
		return helper.NewError("marshal traversal path", err)
	}

	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_query($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		result.ID,
		result.Query,
		result.Response,
		pq.Array(nonNil(result.NodesVisited)),
		traversalPath,
		result.RetrievalLatencyMs,
		result.EvaluationScore,
		result.HallucinationDetected,
		result.HallucinationConfidence,
		pq.Array(nonNil(result.HallucinationViolations)),
		result.Generated,
		result.FallbackReason,
	)

	err = row.Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectQuery retrieves a persisted query by ID
func (h *QueriesDBHandler) SelectQuery(ctx context.Context, id uuid.UUID) (*model.QueryResult, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_query($1)`,
		id,
	)

	result, err := scanQuery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrQueryNotFound
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return result, nil
}

// SelectRecentQueries retrieves the newest queries, newest first
func (h *QueriesDBHandler) SelectRecentQueries(ctx context.Context, limit int) ([]*model.QueryResult, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_recent_queries($1)`,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanQueries(rows)
}

// SelectAllQueries retrieves all queries, newest first
func (h *QueriesDBHandler) SelectAllQueries(ctx context.Context) ([]*model.QueryResult, error) {
	rows, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_all_queries()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanQueries(rows)
}

func scanQuery(row scanner) (*model.QueryResult, error) {
	result := &model.QueryResult{}
	var traversalPath []byte

	err := row.Scan(
		&result.ID,
		&result.Query,
		&result.Response,
		pq.Array(&result.NodesVisited),
		&traversalPath,
		&result.RetrievalLatencyMs,
		&result.EvaluationScore,
		&result.HallucinationDetected,
		&result.HallucinationConfidence,
		pq.Array(&result.HallucinationViolations),
		&result.Generated,
		&result.FallbackReason,
		&result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(traversalPath, &result.TraversalPath)
	if err != nil {
		return nil, err
	}

	result.NodesVisited = nonNil(result.NodesVisited)
	result.HallucinationViolations = nonNil(result.HallucinationViolations)

	return result, nil
}

func scanQueries(rows *sql.Rows) ([]*model.QueryResult, error) {
	results := []*model.QueryResult{}
	for rows.Next() {
		result, err := scanQuery(rows)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		results = append(results, result)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
