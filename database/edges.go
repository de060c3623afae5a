package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/siherrmann/medgraph/helper"
	"github.com/siherrmann/medgraph/model"
	loadSql "github.com/siherrmann/medgraph/sql"
)

// EdgesDBHandlerFunctions defines the interface for Edges database operations.
type EdgesDBHandlerFunctions interface {
	InsertEdge(ctx context.Context, edge *model.Edge) error
	SelectEdge(ctx context.Context, id string) (*model.Edge, error)
	SelectAllEdges(ctx context.Context) ([]*model.Edge, error)
	SelectEdgesFromNode(ctx context.Context, sourceID string) ([]*model.Edge, error)
	UpdateEdgeWeight(ctx context.Context, id string, weight float64) (*model.Edge, error)
	DeleteEdge(ctx context.Context, id string) error
}

// EdgesDBHandler handles edge-related database operations
type EdgesDBHandler struct {
	db *helper.Database
}

// NewEdgesDBHandler creates a new edges database handler.
// It initializes the database connection and loads edge-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEdgesDBHandler(db *helper.Database, force bool) (*EdgesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	edgesDbHandler := &EdgesDBHandler{
		db: db,
	}

	err := loadSql.LoadEdgesSql(edgesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load edges sql", err)
	}

	err = edgesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EdgesDBHandler")

	return edgesDbHandler, nil
}

// CreateTable creates the 'edges' table in the database.
// If the table already exists, it does not create it again.
// Edges carry no foreign keys so dangling references can be stored.
func (h *EdgesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_edges();`)
	if err != nil {
		return helper.NewError("init edges", err)
	}

	h.db.Logger.Info("Checked/created table edges")

	return nil
}

// InsertEdge inserts a new edge.
// An empty ID is stored as "<source>-<target>". The weight is stored as given.
func (h *EdgesDBHandler) InsertEdge(ctx context.Context, edge *model.Edge) error {
	if edge.ID == "" {
		edge.ID = model.EdgeID(edge.SourceID, edge.TargetID)
	}

	err := edge.Validate()
	if err != nil {
		return helper.NewError("edge validation", err)
	}

	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_edge($1, $2, $3, $4, $5)`,
		edge.ID,
		edge.SourceID,
		edge.TargetID,
		edge.RelationshipType,
		edge.Weight,
	)

	err = scanEdge(row, edge)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectEdge retrieves an edge by ID
func (h *EdgesDBHandler) SelectEdge(ctx context.Context, id string) (*model.Edge, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_edge($1)`,
		id,
	)

	edge := &model.Edge{}
	err := scanEdge(row, edge)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrEdgeNotFound
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return edge, nil
}

// SelectAllEdges retrieves all edges in insertion order
func (h *EdgesDBHandler) SelectAllEdges(ctx context.Context) ([]*model.Edge, error) {
	rows, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_all_edges()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanEdges(rows)
}

// SelectEdgesFromNode retrieves the outgoing edges of a node in insertion order
func (h *EdgesDBHandler) SelectEdgesFromNode(ctx context.Context, sourceID string) ([]*model.Edge, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_edges_from_node($1)`,
		sourceID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanEdges(rows)
}

// UpdateEdgeWeight updates the weight of an edge
func (h *EdgesDBHandler) UpdateEdgeWeight(ctx context.Context, id string, weight float64) (*model.Edge, error) {
	if weight < 0 || weight > 1 {
		return nil, helper.NewError("edge validation", fmt.Errorf("weight %v out of range [0,1]", weight))
	}

	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM update_edge_weight($1, $2)`,
		id,
		weight,
	)

	edge := &model.Edge{}
	err := scanEdge(row, edge)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrEdgeNotFound
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return edge, nil
}

// DeleteEdge deletes an edge by ID
func (h *EdgesDBHandler) DeleteEdge(ctx context.Context, id string) error {
	var deleted int
	err := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT delete_edge($1)`,
		id,
	).Scan(&deleted)
	if err != nil {
		return helper.NewError("delete", err)
	}
	if deleted == 0 {
		return model.ErrEdgeNotFound
	}

	return nil
}

func scanEdge(row scanner, edge *model.Edge) error {
	return row.Scan(
		&edge.ID,
		&edge.SourceID,
		&edge.TargetID,
		&edge.RelationshipType,
		&edge.Weight,
	)
}

func scanEdges(rows *sql.Rows) ([]*model.Edge, error) {
	edges := []*model.Edge{}
	for rows.Next() {
		edge := &model.Edge{}
		err := scanEdge(rows, edge)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		edges = append(edges, edge)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return edges, nil
}
