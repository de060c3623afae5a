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

// NodesDBHandlerFunctions defines the interface for Nodes database operations.
type NodesDBHandlerFunctions interface {
	InsertNode(ctx context.Context, node *model.Node) error
	SelectNode(ctx context.Context, id string) (*model.Node, error)
	SelectAllNodes(ctx context.Context) ([]*model.Node, error)
	SelectNodesByType(ctx context.Context, nodeType model.NodeType) ([]*model.Node, error)
	UpdateNode(ctx context.Context, id string, update model.NodeUpdate) (*model.Node, error)
	DeleteNode(ctx context.Context, id string) error
}

// NodesDBHandler handles node-related database operations
type NodesDBHandler struct {
	db *helper.Database
}

// NewNodesDBHandler creates a new nodes database handler.
// It loads the node-related SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewNodesDBHandler(db *helper.Database, force bool) (*NodesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	nodesDbHandler := &NodesDBHandler{
		db: db,
	}

	err := loadSql.Init(nodesDbHandler.db.Instance)
	if err != nil {
		return nil, helper.NewError("init sql", err)
	}

	err = loadSql.LoadNodesSql(nodesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load nodes sql", err)
	}

	err = nodesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized NodesDBHandler")

	return nodesDbHandler, nil
}

// CreateTable creates the 'nodes' table in the database.
// If the table already exists, it does not create it again.
func (h *NodesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_nodes();`)
	if err != nil {
		return helper.NewError("init nodes", err)
	}

	h.db.Logger.Info("Checked/created table nodes")

	return nil
}

// InsertNode inserts a new node
func (h *NodesDBHandler) InsertNode(ctx context.Context, node *model.Node) error {
	err := node.Validate()
	if err != nil {
		return helper.NewError("node validation", err)
	}

	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_node($1, $2, $3, $4, $5)`,
		node.ID,
		node.Type,
		node.Label,
		node.Content,
		node.Metadata,
	)

	err = scanNode(row, node)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectNode retrieves a node by ID.
// It returns model.ErrNodeNotFound if no such node exists.
func (h *NodesDBHandler) SelectNode(ctx context.Context, id string) (*model.Node, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_node($1)`,
		id,
	)

	node := &model.Node{}
	err := scanNode(row, node)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNodeNotFound
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return node, nil
}

// SelectAllNodes retrieves all nodes in insertion order
func (h *NodesDBHandler) SelectAllNodes(ctx context.Context) ([]*model.Node, error) {
	rows, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_all_nodes()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanNodes(rows)
}

// SelectNodesByType retrieves all nodes of one type in insertion order
func (h *NodesDBHandler) SelectNodesByType(ctx context.Context, nodeType model.NodeType) ([]*model.Node, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_nodes_by_type($1)`,
		nodeType,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanNodes(rows)
}

// UpdateNode applies the non-nil fields of update and returns the stored node
func (h *NodesDBHandler) UpdateNode(ctx context.Context, id string, update model.NodeUpdate) (*model.Node, error) {
	if update.Type != nil && !update.Type.Valid() {
		return nil, helper.NewError("node validation", fmt.Errorf("invalid node type %q", *update.Type))
	}

	var metadata interface{}
	if update.Metadata != nil {
		metadata = update.Metadata
	}

	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM update_node($1, $2, $3, $4, $5)`,
		id,
		update.Type,
		update.Label,
		update.Content,
		metadata,
	)

	node := &model.Node{}
	err := scanNode(row, node)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNodeNotFound
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return node, nil
}

// DeleteNode deletes a node by ID. Edges referencing it are kept.
func (h *NodesDBHandler) DeleteNode(ctx context.Context, id string) error {
	var deleted int
	err := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT delete_node($1)`,
		id,
	).Scan(&deleted)
	if err != nil {
		return helper.NewError("delete", err)
	}
	if deleted == 0 {
		return model.ErrNodeNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNode(row scanner, node *model.Node) error {
	return row.Scan(
		&node.ID,
		&node.Type,
		&node.Label,
		&node.Content,
		&node.Metadata,
	)
}

func scanNodes(rows *sql.Rows) ([]*model.Node, error) {
	nodes := []*model.Node{}
	for rows.Next() {
		node := &model.Node{}
		err := scanNode(rows, node)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		nodes = append(nodes, node)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return nodes, nil
}
