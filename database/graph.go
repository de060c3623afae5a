package database

import (
	"context"
	"fmt"

	"github.com/siherrmann/medgraph/helper"
	"github.com/siherrmann/medgraph/model"
)

// GraphStore serves the knowledge graph from PostgreSQL.
// It implements graph.Store and graph.Writer.
type GraphStore struct {
	Nodes NodesDBHandlerFunctions
	Edges EdgesDBHandlerFunctions
}

// NewGraphStore combines a nodes and an edges handler
func NewGraphStore(nodes NodesDBHandlerFunctions, edges EdgesDBHandlerFunctions) (*GraphStore, error) {
	if nodes == nil || edges == nil {
		return nil, helper.NewError("graph store validation", fmt.Errorf("nodes and edges handlers are required"))
	}

	return &GraphStore{
		Nodes: nodes,
		Edges: edges,
	}, nil
}

// GetAllNodes returns all nodes in insertion order
func (s *GraphStore) GetAllNodes(ctx context.Context) ([]*model.Node, error) {
	return s.Nodes.SelectAllNodes(ctx)
}

// GetNode returns model.ErrNodeNotFound for unknown IDs
func (s *GraphStore) GetNode(ctx context.Context, id string) (*model.Node, error) {
	return s.Nodes.SelectNode(ctx, id)
}

// GetEdgesFromNode returns the outgoing edges of a node in insertion order
func (s *GraphStore) GetEdgesFromNode(ctx context.Context, id string) ([]*model.Edge, error) {
	return s.Edges.SelectEdgesFromNode(ctx, id)
}

// AddNode inserts a node
func (s *GraphStore) AddNode(ctx context.Context, node *model.Node) error {
	return s.Nodes.InsertNode(ctx, node)
}

// AddEdge inserts an edge
func (s *GraphStore) AddEdge(ctx context.Context, edge *model.Edge) error {
	return s.Edges.InsertEdge(ctx, edge)
}
