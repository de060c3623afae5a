package graph

import (
	"context"

	"github.com/siherrmann/medgraph/model"
)

// Store is the read side of a knowledge graph.
// Implementations must be safe for concurrent use.
type Store interface {
	// GetAllNodes returns all nodes in a stable enumeration order
	GetAllNodes(ctx context.Context) ([]*model.Node, error)
	// GetNode returns model.ErrNodeNotFound if the node does not exist
	GetNode(ctx context.Context, id string) (*model.Node, error)
	// GetEdgesFromNode returns the outgoing edges of a node in insertion order
	GetEdgesFromNode(ctx context.Context, id string) ([]*model.Edge, error)
}

// Writer is the write side of a knowledge graph, used for seeding
type Writer interface {
	AddNode(ctx context.Context, node *model.Node) error
	AddEdge(ctx context.Context, edge *model.Edge) error
}
