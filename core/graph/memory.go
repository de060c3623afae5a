package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/siherrmann/medgraph/helper"
	"github.com/siherrmann/medgraph/model"
)

// MemoryStore is an in-memory Store keeping nodes and edges in insertion order
type MemoryStore struct {
	mu        sync.RWMutex
	nodes     map[string]*model.Node
	nodeOrder []string
	edges     map[string]*model.Edge
	edgeOrder []string
	outgoing  map[string][]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:    map[string]*model.Node{},
		edges:    map[string]*model.Edge{},
		outgoing: map[string][]string{},
	}
}

// NewSeededMemoryStore creates an in-memory store holding the medical device graph
func NewSeededMemoryStore() *MemoryStore {
	store := NewMemoryStore()
	for _, node := range SeedNodes() {
		store.putNode(node)
	}
	for _, edge := range SeedEdges() {
		store.putEdge(edge)
	}
	return store
}

// AddNode adds a node. A node with the same ID is replaced in place.
func (s *MemoryStore) AddNode(ctx context.Context, node *model.Node) error {
	err := node.Validate()
	if err != nil {
		return helper.NewError("node validation", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.putNode(node)
	return nil
}

// AddEdge adds an edge. Endpoints do not need to exist.
func (s *MemoryStore) AddEdge(ctx context.Context, edge *model.Edge) error {
	if edge.ID == "" {
		edge.ID = model.EdgeID(edge.SourceID, edge.TargetID)
	}

	err := edge.Validate()
	if err != nil {
		return helper.NewError("edge validation", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.edges[edge.ID]; ok {
		return helper.NewError("add edge", fmt.Errorf("edge %s already exists", edge.ID))
	}
	s.putEdge(edge)
	return nil
}

// UpdateNode applies update to an existing node
func (s *MemoryStore) UpdateNode(ctx context.Context, id string, update model.NodeUpdate) (*model.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[id]
	if !ok {
		return nil, model.ErrNodeNotFound
	}

	updated := update.Apply(*node)
	err := updated.Validate()
	if err != nil {
		return nil, helper.NewError("node validation", err)
	}

	s.nodes[id] = &updated
	return copyNode(&updated), nil
}

// GetAllNodes returns copies of all nodes in insertion order
func (s *MemoryStore) GetAllNodes(ctx context.Context) ([]*model.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*model.Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		nodes = append(nodes, copyNode(s.nodes[id]))
	}
	return nodes, nil
}

// GetNode returns a copy of the node with the given ID
func (s *MemoryStore) GetNode(ctx context.Context, id string) (*model.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	if !ok {
		return nil, model.ErrNodeNotFound
	}
	return copyNode(node), nil
}

// GetAllEdges returns copies of all edges in insertion order
func (s *MemoryStore) GetAllEdges(ctx context.Context) ([]*model.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]*model.Edge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		edge := *s.edges[id]
		edges = append(edges, &edge)
	}
	return edges, nil
}

// GetEdgesFromNode returns copies of the outgoing edges of a node in insertion order
func (s *MemoryStore) GetEdgesFromNode(ctx context.Context, id string) ([]*model.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.outgoing[id]
	edges := make([]*model.Edge, 0, len(ids))
	for _, edgeID := range ids {
		edge := *s.edges[edgeID]
		edges = append(edges, &edge)
	}
	return edges, nil
}

// putNode expects the write lock to be held or the store to be unshared
func (s *MemoryStore) putNode(node *model.Node) {
	if _, ok := s.nodes[node.ID]; !ok {
		s.nodeOrder = append(s.nodeOrder, node.ID)
	}
	s.nodes[node.ID] = copyNode(node)
}

func (s *MemoryStore) putEdge(edge *model.Edge) {
	stored := *edge
	s.edges[edge.ID] = &stored
	s.edgeOrder = append(s.edgeOrder, edge.ID)
	s.outgoing[edge.SourceID] = append(s.outgoing[edge.SourceID], edge.ID)
}

func copyNode(node *model.Node) *model.Node {
	c := *node
	if node.Metadata != nil {
		c.Metadata = make(model.Metadata, len(node.Metadata))
		for k, v := range node.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
