package graph

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/siherrmann/medgraph/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// adjacency caches the nodes and weight-sorted outgoing edges read during one traversal
type adjacency struct {
	store  Store
	logger *slog.Logger

	flight singleflight.Group

	mu     sync.RWMutex
	nodes  map[string]*model.Node // nil value marks a missing node
	edges  map[string][]*model.Edge
	warmed map[string]int
}

func newAdjacency(store Store, logger *slog.Logger) *adjacency {
	return &adjacency{
		store:  store,
		logger: logger,
		nodes:  map[string]*model.Node{},
		edges:  map[string][]*model.Edge{},
		warmed: map[string]int{},
	}
}

// node returns the node with id or false if it is missing or unreadable
func (a *adjacency) node(ctx context.Context, id string) (*model.Node, bool) {
	a.mu.RLock()
	node, ok := a.nodes[id]
	a.mu.RUnlock()
	if ok {
		return node, node != nil
	}

	v, _, _ := a.flight.Do("node:"+id, func() (interface{}, error) {
		node, err := a.store.GetNode(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				// Not cached, a cancelled read says nothing about the node.
				return (*model.Node)(nil), nil
			}
			if errors.Is(err, model.ErrNodeNotFound) {
				a.logger.Warn("Skipping missing node", slog.String("node_id", id))
			} else {
				a.logger.Warn("Skipping unreadable node", slog.String("node_id", id), slog.String("error", err.Error()))
			}
			node = nil
		}

		a.mu.Lock()
		a.nodes[id] = node
		a.mu.Unlock()

		return node, nil
	})

	node = v.(*model.Node)
	return node, node != nil
}

// outgoing returns the outgoing edges of id sorted by descending weight.
// Equal weights keep the store's insertion order.
func (a *adjacency) outgoing(ctx context.Context, id string) []*model.Edge {
	a.mu.RLock()
	edges, ok := a.edges[id]
	a.mu.RUnlock()
	if ok {
		return edges
	}

	v, _, _ := a.flight.Do("edges:"+id, func() (interface{}, error) {
		edges, err := a.store.GetEdgesFromNode(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return []*model.Edge{}, nil
			}
			a.logger.Warn("Skipping unreadable edges", slog.String("node_id", id), slog.String("error", err.Error()))
			edges = []*model.Edge{}
		}

		sorted := make([]*model.Edge, len(edges))
		copy(sorted, edges)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Weight > sorted[j].Weight
		})

		a.mu.Lock()
		a.edges[id] = sorted
		a.mu.Unlock()

		return sorted, nil
	})

	return v.([]*model.Edge)
}

// prefetch reads the subtrees reachable from the seeds concurrently, one goroutine per seed.
// The walk afterwards only hits the cache for everything prefetched.
func (a *adjacency) prefetch(ctx context.Context, seeds []string, config model.TraversalConfig) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, seed := range seeds {
		g.Go(func() error {
			return a.warm(gctx, seed, 0, config)
		})
	}
	return g.Wait()
}

// warm reads a node and, below the depth limit, its top edges' targets.
// A node already warmed at the same or a lower depth is not read again.
func (a *adjacency) warm(ctx context.Context, id string, depth int, config model.TraversalConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	warmedAt, ok := a.warmed[id]
	if ok && warmedAt <= depth {
		a.mu.Unlock()
		return nil
	}
	a.warmed[id] = depth
	a.mu.Unlock()

	if _, ok := a.node(ctx, id); !ok || depth >= config.MaxDepth {
		return ctx.Err()
	}

	edges := a.outgoing(ctx, id)
	for _, edge := range topEdges(edges, config.MaxBranching) {
		err := a.warm(ctx, edge.TargetID, depth+1, config)
		if err != nil {
			return err
		}
	}

	return nil
}

func topEdges(edges []*model.Edge, limit int) []*model.Edge {
	if len(edges) > limit {
		return edges[:limit]
	}
	return edges
}
