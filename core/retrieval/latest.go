package retrieval

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/siherrmann/medgraph/helper"
	"github.com/siherrmann/medgraph/model"
)

// LatestTraversals keeps the most recent traversals keyed by query ID.
// It is bounded and safe for concurrent use.
type LatestTraversals struct {
	cache *lru.Cache
}

// NewLatestTraversals creates a cache holding at most size traversals
func NewLatestTraversals(size int) (*LatestTraversals, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, helper.NewError("create latest traversal cache", err)
	}
	return &LatestTraversals{cache: cache}, nil
}

// Add stores the traversal of a query
func (l *LatestTraversals) Add(queryID uuid.UUID, traversal *model.Traversal) {
	l.cache.Add(queryID, traversal)
}

// Get returns the traversal of a query without changing its recency
func (l *LatestTraversals) Get(queryID uuid.UUID) (*model.Traversal, bool) {
	value, ok := l.cache.Peek(queryID)
	if !ok {
		return nil, false
	}
	return value.(*model.Traversal), true
}

// Latest returns the most recently added traversal
func (l *LatestTraversals) Latest() (uuid.UUID, *model.Traversal, bool) {
	keys := l.cache.Keys()
	if len(keys) == 0 {
		return uuid.Nil, nil, false
	}

	queryID := keys[len(keys)-1].(uuid.UUID)
	traversal, ok := l.Get(queryID)
	return queryID, traversal, ok
}

// Len returns the number of cached traversals
func (l *LatestTraversals) Len() int {
	return l.cache.Len()
}
