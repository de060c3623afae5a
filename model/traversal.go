package model

// TraversalStep is one node visitation with its confidence and rationale
type TraversalStep struct {
	NodeID      string   `json:"node_id"`
	NodeLabel   string   `json:"node_label"`
	NodeType    NodeType `json:"node_type"`
	Score       float64  `json:"score"`
	Depth       int      `json:"depth"`
	TimestampMs int64    `json:"timestamp_ms"`
	Reason      string   `json:"reason"`
}

// TraversalPathEntry is the lightweight audit record of a visitation
type TraversalPathEntry struct {
	NodeID      string  `json:"node_id"`
	Score       float64 `json:"score"`
	TimestampMs int64   `json:"timestamp_ms"`
}

// Traversal is the outcome of a weighted graph traversal.
// VisitedNodes, Path, Steps and Nodes are parallel and in visitation order.
type Traversal struct {
	VisitedNodes []string             `json:"visited_nodes"`
	Path         []TraversalPathEntry `json:"traversal_path"`
	Steps        []TraversalStep      `json:"steps"`
	Nodes        []*Node              `json:"-"`
}

// NewTraversal returns an empty traversal with non-nil slices
func NewTraversal() *Traversal {
	return &Traversal{
		VisitedNodes: []string{},
		Path:         []TraversalPathEntry{},
		Steps:        []TraversalStep{},
		Nodes:        []*Node{},
	}
}

// Hops returns the number of recorded visitations
func (t *Traversal) Hops() int {
	return len(t.Path)
}

// ElapsedMs returns the timestamp of the last recorded visitation
func (t *Traversal) ElapsedMs() int64 {
	var elapsed int64
	for _, entry := range t.Path {
		if entry.TimestampMs > elapsed {
			elapsed = entry.TimestampMs
		}
	}
	return elapsed
}

// HasType reports whether a node of the given type was visited
func (t *Traversal) HasType(nodeType NodeType) bool {
	for _, node := range t.Nodes {
		if node.Type == nodeType {
			return true
		}
	}
	return false
}

// HasCompliance reports whether a regulation or procedure node was visited
func (t *Traversal) HasCompliance() bool {
	for _, node := range t.Nodes {
		if node.Type.IsCompliance() {
			return true
		}
	}
	return false
}
