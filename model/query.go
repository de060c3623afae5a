package model

import (
	"time"

	"github.com/google/uuid"
)

// QueryResult is the complete outcome of one processed query.
// It is also the record persisted in the query audit log.
type QueryResult struct {
	ID                      uuid.UUID            `json:"id"`
	Query                   string               `json:"query"`
	Response                string               `json:"response"`
	NodesVisited            []string             `json:"nodes_visited"`
	TraversalPath           []TraversalPathEntry `json:"traversal_path"`
	Steps                   []TraversalStep      `json:"steps,omitempty"`
	RetrievalLatencyMs      int64                `json:"retrieval_latency_ms"`
	EvaluationScore         float64              `json:"evaluation_score"`
	HallucinationDetected   bool                 `json:"hallucination_detected"`
	HallucinationConfidence float64              `json:"hallucination_confidence"`
	HallucinationViolations []string             `json:"hallucination_violations"`
	Generated               bool                 `json:"generated"`
	FallbackReason          string               `json:"fallback_reason,omitempty"`
	CreatedAt               time.Time            `json:"created_at"`
}
