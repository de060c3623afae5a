package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Relationship types used by the seed graph. Edges may carry any other
// relationship type as well.
const (
	RelationshipExhibits  = "exhibits"
	RelationshipSolvedBy  = "solved_by"
	RelationshipRequires  = "requires"
	RelationshipRelatedTo = "related_to"
	RelationshipMandates  = "mandates"
	RelationshipCauses    = "causes"
)

// DefaultEdgeWeight is used for edges created without a weight
const DefaultEdgeWeight = 1.0

// Edge is a directed, weighted relationship between two nodes
type Edge struct {
	ID               string  `json:"id"`
	SourceID         string  `json:"source_id"`
	TargetID         string  `json:"target_id"`
	RelationshipType string  `json:"relationship_type"`
	Weight           float64 `json:"weight"`
}

// NewEdge creates an edge with the conventional id and DefaultEdgeWeight.
// Edges built as struct literals keep their weight as given, zero included.
func NewEdge(sourceID, targetID, relationshipType string) *Edge {
	return &Edge{
		ID:               EdgeID(sourceID, targetID),
		SourceID:         sourceID,
		TargetID:         targetID,
		RelationshipType: relationshipType,
		Weight:           DefaultEdgeWeight,
	}
}

// EdgeID builds the conventional id "<source>-<target>"
func EdgeID(sourceID, targetID string) string {
	return sourceID + "-" + targetID
}

// Validate checks the required fields and the weight range of an edge
func (e *Edge) Validate() error {
	var result *multierror.Error
	if strings.TrimSpace(e.ID) == "" {
		result = multierror.Append(result, errors.New("id is required"))
	}
	if strings.TrimSpace(e.SourceID) == "" {
		result = multierror.Append(result, errors.New("source id is required"))
	}
	if strings.TrimSpace(e.TargetID) == "" {
		result = multierror.Append(result, errors.New("target id is required"))
	}
	if strings.TrimSpace(e.RelationshipType) == "" {
		result = multierror.Append(result, errors.New("relationship type is required"))
	}
	if e.Weight < 0 || e.Weight > 1 {
		result = multierror.Append(result, fmt.Errorf("weight %v out of range [0,1]", e.Weight))
	}
	return result.ErrorOrNil()
}
