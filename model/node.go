package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// NodeType is the kind of fact a node represents
type NodeType string

const (
	NodeTypeDevice     NodeType = "device"
	NodeTypeSymptom    NodeType = "symptom"
	NodeTypeSolution   NodeType = "solution"
	NodeTypeRegulation NodeType = "regulation"
	NodeTypeProcedure  NodeType = "procedure"
)

// NodeTypes lists all node types in the order responses present them
var NodeTypes = []NodeType{
	NodeTypeDevice,
	NodeTypeSymptom,
	NodeTypeSolution,
	NodeTypeRegulation,
	NodeTypeProcedure,
}

// Valid reports whether t is one of the known node types
func (t NodeType) Valid() bool {
	for _, nodeType := range NodeTypes {
		if t == nodeType {
			return true
		}
	}
	return false
}

// IsCompliance reports whether nodes of this type carry compliance information
func (t NodeType) IsCompliance() bool {
	return t == NodeTypeRegulation || t == NodeTypeProcedure
}

// Node is a typed fact unit in the knowledge graph
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Label    string   `json:"label"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// Validate checks the required fields of a node
func (n *Node) Validate() error {
	var result *multierror.Error
	if strings.TrimSpace(n.ID) == "" {
		result = multierror.Append(result, errors.New("id is required"))
	}
	if !n.Type.Valid() {
		result = multierror.Append(result, fmt.Errorf("invalid node type %q", n.Type))
	}
	if strings.TrimSpace(n.Label) == "" {
		result = multierror.Append(result, errors.New("label is required"))
	}
	if strings.TrimSpace(n.Content) == "" {
		result = multierror.Append(result, errors.New("content is required"))
	}
	return result.ErrorOrNil()
}

// NodeUpdate holds the mutable fields of a node, nil fields are left unchanged
type NodeUpdate struct {
	Type     *NodeType `json:"type,omitempty"`
	Label    *string   `json:"label,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Metadata Metadata  `json:"metadata,omitempty"`
}

// Apply returns a copy of n with the update applied
func (u NodeUpdate) Apply(n Node) Node {
	if u.Type != nil {
		n.Type = *u.Type
	}
	if u.Label != nil {
		n.Label = *u.Label
	}
	if u.Content != nil {
		n.Content = *u.Content
	}
	if u.Metadata != nil {
		n.Metadata = u.Metadata
	}
	return n
}
