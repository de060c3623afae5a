package model

import "errors"

var (
	// ErrNodeNotFound is returned by graph stores for absent nodes.
	// Absence is a data-quality condition, not a fault.
	ErrNodeNotFound = errors.New("node not found")
	// ErrEdgeNotFound is returned by graph stores for absent edges
	ErrEdgeNotFound = errors.New("edge not found")
	// ErrQueryNotFound is returned for unknown query records
	ErrQueryNotFound = errors.New("query not found")
)
