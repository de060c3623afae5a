package retrieval

import (
	"math"

	"github.com/siherrmann/medgraph/model"
)

const fullCoverageNodes = 8

// EvaluationScore combines coverage, solution presence and compliance presence into [0,1]
func EvaluationScore(visitedCount int, hasSolution bool, hasCompliance bool) float64 {
	coverage := math.Min(float64(visitedCount)/fullCoverageNodes, 1)

	solution := 0.6
	if hasSolution {
		solution = 1
	}

	compliance := 0.8
	if hasCompliance {
		compliance = 1
	}

	return 0.3*coverage + 0.5*solution + 0.2*compliance
}

// Evaluate scores a traversal
func Evaluate(traversal *model.Traversal) float64 {
	return EvaluationScore(
		len(traversal.VisitedNodes),
		traversal.HasType(model.NodeTypeSolution),
		traversal.HasCompliance(),
	)
}
