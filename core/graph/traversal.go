package graph

import (
	"context"
	"log/slog"
	"time"

	"github.com/siherrmann/medgraph/model"
)

// Step reasons by destination node type
const (
	ReasonStartingNode = "Starting node - matched query keywords"
	ReasonSolution     = "Solution node - provides troubleshooting steps"
	ReasonSymptom      = "Symptom node - describes issue characteristics"
	ReasonRegulation   = "Regulatory node - compliance requirements"
	ReasonProcedure    = "Procedure node - required maintenance protocols"
	ReasonRelated      = "Related node in knowledge graph"
)

type frame struct {
	nodeID string
	depth  int
	score  float64
}

// Traverse walks the graph depth first from at most config.MaxSeeds seeds, in seed order.
// Every seed starts with score 1.0; each hop follows at most config.MaxBranching outgoing
// edges by descending weight and multiplies the score by the edge weight.
// A branch stops beyond config.MaxDepth or at an already visited node.
// Missing nodes and unreadable edges are skipped. Only cancellation of ctx fails the traversal.
func Traverse(ctx context.Context, store Store, seedIDs []string, config model.TraversalConfig, logger *slog.Logger) (*model.Traversal, error) {
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	traversal := model.NewTraversal()

	seeds := seedIDs
	if len(seeds) > config.MaxSeeds {
		seeds = seeds[:config.MaxSeeds]
	}
	if len(seeds) == 0 {
		return traversal, nil
	}

	index := newAdjacency(store, logger)
	err := index.prefetch(ctx, seeds, config)
	if err != nil {
		return nil, err
	}

	visited := map[string]bool{}
	for _, seed := range seeds {
		stack := []frame{{nodeID: seed, depth: 0, score: 1.0}}

		for len(stack) > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if current.depth > config.MaxDepth || visited[current.nodeID] {
				continue
			}

			node, ok := index.node(ctx, current.nodeID)
			if !ok {
				continue
			}

			visited[current.nodeID] = true
			elapsed := time.Since(start).Milliseconds()

			traversal.VisitedNodes = append(traversal.VisitedNodes, node.ID)
			traversal.Nodes = append(traversal.Nodes, node)
			traversal.Path = append(traversal.Path, model.TraversalPathEntry{
				NodeID:      node.ID,
				Score:       current.score,
				TimestampMs: elapsed,
			})
			traversal.Steps = append(traversal.Steps, model.TraversalStep{
				NodeID:      node.ID,
				NodeLabel:   node.Label,
				NodeType:    node.Type,
				Score:       current.score,
				Depth:       current.depth,
				TimestampMs: elapsed,
				Reason:      StepReason(node.Type, current.depth),
			})

			logger.Debug("Visited node", slog.String("node_id", node.ID), slog.Int("depth", current.depth), slog.Float64("score", current.score))

			if current.depth >= config.MaxDepth {
				continue
			}

			// Pushed in reverse so the heaviest edge is expanded first.
			next := topEdges(index.outgoing(ctx, node.ID), config.MaxBranching)
			for i := len(next) - 1; i >= 0; i-- {
				stack = append(stack, frame{
					nodeID: next[i].TargetID,
					depth:  current.depth + 1,
					score:  current.score * clampWeight(next[i].Weight),
				})
			}
		}
	}

	return traversal, nil
}

// StepReason explains why a node at the given depth is part of the traversal
func StepReason(nodeType model.NodeType, depth int) string {
	if depth == 0 {
		return ReasonStartingNode
	}

	switch nodeType {
	case model.NodeTypeSolution:
		return ReasonSolution
	case model.NodeTypeSymptom:
		return ReasonSymptom
	case model.NodeTypeRegulation:
		return ReasonRegulation
	case model.NodeTypeProcedure:
		return ReasonProcedure
	default:
		return ReasonRelated
	}
}

func clampWeight(weight float64) float64 {
	if weight < 0 {
		return 0
	}
	if weight > 1 {
		return 1
	}
	return weight
}
