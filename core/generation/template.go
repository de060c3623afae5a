package generation

import (
	"fmt"
	"strings"

	"github.com/siherrmann/medgraph/model"
)

// NoContextResponse is returned when the traversal found nothing
const NoContextResponse = "No relevant information was found in the knowledge graph for this query. " +
	"Please rephrase the question with the device name or the observed symptom, or contact technical support."

// RenderTemplate builds a deterministic response from the traversed nodes.
// Sections appear in the fixed order device, symptom, solution, then regulation and procedure.
// Headings and footer carry no domain vocabulary, so every term comes from a node.
func RenderTemplate(nodes []*model.Node, graphContext GraphContext) string {
	if len(nodes) == 0 {
		return NoContextResponse
	}

	byType := map[model.NodeType][]*model.Node{}
	for _, node := range nodes {
		byType[node.Type] = append(byType[node.Type], node)
	}

	var b strings.Builder

	if devices := byType[model.NodeTypeDevice]; len(devices) > 0 {
		b.WriteString("**Device Identified:**\n")
		writeNodes(&b, devices)
	}

	if symptoms := byType[model.NodeTypeSymptom]; len(symptoms) > 0 {
		b.WriteString("**Issue Analysis:**\n")
		writeNodes(&b, symptoms)
	}

	if solutions := byType[model.NodeTypeSolution]; len(solutions) > 0 {
		b.WriteString("**Recommended Solution:**\n")
		writeNodes(&b, solutions)
	}

	compliance := append(append([]*model.Node{}, byType[model.NodeTypeRegulation]...), byType[model.NodeTypeProcedure]...)
	if len(compliance) > 0 {
		b.WriteString("**Compliance & Procedures:**\n")
		writeNodes(&b, compliance)
	}

	fmt.Fprintf(&b, "**Knowledge Graph Path:** Traversed %d nodes in %dms to retrieve this information.\n\n", graphContext.Hops, graphContext.LatencyMs)
	b.WriteString("This response was assembled from graph-based retrieval (not vector embeddings), every statement is traceable to a knowledge graph node.")

	return b.String()
}

func writeNodes(b *strings.Builder, nodes []*model.Node) {
	for _, node := range nodes {
		fmt.Fprintf(b, "- %s: %s\n", node.Label, node.Content)
	}
	b.WriteString("\n")
}
