package generation

import (
	"fmt"
	"strings"

	"github.com/siherrmann/medgraph/model"
)

// GraphContext describes the traversal the prompt is built from
type GraphContext struct {
	Hops      int
	LatencyMs int64
}

func (c GraphContext) String() string {
	return fmt.Sprintf("Traversed %d nodes via weighted relationship hops in %dms.", c.Hops, c.LatencyMs)
}

// KnowledgeBase renders nodes as "[TYPE: label]" blocks followed by their content
func KnowledgeBase(nodes []*model.Node) string {
	blocks := make([]string, 0, len(nodes))
	for _, node := range nodes {
		blocks = append(blocks, fmt.Sprintf("[%s: %s]\n%s", strings.ToUpper(string(node.Type)), node.Label, node.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// BuildSystemPrompt constrains the model to the traversed nodes
func BuildSystemPrompt(nodes []*model.Node, graphContext GraphContext) string {
	var b strings.Builder

	b.WriteString("You are an expert medical device support assistant with access to a verified knowledge graph.\n\n")
	b.WriteString("CRITICAL CONSTRAINTS:\n")
	b.WriteString("1. You MUST ONLY use information from the provided knowledge base below\n")
	b.WriteString("2. DO NOT add any information not present in the knowledge base\n")
	b.WriteString("3. DO NOT make assumptions or inferences beyond what's explicitly stated\n")
	b.WriteString("4. If the knowledge base doesn't contain enough information, say so clearly\n")
	b.WriteString("5. Always cite which knowledge graph nodes you're referencing\n\n")

	b.WriteString("KNOWLEDGE BASE (from graph traversal):\n")
	b.WriteString(KnowledgeBase(nodes))
	b.WriteString("\n\n")

	b.WriteString("GRAPH CONTEXT:\n")
	b.WriteString(graphContext.String())
	b.WriteString("\n\n")

	b.WriteString("Your task is to answer the user's medical device support query using ONLY the information above. Structure your response as follows:\n\n")
	b.WriteString("**Device Identified:** [Name from knowledge base]\n[Device description from knowledge base]\n\n")
	b.WriteString("**Issue Analysis:**\n[Analysis based on symptoms found in knowledge base]\n\n")
	b.WriteString("**Recommended Solution:**\n[Solution steps from knowledge base]\n\n")
	b.WriteString("**Compliance & Procedures:**\n[Regulations and procedures from knowledge base]\n\n")
	b.WriteString("**Graph Retrieval Advantages:**\n")
	b.WriteString("- **Explainability**: Every step in the knowledge graph traversal is logged and auditable\n")
	fmt.Fprintf(&b, "- **Structured Reasoning**: Followed %d relationship-based hops (vs. similarity-only vector search)\n", graphContext.Hops)
	b.WriteString("- **Domain Compliance**: Graph enforces medical device regulatory relationships and procedural requirements\n")
	b.WriteString("- **Grounding**: All information comes from verified nodes in the knowledge graph\n")
	fmt.Fprintf(&b, "- **Latency**: %dms graph traversal with guaranteed provenance\n", graphContext.LatencyMs)

	return b.String()
}
