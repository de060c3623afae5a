package retrieval

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/siherrmann/medgraph/model"
)

// Scorer defines a relevance scoring strategy
type Scorer interface {
	Score(query string, nodes []*model.Node) map[string]float64
}

// ScoredNode is a candidate node with its relevance score
type ScoredNode struct {
	Node  *model.Node
	Score float64
}

// LexicalScorer scores nodes by term overlap with the query
type LexicalScorer struct {
	config model.ScorerConfig
}

// NewLexicalScorer creates a new lexical scorer
func NewLexicalScorer(config model.ScorerConfig) *LexicalScorer {
	return &LexicalScorer{config: config}
}

// Score implements Scorer
func (s *LexicalScorer) Score(query string, nodes []*model.Node) map[string]float64 {
	return ScoreNodes(query, nodes, s.config)
}

// ScoreNodes scores every node against the query. Nodes scoring zero are omitted.
func ScoreNodes(query string, nodes []*model.Node, config model.ScorerConfig) map[string]float64 {
	scores := map[string]float64{}
	if len(nodes) == 0 {
		return scores
	}

	lowerQuery := strings.ToLower(query)
	terms := queryTerms(lowerQuery, config.MinTermLength)
	mentionsError := strings.Contains(lowerQuery, "error")

	for _, node := range nodes {
		label := strings.ToLower(node.Label)
		text := label + " " + strings.ToLower(node.Content)

		score := 0.0
		for _, term := range terms {
			if strings.Contains(text, term) {
				score += config.TermWeight
			}
		}
		if label != "" && strings.Contains(lowerQuery, label) {
			score += config.LabelWeight
		}
		if node.Type == model.NodeTypeDevice && mentionsError {
			score += config.DeviceErrorBonus
		}
		if node.Type == model.NodeTypeSymptom {
			score += config.SymptomBonus
		}

		if score > 1.0 {
			score = 1.0
		}
		if score > 0 {
			scores[node.ID] = score
		}
	}

	return scores
}

// RankNodes returns the scored nodes by descending score.
// Ties keep the order of nodes.
func RankNodes(scores map[string]float64, nodes []*model.Node) []ScoredNode {
	ranked := make([]ScoredNode, 0, len(scores))
	for _, node := range nodes {
		if score, ok := scores[node.ID]; ok {
			ranked = append(ranked, ScoredNode{Node: node, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// queryTerms splits the lowercased query on whitespace and drops short tokens
func queryTerms(lowerQuery string, minLength int) []string {
	var terms []string
	for _, token := range strings.Fields(lowerQuery) {
		if utf8.RuneCountInString(token) > minLength {
			terms = append(terms, token)
		}
	}
	return terms
}

func nodeIDs(ranked []ScoredNode) []string {
	ids := make([]string, len(ranked))
	for i, scored := range ranked {
		ids[i] = scored.Node.ID
	}
	return ids
}
