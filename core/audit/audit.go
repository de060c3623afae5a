package audit

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/medgraph/model"
)

// UnknownQuery names feedback whose query record is missing
const UnknownQuery = "Unknown query"

// Summary aggregates the query audit log
type Summary struct {
	TotalQueries      int     `json:"total_queries"`
	AvgAccuracy       float64 `json:"avg_accuracy"`
	AvgLatencyMs      float64 `json:"avg_latency_ms"`
	HallucinationRate float64 `json:"hallucination_rate"`
	UserSatisfaction  float64 `json:"user_satisfaction"`
}

// Summarize computes averages over all queries. Satisfaction is the share of positive
// feedback, or derived from the average accuracy while no feedback exists.
func Summarize(queries []*model.QueryResult, feedback []*model.Feedback) Summary {
	if len(queries) == 0 {
		return Summary{}
	}

	var accuracy, latency float64
	hallucinated := 0
	for _, query := range queries {
		accuracy += query.EvaluationScore
		latency += float64(query.RetrievalLatencyMs)
		if query.HallucinationDetected {
			hallucinated++
		}
	}

	total := float64(len(queries))
	summary := Summary{
		TotalQueries:      len(queries),
		AvgAccuracy:       accuracy / total,
		AvgLatencyMs:      latency / total,
		HallucinationRate: float64(hallucinated) / total,
	}

	if len(feedback) == 0 {
		summary.UserSatisfaction = math.Min(0.95, summary.AvgAccuracy+0.05)
		return summary
	}

	positive := 0
	for _, f := range feedback {
		if f.IsPositive() {
			positive++
		}
	}
	summary.UserSatisfaction = float64(positive) / float64(len(feedback))

	return summary
}

// RegulationRef is a regulation node visited by a query
type RegulationRef struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Content string `json:"content"`
}

// ComplianceEntry is the compliance view of one query
type ComplianceEntry struct {
	QueryID                 uuid.UUID       `json:"query_id"`
	Timestamp               time.Time       `json:"timestamp"`
	Query                   string          `json:"query"`
	NodesVisited            []string        `json:"nodes_visited"`
	EvaluationScore         float64         `json:"evaluation_score"`
	HallucinationDetected   bool            `json:"hallucination_detected"`
	HallucinationConfidence float64         `json:"hallucination_confidence"`
	Regulations             []RegulationRef `json:"regulations"`
}

// ComplianceReport lists for every query the regulation nodes it visited
func ComplianceReport(queries []*model.QueryResult, nodes []*model.Node) []ComplianceEntry {
	byID := indexNodes(nodes)

	report := make([]ComplianceEntry, 0, len(queries))
	for _, query := range queries {
		report = append(report, ComplianceEntry{
			QueryID:                 query.ID,
			Timestamp:               query.CreatedAt,
			Query:                   query.Query,
			NodesVisited:            query.NodesVisited,
			EvaluationScore:         query.EvaluationScore,
			HallucinationDetected:   query.HallucinationDetected,
			HallucinationConfidence: query.HallucinationConfidence,
			Regulations:             regulations(query, byID),
		})
	}
	return report
}

// KnowledgeGap is a query text that repeatedly received negative feedback
type KnowledgeGap struct {
	Query     string `json:"query"`
	Frequency int    `json:"frequency"`
}

// KnowledgeGaps groups negative feedback by query text, most frequent first.
// Equal frequencies keep the order of first occurrence.
func KnowledgeGaps(feedback []*model.Feedback, queries []*model.QueryResult) []KnowledgeGap {
	texts := make(map[uuid.UUID]string, len(queries))
	for _, query := range queries {
		texts[query.ID] = query.Query
	}

	gaps := []KnowledgeGap{}
	position := map[string]int{}
	for _, f := range feedback {
		if !f.IsNegative() {
			continue
		}

		text, ok := texts[f.QueryID]
		if !ok {
			text = UnknownQuery
		}

		if i, ok := position[text]; ok {
			gaps[i].Frequency++
			continue
		}
		position[text] = len(gaps)
		gaps = append(gaps, KnowledgeGap{Query: text, Frequency: 1})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Frequency > gaps[j].Frequency
	})

	return gaps
}

func indexNodes(nodes []*model.Node) map[string]*model.Node {
	byID := make(map[string]*model.Node, len(nodes))
	for _, node := range nodes {
		byID[node.ID] = node
	}
	return byID
}

func regulations(query *model.QueryResult, byID map[string]*model.Node) []RegulationRef {
	refs := []RegulationRef{}
	for _, id := range query.NodesVisited {
		node, ok := byID[id]
		if !ok || node.Type != model.NodeTypeRegulation {
			continue
		}
		refs = append(refs, RegulationRef{ID: node.ID, Label: node.Label, Content: node.Content})
	}
	return refs
}
