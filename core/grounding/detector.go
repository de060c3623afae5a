package grounding

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/siherrmann/medgraph/model"
)

// Report is the outcome of a grounding check
type Report struct {
	IsHallucinated bool     `json:"is_hallucinated"`
	Confidence     float64  `json:"confidence"`
	Violations     []string `json:"violations"`
}

// Detector flags domain terms in a response that no traversed node mentions.
// The check is lexical, grounded claims in paraphrase are not recognized.
type Detector struct {
	vocabulary    map[string]bool
	minConfidence float64
	maxViolations int
}

// NewDetector creates a detector from the detector configuration
func NewDetector(config model.DetectorConfig) *Detector {
	vocabulary := make(map[string]bool, len(config.Vocabulary))
	for _, term := range config.Vocabulary {
		vocabulary[strings.ToLower(term)] = true
	}

	return &Detector{
		vocabulary:    vocabulary,
		minConfidence: config.MinConfidence,
		maxViolations: config.MaxViolations,
	}
}

// Detect checks every vocabulary term occurring in response against the
// lowercased labels and contents of nodes. Each ungrounded occurrence is a violation.
func (d *Detector) Detect(response string, nodes []*model.Node) Report {
	facts := make([]string, 0, 2*len(nodes))
	for _, node := range nodes {
		facts = append(facts, strings.ToLower(node.Label), strings.ToLower(node.Content))
	}

	checks := 0
	grounded := 0
	violations := []string{}

	for _, token := range strings.Fields(strings.ToLower(response)) {
		term := strings.TrimFunc(token, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if !d.vocabulary[term] {
			continue
		}

		checks++
		if containsAny(facts, term) {
			grounded++
		} else {
			violations = append(violations, fmt.Sprintf("Term %q not found in traversed knowledge graph nodes", term))
		}
	}

	confidence := 1.0
	if checks > 0 {
		confidence = float64(grounded) / float64(checks)
	}

	return Report{
		IsHallucinated: confidence < d.minConfidence || len(violations) > d.maxViolations,
		Confidence:     confidence,
		Violations:     violations,
	}
}

func containsAny(facts []string, term string) bool {
	for _, fact := range facts {
		if strings.Contains(fact, term) {
			return true
		}
	}
	return false
}
