package model

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/siherrmann/medgraph/helper"
	"gopkg.in/yaml.v3"
)

// DefaultVocabulary is the fixed domain vocabulary checked by the hallucination detector
var DefaultVocabulary = []string{
	"ventilator",
	"monitor",
	"pump",
	"sensor",
	"alarm",
	"calibration",
	"pressure",
	"flow",
	"display",
	"error",
	"infusion",
	"oxygen",
}

// TraversalConfig bounds the weighted graph traversal
type TraversalConfig struct {
	MaxDepth     int `yaml:"max_depth" json:"max_depth"`
	MaxSeeds     int `yaml:"max_seeds" json:"max_seeds"`
	MaxBranching int `yaml:"max_branching" json:"max_branching"`
}

// ScorerConfig holds the relevance scoring weights
type ScorerConfig struct {
	TermWeight       float64 `yaml:"term_weight" json:"term_weight"`
	LabelWeight      float64 `yaml:"label_weight" json:"label_weight"`
	DeviceErrorBonus float64 `yaml:"device_error_bonus" json:"device_error_bonus"`
	SymptomBonus     float64 `yaml:"symptom_bonus" json:"symptom_bonus"`
	// Terms must be strictly longer than this
	MinTermLength int `yaml:"min_term_length" json:"min_term_length"`
}

// DetectorConfig parameterizes the hallucination detector
type DetectorConfig struct {
	Vocabulary    []string `yaml:"vocabulary" json:"vocabulary"`
	MinConfidence float64  `yaml:"min_confidence" json:"min_confidence"`
	MaxViolations int      `yaml:"max_violations" json:"max_violations"`
}

// GenerationConfig holds the parameters passed to the language model
type GenerationConfig struct {
	Temperature     float32       `yaml:"temperature" json:"temperature"`
	MaxOutputTokens int32         `yaml:"max_output_tokens" json:"max_output_tokens"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
}

// EngineConfig is the complete retrieval engine configuration
type EngineConfig struct {
	Traversal  TraversalConfig  `yaml:"traversal" json:"traversal"`
	Scorer     ScorerConfig     `yaml:"scorer" json:"scorer"`
	Detector   DetectorConfig   `yaml:"detector" json:"detector"`
	Generation GenerationConfig `yaml:"generation" json:"generation"`
	// Number of recent traversals kept for inspection
	LatestCacheSize int `yaml:"latest_cache_size" json:"latest_cache_size"`
}

// DefaultEngineConfig returns the default engine configuration
func DefaultEngineConfig() EngineConfig {
	vocabulary := make([]string, len(DefaultVocabulary))
	copy(vocabulary, DefaultVocabulary)

	return EngineConfig{
		Traversal: TraversalConfig{
			MaxDepth:     3,
			MaxSeeds:     3,
			MaxBranching: 2,
		},
		Scorer: ScorerConfig{
			TermWeight:       0.3,
			LabelWeight:      0.5,
			DeviceErrorBonus: 0.2,
			SymptomBonus:     0.15,
			MinTermLength:    2,
		},
		Detector: DetectorConfig{
			Vocabulary:    vocabulary,
			MinConfidence: 0.7,
			MaxViolations: 3,
		},
		Generation: GenerationConfig{
			Temperature:     0.3,
			MaxOutputTokens: 1000,
			Timeout:         30 * time.Second,
		},
		LatestCacheSize: 16,
	}
}

// LoadEngineConfig reads a YAML file on top of the defaults.
// Fields missing in the file keep their default value.
func LoadEngineConfig(path string) (EngineConfig, error) {
	config := DefaultEngineConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, helper.NewError("read engine config", err)
	}

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return config, helper.NewError("parse engine config", err)
	}

	err = config.Validate()
	if err != nil {
		return config, helper.NewError("validate engine config", err)
	}

	return config, nil
}

// Validate reports every invalid setting at once
func (c EngineConfig) Validate() error {
	var result *multierror.Error

	if c.Traversal.MaxDepth < 0 {
		result = multierror.Append(result, fmt.Errorf("traversal max_depth must not be negative, got %d", c.Traversal.MaxDepth))
	}
	if c.Traversal.MaxSeeds < 1 {
		result = multierror.Append(result, fmt.Errorf("traversal max_seeds must be at least 1, got %d", c.Traversal.MaxSeeds))
	}
	if c.Traversal.MaxBranching < 1 {
		result = multierror.Append(result, fmt.Errorf("traversal max_branching must be at least 1, got %d", c.Traversal.MaxBranching))
	}
	if c.Scorer.TermWeight <= 0 {
		result = multierror.Append(result, fmt.Errorf("scorer term_weight must be positive, got %v", c.Scorer.TermWeight))
	}
	if c.Scorer.LabelWeight < 0 || c.Scorer.DeviceErrorBonus < 0 || c.Scorer.SymptomBonus < 0 {
		result = multierror.Append(result, fmt.Errorf("scorer bonuses must not be negative"))
	}
	if c.Scorer.MinTermLength < 0 {
		result = multierror.Append(result, fmt.Errorf("scorer min_term_length must not be negative, got %d", c.Scorer.MinTermLength))
	}
	if len(c.Detector.Vocabulary) == 0 {
		result = multierror.Append(result, fmt.Errorf("detector vocabulary must not be empty"))
	}
	if c.Detector.MinConfidence < 0 || c.Detector.MinConfidence > 1 {
		result = multierror.Append(result, fmt.Errorf("detector min_confidence must be in [0,1], got %v", c.Detector.MinConfidence))
	}
	if c.Detector.MaxViolations < 0 {
		result = multierror.Append(result, fmt.Errorf("detector max_violations must not be negative, got %d", c.Detector.MaxViolations))
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		result = multierror.Append(result, fmt.Errorf("generation temperature must be in [0,2], got %v", c.Generation.Temperature))
	}
	if c.Generation.MaxOutputTokens < 1 {
		result = multierror.Append(result, fmt.Errorf("generation max_output_tokens must be positive, got %d", c.Generation.MaxOutputTokens))
	}
	if c.Generation.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("generation timeout must be positive, got %s", c.Generation.Timeout))
	}
	if c.LatestCacheSize < 1 {
		result = multierror.Append(result, fmt.Errorf("latest_cache_size must be at least 1, got %d", c.LatestCacheSize))
	}

	return result.ErrorOrNil()
}
