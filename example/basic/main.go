package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/medgraph"
	"github.com/siherrmann/medgraph/core/generation"
	"github.com/siherrmann/medgraph/helper"
	"github.com/siherrmann/medgraph/model"
)

func main() {
	ctx := context.Background()

	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(ctx)

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	// Gemini or OpenAI when a key is set in the environment, the template otherwise
	genConfig, err := generation.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to read generation config: %v", err)
	}
	generator, err := generation.NewGenerator(ctx, genConfig, nil)
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}

	m, err := medgraph.NewMedgraph(dbConfig, model.DefaultEngineConfig(), generator)
	if err != nil {
		log.Fatalf("Failed to create medgraph: %v", err)
	}
	defer m.Close()

	if _, err := m.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed graph: %v", err)
	}

	queryText := "Horizon X2 Ventilator showing Error Code E-203"
	fmt.Printf("Querying: %s\n\n", queryText)

	result, err := m.Query(ctx, queryText)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	fmt.Println("Traversal:")
	for _, step := range result.Steps {
		fmt.Printf("  depth %d  %-9s %-32s score %.4f  %s\n", step.Depth, step.NodeType, step.NodeLabel, step.Score, step.Reason)
	}

	fmt.Printf("\nResponse (generated: %t, fallback: %q):\n%s\n\n", result.Generated, result.FallbackReason, result.Response)
	fmt.Printf("Evaluation score: %.2f\n", result.EvaluationScore)
	fmt.Printf("Hallucination detected: %t (confidence %.2f)\n", result.HallucinationDetected, result.HallucinationConfidence)

	rating := 5
	err = m.SubmitFeedback(ctx, &model.Feedback{QueryID: result.ID, Rating: &rating, Thumbs: model.ThumbsUp})
	if err != nil {
		log.Fatalf("Failed to submit feedback: %v", err)
	}

	summary, err := m.Summary(ctx)
	if err != nil {
		log.Fatalf("Failed to build summary: %v", err)
	}
	fmt.Printf("\nAudit: %d queries, avg accuracy %.2f, satisfaction %.2f\n", summary.TotalQueries, summary.AvgAccuracy, summary.UserSatisfaction)
}
