package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/siherrmann/medgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQueryResult(query string) *model.QueryResult {
	return &model.QueryResult{
		Query:        query,
		Response:     "Recalibrate the pressure sensor.",
		NodesVisited: []string{"DEV-001", "SYM-001", "SOL-001"},
		TraversalPath: []model.TraversalPathEntry{
			{NodeID: "DEV-001", Score: 1, TimestampMs: 0},
			{NodeID: "SYM-001", Score: 0.95, TimestampMs: 1},
			{NodeID: "SOL-001", Score: 0.855, TimestampMs: 1},
		},
		RetrievalLatencyMs:      4,
		EvaluationScore:         0.7775,
		HallucinationDetected:   false,
		HallucinationConfidence: 1,
		Generated:               false,
		FallbackReason:          "generator_not_configured",
	}
}

func TestQueriesNewQueriesDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewQueriesDBHandler", func(t *testing.T) {
		queriesDbHandler, err := NewQueriesDBHandler(database, true)
		assert.NoError(t, err)
		require.NotNil(t, queriesDbHandler)
	})

	t.Run("Invalid call NewQueriesDBHandler with nil database", func(t *testing.T) {
		_, err := NewQueriesDBHandler(nil, false)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database connection is nil")
	})
}

func TestQueriesInsertAndSelect(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	queriesDbHandler, err := NewQueriesDBHandler(database, true)
	require.NoError(t, err)

	result := testQueryResult("Horizon X2 ventilator error E-203")

	t.Run("Insert assigns id and creation time", func(t *testing.T) {
		err := queriesDbHandler.InsertQuery(ctx, result)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, result.ID)
		assert.False(t, result.CreatedAt.IsZero())
	})

	t.Run("Select returns the persisted record", func(t *testing.T) {
		selected, err := queriesDbHandler.SelectQuery(ctx, result.ID)

		require.NoError(t, err)
		assert.Equal(t, result.Query, selected.Query)
		assert.Equal(t, result.Response, selected.Response)
		assert.Equal(t, result.NodesVisited, selected.NodesVisited)
		assert.Equal(t, result.TraversalPath, selected.TraversalPath)
		assert.Equal(t, int64(4), selected.RetrievalLatencyMs)
		assert.InDelta(t, 0.7775, selected.EvaluationScore, 1e-9)
		assert.Equal(t, "generator_not_configured", selected.FallbackReason)
		assert.Empty(t, selected.HallucinationViolations)
		assert.NotNil(t, selected.HallucinationViolations)
	})

	t.Run("Violations are stored as a text array", func(t *testing.T) {
		hallucinated := testQueryResult("Zephyr pump error")
		hallucinated.HallucinationDetected = true
		hallucinated.HallucinationConfidence = 0.25
		hallucinated.HallucinationViolations = []string{
			`Term "pump" not found in traversed knowledge graph nodes`,
			`Term "infusion" not found in traversed knowledge graph nodes`,
		}

		require.NoError(t, queriesDbHandler.InsertQuery(ctx, hallucinated))

		selected, err := queriesDbHandler.SelectQuery(ctx, hallucinated.ID)
		require.NoError(t, err)
		assert.True(t, selected.HallucinationDetected)
		assert.Equal(t, hallucinated.HallucinationViolations, selected.HallucinationViolations)
	})

	t.Run("Select unknown query returns ErrQueryNotFound", func(t *testing.T) {
		_, err := queriesDbHandler.SelectQuery(ctx, uuid.New())

		assert.ErrorIs(t, err, model.ErrQueryNotFound)
	})

	t.Run("Recent and all queries are returned newest first", func(t *testing.T) {
		last := testQueryResult("InfuPro pump flow rate")
		require.NoError(t, queriesDbHandler.InsertQuery(ctx, last))

		recent, err := queriesDbHandler.SelectRecentQueries(ctx, 1)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, last.ID, recent[0].ID)

		all, err := queriesDbHandler.SelectAllQueries(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
		assert.Equal(t, last.ID, all[0].ID)
	})
}
