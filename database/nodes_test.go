package database

import (
	"context"
	"testing"

	"github.com/siherrmann/medgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodesNewNodesDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewNodesDBHandler", func(t *testing.T) {
		nodesDbHandler, err := NewNodesDBHandler(database, true)
		assert.NoError(t, err, "Expected NewNodesDBHandler to not return an error")
		require.NotNil(t, nodesDbHandler, "Expected NewNodesDBHandler to return a non-nil instance")
		require.NotNil(t, nodesDbHandler.db, "Expected NewNodesDBHandler to have a non-nil database instance")
	})

	t.Run("Invalid call NewNodesDBHandler with nil database", func(t *testing.T) {
		_, err := NewNodesDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating NodesDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil")
	})
}

func TestNodesInsertAndSelect(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	nodesDbHandler, err := NewNodesDBHandler(database, true)
	require.NoError(t, err)

	t.Run("Insert and select a node", func(t *testing.T) {
		node := &model.Node{
			ID:       "DEV-001",
			Type:     model.NodeTypeDevice,
			Label:    "Horizon X2 Ventilator",
			Content:  "Advanced mechanical ventilator",
			Metadata: model.Metadata{"model": "HX2-2024"},
		}

		err := nodesDbHandler.InsertNode(ctx, node)
		require.NoError(t, err, "Expected InsertNode to not return an error")

		selected, err := nodesDbHandler.SelectNode(ctx, "DEV-001")
		require.NoError(t, err)
		assert.Equal(t, "Horizon X2 Ventilator", selected.Label)
		assert.Equal(t, model.NodeTypeDevice, selected.Type)
		assert.Equal(t, "HX2-2024", selected.Metadata.String("model"))
	})

	t.Run("Insert rejects invalid nodes", func(t *testing.T) {
		err := nodesDbHandler.InsertNode(ctx, &model.Node{ID: "BAD", Type: "gadget"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "node validation")
	})

	t.Run("Insert rejects duplicate ids", func(t *testing.T) {
		err := nodesDbHandler.InsertNode(ctx, &model.Node{ID: "DEV-001", Type: model.NodeTypeDevice, Label: "Other", Content: "Other"})

		assert.Error(t, err)
	})

	t.Run("Select unknown node returns ErrNodeNotFound", func(t *testing.T) {
		node, err := nodesDbHandler.SelectNode(ctx, "DEV-404")

		assert.ErrorIs(t, err, model.ErrNodeNotFound)
		assert.Nil(t, node)
	})
}

func TestNodesSelectAllAndByType(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	nodesDbHandler, err := NewNodesDBHandler(database, true)
	require.NoError(t, err)

	for _, node := range []*model.Node{
		{ID: "SYM-002", Type: model.NodeTypeSymptom, Label: "Alarm Continuous Beep", Content: "Continuous alarm"},
		{ID: "DEV-002", Type: model.NodeTypeDevice, Label: "CardioSync Monitor", Content: "Monitor"},
		{ID: "SYM-001", Type: model.NodeTypeSymptom, Label: "Error Code E-203", Content: "Ventilator error"},
	} {
		require.NoError(t, nodesDbHandler.InsertNode(ctx, node))
	}

	t.Run("Select all keeps insertion order", func(t *testing.T) {
		nodes, err := nodesDbHandler.SelectAllNodes(ctx)

		require.NoError(t, err)
		require.Len(t, nodes, 3)
		assert.Equal(t, "SYM-002", nodes[0].ID)
		assert.Equal(t, "DEV-002", nodes[1].ID)
		assert.Equal(t, "SYM-001", nodes[2].ID)
	})

	t.Run("Select by type filters nodes", func(t *testing.T) {
		nodes, err := nodesDbHandler.SelectNodesByType(ctx, model.NodeTypeSymptom)

		require.NoError(t, err)
		require.Len(t, nodes, 2)
		assert.Equal(t, "SYM-002", nodes[0].ID)
		assert.Equal(t, "SYM-001", nodes[1].ID)
	})

	t.Run("Select by unused type returns an empty list", func(t *testing.T) {
		nodes, err := nodesDbHandler.SelectNodesByType(ctx, model.NodeTypeRegulation)

		require.NoError(t, err)
		assert.Empty(t, nodes)
	})
}

func TestNodesUpdateAndDelete(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	nodesDbHandler, err := NewNodesDBHandler(database, true)
	require.NoError(t, err)

	require.NoError(t, nodesDbHandler.InsertNode(ctx, &model.Node{
		ID:       "SOL-001",
		Type:     model.NodeTypeSolution,
		Label:    "Pressure Sensor Recalibration",
		Content:  "Step 1",
		Metadata: model.Metadata{"owner": "biomed"},
	}))

	t.Run("Update changes only the given fields", func(t *testing.T) {
		content := "Step 1: Access service menu"

		updated, err := nodesDbHandler.UpdateNode(ctx, "SOL-001", model.NodeUpdate{Content: &content})

		require.NoError(t, err)
		assert.Equal(t, "Step 1: Access service menu", updated.Content)
		assert.Equal(t, "Pressure Sensor Recalibration", updated.Label)
		assert.Equal(t, "biomed", updated.Metadata.String("owner"), "Expected metadata to be kept")
	})

	t.Run("Update rejects invalid types", func(t *testing.T) {
		nodeType := model.NodeType("gadget")

		_, err := nodesDbHandler.UpdateNode(ctx, "SOL-001", model.NodeUpdate{Type: &nodeType})

		assert.Error(t, err)
	})

	t.Run("Update unknown node returns ErrNodeNotFound", func(t *testing.T) {
		label := "x"

		_, err := nodesDbHandler.UpdateNode(ctx, "SOL-404", model.NodeUpdate{Label: &label})

		assert.ErrorIs(t, err, model.ErrNodeNotFound)
	})

	t.Run("Delete removes the node", func(t *testing.T) {
		err := nodesDbHandler.DeleteNode(ctx, "SOL-001")
		require.NoError(t, err)

		_, err = nodesDbHandler.SelectNode(ctx, "SOL-001")
		assert.ErrorIs(t, err, model.ErrNodeNotFound)

		err = nodesDbHandler.DeleteNode(ctx, "SOL-001")
		assert.ErrorIs(t, err, model.ErrNodeNotFound)
	})
}
