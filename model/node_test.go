package model

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeValidate(t *testing.T) {
	t.Run("Valid node passes", func(t *testing.T) {
		node := Node{ID: "DEV-001", Type: NodeTypeDevice, Label: "Horizon X2 Ventilator", Content: "ICU ventilator"}

		assert.NoError(t, node.Validate())
	})

	t.Run("Reports every missing field", func(t *testing.T) {
		node := Node{Type: "gadget"}

		err := node.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "id is required")
		assert.Contains(t, err.Error(), `invalid node type "gadget"`)
		assert.Contains(t, err.Error(), "label is required")
		assert.Contains(t, err.Error(), "content is required")

		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		assert.Len(t, merr.Errors, 4)
	})
}

func TestNodeType(t *testing.T) {
	t.Run("Known types are valid", func(t *testing.T) {
		for _, nodeType := range NodeTypes {
			assert.True(t, nodeType.Valid(), "Expected %s to be valid", nodeType)
		}
		assert.False(t, NodeType("").Valid())
	})

	t.Run("Regulation and procedure carry compliance", func(t *testing.T) {
		assert.True(t, NodeTypeRegulation.IsCompliance())
		assert.True(t, NodeTypeProcedure.IsCompliance())
		assert.False(t, NodeTypeSolution.IsCompliance())
		assert.False(t, NodeTypeDevice.IsCompliance())
	})
}

func TestNodeUpdateApply(t *testing.T) {
	t.Run("Only set fields change", func(t *testing.T) {
		node := Node{ID: "SOL-001", Type: NodeTypeSolution, Label: "Old", Content: "Steps", Metadata: Metadata{"a": "b"}}
		label := "Sensor Recalibration Protocol"

		updated := NodeUpdate{Label: &label}.Apply(node)

		assert.Equal(t, "Sensor Recalibration Protocol", updated.Label)
		assert.Equal(t, "Steps", updated.Content)
		assert.Equal(t, NodeTypeSolution, updated.Type)
		assert.Equal(t, "b", updated.Metadata.String("a"))
		assert.Equal(t, "Old", node.Label, "Expected original to stay unchanged")
	})
}

func TestEdgeValidate(t *testing.T) {
	t.Run("Valid edge passes", func(t *testing.T) {
		edge := Edge{ID: EdgeID("DEV-001", "SYM-001"), SourceID: "DEV-001", TargetID: "SYM-001", RelationshipType: RelationshipExhibits, Weight: 0.95}

		assert.NoError(t, edge.Validate())
		assert.Equal(t, "DEV-001-SYM-001", edge.ID)
	})

	t.Run("Weight outside the unit interval is rejected", func(t *testing.T) {
		edge := Edge{ID: "e", SourceID: "a", TargetID: "b", RelationshipType: RelationshipRequires, Weight: 1.2}

		err := edge.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("Missing endpoints are reported", func(t *testing.T) {
		edge := Edge{ID: "e", RelationshipType: RelationshipRequires}

		err := edge.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "source id is required")
		assert.Contains(t, err.Error(), "target id is required")

		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		assert.Len(t, merr.Errors, 2)
	})

	t.Run("NewEdge derives the id and uses the default weight", func(t *testing.T) {
		edge := NewEdge("DEV-001", "SYM-001", RelationshipExhibits)

		assert.Equal(t, "DEV-001-SYM-001", edge.ID)
		assert.Equal(t, DefaultEdgeWeight, edge.Weight)
		assert.NoError(t, edge.Validate())
	})
}
