package grounding

import (
	"testing"

	"github.com/siherrmann/medgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector() *Detector {
	return NewDetector(model.DefaultEngineConfig().Detector)
}

func ventilatorNodes() []*model.Node {
	return []*model.Node{
		{ID: "DEV-001", Type: model.NodeTypeDevice, Label: "Horizon X2 Ventilator", Content: "Advanced mechanical ventilator for critical care with integrated monitoring and alarm systems."},
		{ID: "SYM-001", Type: model.NodeTypeSymptom, Label: "Error Code E-203", Content: "Ventilator error indicating pressure sensor malfunction or calibration issue."},
	}
}

func TestDetect(t *testing.T) {
	detector := newTestDetector()

	t.Run("Grounded response passes", func(t *testing.T) {
		report := detector.Detect("The ventilator shows error E-203: recalibrate the pressure sensor.", ventilatorNodes())

		assert.False(t, report.IsHallucinated)
		assert.Equal(t, 1.0, report.Confidence)
		assert.Empty(t, report.Violations)
	})

	t.Run("Response without vocabulary terms has full confidence", func(t *testing.T) {
		report := detector.Detect("Please contact the manufacturer.", nil)

		assert.False(t, report.IsHallucinated)
		assert.Equal(t, 1.0, report.Confidence)
		assert.NotNil(t, report.Violations)
	})

	t.Run("Invented device terms are violations", func(t *testing.T) {
		report := detector.Detect("Check the infusion pump flow and oxygen display on the ventilator.", ventilatorNodes())

		require.Len(t, report.Violations, 5)
		assert.Equal(t, `Term "infusion" not found in traversed knowledge graph nodes`, report.Violations[0])
		assert.InDelta(t, 1.0/6.0, report.Confidence, 1e-9)
		assert.True(t, report.IsHallucinated)
	})

	t.Run("Four violations flag a hallucination even with high confidence", func(t *testing.T) {
		nodes := ventilatorNodes()
		response := "ventilator ventilator ventilator ventilator ventilator ventilator ventilator ventilator ventilator ventilator ventilator ventilator pump pump pump pump"

		report := detector.Detect(response, nodes)

		assert.Len(t, report.Violations, 4)
		assert.InDelta(t, 0.75, report.Confidence, 1e-9)
		assert.True(t, report.IsHallucinated)
	})

	t.Run("Each occurrence is checked", func(t *testing.T) {
		report := detector.Detect("pump, pump.", ventilatorNodes())

		assert.Len(t, report.Violations, 2)
		assert.Equal(t, 0.0, report.Confidence)
	})

	t.Run("Surrounding punctuation and case are ignored", func(t *testing.T) {
		report := detector.Detect("(Ventilator) ALARM! \"sensor\"", ventilatorNodes())

		assert.Empty(t, report.Violations)
		assert.Equal(t, 1.0, report.Confidence)
	})

	t.Run("Vocabulary is configurable", func(t *testing.T) {
		config := model.DefaultEngineConfig().Detector
		config.Vocabulary = []string{"Defibrillator"}
		custom := NewDetector(config)

		report := custom.Detect("Charge the defibrillator and check the pump.", ventilatorNodes())

		assert.Equal(t, []string{`Term "defibrillator" not found in traversed knowledge graph nodes`}, report.Violations)
	})
}
