package graph

import (
	"context"

	"github.com/siherrmann/medgraph/helper"
	"github.com/siherrmann/medgraph/model"
)

// SeedNodes returns the medical device knowledge graph nodes
func SeedNodes() []*model.Node {
	return []*model.Node{
		// Devices
		{ID: "DEV-001", Type: model.NodeTypeDevice, Label: "Horizon X2 Ventilator", Content: "Advanced mechanical ventilator for critical care with integrated monitoring and alarm systems. Model HX2-2024."},
		{ID: "DEV-002", Type: model.NodeTypeDevice, Label: "CardioSync Monitor", Content: "Multi-parameter patient monitoring system for cardiac care units. Monitors ECG, SpO2, blood pressure, and temperature."},
		{ID: "DEV-003", Type: model.NodeTypeDevice, Label: "InfuPro Pump", Content: "Smart infusion pump with dose error reduction system for medication delivery."},
		{ID: "DEV-004", Type: model.NodeTypeDevice, Label: "SurgiLite LED", Content: "Surgical lighting system with adjustable intensity and shadow reduction technology."},

		// Symptoms
		{ID: "SYM-001", Type: model.NodeTypeSymptom, Label: "Error Code E-203", Content: "Ventilator error indicating pressure sensor malfunction or calibration issue."},
		{ID: "SYM-002", Type: model.NodeTypeSymptom, Label: "Alarm Continuous Beep", Content: "Continuous alarm sound indicating critical patient parameter out of range."},
		{ID: "SYM-003", Type: model.NodeTypeSymptom, Label: "Display Flickering", Content: "Screen display showing intermittent flickering or partial blackout."},
		{ID: "SYM-004", Type: model.NodeTypeSymptom, Label: "Flow Rate Inconsistency", Content: "Infusion pump delivering inconsistent flow rates compared to programmed settings."},
		{ID: "SYM-005", Type: model.NodeTypeSymptom, Label: "Low Oxygen Alert", Content: "SpO2 reading dropping below 90% triggering low oxygen saturation alarm."},

		// Solutions
		{ID: "SOL-001", Type: model.NodeTypeSolution, Label: "Pressure Sensor Recalibration", Content: "Step 1: Access service menu (hold Menu + Enter for 5 seconds). Step 2: Navigate to Calibration > Pressure Sensors. Step 3: Follow on-screen prompts for zero-point calibration. Step 4: Test with known pressure source."},
		{ID: "SOL-002", Type: model.NodeTypeSolution, Label: "Alarm Parameter Reset", Content: "Step 1: Verify patient vital signs manually. Step 2: Access alarm settings. Step 3: Adjust alarm limits based on patient baseline. Step 4: Ensure all sensors properly connected."},
		{ID: "SOL-003", Type: model.NodeTypeSolution, Label: "Display Cable Check", Content: "Step 1: Power down device completely. Step 2: Inspect display cable connections at both ends. Step 3: Reseat cables firmly. Step 4: Check for physical damage to cables. Step 5: Power on and test."},
		{ID: "SOL-004", Type: model.NodeTypeSolution, Label: "Pump Tubing Inspection", Content: "Step 1: Stop infusion safely. Step 2: Check tubing for kinks, air bubbles, or obstruction. Step 3: Verify tubing properly seated in pump mechanism. Step 4: Replace tubing if damaged. Step 5: Prime tubing and restart."},
		{ID: "SOL-005", Type: model.NodeTypeSolution, Label: "Sensor Position Verification", Content: "Step 1: Check SpO2 sensor placement on finger/toe. Step 2: Ensure adequate perfusion at site. Step 3: Clean sensor and application site. Step 4: Reposition sensor if needed. Step 5: Verify with alternate measurement."},

		// Regulations and procedures
		{ID: "REG-001", Type: model.NodeTypeRegulation, Label: "FDA 21 CFR 820.72", Content: "Quality System Regulation requiring inspection, measuring, and test equipment to be calibrated at specified intervals."},
		{ID: "REG-002", Type: model.NodeTypeRegulation, Label: "IEC 60601-1-8 Alarm Standard", Content: "Medical electrical equipment alarm systems standard specifying requirements for alarm signals and indicators."},
		{ID: "PROC-001", Type: model.NodeTypeProcedure, Label: "Daily Safety Check", Content: "Mandatory daily verification of critical device functions: alarm systems, backup battery, sensor accuracy, display functionality."},
		{ID: "PROC-002", Type: model.NodeTypeProcedure, Label: "Quarterly Calibration", Content: "Required quarterly calibration of all sensors and measurement systems per manufacturer specifications and regulatory requirements."},
	}
}

// SeedEdges returns the weighted relationships of the medical device knowledge graph
func SeedEdges() []*model.Edge {
	relationships := []struct {
		source, target, relationship string
		weight                       float64
	}{
		// Horizon X2 Ventilator
		{"DEV-001", "SYM-001", model.RelationshipExhibits, 0.95},
		{"SYM-001", "SOL-001", model.RelationshipSolvedBy, 0.90},
		{"SOL-001", "REG-001", model.RelationshipRequires, 0.85},
		{"DEV-001", "PROC-001", model.RelationshipRequires, 0.95},
		{"DEV-001", "PROC-002", model.RelationshipRequires, 0.90},

		// CardioSync Monitor
		{"DEV-002", "SYM-002", model.RelationshipExhibits, 0.85},
		{"DEV-002", "SYM-003", model.RelationshipExhibits, 0.75},
		{"DEV-002", "SYM-005", model.RelationshipExhibits, 0.80},
		{"SYM-002", "SOL-002", model.RelationshipSolvedBy, 0.88},
		{"SYM-003", "SOL-003", model.RelationshipSolvedBy, 0.85},
		{"SYM-005", "SOL-005", model.RelationshipSolvedBy, 0.92},
		{"SOL-002", "REG-002", model.RelationshipRequires, 0.90},

		// InfuPro Pump
		{"DEV-003", "SYM-004", model.RelationshipExhibits, 0.88},
		{"SYM-004", "SOL-004", model.RelationshipSolvedBy, 0.91},
		{"DEV-003", "PROC-002", model.RelationshipRequires, 0.93},

		// Cross-device
		{"SYM-001", "SYM-002", model.RelationshipRelatedTo, 0.60},
		{"SOL-001", "PROC-002", model.RelationshipRequires, 0.88},
		{"REG-001", "PROC-002", model.RelationshipMandates, 0.95},
	}

	edges := make([]*model.Edge, 0, len(relationships))
	for _, r := range relationships {
		edge := model.NewEdge(r.source, r.target, r.relationship)
		edge.Weight = r.weight
		edges = append(edges, edge)
	}
	return edges
}

// Seed writes the medical device knowledge graph into w
func Seed(ctx context.Context, w Writer) error {
	for _, node := range SeedNodes() {
		err := w.AddNode(ctx, node)
		if err != nil {
			return helper.NewError("seed node "+node.ID, err)
		}
	}

	for _, edge := range SeedEdges() {
		err := w.AddEdge(ctx, edge)
		if err != nil {
			return helper.NewError("seed edge "+edge.ID, err)
		}
	}

	return nil
}
