package layout

import "github.com/matzehuels/seqline/pkg/diagram"

// Scene is the flat list of positioned visual elements produced by one
// layout pass, plus the recomputed yPositions the caller persists back into
// the document. All coordinates are absolute pixels; boxes carry their
// center in (X, Y).
//
// The scene is the engine's entire output contract: CLI, HTTP API, and the
// terminal editor all consume this one shape.
type Scene struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	Lifelines []LifelineHeader `json:"lifelines" bson:"lifelines"`
	Nodes     []NodeBox        `json:"nodes" bson:"nodes"`
	Anchors   []AnchorMark     `json:"anchors" bson:"anchors"`
	Processes []ProcessBox     `json:"processes" bson:"processes"`
	Edges     []EdgeLine       `json:"edges" bson:"edges"`

	// YPositions maps nodeID → recomputed pixel center, to be written back
	// into the document by the caller after a committed pass.
	YPositions map[string]float64 `json:"y_positions" bson:"y_positions"`

	// SlotCount is the number of vertical rows in use.
	SlotCount int `json:"slot_count" bson:"slot_count"`

	// Overflow lists nodes parked on the last slot because the slot cap was
	// exhausted. Non-empty overflow means the layout is degraded: those
	// nodes may visually overlap, but nothing disappears.
	Overflow []string `json:"overflow,omitempty" bson:"overflow,omitempty"`

	// Skipped lists nodes excluded because their span could not be computed.
	Skipped []string `json:"skipped,omitempty" bson:"skipped,omitempty"`
}

// Degraded reports whether the pass hit the slot cap.
func (s *Scene) Degraded() bool { return len(s.Overflow) > 0 }

// LifelineHeader is a positioned lifeline column: X is the rail center,
// Width the full column width including process sub-lanes.
type LifelineHeader struct {
	ID    string  `json:"id" bson:"id"`
	Name  string  `json:"name" bson:"name"`
	Order int     `json:"order" bson:"order"`
	X     float64 `json:"x" bson:"x"`
	Width float64 `json:"width" bson:"width"`
	Color string  `json:"color,omitempty" bson:"color,omitempty"`
}

// NodeBox is a positioned node. (X, Y) is the box center; Width respects the
// theme's minimum so narrow spans overflow visually instead of shrinking.
type NodeBox struct {
	ID     string           `json:"id" bson:"id"`
	Type   diagram.NodeType `json:"type" bson:"type"`
	Label  string           `json:"label,omitempty" bson:"label,omitempty"`
	X      float64          `json:"x" bson:"x"`
	Y      float64          `json:"y" bson:"y"`
	Width  float64          `json:"width" bson:"width"`
	Height float64          `json:"height" bson:"height"`
	Slot   int              `json:"slot" bson:"slot"`
	Span   Span             `json:"span" bson:"span"`
}

// AnchorMark is a positioned anchor sitting on the edge of its lifeline rail
// at the Y center of its owning node's slot.
type AnchorMark struct {
	ID         string             `json:"id" bson:"id"`
	NodeID     string             `json:"node_id" bson:"node_id"`
	LifelineID string             `json:"lifeline_id" bson:"lifeline_id"`
	Type       diagram.AnchorType `json:"type" bson:"type"`
	ProcessID  string             `json:"process_id,omitempty" bson:"process_id,omitempty"`
	X          float64            `json:"x" bson:"x"`
	Y          float64            `json:"y" bson:"y"`
}

// ProcessBox is a positioned activity bar offset from its lifeline rail by
// its sub-lane. (X, Y) is the top-left corner.
type ProcessBox struct {
	ID          string  `json:"id" bson:"id"`
	LifelineID  string  `json:"lifeline_id" bson:"lifeline_id"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Color       string  `json:"color,omitempty" bson:"color,omitempty"`
	SubLane     int     `json:"sub_lane" bson:"sub_lane"`
	X           float64 `json:"x" bson:"x"`
	Y           float64 `json:"y" bson:"y"`
	Width       float64 `json:"width" bson:"width"`
	Height      float64 `json:"height" bson:"height"`
}

// EdgeLine connects a node's two anchors. The line runs source → target, so
// the arrowhead belongs at (X2, Y2) regardless of anchor array order.
type EdgeLine struct {
	NodeID string  `json:"node_id" bson:"node_id"`
	X1     float64 `json:"x1" bson:"x1"`
	Y1     float64 `json:"y1" bson:"y1"`
	X2     float64 `json:"x2" bson:"x2"`
	Y2     float64 `json:"y2" bson:"y2"`
}
