// Package layout derives visual positions from the geometry model.
//
// The pipeline runs in fixed stages: spans (horizontal lane ranges per node),
// slot assignment (vertical stacking of non-overlapping spans), process
// sub-lanes (parallel activity bars per lifeline), and projection (pixel
// coordinates for every visual element). Each stage is pure: a layout pass
// never mutates the [diagram.Document]; recomputed yPositions are returned in
// the [Scene] for the caller to persist.
//
// Degraded conditions (slot exhaustion) are reported on the Scene, never as
// errors; the engine always produces a structurally valid layout.
package layout

import "github.com/matzehuels/seqline/pkg/diagram"

// Span is the inclusive range of lane gaps a node's edge crosses, derived
// from its two lifelines' orders. Lane i is the gap between lifeline i and
// lifeline i+1, so a node between orders 0 and 2 occupies lanes 0..1.
type Span struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// SpanOf computes a node's span from the lifeline order map. It returns
// ok=false when either anchor's lifeline is missing from the map, meaning the
// node is temporarily orphaned and must be repaired before layout.
func SpanOf(n *diagram.Node, orders map[string]int) (Span, bool) {
	a, okA := orders[n.Anchors[0].LifelineID]
	b, okB := orders[n.Anchors[1].LifelineID]
	if !okA || !okB {
		return Span{}, false
	}
	if a > b {
		a, b = b, a
	}
	return Span{Left: a, Right: b - 1}, true
}

// Overlaps reports whether two spans share a lane and therefore conflict in
// a slot. Spans in merely adjacent lanes may co-occupy a row. This one test
// is the uniform buffer rule for the whole engine.
func (s Span) Overlaps(o Span) bool {
	return s.Left <= o.Right && o.Left <= s.Right
}

// Width returns the number of lanes the span covers.
func (s Span) Width() int {
	return s.Right - s.Left + 1
}
