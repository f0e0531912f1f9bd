package layout

import (
	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/theme"
)

// HeightTracker accumulates rendered box heights reported asynchronously by
// the presentation layer after paint. Until a node has been measured at
// least once, its type default from the theme applies.
//
// The tracker models the "all initial heights known" barrier explicitly: the
// expected set is declared up front, and the first time every expected node
// has reported, [HeightTracker.Measure] returns barrier=true exactly once.
// Callers use that signal for the single corrective re-layout pass; later
// measurements are steady-state updates to be debounced by the engine.
type HeightTracker struct {
	theme    *theme.Theme
	measured map[string]float64
	expected map[string]struct{}
	barrier  bool
}

// NewHeightTracker creates a tracker with no expectations and no
// measurements.
func NewHeightTracker(t *theme.Theme) *HeightTracker {
	return &HeightTracker{
		theme:    t,
		measured: make(map[string]float64),
		expected: make(map[string]struct{}),
	}
}

// Expect declares the set of currently visible nodes. Measurements already
// received are kept; nodes no longer present stop counting toward the
// barrier. Declaring a new expectation set after the barrier fired does not
// re-arm it; the corrective pass happens once per tracker.
func (h *HeightTracker) Expect(nodeIDs []string) {
	h.expected = make(map[string]struct{}, len(nodeIDs))
	for _, id := range nodeIDs {
		h.expected[id] = struct{}{}
	}
}

// Measure records a reported height. The returned barrier flag is true only
// for the measurement that completes the initial expected set.
func (h *HeightTracker) Measure(nodeID string, height float64) (barrier bool) {
	if height <= 0 {
		return false
	}
	h.measured[nodeID] = height
	if h.barrier || !h.AllMeasured() {
		return false
	}
	h.barrier = true
	return true
}

// AllMeasured reports whether every expected node has a measurement.
func (h *HeightTracker) AllMeasured() bool {
	for id := range h.expected {
		if _, ok := h.measured[id]; !ok {
			return false
		}
	}
	return true
}

// HeightOf returns the last measured height for a node, or the theme default
// for its type.
func (h *HeightTracker) HeightOf(n *diagram.Node) float64 {
	if v, ok := h.measured[n.ID]; ok {
		return v
	}
	return h.theme.HeightFor(n.Type)
}

// Forget drops a node's measurement, e.g. after the node is deleted.
func (h *HeightTracker) Forget(nodeID string) {
	delete(h.measured, nodeID)
	delete(h.expected, nodeID)
}
