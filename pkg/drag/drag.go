// Package drag implements the pointer-interaction state machine for the
// layout engine.
//
// A drag is speculative: from pointer-down to pointer-up the committed
// [diagram.Document] is never written. Every move re-runs the slot assigner
// against the committed model (with the dragged node pinned, or with the
// anchor provisionally reassigned on a working copy) and yields a scene for
// immediate painting. Pointer-up commits exactly one fact (the node's new
// yPosition or the anchor's new lifeline) and leaves everything else for
// the next full pass to re-derive. An invalid drag commits nothing at all.
//
// # States
//
//	idle → dragging → (committing | reverting) → idle
//
// Node drags are vertical-only: pointer X is ignored because horizontal
// position is always span-derived. Anchor drags are horizontal-only: pointer
// X snaps to the nearest lifeline rail within the theme's snap threshold,
// with the swap rule applied when the candidate is the partner anchor's
// lifeline.
package drag

import (
	"errors"
	"fmt"

	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/layout"
	"github.com/matzehuels/seqline/pkg/theme"
)

// Sentinel errors for drag protocol misuse.
var (
	// ErrBusy is returned by Start* while another drag is in progress.
	ErrBusy = errors.New("drag already in progress")

	// ErrNoDrag is returned by Move*, End, and Cancel when no drag is in
	// progress.
	ErrNoDrag = errors.New("no drag in progress")

	// ErrWrongKind is returned when a node-drag call is made during an
	// anchor drag or vice versa.
	ErrWrongKind = errors.New("call does not match the active drag kind")
)

// State is the controller's position in the drag protocol.
type State int

// Drag states.
const (
	StateIdle State = iota
	StateDragging
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Kind distinguishes node drags from anchor drags.
type Kind int

// Drag kinds.
const (
	KindNone Kind = iota
	KindNode
	KindAnchor
)

// Result reports how a drag ended. Committed is false for reverts: the
// document is untouched and Scene shows the restored pre-drag layout.
type Result struct {
	Committed bool
	Kind      Kind
	// Reverted carries the revert reason when Committed is false.
	Reverted string
	// Scene is the full post-commit (or post-revert) layout pass.
	Scene *layout.Scene
}

// Controller drives one drag interaction at a time against a committed
// document. It is single-threaded by design: all calls must come from the
// same event loop that owns the document.
type Controller struct {
	doc     *diagram.Document
	theme   *theme.Theme
	heights *layout.HeightTracker

	state State
	kind  Kind

	nodeID   string
	anchorID string

	startSlot    int
	origLifeline string

	candidateSlot     int
	candidateLifeline string

	snapshot *diagram.Document

	// layoutVersion guards speculative state: a bump (lifeline or process
	// count change) invalidates the in-flight candidate, forcing a clean
	// recompute before the next move is processed.
	layoutVersion int
	staleVersion  bool
}

// NewController creates an idle controller over the given committed state.
func NewController(doc *diagram.Document, th *theme.Theme, heights *layout.HeightTracker) *Controller {
	return &Controller{doc: doc, theme: th, heights: heights}
}

// State returns the controller's current state.
func (c *Controller) State() State { return c.state }

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.state == StateDragging }

// =============================================================================
// Start
// =============================================================================

// StartNode begins a vertical node drag, capturing the node's current slot
// and a document snapshot for revert.
func (c *Controller) StartNode(nodeID string) error {
	if c.state != StateIdle {
		return ErrBusy
	}
	if _, ok := c.doc.Node(nodeID); !ok {
		return fmt.Errorf("node %s: %w", nodeID, diagram.ErrNotFound)
	}

	asg := layout.AssignSlots(c.doc, c.theme.SlotCap, nil)
	c.state = StateDragging
	c.kind = KindNode
	c.nodeID = nodeID
	c.startSlot = asg.Slots[nodeID]
	c.candidateSlot = c.startSlot
	c.snapshot = c.doc.Clone()
	c.staleVersion = false
	return nil
}

// StartAnchor begins a horizontal anchor drag, capturing the anchor's
// lifeline for revert. Process-bound anchors may start a drag but can never
// leave their lifeline; their drags always snap back.
func (c *Controller) StartAnchor(anchorID string) error {
	if c.state != StateIdle {
		return ErrBusy
	}
	a, _, ok := c.doc.Anchor(anchorID)
	if !ok {
		return fmt.Errorf("anchor %s: %w", anchorID, diagram.ErrNotFound)
	}

	c.state = StateDragging
	c.kind = KindAnchor
	c.anchorID = anchorID
	c.origLifeline = a.LifelineID
	c.candidateLifeline = a.LifelineID
	c.snapshot = c.doc.Clone()
	c.staleVersion = false
	return nil
}

// =============================================================================
// Move
// =============================================================================

// MoveNode handles a pointer-move tick during a node drag. Pointer Y maps to
// the slot whose band contains it; the whole assigner re-runs with the node
// pinned there, and the returned speculative scene positions every element.
// The committed document is not touched.
//
// Callers should throttle moves to one per animation frame; the controller
// recomputes unconditionally.
func (c *Controller) MoveNode(pointerY float64) (*layout.Scene, error) {
	if c.state != StateDragging {
		return nil, ErrNoDrag
	}
	if c.kind != KindNode {
		return nil, ErrWrongKind
	}
	c.refreshIfStale()

	base := layout.AssignSlots(c.doc, c.theme.SlotCap, nil)
	c.candidateSlot = layout.SlotAt(pointerY, c.doc, c.theme, c.heights, base)

	asg := layout.AssignSlots(c.doc, c.theme.SlotCap, &layout.Pin{NodeID: c.nodeID, Slot: c.candidateSlot})
	return layout.Project(c.doc, c.theme, c.heights, asg), nil
}

// MoveAnchor handles a pointer-move tick during an anchor drag. Pointer X
// snaps to the closest lifeline rail; outside the snap threshold the
// candidate reverts to the original lifeline rather than leaving the anchor
// in an undefined location. The speculative scene is computed on a working
// copy; the committed document is not touched.
func (c *Controller) MoveAnchor(pointerX float64) (*layout.Scene, error) {
	if c.state != StateDragging {
		return nil, ErrNoDrag
	}
	if c.kind != KindAnchor {
		return nil, ErrWrongKind
	}
	c.refreshIfStale()

	c.candidateLifeline = c.snapLifeline(pointerX)

	work := c.doc.Clone()
	if c.candidateLifeline != c.origLifeline {
		// Process-locked anchors refuse reassignment; the working copy then
		// just shows the original position.
		if err := work.ReassignAnchor(c.anchorID, c.candidateLifeline); err != nil {
			c.candidateLifeline = c.origLifeline
			work = c.doc.Clone()
		}
	}
	asg := layout.AssignSlots(work, c.theme.SlotCap, nil)
	return layout.Project(work, c.theme, c.heights, asg), nil
}

// snapLifeline returns the lifeline whose rail is nearest to pointerX, or
// the original lifeline when every rail is farther than the snap threshold.
func (c *Controller) snapLifeline(pointerX float64) string {
	asg := layout.AssignSlots(c.doc, c.theme.SlotCap, nil)
	scene := layout.Project(c.doc, c.theme, c.heights, asg)

	best := c.origLifeline
	bestDist := c.theme.SnapThreshold
	for _, l := range scene.Lifelines {
		d := pointerX - l.X
		if d < 0 {
			d = -d
		}
		if d <= bestDist {
			best = l.ID
			bestDist = d
		}
	}
	return best
}

// =============================================================================
// End
// =============================================================================

// End finishes the drag. A valid node drag commits the node's new yPosition
// (its final slot's center); a valid anchor drag commits the new lifeline
// (with the swap rule applied by the model). Invalid drags, meaning snap-back
// to the original lifeline or a process-anchor cross-lifeline attempt, revert:
// the document is restored byte-for-byte from the pre-drag snapshot and no
// change is observable.
func (c *Controller) End() (*Result, error) {
	if c.state != StateDragging {
		return nil, ErrNoDrag
	}
	defer c.reset()

	switch c.kind {
	case KindNode:
		return c.endNode(), nil
	default:
		return c.endAnchor(), nil
	}
}

func (c *Controller) endNode() *Result {
	// Derive the final Y from a pass with the node pinned to its candidate.
	pinned := layout.AssignSlots(c.doc, c.theme.SlotCap, &layout.Pin{NodeID: c.nodeID, Slot: c.candidateSlot})
	scene := layout.Project(c.doc, c.theme, c.heights, pinned)
	finalY, ok := scene.YPositions[c.nodeID]
	if !ok {
		return c.revert("node lost its span during the drag")
	}

	// The target slot's previous occupant carries the same committed center.
	// Bias the stored value toward the drag direction so the stable sort
	// resolves that tie in the dragged node's favor; the next committed
	// pass rewrites it to the exact center anyway.
	switch {
	case c.candidateSlot < c.startSlot:
		finalY -= c.theme.SlotGap / 4
	case c.candidateSlot > c.startSlot:
		finalY += c.theme.SlotGap / 4
	}

	// The single authoritative fact: the dragged node's yPosition. Every
	// other node's position is re-derived by the follow-up pass.
	n, ok := c.doc.Node(c.nodeID)
	if !ok {
		return c.revert("node removed during the drag")
	}
	n.YPosition = finalY

	return &Result{Committed: true, Kind: KindNode, Scene: c.fullPass()}
}

func (c *Controller) endAnchor() *Result {
	if c.candidateLifeline == c.origLifeline {
		return c.revert("pointer outside snap threshold")
	}
	if err := c.doc.ReassignAnchor(c.anchorID, c.candidateLifeline); err != nil {
		return c.revert(err.Error())
	}
	return &Result{Committed: true, Kind: KindAnchor, Scene: c.fullPass()}
}

// Cancel aborts the drag (lost pointer capture, Escape) and restores the
// pre-drag snapshot atomically. No partial commit is observable.
func (c *Controller) Cancel() (*Result, error) {
	if c.state != StateDragging {
		return nil, ErrNoDrag
	}
	defer c.reset()
	return c.revert("cancelled"), nil
}

// InvalidateLayout notes a layout version bump (lifeline or process count
// change). The in-flight speculative candidate is recomputed from the
// committed document before the next move is processed.
func (c *Controller) InvalidateLayout() {
	c.layoutVersion++
	if c.state == StateDragging {
		c.staleVersion = true
	}
}

func (c *Controller) refreshIfStale() {
	if !c.staleVersion {
		return
	}
	c.staleVersion = false
	switch c.kind {
	case KindNode:
		asg := layout.AssignSlots(c.doc, c.theme.SlotCap, nil)
		c.startSlot = asg.Slots[c.nodeID]
		c.candidateSlot = c.startSlot
	case KindAnchor:
		if a, _, ok := c.doc.Anchor(c.anchorID); ok {
			c.origLifeline = a.LifelineID
		}
		c.candidateLifeline = c.origLifeline
	}
	c.snapshot = c.doc.Clone()
}

// revert restores the committed document from the pre-drag snapshot.
func (c *Controller) revert(reason string) *Result {
	*c.doc = *c.snapshot.Clone()
	return &Result{Committed: false, Kind: c.kind, Reverted: reason, Scene: c.fullPass()}
}

func (c *Controller) fullPass() *layout.Scene {
	asg := layout.AssignSlots(c.doc, c.theme.SlotCap, nil)
	return layout.Project(c.doc, c.theme, c.heights, asg)
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.kind = KindNone
	c.nodeID = ""
	c.anchorID = ""
	c.snapshot = nil
}
