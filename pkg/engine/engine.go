// Package engine wires the geometry model, layout pipeline, and drag
// controller into the single facade a presentation layer consumes.
//
// The engine owns one mutable current layout. All operations are expected to
// arrive serialized through the caller's event loop (pointer and paint
// callbacks); the only internal synchronization is the debounce timer for
// asynchronous height feedback.
//
// # Data flow
//
//	document → spans → slots → heights → projection → scene → (paint)
//	                                 ↑                            |
//	                                 └──── height feedback ───────┘
//
// Height measurements arrive after paint. The first time every visible node
// has reported, the engine requests one corrective re-layout; steady-state
// measurements are debounced so a burst within one paint cycle coalesces
// into a single request.
//
// # Callbacks
//
// OnDocumentChange fires exactly once per committed drag or structural edit.
// OnRelayout asks the presentation layer to run [Engine.Layout] again; the
// engine never re-enters the pipeline on its own.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/drag"
	"github.com/matzehuels/seqline/pkg/layout"
	"github.com/matzehuels/seqline/pkg/observability"
	"github.com/matzehuels/seqline/pkg/theme"
)

// DefaultDebounce coalesces steady-state height measurements arriving within
// one paint cycle into a single relayout request.
const DefaultDebounce = 40 * time.Millisecond

// Engine drives the layout pipeline over one document.
type Engine struct {
	doc     *diagram.Document
	theme   *theme.Theme
	heights *layout.HeightTracker
	dragger *drag.Controller
	logger  *log.Logger

	onChange   func(*diagram.Document)
	onRelayout func(reason string)

	debounce time.Duration
	timerMu  sync.Mutex
	timer    *time.Timer

	// Counts backing the layout version: a change in either invalidates any
	// in-flight speculative drag state.
	lifelineCount int
	processCount  int
	dragStart     time.Time
}

// New creates an engine over the given document. A nil theme means
// [theme.Default]; a nil logger means the charmbracelet default.
func New(doc *diagram.Document, th *theme.Theme, logger *log.Logger) *Engine {
	if th == nil {
		th = theme.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	heights := layout.NewHeightTracker(th)
	return &Engine{
		doc:           doc,
		theme:         th,
		heights:       heights,
		dragger:       drag.NewController(doc, th, heights),
		logger:        logger,
		debounce:      DefaultDebounce,
		lifelineCount: len(doc.Lifelines),
		processCount:  len(doc.Processes),
	}
}

// SetOnDocumentChange registers the callback fired once per committed drag
// or structural edit, with the updated document.
func (e *Engine) SetOnDocumentChange(f func(*diagram.Document)) { e.onChange = f }

// SetOnRelayout registers the callback asking the presentation layer to run
// another layout pass.
func (e *Engine) SetOnRelayout(f func(reason string)) { e.onRelayout = f }

// SetDebounce overrides the steady-state height debounce interval.
func (e *Engine) SetDebounce(d time.Duration) { e.debounce = d }

// Document returns the committed document.
func (e *Engine) Document() *diagram.Document { return e.doc }

// Theme returns the engine's theme.
func (e *Engine) Theme() *theme.Theme { return e.theme }

// =============================================================================
// Layout
// =============================================================================

// Layout runs a full pass: structural repair, slot assignment, projection.
// The returned scene carries the recomputed yPositions; Layout also writes
// them back into the document, keeping the cached sort keys current.
//
// Layout never fails: degraded conditions surface on the scene.
func (e *Engine) Layout(ctx context.Context) *layout.Scene {
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, len(e.doc.Nodes))

	if report := e.doc.Repair(); report.Dirty() {
		e.logger.Warn("repaired document before layout",
			"reanchored", len(report.ReanchoredNodes),
			"removed", len(report.RemovedNodes),
			"pruned", len(report.PrunedProcesses))
		observability.Layout().OnRepair(ctx,
			len(report.ReanchoredNodes), len(report.RemovedNodes), len(report.PrunedProcesses))
		e.emitChange()
	}

	asg := layout.AssignSlots(e.doc, e.theme.SlotCap, nil)
	scene := layout.Project(e.doc, e.theme, e.heights, asg)
	e.doc.ApplyYPositions(scene.YPositions)

	ids := make([]string, 0, len(e.doc.Nodes))
	for i := range e.doc.Nodes {
		ids = append(ids, e.doc.Nodes[i].ID)
	}
	e.heights.Expect(ids)

	e.bumpVersionIfStructureChanged()

	if scene.Degraded() {
		e.logger.Warn("slot cap exhausted; layout degraded", "overflow", scene.Overflow)
	}
	observability.Layout().OnLayoutComplete(ctx,
		len(e.doc.Nodes), scene.SlotCount, scene.Degraded(), time.Since(start))
	return scene
}

// Edit applies a structural change to the document and emits a single
// OnDocumentChange. Lifeline or process count changes bump the layout
// version, invalidating any in-flight drag speculation.
func (e *Engine) Edit(fn func(*diagram.Document) error) error {
	if err := fn(e.doc); err != nil {
		return err
	}
	e.bumpVersionIfStructureChanged()
	e.emitChange()
	return nil
}

func (e *Engine) bumpVersionIfStructureChanged() {
	if len(e.doc.Lifelines) != e.lifelineCount || len(e.doc.Processes) != e.processCount {
		e.lifelineCount = len(e.doc.Lifelines)
		e.processCount = len(e.doc.Processes)
		e.dragger.InvalidateLayout()
	}
}

func (e *Engine) emitChange() {
	if e.onChange != nil {
		e.onChange(e.doc)
	}
}

// =============================================================================
// Height feedback
// =============================================================================

// MeasureHeight records a rendered box height reported after paint. The
// measurement completing the initial expected set triggers an immediate
// relayout request (the one-shot corrective pass); later measurements are
// debounced.
func (e *Engine) MeasureHeight(nodeID string, height float64) {
	if e.heights.Measure(nodeID, height) {
		e.cancelPending()
		e.requestRelayout("initial heights complete")
		return
	}
	e.scheduleRelayout("height update")
}

func (e *Engine) scheduleRelayout(reason string) {
	if e.debounce <= 0 {
		e.requestRelayout(reason)
		return
	}
	e.timerMu.Lock()
	defer e.timerMu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, func() { e.requestRelayout(reason) })
}

func (e *Engine) cancelPending() {
	e.timerMu.Lock()
	defer e.timerMu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) requestRelayout(reason string) {
	if e.onRelayout != nil {
		e.onRelayout(reason)
	}
}

// =============================================================================
// Drag protocol
// =============================================================================

// StartNodeDrag begins a vertical node drag.
func (e *Engine) StartNodeDrag(ctx context.Context, nodeID string) error {
	if err := e.dragger.StartNode(nodeID); err != nil {
		return err
	}
	e.dragStart = time.Now()
	observability.Drag().OnDragStart(ctx, "node", nodeID)
	return nil
}

// StartAnchorDrag begins a horizontal anchor drag.
func (e *Engine) StartAnchorDrag(ctx context.Context, anchorID string) error {
	if err := e.dragger.StartAnchor(anchorID); err != nil {
		return err
	}
	e.dragStart = time.Now()
	observability.Drag().OnDragStart(ctx, "anchor", anchorID)
	return nil
}

// DragMoveNode recomputes the speculative scene for a pointer-move tick.
// Callers should throttle to one call per animation frame.
func (e *Engine) DragMoveNode(pointerY float64) (*layout.Scene, error) {
	return e.dragger.MoveNode(pointerY)
}

// DragMoveAnchor recomputes the speculative scene for a pointer-move tick.
func (e *Engine) DragMoveAnchor(pointerX float64) (*layout.Scene, error) {
	return e.dragger.MoveAnchor(pointerX)
}

// EndDrag finishes the drag. A commit emits one OnDocumentChange; a revert
// emits none.
func (e *Engine) EndDrag(ctx context.Context) (*drag.Result, error) {
	res, err := e.dragger.End()
	if err != nil {
		return nil, err
	}
	kind := "node"
	if res.Kind == drag.KindAnchor {
		kind = "anchor"
	}
	if res.Committed {
		e.doc.ApplyYPositions(res.Scene.YPositions)
		observability.Drag().OnDragCommit(ctx, kind, "", time.Since(e.dragStart))
		e.emitChange()
	} else {
		observability.Drag().OnDragRevert(ctx, kind, "", res.Reverted)
	}
	return res, nil
}

// CancelDrag aborts an in-flight drag, restoring the pre-drag snapshot.
func (e *Engine) CancelDrag(ctx context.Context) (*drag.Result, error) {
	res, err := e.dragger.Cancel()
	if err != nil {
		return nil, err
	}
	observability.Drag().OnDragRevert(ctx, "cancel", "", res.Reverted)
	return res, nil
}

// Dragging reports whether a drag is in progress.
func (e *Engine) Dragging() bool { return e.dragger.Dragging() }
