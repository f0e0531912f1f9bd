// Package diagram defines the geometry model for sequence diagrams.
//
// A diagram [Document] is a small declarative model: vertical lifelines
// (participants), nodes whose two anchors attach to lifelines, and processes
// that group anchors on a single lifeline into activity bars. Everything
// visual (lane spans, slot rows, pixel coordinates) is derived from this
// model by the layout packages and is never stored here, with one deliberate
// exception: a node's YPosition caches the last committed layout result and
// serves as a stable sort key, not as ground truth for rendering.
//
// # Invariants
//
//   - Lifeline orders are dense: 0..N-1 with no gaps or duplicates.
//   - Every node has exactly two anchors referencing two distinct lifelines.
//   - All anchors grouped by a process lie on the same lifeline.
//   - No process has an empty anchor set; pruning removes it first.
//
// [Document.Validate] checks these invariants; [Document.Repair] restores
// them where possible instead of failing.
package diagram

import (
	"errors"
	"slices"
)

// Sentinel errors for model invariant violations.
var (
	// ErrDuplicateID is returned by [Document.Validate] when two lifelines,
	// nodes, or processes share an ID. IDs must be unique per element kind.
	ErrDuplicateID = errors.New("duplicate element ID")

	// ErrOrderNotDense is returned by [Document.Validate] when lifeline
	// orders are not exactly 0..N-1. Use [Document.NormalizeOrders] to repair.
	ErrOrderNotDense = errors.New("lifeline orders must be dense (0..N-1)")

	// ErrUnknownLifeline is returned by [Document.Validate] when an anchor
	// references a lifeline that does not exist.
	ErrUnknownLifeline = errors.New("anchor references unknown lifeline")

	// ErrSameLifeline is returned by [Document.Validate] when both anchors of
	// a node sit on the same lifeline. Spans require two distinct lifelines.
	ErrSameLifeline = errors.New("node anchors must reference distinct lifelines")

	// ErrProcessSplit is returned by [Document.Validate] when a process
	// groups anchors that sit on different lifelines.
	ErrProcessSplit = errors.New("process anchors must share one lifeline")

	// ErrProcessEmpty is returned by [Document.Validate] when a process has
	// no anchors. Empty processes must be pruned, never kept.
	ErrProcessEmpty = errors.New("process has no anchors")

	// ErrUnknownAnchor is returned by [Document.Validate] when a process
	// references an anchor that no node owns.
	ErrUnknownAnchor = errors.New("process references unknown anchor")
)

// AnchorType distinguishes the two endpoints of a node's connection.
// The arrowhead of a rendered edge follows the target anchor.
type AnchorType string

// Anchor types.
const (
	AnchorSource AnchorType = "source"
	AnchorTarget AnchorType = "target"
)

// NodeType selects default box dimensions and rendering treatment.
type NodeType string

// Node types.
const (
	NodeEndpoint NodeType = "endpoint"
	NodeProcess  NodeType = "process"
	NodeDecision NodeType = "decision"
	NodeData     NodeType = "data"
	NodeCustom   NodeType = "custom"
)

// MaxProcessesPerLifeline caps how many parallel process bars a single
// lifeline renders. Additional processes still exist in the model but share
// the last sub-lane.
const MaxProcessesPerLifeline = 3

// Lifeline is a named vertical column representing a participant.
// Order defines the left-to-right column position and is dense across the
// document (0..N-1).
type Lifeline struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Order       int    `json:"order" bson:"order"`
	Color       string `json:"color,omitempty" bson:"color,omitempty"`
	AnchorColor string `json:"anchor_color,omitempty" bson:"anchor_color,omitempty"`
}

// Anchor is one endpoint of a node's connection to a lifeline. Anchors exist
// only as part of exactly one node's anchor pair and are never standalone.
type Anchor struct {
	ID         string     `json:"id" bson:"id"`
	LifelineID string     `json:"lifeline_id" bson:"lifeline_id"`
	Type       AnchorType `json:"type" bson:"type"`
	ProcessID  string     `json:"process_id,omitempty" bson:"process_id,omitempty"`
}

// Node is a diagram element connecting two lifelines. YPosition denotes the
// pixel center of the node's box as of the last committed layout pass; it is
// a cache and a stable sort key, recomputed on every pass. The anchor pair
// order carries no left/right meaning; visual left/right derives from
// lifeline order.
type Node struct {
	ID        string         `json:"id" bson:"id"`
	Type      NodeType       `json:"type" bson:"type"`
	Label     string         `json:"label,omitempty" bson:"label,omitempty"`
	YPosition float64        `json:"y_position,omitempty" bson:"y_position,omitempty"`
	Anchors   [2]Anchor      `json:"anchors" bson:"anchors"`
	Data      map[string]any `json:"data,omitempty" bson:"data,omitempty"`
}

// Source returns the node's source anchor, falling back to the first anchor
// if neither is marked as source.
func (n *Node) Source() *Anchor {
	for i := range n.Anchors {
		if n.Anchors[i].Type == AnchorSource {
			return &n.Anchors[i]
		}
	}
	return &n.Anchors[0]
}

// Target returns the node's target anchor, falling back to the second anchor
// if neither is marked as target.
func (n *Node) Target() *Anchor {
	for i := range n.Anchors {
		if n.Anchors[i].Type == AnchorTarget {
			return &n.Anchors[i]
		}
	}
	return &n.Anchors[1]
}

// AnchorByID returns a pointer to the node's anchor with the given ID.
func (n *Node) AnchorByID(id string) (*Anchor, bool) {
	for i := range n.Anchors {
		if n.Anchors[i].ID == id {
			return &n.Anchors[i], true
		}
	}
	return nil, false
}

// Other returns the node's other anchor, given one of the pair.
func (n *Node) Other(anchorID string) *Anchor {
	if n.Anchors[0].ID == anchorID {
		return &n.Anchors[1]
	}
	return &n.Anchors[0]
}

// Process groups 1..3 anchors on one lifeline into a vertical activity bar
// rendered parallel to the lifeline rail.
type Process struct {
	ID          string   `json:"id" bson:"id"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Color       string   `json:"color,omitempty" bson:"color,omitempty"`
	AnchorIDs   []string `json:"anchor_ids" bson:"anchor_ids"`
}

// Document is the complete geometry model for one diagram. It is the single
// authoritative state of the editor; all coordinates are derived from it.
type Document struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty"`
	Title     string     `json:"title,omitempty" bson:"title,omitempty"`
	Lifelines []Lifeline `json:"lifelines" bson:"lifelines"`
	Nodes     []Node     `json:"nodes" bson:"nodes"`
	Processes []Process  `json:"processes" bson:"processes"`
}

// =============================================================================
// Lookups
// =============================================================================

// Lifeline returns the lifeline with the given ID.
func (d *Document) Lifeline(id string) (*Lifeline, bool) {
	for i := range d.Lifelines {
		if d.Lifelines[i].ID == id {
			return &d.Lifelines[i], true
		}
	}
	return nil, false
}

// Node returns the node with the given ID.
func (d *Document) Node(id string) (*Node, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// Process returns the process with the given ID.
func (d *Document) Process(id string) (*Process, bool) {
	for i := range d.Processes {
		if d.Processes[i].ID == id {
			return &d.Processes[i], true
		}
	}
	return nil, false
}

// Anchor locates an anchor by ID across all nodes, returning the anchor and
// its owning node.
func (d *Document) Anchor(id string) (*Anchor, *Node, bool) {
	for i := range d.Nodes {
		if a, ok := d.Nodes[i].AnchorByID(id); ok {
			return a, &d.Nodes[i], true
		}
	}
	return nil, nil, false
}

// ProcessOf returns the process containing the given anchor, if any.
func (d *Document) ProcessOf(anchorID string) (*Process, bool) {
	for i := range d.Processes {
		if slices.Contains(d.Processes[i].AnchorIDs, anchorID) {
			return &d.Processes[i], true
		}
	}
	return nil, false
}

// OrderMap returns lifelineID → order for the current document. Layout
// passes consume this map rather than scanning lifelines repeatedly.
func (d *Document) OrderMap() map[string]int {
	m := make(map[string]int, len(d.Lifelines))
	for _, l := range d.Lifelines {
		m[l.ID] = l.Order
	}
	return m
}

// OrderedLifelines returns the lifelines sorted by Order, left to right.
func (d *Document) OrderedLifelines() []Lifeline {
	out := slices.Clone(d.Lifelines)
	slices.SortStableFunc(out, func(a, b Lifeline) int { return a.Order - b.Order })
	return out
}

// =============================================================================
// Snapshot
// =============================================================================

// Clone returns a deep copy of the document. Drag interactions snapshot the
// document before speculative work so an invalid drag can restore it
// atomically.
func (d *Document) Clone() *Document {
	out := &Document{
		ID:        d.ID,
		Title:     d.Title,
		Lifelines: slices.Clone(d.Lifelines),
		Nodes:     make([]Node, len(d.Nodes)),
		Processes: make([]Process, len(d.Processes)),
	}
	for i, n := range d.Nodes {
		cp := n
		if n.Data != nil {
			cp.Data = make(map[string]any, len(n.Data))
			for k, v := range n.Data {
				cp.Data[k] = v
			}
		}
		out.Nodes[i] = cp
	}
	for i, p := range d.Processes {
		cp := p
		cp.AnchorIDs = slices.Clone(p.AnchorIDs)
		out.Processes[i] = cp
	}
	return out
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the document against the model invariants. It returns the
// first violation found, or nil. Validate never mutates the document; use
// [Document.Repair] to restore a violated invariant.
func (d *Document) Validate() error {
	seen := make(map[string]struct{})
	orders := make(map[int]struct{}, len(d.Lifelines))
	for _, l := range d.Lifelines {
		if _, dup := seen[l.ID]; dup {
			return ErrDuplicateID
		}
		seen[l.ID] = struct{}{}
		if l.Order < 0 || l.Order >= len(d.Lifelines) {
			return ErrOrderNotDense
		}
		if _, dup := orders[l.Order]; dup {
			return ErrOrderNotDense
		}
		orders[l.Order] = struct{}{}
	}

	anchorLifeline := make(map[string]string)
	for _, n := range d.Nodes {
		if _, dup := seen[n.ID]; dup {
			return ErrDuplicateID
		}
		seen[n.ID] = struct{}{}
		for _, a := range n.Anchors {
			if _, ok := d.Lifeline(a.LifelineID); !ok {
				return ErrUnknownLifeline
			}
			anchorLifeline[a.ID] = a.LifelineID
		}
		if n.Anchors[0].LifelineID == n.Anchors[1].LifelineID {
			return ErrSameLifeline
		}
	}

	for _, p := range d.Processes {
		if _, dup := seen[p.ID]; dup {
			return ErrDuplicateID
		}
		seen[p.ID] = struct{}{}
		if len(p.AnchorIDs) == 0 {
			return ErrProcessEmpty
		}
		lifeline := ""
		for _, aid := range p.AnchorIDs {
			lid, ok := anchorLifeline[aid]
			if !ok {
				return ErrUnknownAnchor
			}
			if lifeline == "" {
				lifeline = lid
			} else if lid != lifeline {
				return ErrProcessSplit
			}
		}
	}

	return nil
}

// NormalizeOrders rewrites lifeline orders to be dense 0..N-1, preserving the
// current relative ordering. Called after any lifeline insert, removal, or
// reorder.
func (d *Document) NormalizeOrders() {
	idx := make([]int, len(d.Lifelines))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return d.Lifelines[a].Order - d.Lifelines[b].Order
	})
	for rank, i := range idx {
		d.Lifelines[i].Order = rank
	}
}
