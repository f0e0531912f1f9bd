package diagram

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Sentinel errors for edit operations.
var (
	// ErrNotFound is returned when an operation targets an element that does
	// not exist in the document.
	ErrNotFound = errors.New("element not found")

	// ErrAnchorInProcess is returned by [Document.ReassignAnchor] when the
	// anchor belongs to a process. Process anchors are pinned to their
	// lifeline; reassigning one would split the process.
	ErrAnchorInProcess = errors.New("anchor belongs to a process and cannot change lifeline")

	// ErrTooManyAnchors is returned by [Document.AddProcess] when more than
	// three anchors are grouped.
	ErrTooManyAnchors = errors.New("a process groups at most three anchors")
)

// AddLifeline appends a new lifeline at the rightmost position and returns
// it. The ID is a fresh UUID.
func (d *Document) AddLifeline(name string) *Lifeline {
	d.Lifelines = append(d.Lifelines, Lifeline{
		ID:    uuid.NewString(),
		Name:  name,
		Order: len(d.Lifelines),
	})
	return &d.Lifelines[len(d.Lifelines)-1]
}

// RemoveLifeline deletes a lifeline. Orders are renormalized and nodes that
// referenced the lifeline are re-anchored (or removed) via [Document.Repair];
// the repair report is returned so callers can surface what moved.
func (d *Document) RemoveLifeline(id string) (RepairReport, error) {
	n := len(d.Lifelines)
	d.Lifelines = slices.DeleteFunc(d.Lifelines, func(l Lifeline) bool { return l.ID == id })
	if len(d.Lifelines) == n {
		return RepairReport{}, fmt.Errorf("lifeline %s: %w", id, ErrNotFound)
	}
	return d.Repair(), nil
}

// MoveLifeline places the lifeline at the given target order, shifting the
// others. Target is clamped to the valid range.
func (d *Document) MoveLifeline(id string, target int) error {
	l, ok := d.Lifeline(id)
	if !ok {
		return fmt.Errorf("lifeline %s: %w", id, ErrNotFound)
	}
	if target < 0 {
		target = 0
	}
	if target >= len(d.Lifelines) {
		target = len(d.Lifelines) - 1
	}
	from := l.Order
	for i := range d.Lifelines {
		o := &d.Lifelines[i].Order
		switch {
		case *o == from:
			*o = target
		case from < target && *o > from && *o <= target:
			*o--
		case from > target && *o >= target && *o < from:
			*o++
		}
	}
	return nil
}

// AddNode creates a node of the given type connecting two distinct
// lifelines. Anchor and node IDs are fresh UUIDs. The node's YPosition
// starts at zero; the next layout pass assigns it a slot below existing
// nodes' committed positions only insofar as the stable sort dictates.
func (d *Document) AddNode(typ NodeType, label, sourceLifelineID, targetLifelineID string) (*Node, error) {
	if _, ok := d.Lifeline(sourceLifelineID); !ok {
		return nil, fmt.Errorf("lifeline %s: %w", sourceLifelineID, ErrNotFound)
	}
	if _, ok := d.Lifeline(targetLifelineID); !ok {
		return nil, fmt.Errorf("lifeline %s: %w", targetLifelineID, ErrNotFound)
	}
	if sourceLifelineID == targetLifelineID {
		return nil, ErrSameLifeline
	}
	d.Nodes = append(d.Nodes, Node{
		ID:    uuid.NewString(),
		Type:  typ,
		Label: label,
		Anchors: [2]Anchor{
			{ID: uuid.NewString(), LifelineID: sourceLifelineID, Type: AnchorSource},
			{ID: uuid.NewString(), LifelineID: targetLifelineID, Type: AnchorTarget},
		},
	})
	return &d.Nodes[len(d.Nodes)-1], nil
}

// RemoveNode deletes a node, detaches its anchors from any process, and
// prunes processes left empty. The IDs of pruned processes are returned.
func (d *Document) RemoveNode(id string) ([]string, error) {
	node, ok := d.Node(id)
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	anchorIDs := []string{node.Anchors[0].ID, node.Anchors[1].ID}
	d.Nodes = slices.DeleteFunc(d.Nodes, func(n Node) bool { return n.ID == id })
	return d.removeAnchorFromProcesses(anchorIDs...), nil
}

// AddProcess groups 1..3 anchors on a single lifeline into a new process.
// All anchors must exist, share one lifeline, and not already belong to
// another process.
func (d *Document) AddProcess(description string, anchorIDs ...string) (*Process, error) {
	if len(anchorIDs) == 0 {
		return nil, ErrProcessEmpty
	}
	if len(anchorIDs) > MaxProcessesPerLifeline {
		return nil, ErrTooManyAnchors
	}
	lifeline := ""
	for _, aid := range anchorIDs {
		a, _, ok := d.Anchor(aid)
		if !ok {
			return nil, fmt.Errorf("anchor %s: %w", aid, ErrNotFound)
		}
		if a.ProcessID != "" {
			return nil, fmt.Errorf("anchor %s: %w", aid, ErrAnchorInProcess)
		}
		if lifeline == "" {
			lifeline = a.LifelineID
		} else if a.LifelineID != lifeline {
			return nil, ErrProcessSplit
		}
	}

	p := Process{
		ID:          uuid.NewString(),
		Description: description,
		AnchorIDs:   slices.Clone(anchorIDs),
	}
	for _, aid := range anchorIDs {
		a, _, _ := d.Anchor(aid)
		a.ProcessID = p.ID
	}
	d.Processes = append(d.Processes, p)
	return &d.Processes[len(d.Processes)-1], nil
}

// RemoveProcess deletes a process and clears the back-references of its
// anchors. The anchors and their nodes are untouched.
func (d *Document) RemoveProcess(id string) error {
	p, ok := d.Process(id)
	if !ok {
		return fmt.Errorf("process %s: %w", id, ErrNotFound)
	}
	for _, aid := range p.AnchorIDs {
		if a, _, ok := d.Anchor(aid); ok {
			a.ProcessID = ""
		}
	}
	d.Processes = slices.DeleteFunc(d.Processes, func(q Process) bool { return q.ID == id })
	return nil
}

// ReassignAnchor moves an anchor to another lifeline. This is the committed
// form of an anchor drag.
//
// The swap rule applies: when the target lifeline is the one the node's
// other anchor sits on, the two anchors swap lifelines instead of collapsing
// the node to a zero-width span. Anchors that belong to a process cannot
// change lifeline and return [ErrAnchorInProcess].
func (d *Document) ReassignAnchor(anchorID, lifelineID string) error {
	a, node, ok := d.Anchor(anchorID)
	if !ok {
		return fmt.Errorf("anchor %s: %w", anchorID, ErrNotFound)
	}
	if _, ok := d.Lifeline(lifelineID); !ok {
		return fmt.Errorf("lifeline %s: %w", lifelineID, ErrNotFound)
	}
	if a.ProcessID != "" {
		return fmt.Errorf("anchor %s: %w", anchorID, ErrAnchorInProcess)
	}
	if a.LifelineID == lifelineID {
		return nil
	}

	other := node.Other(anchorID)
	if other.LifelineID == lifelineID {
		// Swap: the span reverses rather than collapsing to zero width. The
		// other anchor may itself be process-bound, in which case the swap
		// would move it off its process's lifeline.
		if other.ProcessID != "" {
			return fmt.Errorf("anchor %s: %w", other.ID, ErrAnchorInProcess)
		}
		other.LifelineID = a.LifelineID
	}
	a.LifelineID = lifelineID
	return nil
}

// ApplyYPositions writes a recomputed yPosition map back into the document.
// Only known node IDs are touched. Callers use this after a layout pass to
// persist the committed slot results.
func (d *Document) ApplyYPositions(y map[string]float64) {
	for i := range d.Nodes {
		if v, ok := y[d.Nodes[i].ID]; ok {
			d.Nodes[i].YPosition = v
		}
	}
}
