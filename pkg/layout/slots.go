package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/seqline/pkg/diagram"
)

// Pin fixes one node to an explicit slot during a drag. The pinned node is
// placed before all others so the rest of the layout flows around it.
type Pin struct {
	NodeID string
	Slot   int
}

// Assignment is the result of a slot pass: every placeable node mapped to a
// non-negative slot row.
type Assignment struct {
	// Slots maps nodeID → slot index.
	Slots map[string]int

	// SlotCount is one past the highest assigned slot.
	SlotCount int

	// Spans caches each node's computed span for downstream stages.
	Spans map[string]Span

	// Overflow lists nodes that exhausted the slot cap and were parked on
	// the last slot. A non-empty overflow means the layout is degraded but
	// still rendered.
	Overflow []string

	// Skipped lists nodes with no computable span (orphaned anchors). These
	// are excluded from the scene; [diagram.Document.Repair] prevents this
	// in the normal pipeline.
	Skipped []string
}

// AssignSlots places every node into the lowest slot where no occupant's
// span shares a lane with the node's span.
//
// Ordering is deterministic and stable: a pinned node goes first, the rest
// follow by last committed yPosition with array order as the tie-break, so
// unrelated nodes keep their rows across recomputes.
//
// slotCap bounds the scan; a node that fits nowhere below the cap is parked
// on slot slotCap-1 and reported in Overflow.
func AssignSlots(d *diagram.Document, slotCap int, pin *Pin) Assignment {
	orders := d.OrderMap()
	out := Assignment{
		Slots: make(map[string]int, len(d.Nodes)),
		Spans: make(map[string]Span, len(d.Nodes)),
	}

	type entry struct {
		node *diagram.Node
		span Span
		idx  int
	}
	var entries []entry
	var pinned *entry
	for i := range d.Nodes {
		n := &d.Nodes[i]
		span, ok := SpanOf(n, orders)
		if !ok {
			out.Skipped = append(out.Skipped, n.ID)
			continue
		}
		out.Spans[n.ID] = span
		e := entry{node: n, span: span, idx: i}
		if pin != nil && n.ID == pin.NodeID {
			pinned = &e
			continue
		}
		entries = append(entries, e)
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(a.node.YPosition, b.node.YPosition); c != 0 {
			return c
		}
		return a.idx - b.idx
	})

	// occupants[slot] holds the spans already placed in that row.
	occupants := make([][]Span, 0, 8)
	place := func(span Span, slot int) {
		for len(occupants) <= slot {
			occupants = append(occupants, nil)
		}
		occupants[slot] = append(occupants[slot], span)
	}

	if pinned != nil {
		slot := clampSlot(pin.Slot, slotCap)
		place(pinned.span, slot)
		out.Slots[pinned.node.ID] = slot
	}

	for _, e := range entries {
		slot := -1
		for s := 0; s < slotCap; s++ {
			if s < len(occupants) && conflicts(e.span, occupants[s]) {
				continue
			}
			slot = s
			break
		}
		if slot < 0 {
			slot = slotCap - 1
			out.Overflow = append(out.Overflow, e.node.ID)
		}
		place(e.span, slot)
		out.Slots[e.node.ID] = slot
	}

	out.SlotCount = len(occupants)
	return out
}

// clampSlot forces a requested slot into the cap range.
func clampSlot(want, slotCap int) int {
	if want < 0 {
		return 0
	}
	if want >= slotCap {
		return slotCap - 1
	}
	return want
}

func conflicts(span Span, occupants []Span) bool {
	for _, o := range occupants {
		if span.Overlaps(o) {
			return true
		}
	}
	return false
}
