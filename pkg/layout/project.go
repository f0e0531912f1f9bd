package layout

import (
	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/theme"
)

// Project converts a slot assignment into absolute pixel coordinates for
// every visual element.
//
// Horizontal layout runs left to right: each lifeline column is laneWidth
// plus the extra width its parallel process bars need, so process counts are
// an input to X layout, not a downstream effect. Vertical layout accumulates
// slot heights (the tallest occupant of each row) below a fixed header band.
//
// Project is pure: same document, assignment, and heights produce an
// identical scene.
func Project(d *diagram.Document, th *theme.Theme, heights *HeightTracker, asg Assignment) *Scene {
	scene := &Scene{
		SlotCount:  asg.SlotCount,
		Overflow:   asg.Overflow,
		Skipped:    asg.Skipped,
		YPositions: make(map[string]float64, len(d.Nodes)),
	}

	placements := placeProcesses(d)
	counts := processCounts(placements)

	// Lifeline X: cumulative walk over ordered columns.
	ordered := d.OrderedLifelines()
	railX := make(map[string]float64, len(ordered))   // rail center per lifeline
	extraOf := make(map[string]float64, len(ordered)) // process widening per lifeline
	railByOrder := make([]float64, len(ordered))
	cursor := th.MarginX
	for i, l := range ordered {
		extra := 0.0
		if c := counts[l.ID]; c > 1 {
			extra = float64(c-1) * (th.ProcessBoxWidth + th.ProcessBoxGap)
		}
		rail := cursor + th.LaneWidth/2
		railX[l.ID] = rail
		extraOf[l.ID] = extra
		railByOrder[i] = rail
		scene.Lifelines = append(scene.Lifelines, LifelineHeader{
			ID:    l.ID,
			Name:  l.Name,
			Order: l.Order,
			X:     rail,
			Width: th.LaneWidth + extra,
			Color: l.Color,
		})
		cursor += th.LaneWidth + extra + th.LaneGap
	}
	scene.Width = cursor - th.LaneGap + th.MarginX
	if len(ordered) == 0 {
		scene.Width = 2 * th.MarginX
	}

	// Slot Y: each row is as tall as its tallest occupant.
	slotHeights := make([]float64, asg.SlotCount)
	for i := range d.Nodes {
		n := &d.Nodes[i]
		slot, ok := asg.Slots[n.ID]
		if !ok {
			continue
		}
		if h := heights.HeightOf(n); h > slotHeights[slot] {
			slotHeights[slot] = h
		}
	}
	slotY := make([]float64, asg.SlotCount)
	y := th.HeaderHeight
	for s, h := range slotHeights {
		slotY[s] = y + h/2
		y += h + th.SlotGap
	}
	scene.Height = y + th.HeaderHeight/2

	// Node boxes, anchors, edges.
	anchorAt := make(map[string][2]float64, 2*len(d.Nodes))
	for i := range d.Nodes {
		n := &d.Nodes[i]
		slot, ok := asg.Slots[n.ID]
		if !ok {
			continue
		}
		span := asg.Spans[n.ID]
		yCenter := slotY[slot]
		scene.YPositions[n.ID] = yCenter

		left := railByOrder[span.Left]
		right := railByOrder[span.Right+1]
		width := right - left
		if width < th.NodeMinWidth {
			// Centered on the midpoint and allowed to overflow rather than
			// shrink unreadably.
			width = th.NodeMinWidth
		}
		scene.Nodes = append(scene.Nodes, NodeBox{
			ID:     n.ID,
			Type:   n.Type,
			Label:  n.Label,
			X:      (left + right) / 2,
			Y:      yCenter,
			Width:  width,
			Height: heights.HeightOf(n),
			Slot:   slot,
			Span:   span,
		})

		for j := range n.Anchors {
			a := &n.Anchors[j]
			x := railX[a.LifelineID]
			// The rail's process bars extend rightward; an anchor facing a
			// partner on the right sits past them, at the visual edge.
			if partner := railX[n.Other(a.ID).LifelineID]; partner > x {
				x += extraOf[a.LifelineID]
			}
			anchorAt[a.ID] = [2]float64{x, yCenter}
			scene.Anchors = append(scene.Anchors, AnchorMark{
				ID:         a.ID,
				NodeID:     n.ID,
				LifelineID: a.LifelineID,
				Type:       a.Type,
				ProcessID:  a.ProcessID,
				X:          x,
				Y:          yCenter,
			})
		}

		src, tgt := anchorAt[n.Source().ID], anchorAt[n.Target().ID]
		scene.Edges = append(scene.Edges, EdgeLine{
			NodeID: n.ID,
			X1:     src[0], Y1: src[1],
			X2: tgt[0], Y2: tgt[1],
		})
	}

	// Process bars span from topmost to bottommost member anchor.
	for _, pl := range placements {
		top, bottom, any := 0.0, 0.0, false
		for _, aid := range pl.anchorIDs {
			pos, ok := anchorAt[aid]
			if !ok {
				continue
			}
			if !any || pos[1] < top {
				top = pos[1]
			}
			if !any || pos[1] > bottom {
				bottom = pos[1]
			}
			any = true
		}
		if !any {
			continue
		}
		height := bottom - top
		if minH := th.DefaultNodeHeight / 2; height < minH {
			top -= (minH - height) / 2
			height = minH
		}
		scene.Processes = append(scene.Processes, ProcessBox{
			ID:          pl.process.ID,
			LifelineID:  pl.lifelineID,
			Description: pl.process.Description,
			Color:       pl.process.Color,
			SubLane:     pl.subLane,
			X:           railX[pl.lifelineID] + th.ProcessBoxGap + float64(pl.subLane)*(th.ProcessBoxWidth+th.ProcessBoxGap),
			Y:           top,
			Width:       th.ProcessBoxWidth,
			Height:      height,
		})
	}

	return scene
}

// SlotAt converts a pointer Y coordinate into the slot whose [start, end)
// band contains it, using the same height accumulation as Project. Pointers
// above the first band map to slot 0; pointers below the last map to the
// last slot (or one past it, letting a drag open a new bottom row).
func SlotAt(pointerY float64, d *diagram.Document, th *theme.Theme, heights *HeightTracker, asg Assignment) int {
	if asg.SlotCount == 0 {
		return 0
	}
	slotHeights := make([]float64, asg.SlotCount)
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if slot, ok := asg.Slots[n.ID]; ok {
			if h := heights.HeightOf(n); h > slotHeights[slot] {
				slotHeights[slot] = h
			}
		}
	}
	y := th.HeaderHeight
	for s, h := range slotHeights {
		if pointerY < y+h+th.SlotGap/2 {
			return s
		}
		y += h + th.SlotGap
	}
	return asg.SlotCount
}
