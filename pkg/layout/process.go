package layout

import "github.com/matzehuels/seqline/pkg/diagram"

// processPlacement describes where a process bar sits relative to its
// lifeline: which lifeline, which horizontal sub-lane, and which anchors it
// stretches across.
type processPlacement struct {
	process    *diagram.Process
	lifelineID string
	subLane    int
	anchorIDs  []string
}

// placeProcesses assigns every process a sub-lane on its lifeline.
//
// Processes sharing a lifeline get sub-lanes 0..2 in anchor-creation order,
// which the document preserves as process insertion order. Beyond
// [diagram.MaxProcessesPerLifeline] concurrent processes the extras share
// the last sub-lane; the X layout only widens a lifeline for the capped
// count.
//
// Processes whose anchors cannot be resolved are skipped; pruning those is
// the document's job ([diagram.Document.PruneProcesses]), not a rendering
// concern.
func placeProcesses(d *diagram.Document) []processPlacement {
	var placements []processPlacement
	perLifeline := make(map[string]int)

	for i := range d.Processes {
		p := &d.Processes[i]
		lifelineID := ""
		var anchors []string
		for _, aid := range p.AnchorIDs {
			a, _, ok := d.Anchor(aid)
			if !ok {
				continue
			}
			if lifelineID == "" {
				lifelineID = a.LifelineID
			}
			if a.LifelineID != lifelineID {
				continue
			}
			anchors = append(anchors, aid)
		}
		if lifelineID == "" {
			continue
		}

		lane := perLifeline[lifelineID]
		perLifeline[lifelineID]++
		if lane >= diagram.MaxProcessesPerLifeline {
			lane = diagram.MaxProcessesPerLifeline - 1
		}
		placements = append(placements, processPlacement{
			process:    p,
			lifelineID: lifelineID,
			subLane:    lane,
			anchorIDs:  anchors,
		})
	}
	return placements
}

// processCounts returns lifelineID → number of processes on it, capped at
// [diagram.MaxProcessesPerLifeline]. The X layout widens each lifeline by
// max(0, count-1) process box widths, so the cap bounds lane growth.
func processCounts(placements []processPlacement) map[string]int {
	counts := make(map[string]int)
	for _, pl := range placements {
		if counts[pl.lifelineID] < diagram.MaxProcessesPerLifeline {
			counts[pl.lifelineID]++
		}
	}
	return counts
}
