package diagram

import "slices"

// RepairReport describes what [Document.Repair] changed. Empty slices mean
// the document was already structurally sound.
type RepairReport struct {
	// ReanchoredNodes lists nodes whose anchor pair was synthesized onto the
	// first two lifelines because an anchor referenced a missing lifeline or
	// both anchors collapsed onto one lifeline.
	ReanchoredNodes []string

	// RemovedNodes lists nodes dropped because fewer than two lifelines
	// exist, leaving nowhere to re-anchor them.
	RemovedNodes []string

	// PrunedProcesses lists processes deleted because repair left them with
	// no anchors.
	PrunedProcesses []string
}

// Dirty reports whether the repair changed anything.
func (r RepairReport) Dirty() bool {
	return len(r.ReanchoredNodes) > 0 || len(r.RemovedNodes) > 0 || len(r.PrunedProcesses) > 0
}

// Repair restores the model invariants in place, preferring recovery over
// failure: a render must always be possible from a structurally valid model.
//
// Repair performs, in order:
//  1. Lifeline order renormalization (dense 0..N-1).
//  2. Node re-anchoring: a node whose anchor references a deleted lifeline,
//     or whose anchors share one lifeline, gets a fallback anchor pair on
//     the two leftmost lifelines. With fewer than two lifelines the node is
//     removed instead.
//  3. Process pruning: anchor references to removed nodes are dropped,
//     anchors that no longer share the process's lifeline are evicted, and
//     processes left empty are deleted.
//
// The returned report lists every change so callers can log or persist it.
func (d *Document) Repair() RepairReport {
	var report RepairReport

	d.NormalizeOrders()

	ordered := d.OrderedLifelines()
	kept := d.Nodes[:0]
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if d.nodeAnchorsValid(n) {
			kept = append(kept, *n)
			continue
		}
		if len(ordered) < 2 {
			report.RemovedNodes = append(report.RemovedNodes, n.ID)
			continue
		}
		// Synthesize a fallback pair on the two leftmost lifelines, keeping
		// the original anchor IDs so process membership survives when it can.
		n.Anchors[0].LifelineID = ordered[0].ID
		n.Anchors[0].Type = AnchorSource
		n.Anchors[1].LifelineID = ordered[1].ID
		n.Anchors[1].Type = AnchorTarget
		report.ReanchoredNodes = append(report.ReanchoredNodes, n.ID)
		kept = append(kept, *n)
	}
	d.Nodes = kept

	report.PrunedProcesses = d.PruneProcesses()
	return report
}

// nodeAnchorsValid reports whether both anchors reference existing, distinct
// lifelines.
func (d *Document) nodeAnchorsValid(n *Node) bool {
	for _, a := range n.Anchors {
		if _, ok := d.Lifeline(a.LifelineID); !ok {
			return false
		}
	}
	return n.Anchors[0].LifelineID != n.Anchors[1].LifelineID
}

// PruneProcesses drops dangling anchor references from every process,
// evicts anchors that no longer share the process's lifeline, and deletes
// processes left with zero anchors. It returns the IDs of deleted processes.
//
// Anchor.ProcessID back-references are kept in sync: evicted anchors have
// theirs cleared.
func (d *Document) PruneProcesses() []string {
	var deleted []string

	kept := d.Processes[:0]
	for i := range d.Processes {
		p := &d.Processes[i]

		lifeline := ""
		anchors := p.AnchorIDs[:0]
		for _, aid := range p.AnchorIDs {
			a, _, ok := d.Anchor(aid)
			if !ok {
				continue
			}
			if lifeline == "" {
				lifeline = a.LifelineID
			}
			if a.LifelineID != lifeline {
				a.ProcessID = ""
				continue
			}
			a.ProcessID = p.ID
			anchors = append(anchors, aid)
		}
		p.AnchorIDs = anchors

		if len(p.AnchorIDs) == 0 {
			deleted = append(deleted, p.ID)
			continue
		}
		kept = append(kept, *p)
	}
	d.Processes = kept

	// Clear back-references to processes that no longer exist.
	for i := range d.Nodes {
		for j := range d.Nodes[i].Anchors {
			a := &d.Nodes[i].Anchors[j]
			if a.ProcessID == "" {
				continue
			}
			if _, ok := d.Process(a.ProcessID); !ok {
				a.ProcessID = ""
			}
		}
	}

	return deleted
}

// removeAnchorFromProcesses detaches the given anchors from any process and
// deletes processes left empty. Used by node removal.
func (d *Document) removeAnchorFromProcesses(anchorIDs ...string) []string {
	for i := range d.Processes {
		p := &d.Processes[i]
		p.AnchorIDs = slices.DeleteFunc(p.AnchorIDs, func(aid string) bool {
			return slices.Contains(anchorIDs, aid)
		})
	}
	return d.PruneProcesses()
}
