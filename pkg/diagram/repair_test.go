package diagram

import "testing"

func TestRepairReanchorsOrphanedNode(t *testing.T) {
	d := testDoc()
	// Simulate a deleted lifeline leaving n1's target dangling.
	d.Nodes[0].Anchors[1].LifelineID = "ghost"

	report := d.Repair()

	if !report.Dirty() {
		t.Fatal("Repair should report changes")
	}
	if len(report.ReanchoredNodes) != 1 || report.ReanchoredNodes[0] != "n1" {
		t.Errorf("ReanchoredNodes = %v, want [n1]", report.ReanchoredNodes)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate after repair: %v", err)
	}
	n, _ := d.Node("n1")
	if n.Anchors[0].LifelineID != "A" || n.Anchors[1].LifelineID != "B" {
		t.Errorf("fallback pair = %s/%s, want A/B", n.Anchors[0].LifelineID, n.Anchors[1].LifelineID)
	}
}

func TestRepairCollapsedSpan(t *testing.T) {
	d := testDoc()
	d.Nodes[1].Anchors[1].LifelineID = "A" // both anchors on A

	report := d.Repair()

	if len(report.ReanchoredNodes) != 1 || report.ReanchoredNodes[0] != "n2" {
		t.Errorf("ReanchoredNodes = %v, want [n2]", report.ReanchoredNodes)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate after repair: %v", err)
	}
}

func TestRepairRemovesNodeWithoutLifelines(t *testing.T) {
	d := &Document{
		Lifelines: []Lifeline{{ID: "A", Order: 0}},
		Nodes: []Node{{
			ID: "n1",
			Anchors: [2]Anchor{
				{ID: "a1", LifelineID: "A", Type: AnchorSource},
				{ID: "a2", LifelineID: "gone", Type: AnchorTarget},
			},
		}},
		Processes: []Process{{ID: "p1", AnchorIDs: []string{"a1"}}},
	}

	report := d.Repair()

	if len(report.RemovedNodes) != 1 || report.RemovedNodes[0] != "n1" {
		t.Errorf("RemovedNodes = %v, want [n1]", report.RemovedNodes)
	}
	if len(report.PrunedProcesses) != 1 || report.PrunedProcesses[0] != "p1" {
		t.Errorf("PrunedProcesses = %v, want [p1]", report.PrunedProcesses)
	}
	if len(d.Nodes) != 0 || len(d.Processes) != 0 {
		t.Errorf("document not emptied: %d nodes, %d processes", len(d.Nodes), len(d.Processes))
	}
}

func TestRepairIsNoOpOnValidDocument(t *testing.T) {
	d := testDoc()
	report := d.Repair()
	if report.Dirty() {
		t.Errorf("Repair on valid document reported %+v", report)
	}
}

func TestPruneEvictsCrossLifelineAnchor(t *testing.T) {
	d := testDoc()
	// Hand-build an invalid process spanning two lifelines (n1s on A, n2t on B).
	d.Processes = []Process{{ID: "p1", AnchorIDs: []string{"n1s", "n2t"}}}

	deleted := d.PruneProcesses()

	if len(deleted) != 0 {
		t.Errorf("deleted = %v, want none", deleted)
	}
	p, _ := d.Process("p1")
	if len(p.AnchorIDs) != 1 || p.AnchorIDs[0] != "n1s" {
		t.Errorf("anchors = %v, want [n1s]", p.AnchorIDs)
	}
	evicted, _, _ := d.Anchor("n2t")
	if evicted.ProcessID != "" {
		t.Errorf("evicted anchor still references %q", evicted.ProcessID)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate after prune: %v", err)
	}
}
