package diagram

import (
	"errors"
	"testing"
)

func TestAddRemoveLifeline(t *testing.T) {
	d := testDoc()

	l := d.AddLifeline("cache")
	if l.Order != 3 {
		t.Errorf("new lifeline order = %d, want 3", l.Order)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate after add: %v", err)
	}

	// Removing B re-anchors n2 (A-B) onto the two leftmost lifelines.
	report, err := d.RemoveLifeline("B")
	if err != nil {
		t.Fatalf("RemoveLifeline: %v", err)
	}
	if len(report.ReanchoredNodes) != 1 || report.ReanchoredNodes[0] != "n2" {
		t.Errorf("ReanchoredNodes = %v, want [n2]", report.ReanchoredNodes)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate after remove: %v", err)
	}

	if _, err := d.RemoveLifeline("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveLifeline(ghost) = %v, want ErrNotFound", err)
	}
}

func TestMoveLifeline(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		target int
		want   map[string]int
	}{
		{"right shift", "A", 2, map[string]int{"B": 0, "C": 1, "A": 2}},
		{"left shift", "C", 0, map[string]int{"C": 0, "A": 1, "B": 2}},
		{"clamped high", "A", 99, map[string]int{"B": 0, "C": 1, "A": 2}},
		{"no-op", "B", 1, map[string]int{"A": 0, "B": 1, "C": 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDoc()
			if err := d.MoveLifeline(tt.id, tt.target); err != nil {
				t.Fatalf("MoveLifeline: %v", err)
			}
			if err := d.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			m := d.OrderMap()
			for id, order := range tt.want {
				if m[id] != order {
					t.Errorf("order[%s] = %d, want %d", id, m[id], order)
				}
			}
		})
	}
}

func TestAddNode(t *testing.T) {
	d := testDoc()

	n, err := d.AddNode(NodeDecision, "retry?", "B", "C")
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if n.Anchors[0].Type != AnchorSource || n.Anchors[1].Type != AnchorTarget {
		t.Error("anchor pair must be typed source/target")
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if _, err := d.AddNode(NodeCustom, "x", "A", "A"); !errors.Is(err, ErrSameLifeline) {
		t.Errorf("same-lifeline AddNode = %v, want ErrSameLifeline", err)
	}
	if _, err := d.AddNode(NodeCustom, "x", "ghost", "A"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown-lifeline AddNode = %v, want ErrNotFound", err)
	}
}

func TestRemoveNodePrunesProcesses(t *testing.T) {
	d := testDoc()
	if _, err := d.AddProcess("handling", "n1s", "n2s"); err != nil {
		t.Fatalf("AddProcess: %v", err)
	}

	// n1's removal leaves the process holding only n2s.
	pruned, err := d.RemoveNode("n1")
	if err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if len(pruned) != 0 {
		t.Errorf("pruned = %v, want none", pruned)
	}
	if len(d.Processes[0].AnchorIDs) != 1 || d.Processes[0].AnchorIDs[0] != "n2s" {
		t.Errorf("process anchors = %v, want [n2s]", d.Processes[0].AnchorIDs)
	}

	// Removing the last member deletes the process; empty processes never survive.
	pruned, err = d.RemoveNode("n2")
	if err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if len(pruned) != 1 {
		t.Errorf("pruned = %v, want one process", pruned)
	}
	if len(d.Processes) != 0 {
		t.Errorf("processes = %v, want empty", d.Processes)
	}
}

func TestAddProcessRules(t *testing.T) {
	d := testDoc()

	p, err := d.AddProcess("handling", "n1s", "n2s")
	if err != nil {
		t.Fatalf("AddProcess: %v", err)
	}
	a, _, _ := d.Anchor("n1s")
	if a.ProcessID != p.ID {
		t.Errorf("anchor back-reference = %q, want %q", a.ProcessID, p.ID)
	}

	if _, err := d.AddProcess("bad", "n1t", "n2t"); !errors.Is(err, ErrProcessSplit) {
		t.Errorf("cross-lifeline process = %v, want ErrProcessSplit", err)
	}
	if _, err := d.AddProcess("bad", "n1s"); !errors.Is(err, ErrAnchorInProcess) {
		t.Errorf("double membership = %v, want ErrAnchorInProcess", err)
	}
	if _, err := d.AddProcess("bad"); !errors.Is(err, ErrProcessEmpty) {
		t.Errorf("empty process = %v, want ErrProcessEmpty", err)
	}
	if _, err := d.AddProcess("bad", "a", "b", "c", "d"); !errors.Is(err, ErrTooManyAnchors) {
		t.Errorf("oversized process = %v, want ErrTooManyAnchors", err)
	}
}

func TestRemoveProcess(t *testing.T) {
	d := testDoc()
	p, err := d.AddProcess("handling", "n1s")
	if err != nil {
		t.Fatalf("AddProcess: %v", err)
	}
	if err := d.RemoveProcess(p.ID); err != nil {
		t.Fatalf("RemoveProcess: %v", err)
	}
	a, _, _ := d.Anchor("n1s")
	if a.ProcessID != "" {
		t.Errorf("anchor back-reference = %q, want cleared", a.ProcessID)
	}
	if err := d.RemoveProcess("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveProcess(ghost) = %v, want ErrNotFound", err)
	}
}

func TestReassignAnchor(t *testing.T) {
	d := testDoc()

	// Plain reassignment: n2's target moves from B to C.
	if err := d.ReassignAnchor("n2t", "C"); err != nil {
		t.Fatalf("ReassignAnchor: %v", err)
	}
	a, _, _ := d.Anchor("n2t")
	if a.LifelineID != "C" {
		t.Errorf("lifeline = %s, want C", a.LifelineID)
	}

	// Swap rule: moving n1's source (A) onto C, where its target sits,
	// swaps the pair instead of collapsing the span.
	if err := d.ReassignAnchor("n1s", "C"); err != nil {
		t.Fatalf("ReassignAnchor swap: %v", err)
	}
	src, _, _ := d.Anchor("n1s")
	tgt, _, _ := d.Anchor("n1t")
	if src.LifelineID != "C" || tgt.LifelineID != "A" {
		t.Errorf("after swap: source=%s target=%s, want C/A", src.LifelineID, tgt.LifelineID)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate after swap: %v", err)
	}
}

func TestReassignAnchorProcessLock(t *testing.T) {
	d := testDoc()
	if _, err := d.AddProcess("handling", "n1s"); err != nil {
		t.Fatalf("AddProcess: %v", err)
	}

	if err := d.ReassignAnchor("n1s", "B"); !errors.Is(err, ErrAnchorInProcess) {
		t.Errorf("process anchor reassignment = %v, want ErrAnchorInProcess", err)
	}

	// The swap rule must also respect the other anchor's process membership.
	d2 := testDoc()
	if _, err := d2.AddProcess("handling", "n1t"); err != nil {
		t.Fatalf("AddProcess: %v", err)
	}
	if err := d2.ReassignAnchor("n1s", "C"); !errors.Is(err, ErrAnchorInProcess) {
		t.Errorf("swap with process-bound partner = %v, want ErrAnchorInProcess", err)
	}
}

func TestApplyYPositions(t *testing.T) {
	d := testDoc()
	d.ApplyYPositions(map[string]float64{"n1": 42.5, "ghost": 7})
	n, _ := d.Node("n1")
	if n.YPosition != 42.5 {
		t.Errorf("YPosition = %v, want 42.5", n.YPosition)
	}
}
