package diagram

import (
	"errors"
	"testing"
)

// testDoc builds the canonical three-lifeline document used across the layout
// tests: A(0), B(1), C(2) with node n1 spanning A-C and n2 spanning A-B.
func testDoc() *Document {
	return &Document{
		Lifelines: []Lifeline{
			{ID: "A", Name: "api", Order: 0},
			{ID: "B", Name: "worker", Order: 1},
			{ID: "C", Name: "db", Order: 2},
		},
		Nodes: []Node{
			{
				ID: "n1", Type: NodeEndpoint, Label: "query", YPosition: 100,
				Anchors: [2]Anchor{
					{ID: "n1s", LifelineID: "A", Type: AnchorSource},
					{ID: "n1t", LifelineID: "C", Type: AnchorTarget},
				},
			},
			{
				ID: "n2", Type: NodeData, Label: "enqueue", YPosition: 200,
				Anchors: [2]Anchor{
					{ID: "n2s", LifelineID: "A", Type: AnchorSource},
					{ID: "n2t", LifelineID: "B", Type: AnchorTarget},
				},
			},
		},
	}
}

func TestValidateOK(t *testing.T) {
	if err := testDoc().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr error
	}{
		{
			"duplicate lifeline ID",
			func(d *Document) { d.Lifelines[1].ID = "A" },
			ErrDuplicateID,
		},
		{
			"order gap",
			func(d *Document) { d.Lifelines[2].Order = 5 },
			ErrOrderNotDense,
		},
		{
			"duplicate order",
			func(d *Document) { d.Lifelines[2].Order = 0 },
			ErrOrderNotDense,
		},
		{
			"anchor on missing lifeline",
			func(d *Document) { d.Nodes[0].Anchors[1].LifelineID = "ghost" },
			ErrUnknownLifeline,
		},
		{
			"anchors on one lifeline",
			func(d *Document) { d.Nodes[0].Anchors[1].LifelineID = "A" },
			ErrSameLifeline,
		},
		{
			"empty process",
			func(d *Document) { d.Processes = append(d.Processes, Process{ID: "p1"}) },
			ErrProcessEmpty,
		},
		{
			"process with unknown anchor",
			func(d *Document) {
				d.Processes = append(d.Processes, Process{ID: "p1", AnchorIDs: []string{"ghost"}})
			},
			ErrUnknownAnchor,
		},
		{
			"process split across lifelines",
			func(d *Document) {
				d.Processes = append(d.Processes, Process{ID: "p1", AnchorIDs: []string{"n1s", "n2t"}})
			},
			ErrProcessSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDoc()
			tt.mutate(d)
			if err := d.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOrderMap(t *testing.T) {
	m := testDoc().OrderMap()
	want := map[string]int{"A": 0, "B": 1, "C": 2}
	for id, order := range want {
		if m[id] != order {
			t.Errorf("OrderMap()[%s] = %d, want %d", id, m[id], order)
		}
	}
}

func TestNormalizeOrders(t *testing.T) {
	d := testDoc()
	d.Lifelines[0].Order = 10
	d.Lifelines[1].Order = 3
	d.Lifelines[2].Order = 7

	d.NormalizeOrders()

	if err := d.Validate(); err != nil {
		t.Fatalf("Validate after normalize: %v", err)
	}
	// Relative ordering (B < C < A) must survive.
	m := d.OrderMap()
	if !(m["B"] == 0 && m["C"] == 1 && m["A"] == 2) {
		t.Errorf("orders = %v, want B=0 C=1 A=2", m)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := testDoc()
	d.Nodes[0].Data = map[string]any{"status": "open"}
	d.Processes = []Process{{ID: "p1", AnchorIDs: []string{"n1s"}}}

	cp := d.Clone()
	cp.Lifelines[0].Name = "changed"
	cp.Nodes[0].Data["status"] = "closed"
	cp.Processes[0].AnchorIDs[0] = "other"

	if d.Lifelines[0].Name != "api" {
		t.Error("clone shares lifeline backing array")
	}
	if d.Nodes[0].Data["status"] != "open" {
		t.Error("clone shares node data map")
	}
	if d.Processes[0].AnchorIDs[0] != "n1s" {
		t.Error("clone shares process anchor slice")
	}
}

func TestAnchorLookup(t *testing.T) {
	d := testDoc()

	a, n, ok := d.Anchor("n2t")
	if !ok || n.ID != "n2" || a.LifelineID != "B" {
		t.Fatalf("Anchor(n2t) = %+v on %v, ok=%v", a, n, ok)
	}
	if _, _, ok := d.Anchor("ghost"); ok {
		t.Error("Anchor(ghost) should not be found")
	}

	other := n.Other("n2t")
	if other.ID != "n2s" {
		t.Errorf("Other(n2t) = %s, want n2s", other.ID)
	}
}

func TestSourceTarget(t *testing.T) {
	d := testDoc()
	n, _ := d.Node("n1")
	if n.Source().ID != "n1s" {
		t.Errorf("Source() = %s, want n1s", n.Source().ID)
	}
	if n.Target().ID != "n1t" {
		t.Errorf("Target() = %s, want n1t", n.Target().ID)
	}
}

func TestRoundTrip(t *testing.T) {
	d := testDoc()
	data, err := MarshalDocument(d)
	if err != nil {
		t.Fatalf("MarshalDocument: %v", err)
	}
	back, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("UnmarshalDocument: %v", err)
	}
	if len(back.Lifelines) != 3 || len(back.Nodes) != 2 {
		t.Errorf("round trip lost elements: %d lifelines, %d nodes", len(back.Lifelines), len(back.Nodes))
	}
	if back.Nodes[0].YPosition != 100 {
		t.Errorf("YPosition = %v, want 100", back.Nodes[0].YPosition)
	}
}
