package engine

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/theme"
)

func node(id, src, tgt string, y float64) diagram.Node {
	return diagram.Node{
		ID: id, Type: diagram.NodeEndpoint, YPosition: y,
		Anchors: [2]diagram.Anchor{
			{ID: id + "s", LifelineID: src, Type: diagram.AnchorSource},
			{ID: id + "t", LifelineID: tgt, Type: diagram.AnchorTarget},
		},
	}
}

func testDoc() *diagram.Document {
	return &diagram.Document{
		Lifelines: []diagram.Lifeline{
			{ID: "A", Name: "a", Order: 0},
			{ID: "B", Name: "b", Order: 1},
			{ID: "C", Name: "c", Order: 2},
		},
		Nodes: []diagram.Node{
			node("n1", "A", "C", 10),
			node("n2", "A", "B", 20),
		},
	}
}

func TestLayoutWritesBackYPositions(t *testing.T) {
	e := New(testDoc(), nil, nil)

	scene := e.Layout(context.Background())

	if len(scene.Nodes) != 2 {
		t.Fatalf("scene nodes = %d, want 2", len(scene.Nodes))
	}
	for _, n := range e.Document().Nodes {
		if n.YPosition != scene.YPositions[n.ID] {
			t.Errorf("node %s cached y = %v, scene says %v", n.ID, n.YPosition, scene.YPositions[n.ID])
		}
	}
}

func TestLayoutRepairsAndEmitsChange(t *testing.T) {
	d := testDoc()
	d.Nodes[0].Anchors[1].LifelineID = "ghost"
	e := New(d, nil, nil)

	changes := 0
	e.SetOnDocumentChange(func(*diagram.Document) { changes++ })

	e.Layout(context.Background())

	if changes != 1 {
		t.Errorf("change emissions = %d, want 1 for the repair", changes)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("document invalid after layout: %v", err)
	}

	// A clean follow-up pass emits nothing.
	e.Layout(context.Background())
	if changes != 1 {
		t.Errorf("change emissions = %d, want still 1", changes)
	}
}

func TestEditEmitsOnceAndBumpsVersion(t *testing.T) {
	e := New(testDoc(), nil, nil)
	e.Layout(context.Background())

	changes := 0
	e.SetOnDocumentChange(func(*diagram.Document) { changes++ })

	err := e.Edit(func(d *diagram.Document) error {
		d.AddLifeline("cache")
		return nil
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if changes != 1 {
		t.Errorf("change emissions = %d, want 1", changes)
	}

	// A failing edit emits nothing.
	wantErr := diagram.ErrNotFound
	err = e.Edit(func(d *diagram.Document) error { return wantErr })
	if err != wantErr {
		t.Errorf("Edit error = %v, want %v", err, wantErr)
	}
	if changes != 1 {
		t.Errorf("change emissions = %d, want still 1", changes)
	}
}

func TestMeasureHeightBarrier(t *testing.T) {
	e := New(testDoc(), nil, nil)
	e.SetDebounce(0)
	e.Layout(context.Background()) // declares the expected set

	var reasons []string
	e.SetOnRelayout(func(reason string) { reasons = append(reasons, reason) })

	e.MeasureHeight("n1", 80)
	if len(reasons) != 1 {
		t.Fatalf("relayouts = %v, want one debounce-free update", reasons)
	}

	// Completing the set fires the one-shot corrective pass immediately.
	e.MeasureHeight("n2", 90)
	if len(reasons) != 2 || reasons[1] != "initial heights complete" {
		t.Fatalf("relayouts = %v, want corrective pass", reasons)
	}
}

func TestMeasureHeightDebounce(t *testing.T) {
	e := New(testDoc(), nil, nil)
	e.SetDebounce(20 * time.Millisecond)
	e.Layout(context.Background())

	done := make(chan string, 4)
	e.SetOnRelayout(func(reason string) { done <- reason })

	// Complete the barrier first (immediate, not debounced).
	e.MeasureHeight("n1", 80)
	e.MeasureHeight("n2", 90)
	<-done

	// A burst of steady-state updates coalesces into one request.
	e.MeasureHeight("n1", 81)
	e.MeasureHeight("n1", 82)
	e.MeasureHeight("n2", 91)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced relayout never fired")
	}
	select {
	case r := <-done:
		t.Fatalf("burst produced a second relayout: %s", r)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestDragCommitEmitsChange(t *testing.T) {
	d := testDoc()
	e := New(d, theme.Default(), nil)
	ctx := context.Background()
	e.Layout(ctx)

	changes := 0
	e.SetOnDocumentChange(func(*diagram.Document) { changes++ })

	if err := e.StartNodeDrag(ctx, "n2"); err != nil {
		t.Fatalf("StartNodeDrag: %v", err)
	}
	if _, err := e.DragMoveNode(0); err != nil {
		t.Fatalf("DragMoveNode: %v", err)
	}
	res, err := e.EndDrag(ctx)
	if err != nil {
		t.Fatalf("EndDrag: %v", err)
	}
	if !res.Committed {
		t.Fatalf("drag should commit, got revert: %s", res.Reverted)
	}
	if changes != 1 {
		t.Errorf("change emissions = %d, want 1 per committed drag", changes)
	}
	if e.Dragging() {
		t.Error("engine should be idle after EndDrag")
	}
}

func TestDragRevertEmitsNothing(t *testing.T) {
	e := New(testDoc(), nil, nil)
	ctx := context.Background()
	e.Layout(ctx)

	changes := 0
	e.SetOnDocumentChange(func(*diagram.Document) { changes++ })

	if err := e.StartAnchorDrag(ctx, "n1s"); err != nil {
		t.Fatalf("StartAnchorDrag: %v", err)
	}
	if _, err := e.DragMoveAnchor(1e6); err != nil {
		t.Fatalf("DragMoveAnchor: %v", err)
	}
	res, err := e.EndDrag(ctx)
	if err != nil {
		t.Fatalf("EndDrag: %v", err)
	}
	if res.Committed {
		t.Fatal("out-of-threshold drag must revert")
	}
	if changes != 0 {
		t.Errorf("change emissions = %d, want 0 for a revert", changes)
	}
}
