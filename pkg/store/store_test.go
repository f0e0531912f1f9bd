package store

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/seqline/pkg/diagram"
)

func testDoc(id string) *diagram.Document {
	return &diagram.Document{
		ID:    id,
		Title: "checkout flow",
		Lifelines: []diagram.Lifeline{
			{ID: "A", Name: "client", Order: 0},
			{ID: "B", Name: "api", Order: 1},
		},
		Nodes: []diagram.Node{
			{
				ID: "n1", Type: diagram.NodeEndpoint, Label: "POST /orders",
				Anchors: [2]diagram.Anchor{
					{ID: "n1s", LifelineID: "A", Type: diagram.AnchorSource},
					{ID: "n1t", LifelineID: "B", Type: diagram.AnchorTarget},
				},
			},
		},
	}
}

// stores returns every backend that runs without external services.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Store{
		"memory": NewMemory(),
		"file":   fs,
	}
}

func TestRoundTrip(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()
			ctx := context.Background()

			if err := st.Put(ctx, testDoc("d1")); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, err := st.Get(ctx, "d1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got == nil || got.Title != "checkout flow" || len(got.Nodes) != 1 {
				t.Fatalf("Get = %+v, want stored document", got)
			}
		})
	}
}

func TestGetMissingReturnsNilNil(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()

			got, err := st.Get(context.Background(), "nope")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != nil {
				t.Errorf("Get missing = %+v, want nil", got)
			}
		})
	}
}

func TestPutWithoutID(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()

			if err := st.Put(context.Background(), testDoc("")); err != ErrMissingID {
				t.Errorf("Put = %v, want ErrMissingID", err)
			}
		})
	}
}

func TestDeleteAndList(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()
			ctx := context.Background()

			for _, id := range []string{"d1", "d2", "d3"} {
				if err := st.Put(ctx, testDoc(id)); err != nil {
					t.Fatal(err)
				}
			}
			if err := st.Delete(ctx, "d2"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			// Deleting twice is fine.
			if err := st.Delete(ctx, "d2"); err != nil {
				t.Fatalf("second Delete: %v", err)
			}

			ids, err := st.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			slices.Sort(ids)
			if !slices.Equal(ids, []string{"d1", "d3"}) {
				t.Errorf("List = %v, want [d1 d3]", ids)
			}
		})
	}
}

// Mutating a document after Put, or the copy returned by Get, must not leak
// into the stored version.
func TestIsolation(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close()
			ctx := context.Background()

			d := testDoc("d1")
			if err := st.Put(ctx, d); err != nil {
				t.Fatal(err)
			}
			d.Nodes[0].Label = "mutated after put"

			got, err := st.Get(ctx, "d1")
			if err != nil {
				t.Fatal(err)
			}
			if got.Nodes[0].Label != "POST /orders" {
				t.Errorf("stored label = %q, caller mutation leaked in", got.Nodes[0].Label)
			}

			got.Nodes[0].Label = "mutated after get"
			again, err := st.Get(ctx, "d1")
			if err != nil {
				t.Fatal(err)
			}
			if again.Nodes[0].Label != "POST /orders" {
				t.Errorf("stored label = %q, reader mutation leaked in", again.Nodes[0].Label)
			}
		})
	}
}
