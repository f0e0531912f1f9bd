package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/seqline/pkg/diagram"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestHeightFor(t *testing.T) {
	th := Default()
	if got := th.HeightFor(diagram.NodeDecision); got != 72 {
		t.Errorf("HeightFor(decision) = %v, want 72", got)
	}
	if got := th.HeightFor(diagram.NodeType("unknown")); got != th.DefaultNodeHeight {
		t.Errorf("HeightFor(unknown) = %v, want default %v", got, th.DefaultNodeHeight)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	content := "lane_width = 200.0\nsnap_threshold = 10.0\n\n[node_heights]\nendpoint = 40.0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	th, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if th.LaneWidth != 200 {
		t.Errorf("LaneWidth = %v, want 200", th.LaneWidth)
	}
	if th.SnapThreshold != 10 {
		t.Errorf("SnapThreshold = %v, want 10", th.SnapThreshold)
	}
	if th.HeightFor(diagram.NodeEndpoint) != 40 {
		t.Errorf("HeightFor(endpoint) = %v, want 40", th.HeightFor(diagram.NodeEndpoint))
	}
	// Untouched metric keeps its default.
	if th.SlotCap != Default().SlotCap {
		t.Errorf("SlotCap = %d, want default %d", th.SlotCap, Default().SlotCap)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(path, []byte("lane_width = -5.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile should reject non-positive lane_width")
	}
}
