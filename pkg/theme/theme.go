// Package theme holds the visual metrics consumed by the layout engine.
//
// The engine treats a theme as opaque beyond box-size defaults: lane widths,
// gaps, default node heights per type, process box dimensions, the drag snap
// threshold, and the slot cap. Metrics are compiled-in defaults that can be
// overridden by a TOML file:
//
//	lane_width = 160.0
//	snap_threshold = 48.0
//
//	[node_heights]
//	endpoint = 56.0
//	decision = 72.0
package theme

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/seqline/pkg/diagram"
)

// Theme is the set of layout metrics. All lengths are pixels.
type Theme struct {
	// Horizontal layout
	LaneWidth       float64 `toml:"lane_width"`
	LaneGap         float64 `toml:"lane_gap"`
	NodeMinWidth    float64 `toml:"node_min_width"`
	ProcessBoxWidth float64 `toml:"process_box_width"`
	ProcessBoxGap   float64 `toml:"process_box_gap"`
	MarginX         float64 `toml:"margin_x"`

	// Vertical layout
	HeaderHeight float64 `toml:"header_height"`
	SlotGap      float64 `toml:"slot_gap"`

	// Interaction
	SnapThreshold float64 `toml:"snap_threshold"`

	// SlotCap bounds the greedy slot scan. Exceeding it degrades the layout
	// (nodes share the last slot) instead of failing.
	SlotCap int `toml:"slot_cap"`

	// NodeHeights maps a node type to its default box height, used until the
	// presentation layer reports a measured height.
	NodeHeights map[string]float64 `toml:"node_heights"`

	// DefaultNodeHeight applies to node types absent from NodeHeights.
	DefaultNodeHeight float64 `toml:"default_node_height"`
}

// Default returns the compiled-in theme.
func Default() *Theme {
	return &Theme{
		LaneWidth:       160,
		LaneGap:         40,
		NodeMinWidth:    120,
		ProcessBoxWidth: 14,
		ProcessBoxGap:   6,
		MarginX:         24,
		HeaderHeight:    64,
		SlotGap:         24,
		SnapThreshold:   48,
		SlotCap:         50,
		NodeHeights: map[string]float64{
			string(diagram.NodeEndpoint): 56,
			string(diagram.NodeProcess):  64,
			string(diagram.NodeDecision): 72,
			string(diagram.NodeData):     56,
			string(diagram.NodeCustom):   64,
		},
		DefaultNodeHeight: 64,
	}
}

// LoadFile reads a TOML theme file and overlays it onto the defaults, so a
// partial file only overrides what it names.
func LoadFile(path string) (*Theme, error) {
	t := Default()
	if _, err := toml.DecodeFile(path, t); err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	return t, nil
}

// Validate rejects metrics the layout cannot work with.
func (t *Theme) Validate() error {
	if t.LaneWidth <= 0 {
		return fmt.Errorf("lane_width must be positive, got %v", t.LaneWidth)
	}
	if t.SlotCap < 1 {
		return fmt.Errorf("slot_cap must be at least 1, got %d", t.SlotCap)
	}
	if t.DefaultNodeHeight <= 0 {
		return fmt.Errorf("default_node_height must be positive, got %v", t.DefaultNodeHeight)
	}
	if t.SnapThreshold < 0 {
		return fmt.Errorf("snap_threshold must not be negative, got %v", t.SnapThreshold)
	}
	return nil
}

// HeightFor returns the default box height for a node type.
func (t *Theme) HeightFor(typ diagram.NodeType) float64 {
	if h, ok := t.NodeHeights[string(typ)]; ok && h > 0 {
		return h
	}
	return t.DefaultNodeHeight
}
