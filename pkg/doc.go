// Package pkg provides the core libraries for Seqline sequence diagram layout.
//
// # Overview
//
// Seqline turns a small declarative diagram model (lifelines, connecting
// nodes, activity processes) into positioned scenes, and supports interactive
// editing through a speculative drag protocol. The pkg directory is organized
// into three main areas:
//
//  1. [diagram] - The geometry model (documents, validation, repair, edits)
//  2. [layout] / [drag] / [engine] - The layout pipeline and interaction
//  3. [store] / [theme] / [errors] / [observability] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow through Seqline:
//
//	Document (lifelines, nodes, processes)
//	         ↓
//	    [layout] spans → slots → heights → projection
//	         ↓
//	    Scene (positioned headers, boxes, marks, bars, edges)
//	         ↓
//	    CLI output / HTTP API / terminal editor
//
// Interactive edits run through [drag]: a drag speculates against clones of
// the committed document and commits at most one fact on release, or reverts
// to the exact pre-drag state.
//
// # Quick Start
//
// Lay out a document and read the scene:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/seqline/pkg/diagram"
//	    "github.com/matzehuels/seqline/pkg/engine"
//	)
//
//	doc, _ := diagram.ReadDocumentFile("flow.json")
//	eng := engine.New(doc, nil, nil)
//	scene := eng.Layout(context.Background())
//	for _, n := range scene.Nodes {
//	    fmt.Printf("%s at (%.0f, %.0f) slot %d\n", n.ID, n.X, n.Y, n.Slot)
//	}
//
// # Main Packages
//
// [diagram] - The document model: lifelines with dense orders, nodes whose
// two anchors attach to distinct lifelines, and processes grouping anchors on
// one lifeline. Includes validation, structural repair, and edit operations.
//
// [layout] - The pure layout pipeline: span computation, greedy slot
// assignment with optional pinning, measured-height tracking, process
// sub-lane placement, and pixel projection into a [layout.Scene].
//
// [drag] - The drag state machine for node (vertical) and anchor
// (horizontal) drags, including lifeline snapping, the anchor swap rule, and
// snapshot-based revert.
//
// [engine] - The facade wiring model, pipeline, and drags together, with
// repair-on-layout, debounced height feedback, and change callbacks.
//
// [store] - Document persistence with memory, file, Redis, and MongoDB
// backends.
//
// [theme] - Layout metrics (lane widths, gaps, default heights, slot cap)
// with TOML overlays.
//
// [errors] - Structured error codes shared by CLI and HTTP surfaces.
//
// [observability] - Optional hooks for layout, drag, and store events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/seqline/pkg/diagram
// [layout]: https://pkg.go.dev/github.com/matzehuels/seqline/pkg/layout
// [layout.Scene]: https://pkg.go.dev/github.com/matzehuels/seqline/pkg/layout#Scene
// [drag]: https://pkg.go.dev/github.com/matzehuels/seqline/pkg/drag
// [engine]: https://pkg.go.dev/github.com/matzehuels/seqline/pkg/engine
// [store]: https://pkg.go.dev/github.com/matzehuels/seqline/pkg/store
// [theme]: https://pkg.go.dev/github.com/matzehuels/seqline/pkg/theme
// [errors]: https://pkg.go.dev/github.com/matzehuels/seqline/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/seqline/pkg/observability
package pkg
