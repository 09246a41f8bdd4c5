// Package pkg provides the core libraries for sdfglayout, a hierarchical
// layout engine for stateful dataflow multigraphs (SDFGs).
//
// # Overview
//
// An SDFG nests three kinds of graphs: a control-flow graph of blocks,
// the dataflow graph inside every state block, and whole sub-programs
// embedded as nodes of a dataflow graph. Each level is laid out on its own
// at the origin, sized from its content, and then placed inside its
// container exactly once. The result is one consistent drawing plus a
// registry of every laid-out control-flow graph.
//
// # Architecture
//
// The data flow through sdfglayout:
//
//	SDFG JSON
//	    ↓
//	[sdfg] package (typed program model, closed node/block kinds)
//	    ↓
//	[layout] package (sizing, connectors, per-level layout, composition)
//	    ↓            ↘
//	[hlayout] engines    [measure] text widths (memoized via [cache])
//	    ↓
//	geometry side table, projected back onto the records
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/sdfglayout/pkg/layout"
//	    "github.com/matzehuels/sdfglayout/pkg/measure"
//	    "github.com/matzehuels/sdfglayout/pkg/sdfg"
//	)
//
//	g, _ := sdfg.ImportJSON("program.sdfg")
//	m, _ := measure.New(measure.Options{})
//	l, err := layout.Run(context.Background(), g, layout.Options{
//	    Measurer:        m,
//	    OmitAccessNodes: true,
//	})
//	if err != nil {
//	    return err
//	}
//	layout.Project(g, l)
//
// # Main Packages
//
// [sdfg] - Program model and JSON reader/writer. Node and block kinds are
// closed enumerations; unknown type names map to generic kinds.
//
// [layout] - The hierarchical engine: node sizing, connector placement,
// state and block layout, bounding boxes, coordinate offsetting, the
// per-pass registry and projection of geometry onto the input records.
//
// [hlayout] - Single-level layout algorithms: a deterministic layered
// (Sugiyama) engine, a vertical engine for structured control flow that
// rejects irreducible graphs, and a Graphviz dot engine.
//
// [dag] and [dag/transform] - The layered digraph substrate: cycle removal,
// layering, long-edge subdivision and crossing reduction.
//
// [measure] - Text measurement with explicit font state: a character-cell
// heuristic and an OpenType measurer over the embedded Go fonts in [fonts].
//
// ## Infrastructure
//
// [pipeline] - Relayout runner. Builds each pass from scratch and commits
// the result only when the whole pass succeeds.
//
// [cache] - Bounded in-memory caches for text measurements.
//
// [observability] - Hooks for pass, level and fallback events.
//
// [errors] - Coded errors shared by all packages.
//
// [sdfg]: https://pkg.go.dev/github.com/matzehuels/sdfglayout/pkg/sdfg
// [layout]: https://pkg.go.dev/github.com/matzehuels/sdfglayout/pkg/layout
// [hlayout]: https://pkg.go.dev/github.com/matzehuels/sdfglayout/pkg/hlayout
// [dag]: https://pkg.go.dev/github.com/matzehuels/sdfglayout/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/sdfglayout/pkg/dag/transform
// [measure]: https://pkg.go.dev/github.com/matzehuels/sdfglayout/pkg/measure
// [fonts]: https://pkg.go.dev/github.com/matzehuels/sdfglayout/pkg/fonts
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sdfglayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/sdfglayout/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/sdfglayout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/sdfglayout/pkg/errors
package pkg
