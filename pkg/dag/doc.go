// Package dag provides a directed graph optimized for row-based layered
// layouts.
//
// # Overview
//
// The layered ("Sugiyama") drawing used for states and control-flow levels
// assigns every vertex to a horizontal row, orders each row to keep edge
// crossings low and then assigns coordinates. This package provides the data
// structure those steps share: nodes organized into rows, with adjacency
// lists in both directions.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "guard", Row: 0, Width: 80, Height: 30})
//	g.AddNode(dag.Node{ID: "body", Row: 1, Width: 120, Height: 60})
//	g.AddEdge(dag.Edge{From: "guard", To: "body"})
//
// Query the graph structure with [DAG.Children], [DAG.Parents], [DAG.NodesInRow],
// and related methods. Use [DAG.Validate] to verify that every edge connects
// consecutive rows and that the graph is acyclic.
//
// # Determinism
//
// Every accessor that returns a collection returns it in insertion order.
// Layout runs twice on the same input must produce identical geometry, so
// nothing in this package iterates a Go map where order is observable.
//
// # Node Types
//
//   - [NodeKindRegular]: Original graph vertices
//   - [NodeKindSubdivider]: Zero-sized synthetic nodes that break long edges
//     into single-row segments; they become the bend points of the route
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] use a Fenwick tree (binary
// indexed tree) to count inversions in O(E log V) time.
// [CountPairCrossingsWithPos] scores a single adjacent swap.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize access
// if multiple goroutines read or modify the same graph.
//
// # Related Packages
//
// The [transform] subpackage provides cycle reversal, layer assignment,
// edge subdivision and row ordering.
//
// [transform]: github.com/matzehuels/sdfglayout/pkg/dag/transform
package dag
