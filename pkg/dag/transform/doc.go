// Package transform provides the graph transformations that prepare a DAG
// for layered drawing.
//
// # Overview
//
// Control-flow and dataflow graphs arrive with cycles (loops), nodes of
// arbitrary depth and edges spanning many layers. This package turns such a
// graph into the canonical form the ordering and coordinate steps expect:
//
//   - The graph is acyclic; loop back edges are reversed and tagged
//   - Every node has a row, parents strictly above children
//   - Edges connect only consecutive rows (long edges are subdivided)
//
// [Normalize] applies these steps in the correct order. [OrderRows] then
// fixes a left-to-right order per row.
//
// # Cycle Reversal
//
// [ReverseCycles] flips the back edges found by a depth-first search from
// the sources. Reversal keeps every edge in the graph, so a loop's latch
// still influences where its guard is placed. Reversed edges carry
// [dag.MetaReversed]; self-loops are removed.
//
// # Layer Assignment
//
// [AssignLayers] computes rows with longest-path layering. [TightenLayers]
// then pulls nodes whose outgoing edges outnumber their incoming ones down
// towards their children, shortening edges that longest-path leaves long.
// Very large graphs skip tightening ([RankLongestPath]).
//
// # Edge Subdivision
//
// [Subdivide] breaks long edges (spanning multiple rows) into chains of
// single-row hops by inserting subdivider nodes. For example:
//
//	Before: init (row 0) → exit (row 3)
//	After:  init → init_sub_1 → init_sub_2 → exit
//
// Subdividers are zero-sized; their positions become the bend points of the
// drawn edge.
//
// # Row Ordering
//
// [OrderRows] runs barycenter sweeps scored by [dag.CountCrossings] and
// finishes with adjacent transpositions. Ties keep insertion order, so the
// same graph always yields the same order.
//
// # Usage
//
//	transform.Normalize(g, transform.RankTight) // Modifies g in place
//	orders := transform.OrderRows(g, 4)
package transform
