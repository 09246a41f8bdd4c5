// Package layout computes the hierarchical geometry of an SDFG: positions
// and sizes of every block and dataflow node, connector sockets, and edge
// routes, composed into one global coordinate space.
//
// # Pass structure
//
// [Run] lays out a program depth first. Every level (the block graph of a
// program or control-flow region, and the dataflow graph of a state) is
// laid out in its own local space with an [hlayout.Engine] after all of its
// children have been sized. Once a level's own positions are fixed it
// places each child level exactly once at its container's top-left corner
// plus margin; placing a level twice is reported as DOUBLE_OFFSET.
//
// # Geometry
//
// Results live in a side table, not on the input records: a [Layout] holds
// the root [Graph], a [Registry] mapping control-flow graph identifiers to
// their level and owning element, and an index of every [Element] by
// [Key]. [Project] copies the geometry onto the source records under the
// "layout" attribute when the caller wants to persist it.
//
// # Omission
//
// With Options.OmitAccessNodes set, access nodes that only pass data
// through are withheld and the edges through them are merged into
// shortcut edges. At most one shortcut targets a given destination
// connector; further producers are listed in [Edge.Sources].
//
// [hlayout.Engine]: github.com/matzehuels/sdfglayout/pkg/hlayout
package layout
