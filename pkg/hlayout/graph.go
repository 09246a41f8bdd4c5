// Package hlayout implements the hierarchical graph layout algorithms the
// layout engine runs on every level: the dataflow graph of one state and
// the block graph of one control-flow region.
//
// The input is a [Graph] of sized boxes and directed edges. An [Engine]
// assigns every node a center and every edge a polyline route in a local
// coordinate space whose top-left corner is the origin; composing levels
// into one coordinate space is the caller's job.
//
// # Engines
//
//   - [Layered]: deterministic layered (Sugiyama) layout on [dag]
//   - [Vertical]: one-column layout for structured control flow; rejects
//     irreducible graphs with an IRREDUCIBLE error
//   - [Graphviz]: the Graphviz dot engine via go-graphviz
//   - [Fallback]: runs a second engine when the first one fails
//
// [dag]: github.com/matzehuels/sdfglayout/pkg/dag
package hlayout

import (
	"math"

	"github.com/matzehuels/sdfglayout/pkg/errors"
)

// Default spacing between nodes in a row and between rows.
const (
	DefaultNodeSep = 50.0
	DefaultRankSep = 50.0
)

// Point is a position in layout units.
type Point struct {
	X, Y float64
}

// Node is a box to be placed. X and Y are the center once laid out.
type Node struct {
	ID            string
	Label         string
	Width, Height float64
	X, Y          float64
}

// Left, Top, Right and Bottom return the box edges.
func (n *Node) Left() float64   { return n.X - n.Width/2 }
func (n *Node) Top() float64    { return n.Y - n.Height/2 }
func (n *Node) Right() float64  { return n.X + n.Width/2 }
func (n *Node) Bottom() float64 { return n.Y + n.Height/2 }

// Edge is a directed connection. Points is the route from the source's
// boundary to the destination's once laid out.
type Edge struct {
	From, To string
	Points   []Point
}

// Graph holds one level to be laid out.
//
// The zero value is not usable - use NewGraph.
type Graph struct {
	NodeSep, RankSep float64

	// Width and Height are the extent of every node and route after
	// layout.
	Width, Height float64

	nodes []*Node
	index map[string]*Node
	edges []*Edge
}

// NewGraph returns an empty graph with the given spacing. Non-positive
// values select the defaults.
func NewGraph(nodeSep, rankSep float64) *Graph {
	if nodeSep <= 0 {
		nodeSep = DefaultNodeSep
	}
	if rankSep <= 0 {
		rankSep = DefaultRankSep
	}
	return &Graph{NodeSep: nodeSep, RankSep: rankSep, index: make(map[string]*Node)}
}

// AddNode adds a box. Adding an existing ID resizes that node and returns it.
func (g *Graph) AddNode(id string, width, height float64) *Node {
	if n, ok := g.index[id]; ok {
		n.Width, n.Height = width, height
		return n
	}
	n := &Node{ID: id, Width: width, Height: height}
	g.nodes = append(g.nodes, n)
	g.index[id] = n
	return n
}

// AddEdge adds a directed edge between two existing nodes.
func (g *Graph) AddEdge(from, to string) (*Edge, error) {
	if _, ok := g.index[from]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "edge source %q not in graph", from)
	}
	if _, ok := g.index[to]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "edge target %q not in graph", to)
	}
	e := &Edge{From: from, To: to}
	g.edges = append(g.edges, e)
	return e, nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []*Edge { return g.edges }

// fit translates everything so the top-left corner of the extent is the
// origin and records the extent.
func (g *Graph) fit() {
	if len(g.nodes) == 0 {
		g.Width, g.Height = 0, 0
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	extend := func(x, y float64) {
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	for _, n := range g.nodes {
		extend(n.Left(), n.Top())
		extend(n.Right(), n.Bottom())
	}
	for _, e := range g.edges {
		for _, p := range e.Points {
			extend(p.X, p.Y)
		}
	}
	for _, n := range g.nodes {
		n.X -= minX
		n.Y -= minY
	}
	for _, e := range g.edges {
		for i := range e.Points {
			e.Points[i].X -= minX
			e.Points[i].Y -= minY
		}
	}
	g.Width, g.Height = maxX-minX, maxY-minY
}

// route returns the straight route between the bottom center of a and the
// top center of b.
func route(a, b *Node) []Point {
	return []Point{{a.X, a.Bottom()}, {b.X, b.Top()}}
}

// selfLoopRoute draws a loop on the right side of n.
func selfLoopRoute(n *Node, sep float64) []Point {
	x := n.Right() + sep/2
	return []Point{
		{n.Right(), n.Y - n.Height/4},
		{x, n.Y - n.Height/4},
		{x, n.Y + n.Height/4},
		{n.Right(), n.Y + n.Height/4},
	}
}
