package layout

import (
	"fmt"

	"github.com/matzehuels/sdfglayout/pkg/hlayout"
)

// Point is a position in global layout units.
type Point = hlayout.Point

// Key identifies a block or dataflow node across relayouts. CFG is the
// identifier of the control-flow graph the element belongs to; State is
// the containing state's block ID for dataflow nodes and -1 for blocks.
type Key struct {
	CFG, State, ID int
}

// BlockKey returns the key of block id in control-flow graph cfg.
func BlockKey(cfg, id int) Key { return Key{CFG: cfg, State: -1, ID: id} }

// NodeKey returns the key of node id in state state of cfg.
func NodeKey(cfg, state, id int) Key { return Key{CFG: cfg, State: state, ID: id} }

// IsBlock reports whether k names a block.
func (k Key) IsBlock() bool { return k.State < 0 }

func (k Key) String() string {
	if k.IsBlock() {
		return fmt.Sprintf("%d/%d", k.CFG, k.ID)
	}
	return fmt.Sprintf("%d/%d/%d", k.CFG, k.State, k.ID)
}

// Rect is an axis-aligned rectangle given by its top-left corner.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Box is a sized element given by its center.
type Box struct {
	X, Y, Width, Height float64
}

func (b Box) Left() float64   { return b.X - b.Width/2 }
func (b Box) Top() float64    { return b.Y - b.Height/2 }
func (b Box) Right() float64  { return b.X + b.Width/2 }
func (b Box) Bottom() float64 { return b.Y + b.Height/2 }

// Rect returns b as a top-left rectangle.
func (b Box) Rect() Rect { return Rect{X: b.Left(), Y: b.Top(), Width: b.Width, Height: b.Height} }

// Direction is the side of a node a connector belongs to.
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// Connector is a positioned socket on a node.
type Connector struct {
	Name  string
	Dir   Direction
	Index int
	Owner Key
	Box
}

// Label is a positioned line of text drawn inside a block: a loop
// statement or a branch condition.
type Label struct {
	Text string
	Box
}

// Element is the geometry of one block or dataflow node.
type Element struct {
	Key       Key
	Kind      string
	Label     string
	Collapsed bool
	Box

	In, Out []*Connector
	Labels  []Label

	// Children are the levels drawn inside the element: the dataflow graph
	// of a state, the body of a loop or region, one region per branch of
	// a conditional, or the program of a nested SDFG node.
	Children []*Graph
}

// Connector looks up a connector by direction and name.
func (e *Element) Connector(dir Direction, name string) (*Connector, bool) {
	list := e.In
	if dir == Out {
		list = e.Out
	}
	for _, c := range list {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Edge is the geometry of a dataflow or interstate edge.
type Edge struct {
	// Index is the position of the source edge in its list, or -1 for a
	// synthesized shortcut.
	Index int

	Src, Dst         Key
	SrcConn, DstConn string
	Label            string

	Points []Point
	Bounds Rect

	Shortcut bool
	// Sources lists further producers merged into a shortcut that share
	// its destination connector.
	Sources []Key
}

// Graph is one laid-out level.
type Graph struct {
	// CFGID is the control-flow graph the level's elements belong to.
	CFGID int
	// State is the block ID for the dataflow graph of a state, -1 for a
	// block graph.
	State int

	Elements []*Element
	Edges    []*Edge
	Bounds   Rect
	Engine   string

	placed bool
}

// Element returns the element with the given key.
func (g *Graph) Element(k Key) (*Element, bool) {
	for _, el := range g.Elements {
		if el.Key == k {
			return el, true
		}
	}
	return nil, false
}

// IsState reports whether g is the dataflow graph of a state.
func (g *Graph) IsState() bool { return g.State >= 0 }
