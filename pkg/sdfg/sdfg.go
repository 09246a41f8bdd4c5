package sdfg

import (
	"slices"

	"github.com/matzehuels/sdfglayout/pkg/errors"
)

// NoScope marks a node that is not a scope entry or exit, and is also the
// key of the top-level entry in a state's scope index.
const NoScope = -1

// Attributes holds free-form record attributes. The layout engine reserves
// the "layout" key for projected geometry.
type Attributes map[string]any

// SDFG is a self-contained sub-program: a control-flow graph of blocks
// connected by interstate edges. CFGID is unique across the whole nesting
// tree and is the key under which the program's layout is registered.
type SDFG struct {
	CFGID      int
	Name       string
	Blocks     []*Block
	Edges      []*InterstateEdge
	Attributes Attributes
}

// Block is a unit of control flow. Which fields are populated depends on
// Kind:
//   - BlockState (and BlockUnknown): Nodes, Edges and Scopes
//   - BlockLoopRegion, BlockRegion: CFGID, Blocks and InterstateEdges
//   - BlockConditional: Branches
//
// Loop carries the loop statements for BlockLoopRegion.
type Block struct {
	ID        int
	Kind      BlockKind
	Label     string
	Collapsed bool

	Nodes  []*Node
	Edges  []*Edge
	Scopes map[int][]int

	CFGID           int
	Blocks          []*Block
	InterstateEdges []*InterstateEdge

	Loop     *Loop
	Branches []*Branch

	Attributes Attributes
}

// Loop holds the statements of a loop region. An inverted loop checks its
// condition after the body (do-while) and draws it at the bottom.
type Loop struct {
	Condition string
	Init      string
	Update    string
	Inverted  bool
}

// Branch is one arm of a conditional block. Region is a BlockRegion.
type Branch struct {
	Condition string
	Region    *Block
}

// Node is a dataflow node inside a state.
type Node struct {
	ID            int
	Kind          NodeKind
	TypeName      string
	Label         string
	InConnectors  []string
	OutConnectors []string

	// ScopeEntry is set on exit nodes, ScopeExit on entry nodes; both are
	// NoScope otherwise.
	ScopeEntry int
	ScopeExit  int
	Collapsed  bool

	// SDFG is the embedded sub-program of a KindNestedSDFG node.
	SDFG *SDFG

	Attributes Attributes
}

// Edge is a dataflow edge between two nodes of the same state, optionally
// attached to named connectors. Shortcut marks an edge synthesized by a
// previous layout pass that omitted pass-through access nodes.
type Edge struct {
	Src, Dst         int
	SrcConn, DstConn string
	Label            string
	Shortcut         bool
	Attributes       Attributes
}

// InterstateEdge is a control-flow transition between two blocks.
type InterstateEdge struct {
	Src, Dst   int
	Label      string
	Attributes Attributes
}

// NewNode returns a node with scope links cleared.
func NewNode(id int, kind NodeKind, label string) *Node {
	return &Node{
		ID:         id,
		Kind:       kind,
		TypeName:   kind.String(),
		Label:      label,
		ScopeEntry: NoScope,
		ScopeExit:  NoScope,
	}
}

// DisplayLabel returns the label, falling back to the type name.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	if n.TypeName != "" {
		return n.TypeName
	}
	return n.Kind.String()
}

// NodeIndex maps node IDs to nodes.
func (b *Block) NodeIndex() map[int]*Node {
	m := make(map[int]*Node, len(b.Nodes))
	for _, n := range b.Nodes {
		m[n.ID] = n
	}
	return m
}

// ScopeChildren returns the IDs of nodes directly contained in the scope
// opened by entry, or the top-level nodes for NoScope. A state without a
// scope index treats every node as top-level.
func (b *Block) ScopeChildren(entry int) []int {
	if b.Scopes == nil {
		if entry != NoScope {
			return nil
		}
		ids := make([]int, len(b.Nodes))
		for i, n := range b.Nodes {
			ids[i] = n.ID
		}
		return ids
	}
	return b.Scopes[entry]
}

// Walk visits every SDFG reachable from g (g itself first, then nested
// programs depth-first in declaration order).
func (g *SDFG) Walk(fn func(*SDFG)) {
	fn(g)
	walkBlocks(g.Blocks, fn)
}

func walkBlocks(blocks []*Block, fn func(*SDFG)) {
	for _, b := range blocks {
		for _, n := range b.Nodes {
			if n.SDFG != nil {
				n.SDFG.Walk(fn)
			}
		}
		walkBlocks(b.Blocks, fn)
		for _, br := range b.Branches {
			if br.Region != nil {
				walkBlocks([]*Block{br.Region}, fn)
			}
		}
	}
}

// CFGIDs returns every control-flow graph identifier in the tree: programs,
// loop regions, nested regions and conditional branch regions, sorted.
func (g *SDFG) CFGIDs() []int {
	var ids []int
	g.Walk(collectProgramIDs(&ids))
	slices.Sort(ids)
	return ids
}

// CFGIDs returns the identifiers of every control-flow graph nested in b:
// its own region, its branch regions, and everything below them, sorted.
func (b *Block) CFGIDs() []int {
	var ids []int
	blocks := []*Block{b}
	collectRegionIDs(blocks, &ids)
	walkBlocks(blocks, collectProgramIDs(&ids))
	slices.Sort(ids)
	return ids
}

func collectProgramIDs(ids *[]int) func(*SDFG) {
	return func(s *SDFG) {
		*ids = append(*ids, s.CFGID)
		collectRegionIDs(s.Blocks, ids)
	}
}

func collectRegionIDs(blocks []*Block, ids *[]int) {
	for _, b := range blocks {
		if b.Kind.HasRegion() {
			*ids = append(*ids, b.CFGID)
			collectRegionIDs(b.Blocks, ids)
		}
		for _, br := range b.Branches {
			if br.Region != nil {
				*ids = append(*ids, br.Region.CFGID)
				collectRegionIDs(br.Region.Blocks, ids)
			}
		}
	}
}

// Validate checks structural integrity the layout engine relies on:
// a non-nil program and unique control-flow graph identifiers. Dangling
// edge, connector and scope references are tolerated by the engine and are
// not reported here.
func (g *SDFG) Validate() error {
	if g == nil {
		return errors.New(errors.ErrCodeInvalidGraph, "graph is nil")
	}
	ids := g.CFGIDs()
	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate cfg id %d", ids[i])
		}
	}
	return nil
}
