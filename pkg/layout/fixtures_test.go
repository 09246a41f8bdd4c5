package layout

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/sdfglayout/pkg/measure"
	"github.com/matzehuels/sdfglayout/pkg/sdfg"
)

const eps = 1e-6

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func testMeasurer() measure.Measurer { return measure.NewHeuristic(measure.DefaultFont()) }

func node(id int, kind sdfg.NodeKind, label string, ins, outs []string) *sdfg.Node {
	n := sdfg.NewNode(id, kind, label)
	n.InConnectors, n.OutConnectors = ins, outs
	return n
}

func edge(src, dst int, srcConn, dstConn string) *sdfg.Edge {
	return &sdfg.Edge{Src: src, Dst: dst, SrcConn: srcConn, DstConn: dstConn}
}

// mapState is x -> map[i](mul) -> tmp -> post -> y, with tmp a pass-through
// access node.
func mapState(id int) *sdfg.Block {
	entry := node(1, sdfg.KindMapEntry, "i", []string{"IN_x"}, []string{"OUT_x"})
	entry.ScopeExit = 3
	exit := node(3, sdfg.KindMapExit, "i", []string{"IN_y"}, []string{"OUT_y"})
	exit.ScopeEntry = 1
	return &sdfg.Block{
		ID:   id,
		Kind: sdfg.BlockState,
		Nodes: []*sdfg.Node{
			node(0, sdfg.KindAccessNode, "x", nil, nil),
			entry,
			node(2, sdfg.KindTasklet, "mul", []string{"a"}, []string{"b"}),
			exit,
			node(4, sdfg.KindAccessNode, "y", nil, nil),
			node(5, sdfg.KindAccessNode, "tmp", nil, nil),
			node(6, sdfg.KindTasklet, "post", []string{"t"}, []string{"o"}),
		},
		Edges: []*sdfg.Edge{
			edge(0, 1, "", "IN_x"),
			edge(1, 2, "OUT_x", "a"),
			edge(2, 3, "b", "IN_y"),
			edge(3, 5, "OUT_y", ""),
			edge(5, 6, "", "t"),
			edge(6, 4, "o", ""),
		},
		Scopes: map[int][]int{sdfg.NoScope: {0, 1, 3, 4, 5, 6}, 1: {2}},
	}
}

// program builds a tree with every block kind: a state, a loop whose body
// holds a nested SDFG, and a two-way conditional.
func program() *sdfg.SDFG {
	inner := &sdfg.SDFG{CFGID: 3, Name: "inner", Blocks: []*sdfg.Block{mapState(0)}}
	nested := node(0, sdfg.KindNestedSDFG, "inner", []string{"in"}, []string{"out"})
	nested.SDFG = inner

	loop := &sdfg.Block{
		ID:    1,
		Kind:  sdfg.BlockLoopRegion,
		Label: "t_loop",
		CFGID: 1,
		Loop:  &sdfg.Loop{Condition: "t < T", Init: "t = 0", Update: "t = t + 1"},
		Blocks: []*sdfg.Block{
			{ID: 0, Kind: sdfg.BlockState, Nodes: []*sdfg.Node{
				node(1, sdfg.KindAccessNode, "A", nil, nil),
				nested,
				node(2, sdfg.KindAccessNode, "B", nil, nil),
			}, Edges: []*sdfg.Edge{edge(1, 0, "", "in"), edge(0, 2, "out", "")}},
		},
	}

	cond := &sdfg.Block{
		ID:   2,
		Kind: sdfg.BlockConditional,
		Branches: []*sdfg.Branch{
			{Condition: "a > 0", Region: &sdfg.Block{Kind: sdfg.BlockRegion, CFGID: 2, Blocks: []*sdfg.Block{
				{ID: 0, Kind: sdfg.BlockState, Nodes: []*sdfg.Node{node(0, sdfg.KindTasklet, "pos", nil, nil)}},
			}}},
			{Condition: "else", Region: &sdfg.Block{Kind: sdfg.BlockRegion, CFGID: 4, Blocks: []*sdfg.Block{
				{ID: 0, Kind: sdfg.BlockState},
				{ID: 1, Kind: sdfg.BlockState},
			}, InterstateEdges: []*sdfg.InterstateEdge{{Src: 0, Dst: 1}}}},
		},
	}

	return &sdfg.SDFG{
		CFGID:  0,
		Name:   "prog",
		Blocks: []*sdfg.Block{mapState(0), loop, cond},
		Edges:  []*sdfg.InterstateEdge{{Src: 0, Dst: 1}, {Src: 1, Dst: 2, Label: "done"}},
	}
}

func mustRun(t *testing.T, g *sdfg.SDFG, opts Options) *Layout {
	t.Helper()
	if opts.Measurer == nil {
		opts.Measurer = testMeasurer()
	}
	l, err := Run(context.Background(), g, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return l
}

// walk visits every level below and including g.
func walk(g *Graph, fn func(*Graph)) {
	fn(g)
	for _, el := range g.Elements {
		for _, child := range el.Children {
			walk(child, fn)
		}
	}
}

// snapshot prints every coordinate of l.
func snapshot(l *Layout) string {
	var b strings.Builder
	walk(l.Root, func(g *Graph) {
		fmt.Fprintf(&b, "%s %v\n", g.Title(), g.Bounds)
		for _, el := range g.Elements {
			fmt.Fprintf(&b, "  %s %v", el.Key, el.Box)
			for _, c := range append(append([]*Connector{}, el.In...), el.Out...) {
				fmt.Fprintf(&b, " %s@%v", c.Name, c.Box)
			}
			b.WriteString("\n")
		}
		for _, e := range g.Edges {
			fmt.Fprintf(&b, "  %s->%s %v %v\n", e.Src, e.Dst, e.Points, e.Sources)
		}
	})
	return b.String()
}
