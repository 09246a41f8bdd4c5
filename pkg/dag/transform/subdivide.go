package transform

import (
	"fmt"
	"maps"

	"github.com/matzehuels/sdfglayout/pkg/dag"
)

// Subdivide breaks edges that span multiple rows into sequences of single-row
// edges connected by synthetic subdivider nodes.
//
// Subdivide ensures every edge in the graph connects nodes in consecutive rows
// (parent.Row + 1 == child.Row). Any edge spanning multiple rows is replaced
// by a chain of zero-sized [dag.NodeKindSubdivider] nodes. For example:
//
//	Before: init (row 0) → exit (row 3)  [spans 3 rows]
//	After:  init → init_sub_1 → init_sub_2 → exit  [3 single-row edges]
//
// Subdividers take part in crossing reduction and coordinate assignment
// like regular nodes; their final positions become the bend points of the
// original edge's route.
//
// # Edge Metadata
//
// Every edge of a subdivided chain carries a copy of the original edge's
// metadata, so the chain can be traced back to the edge it replaced.
//
// # Node IDs
//
// Subdivider nodes are assigned unique IDs of the form "master_sub_row" (e.g.,
// "init_sub_1"). If a collision occurs, a numeric suffix is appended
// ("init_sub_1__2"). All generated IDs are tracked to guarantee uniqueness.
//
// # Performance
//
// Time complexity is O(E·D) where E is edges and D is the row count.
func Subdivide(g *dag.DAG) {
	gen := newIDGen(g.Nodes())
	var toRemove []dag.Edge
	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Row <= src.Row+1 {
			continue
		}

		toRemove = append(toRemove, e)
		prevID := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			prevID = addSubdivider(g, gen, prevID, src.EffectiveID(), row, e.Meta)
		}
		if err := g.AddEdge(dag.Edge{From: prevID, To: dst.ID, Meta: maps.Clone(e.Meta)}); err != nil {
			panic(err)
		}
	}

	for _, e := range toRemove {
		g.RemoveEdge(e.From, e.To)
	}
}

func addSubdivider(g *dag.DAG, gen *idGen, from, master string, row int, meta dag.Metadata) string {
	id := gen.next(master, row)
	if err := g.AddNode(dag.Node{
		ID:       id,
		Row:      row,
		Kind:     dag.NodeKindSubdivider,
		MasterID: master,
	}); err != nil {
		panic(err)
	}
	if err := g.AddEdge(dag.Edge{From: from, To: id, Meta: maps.Clone(meta)}); err != nil {
		panic(err)
	}
	return id
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_sub_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
