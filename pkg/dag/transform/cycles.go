package transform

import (
	"maps"

	"github.com/matzehuels/sdfglayout/pkg/dag"
)

// ReverseCycles makes g acyclic by flipping every back edge found by a
// depth-first search started from the sources in insertion order (then from
// any node not yet reached, which covers graphs whose every node lies on a
// cycle). Flipped edges are tagged with [dag.MetaReversed] so the route
// drawn for them can be turned around again; all other metadata is kept.
//
// Self-loops cannot be flipped into a DAG edge and are removed. Callers that
// need to draw them must remember them before calling ReverseCycles.
//
// Returns the number of edges reversed or removed.
func ReverseCycles(g *dag.DAG) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var back []dag.Edge

	outEdges := make(map[string][]dag.Edge)
	for _, e := range g.Edges() {
		outEdges[e.From] = append(outEdges[e.From], e)
	}

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, e := range outEdges[node] {
			switch color[e.To] {
			case white:
				dfs(e.To)
			case gray:
				back = append(back, e)
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range back {
		g.RemoveEdge(e.From, e.To)
		if e.From == e.To {
			continue
		}
		meta := maps.Clone(e.Meta)
		meta[dag.MetaReversed] = !e.Reversed()
		if err := g.AddEdge(dag.Edge{From: e.To, To: e.From, Meta: meta}); err != nil {
			panic(err)
		}
	}
	return len(back)
}
