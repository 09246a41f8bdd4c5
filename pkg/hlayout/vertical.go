package hlayout

import (
	"context"

	"github.com/matzehuels/sdfglayout/pkg/errors"
)

// Vertical lays out structured control flow as a single column: nodes are
// stacked in reverse postorder from the entry (the first node), edges
// between consecutive nodes are straight, forward edges that skip nodes
// run in lanes to the right and loop back edges in lanes to the left.
//
// Vertical only accepts reducible graphs: every back edge must target a
// node that dominates its source. Anything else returns an error with code
// IRREDUCIBLE; callers are expected to fall back to a general engine.
type Vertical struct{}

func (Vertical) Name() string { return EngineVertical }

// Layout lays out g in place.
func (Vertical) Layout(_ context.Context, g *Graph) error {
	if len(g.nodes) == 0 {
		g.fit()
		return nil
	}
	cf := newFlowGraph(g)
	order, back, err := cf.structuredOrder()
	if err != nil {
		return err
	}

	slot := make(map[string]int, len(order))
	maxW := 0.0
	for i, id := range order {
		slot[id] = i
		n, _ := g.Node(id)
		maxW = max(maxW, n.Width)
	}

	y := 0.0
	for _, id := range order {
		n, _ := g.Node(id)
		n.X = maxW / 2
		n.Y = y + n.Height/2
		y += n.Height + g.RankSep
	}

	lane := g.NodeSep / 2
	leftLanes, rightLanes := 0, 0
	for i, e := range g.edges {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		switch {
		case e.From == e.To:
			e.Points = selfLoopRoute(src, g.NodeSep)
		case !back[i] && slot[e.To] == slot[e.From]+1:
			e.Points = route(src, dst)
		default:
			var x float64
			if back[i] {
				leftLanes++
				x = src.X - maxW/2 - float64(leftLanes)*lane
			} else {
				rightLanes++
				x = src.X + maxW/2 + float64(rightLanes)*lane
			}
			e.Points = []Point{
				{src.X, src.Bottom()},
				{x, src.Bottom() + g.RankSep/2},
				{x, dst.Top() - g.RankSep/2},
				{dst.X, dst.Top()},
			}
		}
	}
	g.fit()
	return nil
}

// flowGraph is an index-based view of a Graph for dominance analysis.
type flowGraph struct {
	g     *Graph
	ids   []string
	index map[string]int
	succ  [][]int // successor node indices
	succE [][]int // edge index of each successor
}

func newFlowGraph(g *Graph) *flowGraph {
	f := &flowGraph{g: g, index: make(map[string]int, len(g.nodes))}
	for i, n := range g.nodes {
		f.ids = append(f.ids, n.ID)
		f.index[n.ID] = i
	}
	f.succ = make([][]int, len(g.nodes))
	f.succE = make([][]int, len(g.nodes))
	for i, e := range g.edges {
		u, v := f.index[e.From], f.index[e.To]
		f.succ[u] = append(f.succ[u], v)
		f.succE[u] = append(f.succE[u], i)
	}
	return f
}

// structuredOrder returns node IDs in reverse postorder and the set of back
// edges (by edge index). The DFS starts at the first node, then at every
// other unreached source, then at any node still unreached. It fails with
// IRREDUCIBLE when a back edge's target does not dominate its source.
func (f *flowGraph) structuredOrder() ([]string, map[int]bool, error) {
	n := len(f.ids)
	const (
		white = iota
		gray
		black
	)
	color := make([]int, n)
	post := make([]int, 0, n)
	back := make(map[int]bool)
	var roots []int

	var dfs func(u int)
	dfs = func(u int) {
		color[u] = gray
		// Successors are visited last to first so that reverse postorder
		// lists them in edge order.
		for k := len(f.succ[u]) - 1; k >= 0; k-- {
			v := f.succ[u][k]
			switch color[v] {
			case white:
				dfs(v)
			case gray:
				back[f.succE[u][k]] = true
			}
		}
		color[u] = black
		post = append(post, u)
	}

	indeg := make([]int, n)
	for _, ss := range f.succ {
		for _, v := range ss {
			indeg[v]++
		}
	}
	candidates := []int{0}
	for i := 1; i < n; i++ {
		if indeg[i] == 0 {
			candidates = append(candidates, i)
		}
	}
	for i := 1; i < n; i++ {
		candidates = append(candidates, i)
	}
	for _, r := range candidates {
		if color[r] == white {
			roots = append(roots, r)
			dfs(r)
		}
	}

	// Reverse postorder, with a virtual root (index n) in front.
	rpo := make([]int, 0, n+1)
	rpo = append(rpo, n)
	for i := len(post) - 1; i >= 0; i-- {
		rpo = append(rpo, post[i])
	}

	idom := f.dominators(rpo, roots)
	for u := range f.succ {
		for k, v := range f.succ[u] {
			if back[f.succE[u][k]] && !dominates(idom, v, u, n) {
				return nil, nil, errors.New(errors.ErrCodeIrreducible,
					"back edge %s->%s enters a loop that %s does not dominate", f.ids[u], f.ids[v], f.ids[v])
			}
		}
	}

	order := make([]string, 0, n)
	for _, u := range rpo[1:] {
		order = append(order, f.ids[u])
	}
	return order, back, nil
}

// dominators computes immediate dominators with the iterative algorithm of
// Cooper, Harvey and Kennedy. The virtual root n precedes every DFS root.
func (f *flowGraph) dominators(rpo []int, roots []int) []int {
	n := len(f.ids)
	num := make([]int, n+1)
	for i, b := range rpo {
		num[b] = i
	}
	preds := make([][]int, n+1)
	for u, ss := range f.succ {
		for _, v := range ss {
			preds[v] = append(preds[v], u)
		}
	}
	for _, r := range roots {
		preds[r] = append(preds[r], n)
	}

	idom := make([]int, n+1)
	for i := range idom {
		idom[i] = -1
	}
	idom[n] = n

	intersect := func(a, b int) int {
		for a != b {
			for num[a] > num[b] {
				a = idom[a]
			}
			for num[b] > num[a] {
				b = idom[b]
			}
		}
		return a
	}

	for changed := true; changed; {
		changed = false
		for _, b := range rpo[1:] {
			newIdom := -1
			for _, p := range preds[b] {
				if idom[p] == -1 {
					continue
				}
				if newIdom == -1 {
					newIdom = p
				} else {
					newIdom = intersect(p, newIdom)
				}
			}
			if newIdom != -1 && idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	return idom
}

// dominates reports whether a dominates b.
func dominates(idom []int, a, b, root int) bool {
	for {
		if b == a {
			return true
		}
		if b == root || idom[b] == -1 {
			return false
		}
		b = idom[b]
	}
}
