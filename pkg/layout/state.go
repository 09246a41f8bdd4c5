package layout

import (
	"slices"
	"strconv"

	"github.com/matzehuels/sdfglayout/pkg/errors"
	"github.com/matzehuels/sdfglayout/pkg/hlayout"
	"github.com/matzehuels/sdfglayout/pkg/sdfg"
)

// flowEdge is a dataflow edge after collapsed scopes have been folded.
type flowEdge struct {
	index            int
	src, dst         int
	srcConn, dstConn string
	label            string
}

// withheld records a pass-through node kept out of the drawing and the
// flow edges (by position) entering and leaving it.
type withheld struct {
	in, out []int
}

func nodeID(id int) string { return "n" + strconv.Itoa(id) }

// layoutState lays out the dataflow graph of state b in cfg.
func (p *pass) layoutState(cfg int, b *sdfg.Block) (*Graph, error) {
	nodes := make(map[int]*sdfg.Node, len(b.Nodes))
	for _, n := range b.Nodes {
		if _, dup := nodes[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "state %d of cfg %d has duplicate node id %d", b.ID, cfg, n.ID)
		}
		nodes[n.ID] = n
	}
	hidden, exitEntry, hiddenBy := hiddenByScope(b, nodes)
	edges := foldEdges(b, nodes, hidden, exitEntry)

	var held map[int]*withheld
	if p.omit {
		held = withholdPassThrough(b, hidden, edges)
	}

	level := &Graph{CFGID: cfg, State: b.ID}
	hg := hlayout.NewGraph(stateNodeSep, stateRankSep)
	elements := make(map[int]*Element)
	for _, n := range b.Nodes {
		if hidden[n.ID] {
			if n.SDFG != nil {
				p.reg.adopt(n.SDFG.CFGIDs(), NodeKey(cfg, b.ID, hiddenBy(n.ID)))
			}
			continue
		}
		if held[n.ID] != nil {
			continue
		}
		el, err := p.sizeNode(cfg, b.ID, n, nodes)
		if err != nil {
			return nil, err
		}
		elements[n.ID] = el
		level.Elements = append(level.Elements, el)
		hg.AddNode(nodeID(n.ID), el.Width, el.Height).Label = el.Label
	}

	for _, e := range edges {
		if held[e.src] != nil || held[e.dst] != nil {
			continue
		}
		level.Edges = append(level.Edges, &Edge{
			Index:   e.index,
			Src:     NodeKey(cfg, b.ID, e.src),
			Dst:     NodeKey(cfg, b.ID, e.dst),
			SrcConn: e.srcConn,
			DstConn: e.dstConn,
			Label:   e.label,
		})
	}
	if held != nil {
		level.Edges = append(level.Edges, shortcuts(cfg, b.ID, edges, held)...)
	}
	for _, e := range level.Edges {
		if _, err := hg.AddEdge(nodeID(e.Src.ID), nodeID(e.Dst.ID)); err != nil {
			return nil, err
		}
	}

	eng := p.engineFor(len(level.Elements))
	if err := p.run(eng, hg, cfg, b.ID); err != nil {
		return nil, err
	}
	level.Engine = eng.Name()

	for _, el := range level.Elements {
		hn, _ := hg.Node(nodeID(el.Key.ID))
		el.X, el.Y = hn.X, hn.Y
		n := nodes[el.Key.ID]
		placeConnectors(el, n.InConnectors, outConnectors(n, nodes))
		for _, child := range el.Children {
			if err := child.place(el.X-child.Bounds.Width/2, el.Y-child.Bounds.Height/2); err != nil {
				return nil, err
			}
		}
	}
	for i, e := range level.Edges {
		pts := slices.Clone(hg.Edges()[i].Points)
		anchor(pts, elements[e.Src.ID], elements[e.Dst.ID], e)
		e.Points = straighten(pts)
		e.Bounds = pointBounds(e.Points)
	}

	level.normalize()
	return level, nil
}

// sizeNode builds the unpositioned element for n, laying out its nested
// program first when it has an expanded one.
func (p *pass) sizeNode(cfg, state int, n *sdfg.Node, nodes map[int]*sdfg.Node) (*Element, error) {
	key := NodeKey(cfg, state, n.ID)
	kind := n.TypeName
	if kind == "" {
		kind = n.Kind.String()
	}
	el := &Element{Key: key, Kind: kind, Label: n.DisplayLabel(), Collapsed: n.Collapsed}

	size, err := NodeSize(p.m, n, len(n.InConnectors), len(outConnectors(n, nodes)))
	if err != nil {
		return nil, err
	}
	if n.Kind == sdfg.KindNestedSDFG && n.SDFG != nil && !n.Collapsed {
		child, err := p.layoutProgram(n.SDFG, &key)
		if err != nil {
			return nil, err
		}
		size.Width = max(size.Width, child.Bounds.Width+2*NestedInset)
		size.Height = max(size.Height, child.Bounds.Height+2*NestedInset)
		el.Children = []*Graph{child}
	} else if n.Kind == sdfg.KindNestedSDFG && n.SDFG != nil {
		p.reg.adopt(n.SDFG.CFGIDs(), key)
	}
	el.Width, el.Height = size.Width, size.Height
	return el, nil
}

// outConnectors returns the out-connectors drawn on n. A collapsed scope
// entry shows the out-connectors of its exit.
func outConnectors(n *sdfg.Node, nodes map[int]*sdfg.Node) []string {
	if n.Kind.IsScopeEntry() && n.Collapsed {
		if exit, ok := nodes[n.ScopeExit]; ok {
			return exit.OutConnectors
		}
	}
	return n.OutConnectors
}

// hiddenByScope returns the nodes inside collapsed scopes, including the
// scopes' exits, and maps each collapsed exit to its entry. The returned
// func resolves a hidden node to the visible collapsed entry around it.
// Scope references to missing nodes are ignored.
func hiddenByScope(b *sdfg.Block, nodes map[int]*sdfg.Node) (map[int]bool, map[int]int, func(int) int) {
	hidden := make(map[int]bool)
	exitEntry := make(map[int]int)
	parent := make(map[int]int)

	var hide func(scope, depth int)
	hide = func(scope, depth int) {
		if depth > len(b.Nodes) {
			return
		}
		for _, id := range b.ScopeChildren(scope) {
			if id == scope || hidden[id] {
				continue
			}
			if _, ok := nodes[id]; !ok {
				continue
			}
			hidden[id] = true
			parent[id] = scope
			hide(id, depth+1)
		}
	}

	for _, n := range b.Nodes {
		if !n.Kind.IsScopeEntry() || !n.Collapsed {
			continue
		}
		if exit, ok := nodes[n.ScopeExit]; ok && exit.ID != n.ID {
			exitEntry[exit.ID] = n.ID
		}
		hide(n.ID, 0)
	}
	for exit, entry := range exitEntry {
		hidden[exit] = true
		if _, ok := parent[exit]; !ok {
			parent[exit] = entry
		}
	}
	hiddenBy := func(id int) int {
		for range len(nodes) {
			if !hidden[id] {
				break
			}
			id = parent[id]
		}
		return id
	}
	return hidden, exitEntry, hiddenBy
}

// foldEdges returns the edges to consider for drawing: prior shortcuts and
// dangling edges are skipped, edges leaving a collapsed scope's exit start
// at its entry instead, and edges touching other hidden nodes are dropped.
func foldEdges(b *sdfg.Block, nodes map[int]*sdfg.Node, hidden map[int]bool, exitEntry map[int]int) []flowEdge {
	var out []flowEdge
	for i, e := range b.Edges {
		if e.Shortcut {
			continue
		}
		if _, ok := nodes[e.Src]; !ok {
			continue
		}
		if _, ok := nodes[e.Dst]; !ok {
			continue
		}
		src, dst := e.Src, e.Dst
		redirected := false
		if entry, ok := exitEntry[src]; ok {
			src, redirected = entry, true
		}
		if entry, ok := exitEntry[dst]; ok {
			dst, redirected = entry, true
		}
		if hidden[src] || hidden[dst] || (redirected && src == dst) {
			continue
		}
		out = append(out, flowEdge{
			index:   i,
			src:     src,
			dst:     dst,
			srcConn: e.SrcConn,
			dstConn: e.DstConn,
			label:   e.Label,
		})
	}
	return out
}

// withholdPassThrough picks the omittable nodes with at least one producer
// and one consumer.
func withholdPassThrough(b *sdfg.Block, hidden map[int]bool, edges []flowEdge) map[int]*withheld {
	indeg := make(map[int]int)
	outdeg := make(map[int]int)
	for _, e := range edges {
		outdeg[e.src]++
		indeg[e.dst]++
	}
	held := make(map[int]*withheld)
	for _, n := range b.Nodes {
		if hidden[n.ID] || !n.Kind.Omittable() {
			continue
		}
		if indeg[n.ID] > 0 && outdeg[n.ID] > 0 {
			held[n.ID] = &withheld{}
		}
	}
	for i, e := range edges {
		if w := held[e.dst]; w != nil {
			w.in = append(w.in, i)
		}
		if w := held[e.src]; w != nil {
			w.out = append(w.out, i)
		}
	}
	return held
}

// shortcuts merges the edges through withheld nodes. Every drawn producer
// feeding a withheld node is connected to every drawn consumer reachable
// through withheld nodes. One shortcut is kept per destination connector;
// other producers reaching the same connector are added to its Sources.
func shortcuts(cfg, state int, edges []flowEdge, held map[int]*withheld) []*Edge {
	type target struct {
		dst  int
		conn string
	}
	byTarget := make(map[target]*Edge)
	var out []*Edge

	for _, e := range edges {
		if held[e.src] != nil || held[e.dst] == nil {
			continue
		}
		src := NodeKey(cfg, state, e.src)
		for _, exit := range consumers(e.dst, edges, held) {
			t := target{exit.dst, exit.dstConn}
			if sc, ok := byTarget[t]; ok {
				if sc.Src != src && !slices.Contains(sc.Sources, src) {
					sc.Sources = append(sc.Sources, src)
				}
				continue
			}
			sc := &Edge{
				Index:    -1,
				Src:      src,
				Dst:      NodeKey(cfg, state, exit.dst),
				SrcConn:  e.srcConn,
				DstConn:  exit.dstConn,
				Label:    e.label,
				Shortcut: true,
			}
			byTarget[t] = sc
			out = append(out, sc)
		}
	}
	return out
}

// consumers returns the edges that leave the withheld region entered at
// start, following chains of withheld nodes.
func consumers(start int, edges []flowEdge, held map[int]*withheld) []flowEdge {
	var out []flowEdge
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		w := held[queue[0]]
		queue = queue[1:]
		for _, i := range w.out {
			e := edges[i]
			if held[e.dst] == nil {
				out = append(out, e)
				continue
			}
			if !seen[e.dst] {
				seen[e.dst] = true
				queue = append(queue, e.dst)
			}
		}
	}
	return out
}

// anchor moves the route's end points onto the connectors the edge is
// attached to. Unknown connectors leave the engine's end points in place.
func anchor(pts []Point, src, dst *Element, e *Edge) {
	if len(pts) == 0 {
		return
	}
	if src != nil {
		if c, ok := src.Connector(Out, e.SrcConn); ok {
			pts[0] = Point{X: c.X, Y: c.Y}
		}
	}
	if dst != nil {
		if c, ok := dst.Connector(In, e.DstConn); ok {
			pts[len(pts)-1] = Point{X: c.X, Y: c.Y}
		}
	}
}

// straighten collapses a three-point route whose ends share an x
// coordinate into a straight segment.
func straighten(pts []Point) []Point {
	if len(pts) == 3 && pts[0].X == pts[2].X {
		return []Point{pts[0], pts[2]}
	}
	return pts
}
