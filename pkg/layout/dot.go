package layout

import (
	"strconv"

	"github.com/matzehuels/sdfglayout/pkg/hlayout"
)

// DOT exports g with its computed positions pinned, suitable for neato -n
// or for inspection with any Graphviz viewer. Coordinates are relative to
// the level's bounds.
func (g *Graph) DOT() string {
	hg := hlayout.NewGraph(blockNodeSep, blockRankSep)
	if g.IsState() {
		hg = hlayout.NewGraph(stateNodeSep, stateRankSep)
	}
	hg.Width, hg.Height = g.Bounds.Width, g.Bounds.Height

	ids := make(map[Key]string, len(g.Elements))
	for _, el := range g.Elements {
		id := el.Key.String()
		ids[el.Key] = id
		n := hg.AddNode(id, el.Width, el.Height)
		n.Label = el.Label
		n.X, n.Y = el.X-g.Bounds.X, el.Y-g.Bounds.Y
	}
	for _, e := range g.Edges {
		src, ok1 := ids[e.Src]
		dst, ok2 := ids[e.Dst]
		if !ok1 || !ok2 {
			continue
		}
		_, _ = hg.AddEdge(src, dst)
	}
	return hlayout.ToDOT(hg, true)
}

// Title names the level for display, e.g. "cfg 3" or "cfg 0 state 2".
func (g *Graph) Title() string {
	if g.IsState() {
		return "cfg " + strconv.Itoa(g.CFGID) + " state " + strconv.Itoa(g.State)
	}
	return "cfg " + strconv.Itoa(g.CFGID)
}
