package layout

import (
	"slices"

	"github.com/matzehuels/sdfglayout/pkg/sdfg"
)

// AttrKey is the record attribute geometry is projected under.
const AttrKey = "layout"

// Project writes l onto the records of g under [AttrKey]. Blocks and
// nodes get their top-left corner and size, nodes also their connectors,
// and edges their route and bounds. Records without geometry (collapsed
// interiors, withheld nodes) lose any stale entry. Shortcut edges from an
// earlier projection are replaced by the ones in l.
//
// g must be the program l was computed from.
func Project(g *sdfg.SDFG, l *Layout) {
	g.Walk(func(s *sdfg.SDFG) {
		projectRegion(l, s.CFGID, s.Blocks, s.Edges)
	})
}

func projectRegion(l *Layout, cfg int, blocks []*sdfg.Block, edges []*sdfg.InterstateEdge) {
	level, _ := l.Registry.Graph(cfg)
	var routes map[int]*Edge
	if level != nil {
		routes = edgesByIndex(level)
	}
	for i, e := range edges {
		e.Attributes = setGeometry(e.Attributes, edgeAttr(routes[i]))
	}

	for _, b := range blocks {
		el, _ := l.Block(cfg, b.ID)
		b.Attributes = setGeometry(b.Attributes, elementAttr(el))
		switch {
		case b.Kind.HasRegion():
			projectRegion(l, b.CFGID, b.Blocks, b.InterstateEdges)
		case b.Kind == sdfg.BlockConditional:
			for _, br := range b.Branches {
				if br.Region != nil {
					projectRegion(l, br.Region.CFGID, br.Region.Blocks, br.Region.InterstateEdges)
				}
			}
		default:
			projectState(l, cfg, b)
		}
	}
}

func projectState(l *Layout, cfg int, b *sdfg.Block) {
	for _, n := range b.Nodes {
		el, _ := l.Node(cfg, b.ID, n.ID)
		n.Attributes = setGeometry(n.Attributes, elementAttr(el))
	}

	level, ok := l.State(cfg, b.ID)
	var routes map[int]*Edge
	if ok {
		routes = edgesByIndex(level)
	}
	for i, e := range b.Edges {
		e.Attributes = setGeometry(e.Attributes, edgeAttr(routes[i]))
	}
	b.Edges = slices.DeleteFunc(b.Edges, func(e *sdfg.Edge) bool { return e.Shortcut })
	if !ok {
		return
	}
	for _, e := range level.Edges {
		if !e.Shortcut {
			continue
		}
		attr := edgeAttr(e)
		if len(e.Sources) > 0 {
			sources := make([]int, len(e.Sources))
			for i, k := range e.Sources {
				sources[i] = k.ID
			}
			attr["sources"] = sources
		}
		b.Edges = append(b.Edges, &sdfg.Edge{
			Src:        e.Src.ID,
			Dst:        e.Dst.ID,
			SrcConn:    e.SrcConn,
			DstConn:    e.DstConn,
			Label:      e.Label,
			Shortcut:   true,
			Attributes: sdfg.Attributes{AttrKey: attr},
		})
	}
}

func edgesByIndex(g *Graph) map[int]*Edge {
	m := make(map[int]*Edge, len(g.Edges))
	for _, e := range g.Edges {
		if e.Index >= 0 {
			m[e.Index] = e
		}
	}
	return m
}

// setGeometry stores v under AttrKey, or removes the key when v is nil.
func setGeometry(attrs sdfg.Attributes, v map[string]any) sdfg.Attributes {
	if v == nil {
		delete(attrs, AttrKey)
		return attrs
	}
	if attrs == nil {
		attrs = sdfg.Attributes{}
	}
	attrs[AttrKey] = v
	return attrs
}

func rectAttr(r Rect) map[string]any {
	return map[string]any{"x": r.X, "y": r.Y, "width": r.Width, "height": r.Height}
}

func elementAttr(el *Element) map[string]any {
	if el == nil {
		return nil
	}
	attr := rectAttr(el.Rect())
	if len(el.In) > 0 {
		attr["in_connectors"] = connectorAttrs(el.In)
	}
	if len(el.Out) > 0 {
		attr["out_connectors"] = connectorAttrs(el.Out)
	}
	return attr
}

func connectorAttrs(cs []*Connector) []map[string]any {
	out := make([]map[string]any, len(cs))
	for i, c := range cs {
		m := rectAttr(c.Rect())
		m["name"] = c.Name
		out[i] = m
	}
	return out
}

func edgeAttr(e *Edge) map[string]any {
	if e == nil {
		return nil
	}
	points := make([][2]float64, len(e.Points))
	for i, p := range e.Points {
		points[i] = [2]float64{p.X, p.Y}
	}
	return map[string]any{"points": points, "bounds": rectAttr(e.Bounds)}
}
