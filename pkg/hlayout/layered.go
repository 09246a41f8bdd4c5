package hlayout

import (
	"context"
	"slices"

	"github.com/matzehuels/sdfglayout/pkg/dag"
	"github.com/matzehuels/sdfglayout/pkg/dag/transform"
	"github.com/matzehuels/sdfglayout/pkg/errors"
)

const (
	defaultSweeps = 4
	alignPasses   = 4
)

// Layered is a deterministic layered layout: cycles are reversed, nodes
// assigned to rows, long edges subdivided, rows ordered by barycenter
// sweeps, and x coordinates aligned towards each node's neighbors.
// Reversed edges are routed from their original source.
type Layered struct {
	// Ranking selects the layer assignment. The zero value tightens
	// longest-path layers.
	Ranking transform.Ranking
	// Sweeps bounds the ordering sweeps; zero selects the default.
	Sweeps int
}

// Quick returns the cheap configuration used for very large graphs:
// longest-path ranking and a single ordering sweep.
func Quick() Layered {
	return Layered{Ranking: transform.RankLongestPath, Sweeps: 1}
}

func (Layered) Name() string { return EngineLayered }

// Layout lays out g in place.
func (l Layered) Layout(_ context.Context, g *Graph) error {
	if len(g.nodes) == 0 {
		g.fit()
		return nil
	}

	d := dag.New()
	for _, n := range g.nodes {
		if err := d.AddNode(dag.Node{ID: n.ID, Width: n.Width, Height: n.Height}); err != nil {
			return err
		}
	}
	for i, e := range g.edges {
		if e.From == e.To {
			continue
		}
		if err := d.AddEdge(dag.Edge{From: e.From, To: e.To, Meta: dag.Metadata{dag.MetaIndex: i}}); err != nil {
			return err
		}
	}

	transform.Normalize(d, l.Ranking)
	if err := d.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeLayoutFailed, err, "normalize layered graph")
	}
	sweeps := l.Sweeps
	if sweeps <= 0 {
		sweeps = defaultSweeps
	}
	orders := transform.OrderRows(d, sweeps)

	pos := assignCoordinates(d, orders, g.NodeSep, g.RankSep)
	for _, n := range g.nodes {
		p := pos[n.ID]
		n.X, n.Y = p.X, p.Y
	}
	routeChains(d, g, pos)
	g.fit()
	return nil
}

// assignCoordinates stacks rows top to bottom and places each row left to
// right, then repeatedly pulls nodes towards the mean x of their neighbors
// in the previous row (downward passes) or next row (upward passes) while
// keeping row order and spacing.
func assignCoordinates(d *dag.DAG, orders map[int][]string, nodeSep, rankSep float64) map[string]Point {
	rowIDs := d.RowIDs()
	pos := make(map[string]Point, d.NodeCount())
	width := func(id string) float64 {
		n, _ := d.Node(id)
		return n.Width
	}

	y := 0.0
	for _, r := range rowIDs {
		h := 0.0
		for _, id := range orders[r] {
			n, _ := d.Node(id)
			h = max(h, n.Height)
		}
		x := 0.0
		for _, id := range orders[r] {
			w := width(id)
			pos[id] = Point{X: x + w/2, Y: y + h/2}
			x += w + nodeSep
		}
		y += h + rankSep
	}

	place := func(row []string, neighbors func(string) []string) {
		desired := make([]float64, len(row))
		for i, id := range row {
			desired[i] = pos[id].X
			sum, n := 0.0, 0
			for _, nb := range neighbors(id) {
				sum += pos[nb].X
				n++
			}
			if n > 0 {
				desired[i] = sum / float64(n)
			}
		}
		xs := packRow(row, desired, width, nodeSep)
		for i, id := range row {
			p := pos[id]
			p.X = xs[i]
			pos[id] = p
		}
	}

	for pass := 0; pass < alignPasses; pass++ {
		for _, r := range rowIDs[1:] {
			place(orders[r], d.Parents)
		}
		for j := len(rowIDs) - 2; j >= 0; j-- {
			place(orders[rowIDs[j]], d.Children)
		}
	}
	return pos
}

// packRow returns x centers as close to desired as the spacing allows. A
// left-to-right sweep pushes nodes right and a right-to-left sweep pushes
// them left; both satisfy the spacing constraints, so their average does
// too.
func packRow(row []string, desired []float64, width func(string) float64, sep float64) []float64 {
	n := len(row)
	gap := func(i int) float64 { return (width(row[i-1])+width(row[i]))/2 + sep }

	left := slices.Clone(desired)
	for i := 1; i < n; i++ {
		left[i] = max(left[i], left[i-1]+gap(i))
	}
	right := slices.Clone(desired)
	for i := n - 2; i >= 0; i-- {
		right[i] = min(right[i], right[i+1]-gap(i+1))
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = (left[i] + right[i]) / 2
	}
	return out
}

// routeChains turns every edge's chain of subdividers into a polyline.
func routeChains(d *dag.DAG, g *Graph, pos map[string]Point) {
	type hop struct {
		index int
		from  string
	}
	next := make(map[hop]string)
	reversed := make(map[int]bool)
	for _, e := range d.Edges() {
		i := e.Index()
		next[hop{i, e.From}] = e.To
		if e.Reversed() {
			reversed[i] = true
		}
	}

	box := func(id string) *Node {
		n, _ := d.Node(id)
		p := pos[id]
		return &Node{ID: id, Width: n.Width, Height: n.Height, X: p.X, Y: p.Y}
	}

	for i, e := range g.edges {
		if e.From == e.To {
			n, _ := g.Node(e.From)
			e.Points = selfLoopRoute(n, g.NodeSep)
			continue
		}
		start := e.From
		if reversed[i] {
			start = e.To
		}
		src := box(start)
		points := []Point{{src.X, src.Bottom()}}
		cur := start
		for {
			to, ok := next[hop{i, cur}]
			if !ok {
				break
			}
			n, _ := d.Node(to)
			if !n.IsSubdivider() {
				dst := box(to)
				points = append(points, Point{dst.X, dst.Top()})
				break
			}
			p := pos[to]
			points = append(points, p)
			cur = to
		}
		if len(points) < 2 {
			a, _ := g.Node(e.From)
			b, _ := g.Node(e.To)
			points = route(a, b)
		}
		if reversed[i] {
			slices.Reverse(points)
		}
		e.Points = points
	}
}
