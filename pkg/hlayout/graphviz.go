package hlayout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sdfglayout/pkg/errors"
)

const pointsPerInch = 72.0

// Graphviz lays out a graph with the Graphviz dot engine. Nodes keep their
// sizes (fixedsize boxes) and edges keep their insertion order.
type Graphviz struct{}

func (Graphviz) Name() string { return EngineGraphviz }

// Layout lays out g in place.
func (Graphviz) Layout(ctx context.Context, g *Graph) error {
	if len(g.nodes) == 0 {
		g.fit()
		return nil
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLayoutFailed, err, "init graphviz")
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(ToDOT(g, false)))
	if err != nil {
		return errors.Wrap(errors.ErrCodeLayoutFailed, err, "parse DOT")
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.XDOT, &buf); err != nil {
		return errors.Wrap(errors.ErrCodeLayoutFailed, err, "render")
	}
	if err := applyDOTLayout(g, buf.String()); err != nil {
		return err
	}
	g.fit()
	return nil
}

// ToDOT converts g to Graphviz DOT. Nodes are named n0, n1, ... and edges
// e0, e1, ... in insertion order; the original IDs are kept in the id
// attribute. With pinned set, nodes carry their laid-out positions and
// labels, which makes the output a faithful export of a finished layout.
func ToDOT(g *Graph, pinned bool) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ordering=out;\n")
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(g.NodeSep))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(g.RankSep))
	buf.WriteString("  node [shape=box, fixedsize=true];\n")
	buf.WriteString("\n")

	names := make(map[string]string, len(g.nodes))
	for i, n := range g.nodes {
		name := fmt.Sprintf("n%d", i)
		names[n.ID] = name
		attrs := []string{
			"width=" + inches(n.Width),
			"height=" + inches(n.Height),
			fmt.Sprintf("id=%q", n.ID),
		}
		if pinned {
			attrs = append(attrs,
				fmt.Sprintf("label=%q", n.Label),
				fmt.Sprintf("pos=\"%s,%s!\"", num(n.X), num(g.Height-n.Y)))
		} else {
			attrs = append(attrs, `label=""`)
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, e := range g.edges {
		fmt.Fprintf(&buf, "  %s -> %s [id=\"e%d\"];\n", names[e.From], names[e.To], i)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inches(v float64) string {
	return num(max(v/pointsPerInch, 0.01))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var (
	bbRe      = regexp.MustCompile(`bb="([-0-9.e+]+),([-0-9.e+]+),([-0-9.e+]+),([-0-9.e+]+)"`)
	dotNodeRe = regexp.MustCompile(`(?m)^\s*n(\d+)\s*\[([^\]]*)\]`)
	dotEdgeRe = regexp.MustCompile(`(?m)^\s*n\d+\s*->\s*n\d+\s*\[([^\]]*)\]`)
	posRe     = regexp.MustCompile(`\bpos="([^"]*)"`)
	edgeIDRe  = regexp.MustCompile(`\bid="?e(\d+)"?`)
)

// applyDOTLayout reads node centers and edge splines from laid-out DOT
// output. Graphviz puts the origin at the bottom left; y is flipped.
func applyDOTLayout(g *Graph, out string) error {
	out = strings.ReplaceAll(out, "\\\n", "")

	bb := bbRe.FindStringSubmatch(out)
	if bb == nil {
		return errors.New(errors.ErrCodeLayoutFailed, "graphviz output has no bounding box")
	}
	top, _ := strconv.ParseFloat(bb[4], 64)

	placed := make([]bool, len(g.nodes))
	for _, m := range dotNodeRe.FindAllStringSubmatch(out, -1) {
		i, err := strconv.Atoi(m[1])
		if err != nil || i >= len(g.nodes) {
			continue
		}
		pos := posRe.FindStringSubmatch(m[2])
		if pos == nil {
			continue
		}
		p, err := parsePoint(strings.TrimSuffix(pos[1], "!"))
		if err != nil {
			return err
		}
		g.nodes[i].X, g.nodes[i].Y = p.X, top-p.Y
		placed[i] = true
	}
	for i, ok := range placed {
		if !ok {
			return errors.New(errors.ErrCodeLayoutFailed, "graphviz did not place node %q", g.nodes[i].ID)
		}
	}

	for _, m := range dotEdgeRe.FindAllStringSubmatch(out, -1) {
		id := edgeIDRe.FindStringSubmatch(m[1])
		pos := posRe.FindStringSubmatch(m[1])
		if id == nil || pos == nil {
			continue
		}
		i, err := strconv.Atoi(id[1])
		if err != nil || i >= len(g.edges) {
			continue
		}
		pts, err := parseSpline(pos[1])
		if err != nil {
			return err
		}
		for k := range pts {
			pts[k].Y = top - pts[k].Y
		}
		g.edges[i].Points = pts
	}

	for _, e := range g.edges {
		if len(e.Points) >= 2 {
			continue
		}
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		if e.From == e.To {
			e.Points = selfLoopRoute(src, g.NodeSep)
		} else {
			e.Points = route(src, dst)
		}
	}
	return nil
}

// parseSpline turns a Graphviz spline ("s,x,y e,x,y p0 c1 c2 p1 ...") into
// a polyline through the on-curve points, with the arrow endpoints added.
func parseSpline(s string) ([]Point, error) {
	var (
		start, end *Point
		curve      []Point
	)
	for _, tok := range strings.Fields(s) {
		switch {
		case strings.HasPrefix(tok, "s,"):
			p, err := parsePoint(tok[2:])
			if err != nil {
				return nil, err
			}
			start = &p
		case strings.HasPrefix(tok, "e,"):
			p, err := parsePoint(tok[2:])
			if err != nil {
				return nil, err
			}
			end = &p
		default:
			p, err := parsePoint(tok)
			if err != nil {
				return nil, err
			}
			curve = append(curve, p)
		}
	}

	var pts []Point
	if start != nil {
		pts = append(pts, *start)
	}
	for i := 0; i < len(curve); i += 3 {
		pts = append(pts, curve[i])
	}
	if n := len(curve); n > 0 && (n-1)%3 != 0 {
		pts = append(pts, curve[n-1])
	}
	if end != nil {
		pts = append(pts, *end)
	}
	return pts, nil
}

func parsePoint(s string) (Point, error) {
	x, y, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, errors.New(errors.ErrCodeLayoutFailed, "malformed graphviz point %q", s)
	}
	px, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return Point{}, errors.Wrap(errors.ErrCodeLayoutFailed, err, "parse point %q", s)
	}
	py, err := strconv.ParseFloat(y, 64)
	if err != nil {
		return Point{}, errors.Wrap(errors.ErrCodeLayoutFailed, err, "parse point %q", s)
	}
	return Point{px, py}, nil
}
