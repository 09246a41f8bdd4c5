package layout

import "github.com/matzehuels/sdfglayout/pkg/errors"

// translate shifts every coordinate of g and of all levels nested inside
// it by (dx, dy).
func (g *Graph) translate(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	g.Bounds.X += dx
	g.Bounds.Y += dy
	for _, el := range g.Elements {
		el.X += dx
		el.Y += dy
		for _, c := range el.In {
			c.X += dx
			c.Y += dy
		}
		for _, c := range el.Out {
			c.X += dx
			c.Y += dy
		}
		for i := range el.Labels {
			el.Labels[i].X += dx
			el.Labels[i].Y += dy
		}
		for _, child := range el.Children {
			child.translate(dx, dy)
		}
	}
	for _, e := range g.Edges {
		for i := range e.Points {
			e.Points[i].X += dx
			e.Points[i].Y += dy
		}
		e.Bounds.X += dx
		e.Bounds.Y += dy
	}
}

// place moves g so that its bounds start at (x, y). Every level is placed
// by exactly one container; a second placement is an error.
func (g *Graph) place(x, y float64) error {
	if g.placed {
		return errors.New(errors.ErrCodeDoubleOffset, "level cfg=%d state=%d placed twice", g.CFGID, g.State)
	}
	g.translate(x-g.Bounds.X, y-g.Bounds.Y)
	g.placed = true
	return nil
}

// normalize recomputes the bounds and moves the level to the origin.
func (g *Graph) normalize() {
	g.Bounds = BoundingBox(g.Elements, g.Edges)
	g.translate(-g.Bounds.X, -g.Bounds.Y)
}
