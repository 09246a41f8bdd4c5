package layout

import "math"

// extent accumulates the bounds of points and rectangles.
type extent struct {
	minX, minY, maxX, maxY float64
	any                    bool
}

func (e *extent) add(x, y float64) {
	if !e.any {
		e.minX, e.maxX, e.minY, e.maxY = x, x, y, y
		e.any = true
		return
	}
	e.minX, e.maxX = math.Min(e.minX, x), math.Max(e.maxX, x)
	e.minY, e.maxY = math.Min(e.minY, y), math.Max(e.maxY, y)
}

func (e *extent) addRect(r Rect) {
	e.add(r.X, r.Y)
	e.add(r.Right(), r.Bottom())
}

func (e *extent) rect() Rect {
	if !e.any {
		return Rect{}
	}
	return Rect{X: e.minX, Y: e.minY, Width: e.maxX - e.minX, Height: e.maxY - e.minY}
}

// BoundingBox returns the smallest rectangle covering the elements, their
// connectors and labels, and every point of the edges. It returns the zero
// Rect when there is nothing to cover.
func BoundingBox(elements []*Element, edges []*Edge) Rect {
	var ext extent
	for _, el := range elements {
		ext.addRect(el.Rect())
		for _, c := range el.In {
			ext.addRect(c.Rect())
		}
		for _, c := range el.Out {
			ext.addRect(c.Rect())
		}
		for _, l := range el.Labels {
			ext.addRect(l.Rect())
		}
	}
	for _, e := range edges {
		for _, p := range e.Points {
			ext.add(p.X, p.Y)
		}
	}
	return ext.rect()
}

// pointBounds returns the extent of a polyline.
func pointBounds(points []Point) Rect {
	var ext extent
	for _, p := range points {
		ext.add(p.X, p.Y)
	}
	return ext.rect()
}
