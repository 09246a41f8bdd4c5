package layout

import (
	"testing"

	"github.com/matzehuels/sdfglayout/pkg/errors"
	"github.com/matzehuels/sdfglayout/pkg/sdfg"
)

func TestConnectorRowWidth(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 0},
		{1, LineHeight},
		{2, 3 * LineHeight},
		{5, 9 * LineHeight},
	}
	for _, tt := range tests {
		if got := connectorRowWidth(tt.n); got != tt.want {
			t.Errorf("connectorRowWidth(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestNodeSize(t *testing.T) {
	const sans = 10 * 0.55
	tests := []struct {
		name    string
		node    *sdfg.Node
		in, out int
		wantW   float64
		wantH   float64
	}{
		{
			name:  "tasklet widened by connectors",
			node:  node(0, sdfg.KindTasklet, "mul", nil, nil),
			in:    2,
			out:   1,
			wantW: 3*LineHeight + 2*NodeBaseHeight/3,
			wantH: NodeBaseHeight / 1.75,
		},
		{
			name:  "access node",
			node:  node(0, sdfg.KindAccessNode, "x", nil, nil),
			wantW: sans + 2*LineHeight,
			wantH: 2 * LineHeight,
		},
		{
			name:  "map entry",
			node:  node(0, sdfg.KindMapEntry, "i", nil, nil),
			in:    1,
			out:   1,
			wantW: LineHeight + 2*NodeBaseHeight,
			wantH: NodeBaseHeight / 1.75,
		},
		{
			name:  "reduce",
			node:  node(0, sdfg.KindReduce, "r", nil, nil),
			wantW: 2 * sans,
			wantH: 2 * sans / 3,
		},
		{
			name:  "unknown kind is a plain box",
			node:  node(0, sdfg.KindUnknown, "custom", nil, nil),
			wantW: 6 * sans,
			wantH: NodeBaseHeight,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NodeSize(testMeasurer(), tt.node, tt.in, tt.out)
			if err != nil {
				t.Fatal(err)
			}
			if !approx(got.Width, tt.wantW) || !approx(got.Height, tt.wantH) {
				t.Errorf("NodeSize = %+v, want %vx%v", got, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestCollapsedBlockSize(t *testing.T) {
	m := testMeasurer()
	loop := &sdfg.Block{
		Kind:      sdfg.BlockLoopRegion,
		Collapsed: true,
		Loop:      &sdfg.Loop{Condition: "i < N", Init: "i = 0", Update: "i = i + 1"},
	}
	got, err := CollapsedBlockSize(m, loop)
	if err != nil {
		t.Fatal(err)
	}
	// "i = i + 1 update" is the widest row: 16 monospace cells.
	if want := 16*10*0.6 + 3*MetaLabelMargin; !approx(got.Width, want) {
		t.Errorf("width = %v, want %v", got.Width, want)
	}
	if got.Height != CollapsedHeight {
		t.Errorf("height = %v, want %v", got.Height, CollapsedHeight)
	}
	if m.Font().Family != "sans-serif" {
		t.Errorf("measurer font not restored: %v", m.Font())
	}
}

func TestPlaceConnectors(t *testing.T) {
	el := &Element{Box: Box{X: 100, Y: 50, Width: 80, Height: 40}}
	placeConnectors(el, []string{"a", "b"}, []string{"c"})

	if len(el.In) != 2 || len(el.Out) != 1 {
		t.Fatalf("connectors: in=%d out=%d", len(el.In), len(el.Out))
	}
	inRow := el.In[1].Right() - el.In[0].Left()
	if inRow != 3*LineHeight {
		t.Errorf("in row width = %v, want %v", inRow, 3*LineHeight)
	}
	if el.In[0].X != 90 || el.In[1].X != 110 {
		t.Errorf("in connector centers = %v, %v", el.In[0].X, el.In[1].X)
	}
	if el.In[0].Y != el.Top() || el.Out[0].Y != el.Bottom() {
		t.Error("connectors not on the top and bottom edges")
	}
	if outRow := el.Out[0].Width; outRow != LineHeight || el.Out[0].X != el.X {
		t.Errorf("out row = %v at %v", outRow, el.Out[0].X)
	}
	if c, ok := el.Connector(In, "b"); !ok || c.Index != 1 || c.Dir != In {
		t.Errorf("Connector(In, b) = %+v, %v", c, ok)
	}
	if _, ok := el.Connector(Out, "a"); ok {
		t.Error("in-connector found among out-connectors")
	}
}

func TestStraighten(t *testing.T) {
	tests := []struct {
		name string
		in   []Point
		want int
	}{
		{"vertical elbow", []Point{{X: 0, Y: 0}, {X: 5, Y: 10}, {X: 0, Y: 20}}, 2},
		{"diagonal", []Point{{X: 0, Y: 0}, {X: 5, Y: 10}, {X: 10, Y: 20}}, 3},
		{"two points", []Point{{X: 0, Y: 0}, {X: 0, Y: 20}}, 2},
		{"four points", []Point{{X: 0, Y: 0}, {X: 5, Y: 10}, {X: 5, Y: 15}, {X: 0, Y: 20}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := straighten(tt.in)
			if len(got) != tt.want {
				t.Fatalf("len = %d, want %d", len(got), tt.want)
			}
			if got[0] != tt.in[0] || got[len(got)-1] != tt.in[len(tt.in)-1] {
				t.Errorf("end points changed: %v", got)
			}
		})
	}
}

func TestBoundingBox(t *testing.T) {
	if got := BoundingBox(nil, nil); got != (Rect{}) {
		t.Errorf("empty = %v", got)
	}
	els := []*Element{
		{Box: Box{X: 10, Y: 10, Width: 20, Height: 20}},
		{Box: Box{X: 50, Y: 40, Width: 10, Height: 10}},
	}
	edges := []*Edge{{Points: []Point{{X: 10, Y: 20}, {X: -5, Y: 30}, {X: 50, Y: 35}}}}
	got := BoundingBox(els, edges)
	want := Rect{X: -5, Y: 0, Width: 60, Height: 45}
	if got != want {
		t.Errorf("BoundingBox = %v, want %v", got, want)
	}
}

func TestBoundingBoxCoversLabels(t *testing.T) {
	el := &Element{
		Box:    Box{X: 10, Y: 10, Width: 20, Height: 20},
		Labels: []Label{{Text: "i < N while", Box: Box{X: 10, Y: -10, Width: 40, Height: 10}}},
	}
	got := BoundingBox([]*Element{el}, nil)
	want := Rect{X: -10, Y: -15, Width: 40, Height: 35}
	if got != want {
		t.Errorf("BoundingBox = %v, want %v", got, want)
	}
}

func TestPlaceTwice(t *testing.T) {
	g := &Graph{CFGID: 7, State: -1}
	if err := g.place(10, 10); err != nil {
		t.Fatal(err)
	}
	if err := g.place(0, 0); !errors.Is(err, errors.ErrCodeDoubleOffset) {
		t.Errorf("second placement: got %v, want DOUBLE_OFFSET", err)
	}
}
