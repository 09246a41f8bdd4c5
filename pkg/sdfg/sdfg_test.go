package sdfg

import (
	"slices"
	"testing"

	"github.com/matzehuels/sdfglayout/pkg/errors"
)

func TestParseNodeKind(t *testing.T) {
	tests := []struct {
		name  string
		want  NodeKind
		shape Shape
	}{
		{"AccessNode", KindAccessNode, ShapeEllipse},
		{"Tasklet", KindTasklet, ShapeOctagon},
		{"MapEntry", KindMapEntry, ShapeTrapezoid},
		{"MapExit", KindMapExit, ShapeInvertedTrapezoid},
		{"Reduce", KindReduce, ShapeTriangle},
		{"NestedSDFG", KindNestedSDFG, ShapeRectangle},
		{"SomethingNew", KindUnknown, ShapeRectangle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNodeKind(tt.name)
			if got != tt.want {
				t.Errorf("ParseNodeKind(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got.Shape() != tt.shape {
				t.Errorf("Shape() = %v, want %v", got.Shape(), tt.shape)
			}
		})
	}
}

func TestNodeKindPredicates(t *testing.T) {
	if !KindMapEntry.IsScopeEntry() || KindMapEntry.IsScopeExit() {
		t.Error("MapEntry should be a scope entry only")
	}
	if !KindConsumeExit.IsScopeExit() || KindConsumeExit.IsScopeEntry() {
		t.Error("ConsumeExit should be a scope exit only")
	}
	if !KindAccessNode.Omittable() {
		t.Error("AccessNode should be omittable")
	}
	if KindTasklet.Omittable() {
		t.Error("Tasklet should not be omittable")
	}
	if NodeKind(99).String() != "Unknown" {
		t.Errorf("out of range kind String() = %q", NodeKind(99).String())
	}
}

func TestParseBlockKind(t *testing.T) {
	tests := []struct {
		name      string
		want      BlockKind
		hasRegion bool
	}{
		{"SDFGState", BlockState, false},
		{"LoopRegion", BlockLoopRegion, true},
		{"ConditionalBlock", BlockConditional, false},
		{"ControlFlowRegion", BlockRegion, true},
		{"Bogus", BlockUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBlockKind(tt.name)
			if got != tt.want {
				t.Errorf("ParseBlockKind(%q) = %v, want %v", tt.name, got, tt.want)
			}
			if got.HasRegion() != tt.hasRegion {
				t.Errorf("HasRegion() = %v, want %v", got.HasRegion(), tt.hasRegion)
			}
		})
	}
}

func TestDisplayLabel(t *testing.T) {
	n := NewNode(0, KindTasklet, "")
	if got := n.DisplayLabel(); got != "Tasklet" {
		t.Errorf("DisplayLabel() = %q, want Tasklet", got)
	}
	n.Label = "compute"
	if got := n.DisplayLabel(); got != "compute" {
		t.Errorf("DisplayLabel() = %q, want compute", got)
	}
}

func TestScopeChildren(t *testing.T) {
	b := &Block{Kind: BlockState, Nodes: []*Node{
		NewNode(0, KindAccessNode, "A"),
		NewNode(1, KindMapEntry, "map"),
		NewNode(2, KindTasklet, "t"),
		NewNode(3, KindMapExit, "map"),
	}}

	if got := b.ScopeChildren(NoScope); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("without scope index: got %v", got)
	}
	if got := b.ScopeChildren(1); got != nil {
		t.Errorf("without scope index, scope 1: got %v", got)
	}

	b.Scopes = map[int][]int{NoScope: {0, 1, 3}, 1: {2}}
	if got := b.ScopeChildren(1); !slices.Equal(got, []int{2}) {
		t.Errorf("scope 1: got %v", got)
	}
}

func nestedProgram() *SDFG {
	inner := &SDFG{CFGID: 3, Blocks: []*Block{{ID: 0, Kind: BlockState}}}
	nsdfg := NewNode(0, KindNestedSDFG, "inner")
	nsdfg.SDFG = inner
	return &SDFG{
		CFGID: 0,
		Blocks: []*Block{
			{ID: 0, Kind: BlockState, Nodes: []*Node{nsdfg}},
			{ID: 1, Kind: BlockLoopRegion, CFGID: 1, Loop: &Loop{Condition: "i < N"}, Blocks: []*Block{
				{ID: 0, Kind: BlockState},
			}},
			{ID: 2, Kind: BlockConditional, Branches: []*Branch{
				{Condition: "x > 0", Region: &Block{Kind: BlockRegion, CFGID: 2}},
			}},
		},
		Edges: []*InterstateEdge{{Src: 0, Dst: 1}, {Src: 1, Dst: 2}},
	}
}

func TestCFGIDs(t *testing.T) {
	got := nestedProgram().CFGIDs()
	want := []int{0, 1, 2, 3}
	if !slices.Equal(got, want) {
		t.Errorf("CFGIDs() = %v, want %v", got, want)
	}
}

func TestBlockCFGIDs(t *testing.T) {
	g := nestedProgram()
	want := [][]int{{3}, {1}, {2}}
	for i, b := range g.Blocks {
		if got := b.CFGIDs(); !slices.Equal(got, want[i]) {
			t.Errorf("block %d: CFGIDs() = %v, want %v", b.ID, got, want[i])
		}
	}
}

func TestWalk(t *testing.T) {
	var seen []int
	nestedProgram().Walk(func(s *SDFG) { seen = append(seen, s.CFGID) })
	if !slices.Equal(seen, []int{0, 3}) {
		t.Errorf("Walk visited %v, want [0 3]", seen)
	}
}

func TestValidate(t *testing.T) {
	var nilGraph *SDFG
	if err := nilGraph.Validate(); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("nil graph: got %v", err)
	}

	if err := nestedProgram().Validate(); err != nil {
		t.Errorf("valid graph: %v", err)
	}

	dup := nestedProgram()
	dup.Blocks[1].CFGID = 3
	if err := dup.Validate(); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("duplicate cfg id: got %v", err)
	}
}
