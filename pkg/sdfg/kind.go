package sdfg

// NodeKind is the closed set of dataflow node kinds the layout engine knows
// how to size and shade. Kinds are resolved once when a graph is loaded;
// unrecognized type names map to [KindUnknown] and are laid out generically.
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindAccessNode
	KindTasklet
	KindMapEntry
	KindMapExit
	KindConsumeEntry
	KindConsumeExit
	KindPipelineEntry
	KindPipelineExit
	KindLibraryNode
	KindReduce
	KindNestedSDFG
)

// Shape is the glyph family a node kind is drawn with. The sizer derives
// its aspect-ratio adjustments from the shape, not from the kind name.
type Shape int

const (
	ShapeRectangle Shape = iota
	ShapeEllipse
	ShapeTrapezoid
	ShapeInvertedTrapezoid
	ShapeOctagon
	ShapeTriangle
)

type kindInfo struct {
	name      string
	shape     Shape
	entry     bool
	exit      bool
	omittable bool
}

var kindTable = map[NodeKind]kindInfo{
	KindUnknown:       {name: "Unknown", shape: ShapeRectangle},
	KindAccessNode:    {name: "AccessNode", shape: ShapeEllipse, omittable: true},
	KindTasklet:       {name: "Tasklet", shape: ShapeOctagon},
	KindMapEntry:      {name: "MapEntry", shape: ShapeTrapezoid, entry: true},
	KindMapExit:       {name: "MapExit", shape: ShapeInvertedTrapezoid, exit: true},
	KindConsumeEntry:  {name: "ConsumeEntry", shape: ShapeTrapezoid, entry: true},
	KindConsumeExit:   {name: "ConsumeExit", shape: ShapeInvertedTrapezoid, exit: true},
	KindPipelineEntry: {name: "PipelineEntry", shape: ShapeTrapezoid, entry: true},
	KindPipelineExit:  {name: "PipelineExit", shape: ShapeInvertedTrapezoid, exit: true},
	KindLibraryNode:   {name: "LibraryNode", shape: ShapeOctagon},
	KindReduce:        {name: "Reduce", shape: ShapeTriangle},
	KindNestedSDFG:    {name: "NestedSDFG", shape: ShapeRectangle},
}

var kindByName = func() map[string]NodeKind {
	m := make(map[string]NodeKind, len(kindTable))
	for k, info := range kindTable {
		m[info.name] = k
	}
	return m
}()

// ParseNodeKind resolves a serialized node type name. Unknown names yield
// KindUnknown rather than an error.
func ParseNodeKind(name string) NodeKind {
	if k, ok := kindByName[name]; ok {
		return k
	}
	return KindUnknown
}

func (k NodeKind) info() kindInfo {
	if info, ok := kindTable[k]; ok {
		return info
	}
	return kindTable[KindUnknown]
}

// String returns the serialized type name of the kind.
func (k NodeKind) String() string { return k.info().name }

// Shape returns the glyph family used to size and draw the kind.
func (k NodeKind) Shape() Shape { return k.info().shape }

// IsScopeEntry reports whether the kind opens a scope (map, consume, pipeline).
func (k NodeKind) IsScopeEntry() bool { return k.info().entry }

// IsScopeExit reports whether the kind closes a scope.
func (k NodeKind) IsScopeExit() bool { return k.info().exit }

// Omittable reports whether nodes of this kind may be withheld from the
// drawing when they only pass data through.
func (k NodeKind) Omittable() bool { return k.info().omittable }

// BlockKind is the closed set of control-flow block kinds.
type BlockKind int

const (
	BlockUnknown BlockKind = iota
	BlockState
	BlockLoopRegion
	BlockConditional
	BlockRegion
)

var blockKindNames = map[BlockKind]string{
	BlockUnknown:     "Unknown",
	BlockState:       "SDFGState",
	BlockLoopRegion:  "LoopRegion",
	BlockConditional: "ConditionalBlock",
	BlockRegion:      "ControlFlowRegion",
}

// ParseBlockKind resolves a serialized block type name. Unknown names yield
// BlockUnknown, which the layout engine treats like a plain state.
func ParseBlockKind(name string) BlockKind {
	for k, n := range blockKindNames {
		if n == name {
			return k
		}
	}
	return BlockUnknown
}

// String returns the serialized type name of the block kind.
func (k BlockKind) String() string {
	if n, ok := blockKindNames[k]; ok {
		return n
	}
	return blockKindNames[BlockUnknown]
}

// HasRegion reports whether blocks of this kind hold a nested control-flow
// graph of blocks rather than dataflow nodes.
func (k BlockKind) HasRegion() bool {
	return k == BlockLoopRegion || k == BlockRegion
}
