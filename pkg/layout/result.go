package layout

// Layout is the result of one pass.
type Layout struct {
	// Root is the block graph of the top-level program.
	Root     *Graph
	Registry *Registry

	elements map[Key]*Element
	states   map[Key]*Graph
}

func newLayout(root *Graph, reg *Registry) *Layout {
	l := &Layout{
		Root:     root,
		Registry: reg,
		elements: make(map[Key]*Element),
		states:   make(map[Key]*Graph),
	}
	l.index(root)
	return l
}

func (l *Layout) index(g *Graph) {
	for _, el := range g.Elements {
		l.elements[el.Key] = el
		for _, child := range el.Children {
			if child.IsState() {
				l.states[el.Key] = child
			}
			l.index(child)
		}
	}
}

// Width and Height return the extent of the whole drawing.
func (l *Layout) Width() float64  { return l.Root.Bounds.Width }
func (l *Layout) Height() float64 { return l.Root.Bounds.Height }

// Block returns the geometry of block id in control-flow graph cfg.
func (l *Layout) Block(cfg, id int) (*Element, bool) {
	el, ok := l.elements[BlockKey(cfg, id)]
	return el, ok
}

// Node returns the geometry of a dataflow node. Withheld and hidden nodes
// have none.
func (l *Layout) Node(cfg, state, id int) (*Element, bool) {
	el, ok := l.elements[NodeKey(cfg, state, id)]
	return el, ok
}

// Element looks up any element by key.
func (l *Layout) Element(k Key) (*Element, bool) {
	el, ok := l.elements[k]
	return el, ok
}

// State returns the dataflow graph of state id in cfg.
func (l *Layout) State(cfg, id int) (*Graph, bool) {
	g, ok := l.states[BlockKey(cfg, id)]
	return g, ok
}

// LevelSummary describes one registered level.
type LevelSummary struct {
	CFGID         int
	Owner         string
	Width, Height float64
	Blocks        int
	Nodes         int
	Edges         int
	Shortcuts     int
	Engine        string
}

// Summary returns one entry per registered level in identifier order.
// Node and edge counts include the dataflow graphs of the level's states.
func (l *Layout) Summary() []LevelSummary {
	var out []LevelSummary
	for _, id := range l.Registry.IDs() {
		g, _ := l.Registry.Graph(id)
		s := LevelSummary{
			CFGID:  id,
			Owner:  "-",
			Width:  g.Bounds.Width,
			Height: g.Bounds.Height,
			Blocks: len(g.Elements),
			Edges:  len(g.Edges),
			Engine: g.Engine,
		}
		if k, ok := l.Registry.Owner(id); ok {
			s.Owner = k.String()
		}
		for _, el := range g.Elements {
			for _, child := range el.Children {
				if !child.IsState() {
					continue
				}
				s.Nodes += len(child.Elements)
				s.Edges += len(child.Edges)
				for _, e := range child.Edges {
					if e.Shortcut {
						s.Shortcuts++
					}
				}
			}
		}
		out = append(out, s)
	}
	return out
}
