package hlayout

import (
	"context"
	"strings"

	"github.com/matzehuels/sdfglayout/pkg/errors"
)

// Engine names accepted by [ByName].
const (
	EngineLayered  = "layered"
	EngineVertical = "vertical"
	EngineGraphviz = "graphviz"
)

// Engine lays out a graph in place. On success every node has a center,
// every edge a route of at least two points, and the graph its extent.
type Engine interface {
	Name() string
	Layout(ctx context.Context, g *Graph) error
}

// Fallback runs Primary and, if it fails, Secondary. OnFallback, when set,
// is told why.
type Fallback struct {
	Primary, Secondary Engine
	OnFallback         func(from, to string, err error)
}

// Name returns the primary engine's name with the secondary in parentheses.
func (f Fallback) Name() string {
	return f.Primary.Name() + "(" + f.Secondary.Name() + ")"
}

// Layout runs the chain.
func (f Fallback) Layout(ctx context.Context, g *Graph) error {
	err := f.Primary.Layout(ctx, g)
	if err == nil {
		return nil
	}
	if f.OnFallback != nil {
		f.OnFallback(f.Primary.Name(), f.Secondary.Name(), err)
	}
	return f.Secondary.Layout(ctx, g)
}

// ByName returns the general-purpose engine selected by configuration.
// The Graphviz engine always falls back to the layered engine.
func ByName(name string) (Engine, error) {
	switch strings.ToLower(name) {
	case "", EngineLayered:
		return Layered{}, nil
	case EngineGraphviz:
		return Fallback{Primary: Graphviz{}, Secondary: Layered{}}, nil
	case EngineVertical:
		return Fallback{Primary: Vertical{}, Secondary: Layered{}}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown layout engine %q", name)
	}
}
