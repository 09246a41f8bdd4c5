package layout

import (
	"maps"
	"slices"

	"github.com/matzehuels/sdfglayout/pkg/errors"
)

// Registry maps control-flow graph identifiers to their laid-out level and
// to the element that contains it. A registry is built fresh by every pass
// and never mutated once the pass returns.
type Registry struct {
	graphs map[int]*Graph
	owners map[int]Key
}

func newRegistry() *Registry {
	return &Registry{graphs: make(map[int]*Graph), owners: make(map[int]Key)}
}

func (r *Registry) register(cfg int, g *Graph, owner *Key) error {
	if _, ok := r.graphs[cfg]; ok {
		return errors.New(errors.ErrCodeInvalidGraph, "cfg id %d laid out twice", cfg)
	}
	r.graphs[cfg] = g
	if owner != nil {
		r.owners[cfg] = *owner
	}
	return nil
}

// adopt records owner for cfg ids that are not laid out because owner is
// drawn collapsed. Owners already recorded are kept.
func (r *Registry) adopt(ids []int, owner Key) {
	for _, id := range ids {
		if _, ok := r.owners[id]; !ok {
			r.owners[id] = owner
		}
	}
}

// Graph returns the block graph registered for cfg.
func (r *Registry) Graph(cfg int) (*Graph, bool) {
	g, ok := r.graphs[cfg]
	return g, ok
}

// Owner returns the element containing cfg: a nested SDFG node for a
// program, the loop, region or conditional block for a region. A cfg
// hidden by a collapsed block, node or scope is owned by the outermost
// collapsed element around it. The root program has no owner.
func (r *Registry) Owner(cfg int) (Key, bool) {
	k, ok := r.owners[cfg]
	return k, ok
}

// IDs returns the registered identifiers in ascending order.
func (r *Registry) IDs() []int {
	return slices.Sorted(maps.Keys(r.graphs))
}

// Len returns the number of registered levels.
func (r *Registry) Len() int { return len(r.graphs) }
