package transform

import "github.com/matzehuels/sdfglayout/pkg/dag"

// Ranking selects the layer assignment used by [Normalize].
type Ranking int

const (
	// RankTight runs longest-path layering followed by [TightenLayers].
	RankTight Ranking = iota
	// RankLongestPath runs longest-path layering only. It is the cheaper
	// choice for very large graphs.
	RankLongestPath
)

// Normalize prepares g for ordering: cycles are reversed, rows assigned and
// long edges subdivided. It returns the number of edges reversed or removed
// while breaking cycles.
func Normalize(g *dag.DAG, ranking Ranking) int {
	reversed := ReverseCycles(g)
	AssignLayers(g)
	if ranking == RankTight {
		TightenLayers(g)
	}
	Subdivide(g)
	return reversed
}
