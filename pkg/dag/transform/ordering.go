package transform

import (
	"cmp"
	"slices"

	"github.com/matzehuels/sdfglayout/pkg/dag"
)

// OrderRows computes a left-to-right order for every row of a normalized
// graph (every edge spans exactly one row) that keeps edge crossings low.
//
// The initial order is insertion order. Each sweep reorders rows top-down
// by the barycenter of their parents, then bottom-up by the barycenter of
// their children; the ordering with the fewest crossings seen so far is
// kept. A final transposition pass swaps adjacent nodes while that reduces
// crossings with both neighboring rows.
//
// Ties keep their previous relative order, so the result is deterministic.
// sweeps < 1 is treated as 1.
func OrderRows(g *dag.DAG, sweeps int) map[int][]string {
	rowIDs := g.RowIDs()
	orders := make(map[int][]string, len(rowIDs))
	for _, r := range rowIDs {
		orders[r] = dag.NodeIDs(g.NodesInRow(r))
	}
	if len(rowIDs) < 2 {
		return orders
	}

	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, best)
	for i := 0; i < max(1, sweeps) && bestCrossings > 0; i++ {
		for j := 1; j < len(rowIDs); j++ {
			r := rowIDs[j]
			sortByBarycenter(orders[r], dag.PosMap(orders[rowIDs[j-1]]), g.Parents)
		}
		for j := len(rowIDs) - 2; j >= 0; j-- {
			r := rowIDs[j]
			sortByBarycenter(orders[r], dag.PosMap(orders[rowIDs[j+1]]), g.Children)
		}
		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best, bestCrossings = cloneOrders(orders), c
		}
	}

	transpose(g, rowIDs, best)
	return best
}

func sortByBarycenter(row []string, adjPos map[string]int, neighbors func(string) []string) {
	type keyed struct {
		id  string
		key float64
	}
	items := make([]keyed, len(row))
	for i, id := range row {
		sum, n := 0.0, 0
		for _, nb := range neighbors(id) {
			if p, ok := adjPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		key := float64(i)
		if n > 0 {
			key = sum / float64(n)
		}
		items[i] = keyed{id, key}
	}
	slices.SortStableFunc(items, func(a, b keyed) int { return cmp.Compare(a.key, b.key) })
	for i, it := range items {
		row[i] = it.id
	}
}

// transpose greedily swaps adjacent nodes while doing so strictly lowers
// the crossings against the rows above and below.
func transpose(g *dag.DAG, rowIDs []int, orders map[int][]string) {
	const maxPasses = 8
	for pass := 0; pass < maxPasses; pass++ {
		improved := false
		for j, r := range rowIDs {
			row := orders[r]
			var above, below map[string]int
			if j > 0 {
				above = dag.PosMap(orders[rowIDs[j-1]])
			}
			if j < len(rowIDs)-1 {
				below = dag.PosMap(orders[rowIDs[j+1]])
			}
			for i := 0; i+1 < len(row); i++ {
				l, rt := row[i], row[i+1]
				before := dag.CountPairCrossingsWithPos(g, l, rt, above, true) +
					dag.CountPairCrossingsWithPos(g, l, rt, below, false)
				after := dag.CountPairCrossingsWithPos(g, rt, l, above, true) +
					dag.CountPairCrossingsWithPos(g, rt, l, below, false)
				if after < before {
					row[i], row[i+1] = rt, l
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = slices.Clone(ids)
	}
	return out
}
