package dag

import (
	"maps"
	"slices"
)

// CountCrossings sums [CountLayerCrossings] over every pair of consecutive
// rows in orders. Rows missing from orders count as empty.
//
//	orders := map[int][]string{
//	    0: {"init", "guard"},
//	    1: {"body", "latch", "exit"},
//	}
//	n := dag.CountCrossings(g, orders)
//
// Ordering sweeps call this after every sweep to keep the best ordering
// seen so far.
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for _, r := range slices.Sorted(maps.Keys(orders)) {
		if next, ok := orders[r+1]; ok {
			total += CountLayerCrossings(g, orders[r], next)
		}
	}
	return total
}

// CountLayerCrossings counts crossings among the edges running from upper to
// lower. Edges (u1,v1) and (u2,v2) cross when u1 is left of u2 and v1 is
// right of v2, so the count is the number of inversions in the lower
// endpoints once edges are sorted by upper endpoint. A Fenwick tree keeps
// that at O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := PosMap(lower)

	// Children come back in insertion order, so targets are sorted per
	// source before being fed to the tree.
	var targets []int
	for _, id := range upper {
		start := len(targets)
		for _, child := range g.Children(id) {
			if p, ok := lowerPos[child]; ok {
				targets = append(targets, p)
			}
		}
		slices.Sort(targets[start:])
	}
	if len(targets) < 2 {
		return 0
	}

	tree := newFenwick(len(lower))
	crossings := 0
	for seen, t := range targets {
		crossings += seen - tree.prefix(t)
		tree.add(t)
	}
	return crossings
}

// CountPairCrossingsWithPos counts the crossings between the edges of left
// and right into an adjacent row, with left placed before right. adjPos maps
// the adjacent row's node IDs to their positions; useParents selects the row
// above instead of the row below. Comparing (l, r) with (r, l) scores a swap.
func CountPairCrossingsWithPos(g *DAG, left, right string, adjPos map[string]int, useParents bool) int {
	neighbors := g.Children
	if useParents {
		neighbors = g.Parents
	}
	var rpos []int
	for _, n := range neighbors(right) {
		if p, ok := adjPos[n]; ok {
			rpos = append(rpos, p)
		}
	}

	crossings := 0
	for _, n := range neighbors(left) {
		lp, ok := adjPos[n]
		if !ok {
			continue
		}
		for _, rp := range rpos {
			if lp > rp {
				crossings++
			}
		}
	}
	return crossings
}

// fenwick counts inserted positions and answers "how many are <= i".
type fenwick []int

func newFenwick(n int) fenwick { return make(fenwick, n+1) }

func (f fenwick) add(i int) {
	for i++; i < len(f); i += i & -i {
		f[i]++
	}
}

func (f fenwick) prefix(i int) int {
	sum := 0
	for i++; i > 0; i -= i & -i {
		sum += f[i]
	}
	return sum
}
