package transform

import "github.com/matzehuels/sdfglayout/pkg/dag"

// AssignLayers assigns nodes to horizontal rows (layers) based on their depth
// in the graph.
//
// AssignLayers uses a longest-path algorithm via topological sort (Kahn's
// algorithm) to compute row assignments. Each node is placed at one plus the
// maximum row of any of its parents, ensuring that:
//   - Source nodes (no incoming edges) are at row 0
//   - All parents are strictly above their children
//   - Each node is pushed as deep as necessary to avoid parent conflicts
//
// Existing row assignments in the DAG are overwritten.
//
// # Cycles
//
// AssignLayers assumes the graph is acyclic. If cycles exist, nodes in the
// cycle will never reach zero in-degree and will remain at row 0 (their
// default). Run [ReverseCycles] first to ensure correct layering.
//
// # Performance
//
// Time complexity is O(V + E), where V is nodes and E is edges. Space
// complexity is O(V) for the queue and row/degree maps.
func AssignLayers(g *dag.DAG) {
	rows := make(map[string]int, g.NodeCount())
	for _, id := range topoOrder(g) {
		for _, child := range g.Children(id) {
			if row := rows[id] + 1; row > rows[child] {
				rows[child] = row
			}
		}
	}
	for _, n := range g.Nodes() {
		if _, ok := rows[n.ID]; !ok {
			rows[n.ID] = 0
		}
	}
	g.SetRows(rows)
}

// TightenLayers shortens edges left long by [AssignLayers]. Longest-path
// layering puts every source on row 0 even when its only successor sits far
// below; TightenLayers moves each node with more outgoing than incoming
// edges down to just above its highest child, which never increases total
// edge length. Nodes are visited in reverse topological order so children
// are settled first.
//
// Rows must already be assigned and the graph acyclic.
func TightenLayers(g *dag.DAG) {
	rows := make(map[string]int, g.NodeCount())
	for _, n := range g.Nodes() {
		rows[n.ID] = n.Row
	}

	topo := topoOrder(g)
	for i := len(topo) - 1; i >= 0; i-- {
		id := topo[i]
		children := g.Children(id)
		if len(children) == 0 || len(children) <= g.InDegree(id) {
			continue
		}
		lowest := rows[children[0]] - 1
		for _, c := range children[1:] {
			lowest = min(lowest, rows[c]-1)
		}
		if lowest > rows[id] {
			rows[id] = lowest
		}
	}
	g.SetRows(rows)
}

// topoOrder returns node IDs in Kahn order, seeding and breaking ties by
// insertion order. Nodes on cycles are omitted.
func topoOrder(g *dag.DAG) []string {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))
	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)
		for _, child := range g.Children(curr) {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return order
}
