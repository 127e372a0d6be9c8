package transform

import "github.com/orakul/orakul/pkg/dag"

// AssignLayers places every node one row below its deepest parent
// (longest-path layering via Kahn's algorithm). Sources land in row 0.
// Existing rows are overwritten.
//
// The graph must be acyclic; run [BreakCycles] first. Nodes on a cycle
// never reach in-degree zero and stay in row 0.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		d := g.InDegree(n.ID)
		inDegree[n.ID] = d
		rows[n.ID] = 0
		if d == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}
