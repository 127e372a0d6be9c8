// Package ordering decides the left-to-right order of nodes within each row
// of a layered graph so that edges cross as little as possible.
//
// Exact crossing minimisation is NP-hard even for two rows, so [Barycentric]
// uses the classic heuristic: alternate sweeps that sort each row by the
// mean position of its neighbours in the previous row, followed by adjacent
// swaps while they help. The best ordering seen is kept.
//
// All orderers are deterministic: equal keys keep their current relative
// order, and the initial order of each row is the graph's insertion order.
package ordering

import "github.com/orakul/orakul/pkg/dag"

// Orderer computes a row ordering for a layered graph. The result maps each
// row index to the node ids of that row, left to right.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// InsertionOrder keeps every row in the order nodes were added. It is the
// starting point of [Barycentric] and a baseline for tests.
type InsertionOrder struct{}

// OrderRows implements [Orderer].
func (InsertionOrder) OrderRows(g *dag.DAG) map[int][]string {
	orders := make(map[int][]string, g.RowCount())
	for _, r := range g.RowIDs() {
		orders[r] = dag.NodeIDs(g.NodesInRow(r))
	}
	return orders
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = append([]string(nil), ids...)
	}
	return out
}
