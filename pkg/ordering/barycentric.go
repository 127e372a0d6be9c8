package ordering

import (
	"slices"

	"github.com/orakul/orakul/pkg/dag"
)

// DefaultPasses is used when [Barycentric.Passes] is not positive.
const DefaultPasses = 8

// maxTransposeRounds bounds the adjacent-swap refinement after each sweep.
const maxTransposeRounds = 16

// Barycentric orders rows with alternating barycenter sweeps.
type Barycentric struct {
	// Passes is the number of sweeps; even passes go top-down, odd passes
	// bottom-up.
	Passes int
}

// OrderRows implements [Orderer].
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	orders := InsertionOrder{}.OrderRows(g)
	rows := g.RowIDs()
	if len(rows) < 2 {
		return orders
	}

	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, orders)

	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	for pass := 0; pass < passes && bestCrossings > 0; pass++ {
		if pass%2 == 0 {
			for i := 1; i < len(rows); i++ {
				sortByBarycenter(orders[rows[i]], orders[rows[i-1]], g.Parents)
			}
		} else {
			for i := len(rows) - 2; i >= 0; i-- {
				sortByBarycenter(orders[rows[i]], orders[rows[i+1]], g.Children)
			}
		}
		transpose(g, rows, orders)

		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best, bestCrossings = cloneOrders(orders), c
		}
	}
	return best
}

// sortByBarycenter reorders row in place by the mean position of each node's
// neighbours in adj. Nodes without neighbours keep their current index as key.
func sortByBarycenter(row, adj []string, neighbours func(string) []string) {
	adjPos := dag.PosMap(adj)
	keys := make(map[string]float64, len(row))
	for i, id := range row {
		sum, n := 0, 0
		for _, nb := range neighbours(id) {
			if p, ok := adjPos[nb]; ok {
				sum += p
				n++
			}
		}
		if n == 0 {
			keys[id] = float64(i)
			continue
		}
		keys[id] = float64(sum) / float64(n)
	}
	slices.SortStableFunc(row, func(a, b string) int {
		switch ka, kb := keys[a], keys[b]; {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
}

// transpose swaps adjacent nodes while a swap strictly lowers the crossings
// with both neighbouring rows.
func transpose(g *dag.DAG, rows []int, orders map[int][]string) {
	for round := 0; round < maxTransposeRounds; round++ {
		improved := false
		for _, r := range rows {
			row := orders[r]
			above := dag.PosMap(orders[r-1])
			below := dag.PosMap(orders[r+1])
			for i := 0; i+1 < len(row); i++ {
				v, w := row[i], row[i+1]
				keep := dag.CountPairCrossings(g, v, w, above, true) + dag.CountPairCrossings(g, v, w, below, false)
				swap := dag.CountPairCrossings(g, w, v, above, true) + dag.CountPairCrossings(g, w, v, below, false)
				if swap < keep {
					row[i], row[i+1] = w, v
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}
