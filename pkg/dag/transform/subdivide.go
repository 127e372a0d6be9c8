package transform

import (
	"fmt"

	"github.com/orakul/orakul/pkg/dag"
)

// Chains maps each edge that spanned more than one row to the virtual nodes
// inserted along it, top to bottom.
type Chains map[dag.Edge][]string

// Subdivide replaces every edge spanning several rows with a chain of
// single-row edges through [dag.NodeKindVirtual] nodes:
//
//	before: api (row 0) → store (row 3)
//	after:  api → api_v1 → api_v2 → store
//
// Virtual ids have the form "source_vROW"; a numeric suffix is added on
// collision. Rows must already be assigned and every edge must point
// downwards.
func Subdivide(g *dag.DAG) Chains {
	gen := newIDGen(g.Nodes())
	chains := make(Chains)

	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		if dst.Row <= src.Row+1 {
			continue
		}

		g.RemoveEdge(e.From, e.To)
		prev := src.ID
		chain := make([]string, 0, dst.Row-src.Row-1)
		for row := src.Row + 1; row < dst.Row; row++ {
			id := gen.next(src.ID, row)
			mustAdd(g.AddNode(dag.Node{ID: id, Row: row, Kind: dag.NodeKindVirtual}))
			mustAdd(g.AddEdge(dag.Edge{From: prev, To: id}))
			chain = append(chain, id)
			prev = id
		}
		mustAdd(g.AddEdge(dag.Edge{From: prev, To: dst.ID}))
		chains[e] = chain
	}
	return chains
}

// mustAdd panics on errors that can only come from a broken invariant: the
// generator never repeats an id and every endpoint was just added.
func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_v%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
