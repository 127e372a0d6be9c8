package ordering_test

import (
	"fmt"

	"github.com/orakul/orakul/pkg/dag"
	"github.com/orakul/orakul/pkg/ordering"
)

func ExampleBarycentric() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 0})
	_ = g.AddNode(dag.Node{ID: "x", Row: 1})
	_ = g.AddNode(dag.Node{ID: "y", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	fmt.Println("before:", dag.CountLayerCrossings(g, []string{"a", "b"}, []string{"x", "y"}))

	orders := ordering.Barycentric{}.OrderRows(g)
	fmt.Println("after:", dag.CountCrossings(g, orders))
	// Output:
	// before: 1
	// after: 0
}
