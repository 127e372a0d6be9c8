package dag

import (
	"errors"
	"slices"
	"testing"
)

func build(t *testing.T, rows map[string]int, order []string, edges [][2]string) *DAG {
	t.Helper()
	g := New()
	for _, id := range order {
		if err := g.AddNode(Node{ID: id, Row: rows[id]}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%s, %s): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestAddNodeErrors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty id: got %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate: got %v", err)
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := build(t, nil, []string{"a", "b"}, [][2]string{{"a", "b"}})

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"unknown source", Edge{From: "x", To: "b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
		{"self loop", Edge{From: "a", To: "a"}, ErrSelfLoop},
		{"duplicate", Edge{From: "a", To: "b"}, ErrDuplicateEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
}

func TestInsertionOrder(t *testing.T) {
	g := build(t, nil, []string{"c", "a", "b"}, [][2]string{{"c", "b"}, {"c", "a"}})

	if got := NodeIDs(g.Nodes()); !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("Nodes = %v", got)
	}
	if got := g.Children("c"); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Children = %v", got)
	}
	if got := NodeIDs(g.Sources()); !slices.Equal(got, []string{"c"}) {
		t.Errorf("Sources = %v", got)
	}
}

func TestRemoveEdgeAndRows(t *testing.T) {
	rows := map[string]int{"a": 0, "b": 1, "c": 2}
	g := build(t, rows, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if g.MaxRow() != 2 || g.RowCount() != 3 {
		t.Errorf("MaxRow = %d, RowCount = %d", g.MaxRow(), g.RowCount())
	}

	g.RemoveEdge("b", "c")
	if g.OutDegree("b") != 0 || g.InDegree("c") != 0 {
		t.Error("edge b->c not removed")
	}

	g.SetRows(map[string]int{"c": 1})
	if got := NodeIDs(g.NodesInRow(1)); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("row 1 = %v", got)
	}
	if !slices.Equal(g.RowIDs(), []int{0, 1}) {
		t.Errorf("RowIDs = %v", g.RowIDs())
	}
}

func TestValidate(t *testing.T) {
	skip := build(t, map[string]int{"a": 0, "b": 2}, []string{"a", "b"}, [][2]string{{"a", "b"}})
	if err := skip.Validate(); !errors.Is(err, ErrNonConsecutiveRows) {
		t.Errorf("row skip: got %v", err)
	}

	cyc := build(t, nil, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})
	if !cyc.HasCycle() {
		t.Error("HasCycle = false for a->b->c->a")
	}
}

func TestCountCrossings(t *testing.T) {
	rows := map[string]int{"a": 0, "b": 0, "x": 1, "y": 1}
	g := build(t, rows, []string{"a", "b", "x", "y"}, [][2]string{{"a", "y"}, {"b", "x"}})

	tests := []struct {
		name   string
		orders map[int][]string
		want   int
	}{
		{"crossed", map[int][]string{0: {"a", "b"}, 1: {"x", "y"}}, 1},
		{"straight", map[int][]string{0: {"a", "b"}, 1: {"y", "x"}}, 0},
		{"single row", map[int][]string{0: {"a", "b"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountCrossings(g, tt.orders); got != tt.want {
				t.Errorf("CountCrossings = %d, want %d", got, tt.want)
			}
		})
	}

	pos := PosMap([]string{"x", "y"})
	if got := CountPairCrossings(g, "a", "b", pos, false); got != 1 {
		t.Errorf("CountPairCrossings(a, b) = %d, want 1", got)
	}
	if got := CountPairCrossings(g, "b", "a", pos, false); got != 0 {
		t.Errorf("CountPairCrossings(b, a) = %d, want 0", got)
	}
}
