package scene

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestBuildNode(t *testing.T) {
	b := &Builder{NewID: sequentialIDs()}
	meta := Metadata{"path": "src/billing"}

	n := b.Node(Database, Data{Name: "ledger", Meta: meta})

	if n.ID != "id-1" {
		t.Errorf("ID = %q, want id-1", n.ID)
	}
	if n.Kind != Database {
		t.Errorf("Kind = %v, want database", n.Kind)
	}
	if n.Placed || n.Position != (Position{}) {
		t.Error("a built node must not be positioned")
	}
	if n.Selected {
		t.Error("a built node must not be selected")
	}

	meta["path"] = "changed"
	if n.Data.Meta["path"] != "src/billing" {
		t.Error("node must not share metadata with the caller")
	}

	if b.Node(Actual, Data{}).ID == n.ID {
		t.Error("ids must be fresh")
	}
}

func TestBuildNodeDefaultIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := BuildPlannedNode("x")
		if seen[n.ID] {
			t.Fatalf("duplicate id %q", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestBuildPlannedNode(t *testing.T) {
	n := BuildPlannedNode("  NewService ")
	if n.Kind != Planned {
		t.Errorf("Kind = %v, want planned", n.Kind)
	}
	if n.Data.Name != "NewService" {
		t.Errorf("Name = %q, want NewService", n.Data.Name)
	}
	if n.Label() != "NewService" {
		t.Errorf("Label() = %q", n.Label())
	}
}

func TestBuildEdge(t *testing.T) {
	existing := []Edge{{ID: "e1", Source: "a", Target: "b"}}

	tests := []struct {
		name           string
		source, target string
		wantOK         bool
	}{
		{"new pair", "b", "c", true},
		{"reverse pair", "b", "a", true},
		{"duplicate pair", "a", "b", false},
		{"self loop", "a", "a", false},
		{"empty source", "", "b", false},
		{"empty target", "a", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := BuildEdge(tt.source, tt.target, existing)
			if ok != tt.wantOK {
				t.Fatalf("BuildEdge(%q, %q) ok = %v, want %v", tt.source, tt.target, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if e.ID == "" {
				t.Error("edge must have an id")
			}
			if e.Source != tt.source || e.Target != tt.target {
				t.Errorf("edge = %s->%s, want %s->%s", e.Source, e.Target, tt.source, tt.target)
			}
			if e.Highlighted {
				t.Error("a built edge must not be highlighted")
			}
		})
	}
}

func TestBuildEdgeTwice(t *testing.T) {
	var edges []Edge
	e, ok := BuildEdge("a", "b", edges)
	if !ok {
		t.Fatal("first BuildEdge should succeed")
	}
	edges = append(edges, e)
	if _, ok := BuildEdge("a", "b", edges); ok {
		t.Error("second BuildEdge with the same pair should be rejected")
	}
}

func TestBuildEdgeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("self loops are rejected", prop.ForAll(
		func(id string) bool {
			_, ok := BuildEdge(id, id, nil)
			return !ok
		},
		gen.AlphaString(),
	))

	properties.Property("the second build of a pair is rejected", prop.ForAll(
		func(a, b string) bool {
			e, ok := BuildEdge(a, b, nil)
			if !ok {
				return a == "" || b == "" || a == b
			}
			_, again := BuildEdge(a, b, []Edge{e})
			return !again
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestEdgeHelpers(t *testing.T) {
	e := Edge{Source: "a", Target: "b", Points: []Point{{X: 1, Y: 2}}}
	if !e.Touches("a") || !e.Touches("b") || e.Touches("c") {
		t.Error("Touches mismatch")
	}

	c := e.Clone()
	c.Points[0].X = 9
	if e.Points[0].X != 1 {
		t.Error("Clone must copy points")
	}

	if PairID("a", "b") != "a->b" {
		t.Errorf("PairID = %q", PairID("a", "b"))
	}
	if !HasEdge([]Edge{e}, "a", "b") || HasEdge([]Edge{e}, "b", "a") {
		t.Error("HasEdge must respect direction")
	}
}
