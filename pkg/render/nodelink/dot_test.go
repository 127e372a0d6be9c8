package nodelink

import (
	"strings"
	"testing"

	"github.com/orakul/orakul/pkg/graph"
)

func testScene() graph.Scene {
	return graph.Scene{
		Version:   graph.Version,
		Level:     "modules",
		Direction: "LR",
		Width:     400,
		Height:    200,
		Selected:  "api",
		Nodes: []graph.Node{
			{ID: "api", Label: "API", Kind: "actual", X: 0, Y: 0, Width: 172, Height: 36, Selected: true},
			{ID: "store", Kind: "database", X: 228, Y: 0, Width: 172, Height: 36, Meta: map[string]any{"path": "db"}},
			{ID: "plan", Label: "Cache", Kind: "planned", X: 0, Y: 164, Width: 172, Height: 36},
		},
		Edges: []graph.Edge{
			{ID: "api->store", Source: "api", Target: "store", Highlighted: true},
			{ID: "store->api", Source: "store", Target: "api"},
		},
		BackEdges: []string{"store->api"},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testScene(), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`"api" [label="API", shape=box, style="rounded,filled", fillcolor=white, penwidth=2.5];`,
		`"store" [label="store", shape=cylinder, style="filled", fillcolor=lightyellow];`,
		`"plan" [label="Cache", shape=note, style="filled,dashed", fillcolor=honeydew];`,
		`"api" -> "store" [penwidth=2.5, color="#1f6feb"];`,
		`"store" -> "api" [constraint=false];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "pos=") {
		t.Error("dot engine should not pin positions")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testScene(), Options{Detailed: true})
	if !strings.Contains(dot, `label="store\npath: db"`) {
		t.Errorf("detailed label missing metadata:\n%s", dot)
	}
}

func TestToDOTPinned(t *testing.T) {
	dot := ToDOT(testScene(), Options{Engine: EnginePinned})

	// api: centre (86, 18) in a 200pt-high drawing -> (1.194, 2.528) inches.
	for _, want := range []string{
		`pos="1.194,2.528!"`,
		"width=2.389",
		"height=0.500",
		"fixedsize=true",
		"splines=true;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("pinned DOT missing %q\n%s", want, dot)
		}
	}
}

func TestRankDir(t *testing.T) {
	tests := map[string]string{
		"":     "TB",
		"TB":   "TB",
		"BT":   "BT",
		"LR":   "LR",
		"RL":   "RL",
		"side": "TB",
	}
	for in, want := range tests {
		if got := rankDir(in); got != want {
			t.Errorf("rankDir(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in      string
		want    Engine
		wantErr bool
	}{
		{"", EngineDot, false},
		{"dot", EngineDot, false},
		{"Pinned", EnginePinned, false},
		{"neato", EnginePinned, false},
		{"fdp", EngineDot, true},
	}
	for _, tt := range tests {
		got, err := ParseEngine(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseEngine(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?><svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`
	if !strings.Contains(out, want) {
		t.Errorf("normalizeViewBox = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
