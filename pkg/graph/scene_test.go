package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/orakul/orakul/pkg/errors"
	"github.com/orakul/orakul/pkg/interaction"
	"github.com/orakul/orakul/pkg/layout"
	"github.com/orakul/orakul/pkg/scene"
)

func testSnapshot() interaction.Snapshot {
	nodes := []scene.Node{
		{ID: "api", Data: scene.Data{Name: "API"}},
		{ID: "store", Kind: scene.Database, Data: scene.Data{Name: "Store", Meta: scene.Metadata{"path": "db"}}},
		{ID: "plan", Kind: scene.Planned, Data: scene.Data{Name: "Cache"}},
	}
	edges := []scene.Edge{{ID: "api->store", Source: "api", Target: "store"}}
	res := layout.Layout(nodes, edges, scene.LeftToRight, layout.Options{})
	res.Nodes[0].Selected = true
	res.Edges[0].Highlighted = true
	return interaction.Snapshot{
		Level:     scene.Modules,
		Direction: scene.LeftToRight,
		Nodes:     res.Nodes,
		Edges:     res.Edges,
		Selected:  "api",
		Width:     res.Width,
		Height:    res.Height,
	}
}

func TestFromSnapshot(t *testing.T) {
	s := FromSnapshot(testSnapshot(), layout.Options{})

	if s.Version != Version || s.Level != "modules" || s.Direction != "LR" {
		t.Errorf("header = %d %s %s", s.Version, s.Level, s.Direction)
	}
	if len(s.Nodes) != 3 || len(s.Edges) != 1 {
		t.Fatalf("got %d nodes %d edges", len(s.Nodes), len(s.Edges))
	}
	store := s.Nodes[1]
	if store.Kind != "database" || store.Label != "Store" || store.Meta["path"] != "db" {
		t.Errorf("store = %+v", store)
	}
	if store.Width != layout.DefaultNodeWidth || store.Height != layout.DefaultNodeHeight {
		t.Errorf("store box = %vx%v", store.Width, store.Height)
	}
	if !s.Nodes[0].Selected || !s.Edges[0].Highlighted || len(s.Edges[0].Points) != 2 {
		t.Errorf("flags or route lost: %+v %+v", s.Nodes[0], s.Edges[0])
	}
}

func TestSceneRoundTrip(t *testing.T) {
	want := testSnapshot()

	var buf bytes.Buffer
	if err := WriteScene(FromSnapshot(want, layout.Options{}), &buf); err != nil {
		t.Fatal(err)
	}
	s, err := ReadScene(&buf)
	if err != nil {
		t.Fatalf("ReadScene() error = %v", err)
	}
	got, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if got.Level != want.Level || got.Direction != want.Direction || got.Selected != want.Selected {
		t.Errorf("header = %+v", got)
	}
	for i := range want.Nodes {
		g, w := got.Nodes[i], want.Nodes[i]
		if g.ID != w.ID || g.Kind != w.Kind || g.Position != w.Position || g.Data.Name != w.Data.Name {
			t.Errorf("node %d = %+v, want %+v", i, g, w)
		}
	}
	if !reflect.DeepEqual(got.Edges, want.Edges) {
		t.Errorf("edges = %+v, want %+v", got.Edges, want.Edges)
	}
}

func TestUnmarshalSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"not json", `{`, errors.ErrCodeInvalidFormat},
		{"bad level", `{"level": "galaxy", "direction": "TB"}`, errors.ErrCodeInvalidLevel},
		{"bad direction", `{"level": "modules", "direction": "up"}`, errors.ErrCodeInvalidDirection},
		{"future version", `{"version": 99, "level": "modules"}`, errors.ErrCodeUnsupported},
		{"bad kind", `{"level": "modules", "nodes": [{"id": "a", "kind": "cloud"}]}`, errors.ErrCodeInvalidFormat},
		{"empty id", `{"level": "modules", "nodes": [{"id": ""}]}`, errors.ErrCodeInvalidInput},
		{"duplicate id", `{"level": "modules", "nodes": [{"id": "a"}, {"id": "a"}]}`, errors.ErrCodeInvalidFormat},
		{"dangling edge", `{"level": "modules", "nodes": [{"id": "a"}], "edges": [{"id": "e", "source": "a", "target": "b"}]}`, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalScene([]byte(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("UnmarshalScene() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestUnmarshalSceneDefaults(t *testing.T) {
	s, err := UnmarshalScene([]byte(`{"level": "abstract"}`))
	if err != nil {
		t.Fatal(err)
	}
	if s.Version != Version {
		t.Errorf("Version = %d, want %d", s.Version, Version)
	}
	snap, _ := s.Snapshot()
	if snap.Direction != scene.TopToBottom {
		t.Errorf("Direction = %v, want TB", snap.Direction)
	}
}

func TestSceneFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	want := FromSnapshot(testSnapshot(), layout.Options{})

	if err := WriteSceneFile(want, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSceneFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Nodes) != len(want.Nodes) || got.Level != want.Level {
		t.Errorf("ReadSceneFile() = %+v", got)
	}

	_, err = ReadSceneFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}

func TestDisplayLabel(t *testing.T) {
	if (Node{ID: "x"}).DisplayLabel() != "x" || (Node{ID: "x", Label: "X"}).DisplayLabel() != "X" {
		t.Error("DisplayLabel fallback broken")
	}
}
