package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/orakul/orakul/pkg/graph"
	"github.com/orakul/orakul/pkg/layout"
	"github.com/orakul/orakul/pkg/observability"
	"github.com/orakul/orakul/pkg/scene"
	"github.com/orakul/orakul/pkg/views"
)

func newTestServer(t *testing.T) (*httptest.Server, *metrics) {
	t.Helper()
	m := newMetrics()
	m.register()
	t.Cleanup(observability.Reset)

	logger := log.New(io.Discard)
	s := newSceneServer(exploreRaw(), scene.Abstract, scene.TopToBottom, layout.DefaultOptions(), logger)
	ts := httptest.NewServer(s.routes(m))
	t.Cleanup(ts.Close)
	return ts, m
}

func postEvent(t *testing.T, ts *httptest.Server, body string) (*http.Response, eventResponse) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/events", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out eventResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
	}
	return resp, out
}

func TestServeScene(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/scene")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	s, err := graph.ReadScene(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if s.Level != "abstract" || len(s.Nodes) != 2 || len(s.Edges) != 1 {
		t.Errorf("scene = %+v", s)
	}
}

func TestServeEvents(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantChanged bool
		check       func(*testing.T, graph.Scene)
	}{
		{
			name:        "select",
			body:        `{"type":"select","ids":["store"]}`,
			wantStatus:  http.StatusOK,
			wantChanged: true,
			check: func(t *testing.T, s graph.Scene) {
				if s.Selected != "store" || !s.Edges[0].Highlighted {
					t.Errorf("selection not applied: %+v", s)
				}
			},
		},
		{
			name:       "self loop ignored",
			body:       `{"type":"connect","source":"api","target":"api"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:        "add planned",
			body:        `{"type":"add","name":"cache"}`,
			wantStatus:  http.StatusOK,
			wantChanged: true,
			check: func(t *testing.T, s graph.Scene) {
				if len(s.Nodes) != 3 {
					t.Errorf("nodes = %d, want 3", len(s.Nodes))
				}
			},
		},
		{
			name:        "level",
			body:        `{"type":"level","level":"modules"}`,
			wantStatus:  http.StatusOK,
			wantChanged: true,
			check: func(t *testing.T, s graph.Scene) {
				if s.Level != "modules" || len(s.Nodes) != 2 {
					t.Errorf("scene = %+v", s)
				}
			},
		},
		{name: "unknown type", body: `{"type":"explode"}`, wantStatus: http.StatusBadRequest},
		{name: "bad level", body: `{"type":"level","level":"galaxy"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := postEvent(t, ts, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if out.Changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", out.Changed, tt.wantChanged)
			}
			if tt.check != nil {
				tt.check(t, out.Scene)
			}
		})
	}
}

func TestServeActivateDrillsDown(t *testing.T) {
	ts, _ := newTestServer(t)

	_, out := postEvent(t, ts, `{"type":"activate","id":"api"}`)
	if out.Scene.Level != "modules" {
		t.Errorf("level = %q, want modules", out.Scene.Level)
	}
}

func TestServeLevels(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/levels")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var opts []views.Option
	if err := json.NewDecoder(resp.Body).Decode(&opts); err != nil {
		t.Fatal(err)
	}
	if len(opts) != 3 || !opts[0].Active || opts[1].Active {
		t.Errorf("options = %+v", opts)
	}
}

func TestServeMetrics(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/scene"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}
	postEvent(t, ts, `{"type":"relayout"}`)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`orakul_http_requests_total{method="GET",route="/healthz",status="200"} 1`,
		`orakul_events_total{changed="true",type="relayout"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestMetricsHooks(t *testing.T) {
	m := newMetrics()
	ctx := context.Background()

	m.OnCacheHit(ctx, "scene")
	m.OnCacheMiss(ctx, "scene")
	m.OnCacheSet(ctx, "scene", 512)
	m.OnLoadComplete(ctx, "doc.json", time.Millisecond, io.EOF)
	m.OnLevelChange("modules", 4, 3, time.Millisecond)

	families, err := m.registry.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{
		"orakul_cache_operations_total",
		"orakul_pipeline_stage_errors_total",
		"orakul_level_changes_total",
		"orakul_scene_elements",
	} {
		if !found[name] {
			t.Errorf("metric %s not gathered", name)
		}
	}
}
