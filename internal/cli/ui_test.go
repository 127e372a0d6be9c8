package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintStatus(t *testing.T) {
	tests := []struct {
		name  string
		print func(string, ...any)
		icon  string
	}{
		{"success", printSuccess, "✓"},
		{"error", printError, "✗"},
		{"warning", printWarning, "!"},
		{"info", printInfo, "›"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			tt.print("wrote %d files", 3)

			got := out.String()
			if !strings.Contains(got, tt.icon) || !strings.Contains(got, "wrote 3 files") {
				t.Errorf("output = %q", got)
			}
			if !strings.HasSuffix(got, "\n") {
				t.Error("status line should end with a newline")
			}
		})
	}
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name   string
		nodes  int
		edges  int
		cached bool
		want   []string
		absent []string
	}{
		{"fresh", 4, 3, false, []string{"4 nodes", "3 edges", "fresh"}, []string{"cached"}},
		{"cached", 2, 0, true, []string{"2 nodes", "cached"}, []string{"edges"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			printStats(tt.nodes, tt.edges, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("missing %q in %q", w, out.String())
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out.String(), a) {
					t.Errorf("unexpected %q in %q", a, out.String())
				}
			}
		})
	}
}

func TestPrintFileAndNextStep(t *testing.T) {
	out := captureStdout(t)
	printFile("shop.abstract.scene.json")
	printNextStep("Render", "orakul visualize shop.abstract.scene.json")

	got := out.String()
	for _, w := range []string{"→", "shop.abstract.scene.json", "Render:", "orakul visualize"} {
		if !strings.Contains(got, w) {
			t.Errorf("missing %q in %q", w, got)
		}
	}
}
