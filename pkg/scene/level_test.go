package scene

import (
	"encoding/json"
	"testing"

	"github.com/orakul/orakul/pkg/errors"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"abstract", Abstract, false},
		{"Modules", Modules, false},
		{"module", Modules, false},
		{" components ", Components, false},
		{"c", Components, false},
		{"galaxy", Abstract, true},
		{"", Abstract, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidLevel) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidLevel)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelOrder(t *testing.T) {
	if !Abstract.Coarser(Modules) || !Modules.Coarser(Components) {
		t.Error("levels must be ordered abstract < modules < components")
	}
	if Components.Coarser(Abstract) {
		t.Error("components must not be coarser than abstract")
	}
	if len(Levels) != 3 {
		t.Fatalf("len(Levels) = %d, want 3", len(Levels))
	}
	for i := 1; i < len(Levels); i++ {
		if !Levels[i-1].Coarser(Levels[i]) {
			t.Errorf("Levels[%d] is not coarser than Levels[%d]", i-1, i)
		}
	}
}

func TestLevelText(t *testing.T) {
	data, err := json.Marshal(map[string]Level{"level": Modules})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"level":"modules"}` {
		t.Errorf("marshal = %s", data)
	}

	var out map[string]Level
	if err := json.Unmarshal([]byte(`{"level":"components"}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["level"] != Components {
		t.Errorf("level = %v, want components", out["level"])
	}

	if _, err := Level(7).MarshalText(); err == nil {
		t.Error("marshal of invalid level should fail")
	}
	if Level(7).String() != "unknown" || Level(-1).Label() != "Unknown" {
		t.Error("invalid levels should print as unknown")
	}
}
