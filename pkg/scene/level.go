package scene

import (
	"strings"

	"github.com/orakul/orakul/pkg/errors"
)

// Level is one of the fixed granularities at which a system is projected.
// Levels are totally ordered from coarse (Abstract) to fine (Components).
type Level int

const (
	// Abstract shows top-level subsystems and their dependencies.
	Abstract Level = iota
	// Modules shows modules and their imports.
	Modules
	// Components shows individual components (files, classes) and their calls.
	Components
)

// Levels lists every level in coarse-to-fine order.
var Levels = []Level{Abstract, Modules, Components}

var levelNames = [...]string{
	Abstract:   "abstract",
	Modules:    "modules",
	Components: "components",
}

var levelLabels = [...]string{
	Abstract:   "Abstract",
	Modules:    "Modules",
	Components: "Components",
}

// String returns the lowercase wire name ("abstract", "modules", "components").
func (l Level) String() string {
	if !l.Valid() {
		return "unknown"
	}
	return levelNames[l]
}

// Label returns the human-readable name shown by view selectors.
func (l Level) Label() string {
	if !l.Valid() {
		return "Unknown"
	}
	return levelLabels[l]
}

// Valid reports whether l is one of the three defined levels.
func (l Level) Valid() bool { return l >= Abstract && l <= Components }

// Coarser reports whether l shows less detail than other.
func (l Level) Coarser(other Level) bool { return l < other }

// ParseLevel parses a level name case-insensitively. Single-letter and
// singular forms ("a", "module", "component") are accepted for the CLI.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "abstract", "a":
		return Abstract, nil
	case "modules", "module", "m":
		return Modules, nil
	case "components", "component", "c":
		return Components, nil
	}
	return Abstract, errors.New(errors.ErrCodeInvalidLevel, "unknown level %q (want abstract, modules or components)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidLevel, "invalid level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
