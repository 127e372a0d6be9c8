package scene

import (
	"strings"

	"github.com/orakul/orakul/pkg/errors"
)

// Kind is the closed set of node kinds. Renderers dispatch on Kind through
// the capability table instead of looking up widget types by name.
type Kind int

const (
	// Actual is an element that exists in the analysed system.
	Actual Kind = iota
	// Database is an actual element that stores data.
	Database
	// Planned is a user-sketched element that exists only in the session.
	Planned
)

// Kinds lists every node kind.
var Kinds = []Kind{Actual, Database, Planned}

// Shape is the outline a renderer should draw for a node.
type Shape string

const (
	ShapeBox      Shape = "box"
	ShapeCylinder Shape = "cylinder"
	ShapeNote     Shape = "note"
)

// Capabilities describes what a renderer may do with a node of a given kind.
type Capabilities struct {
	Shape  Shape  // outline
	Fill   string // fill color name understood by Graphviz and CSS
	Dashed bool   // dashed outline for non-existing elements

	// DrillDown reports whether activating the node asks the host to
	// navigate into it.
	DrillDown bool

	// Editable lists the display fields a user may change.
	Editable []string
}

var capabilities = [...]Capabilities{
	Actual: {
		Shape:     ShapeBox,
		Fill:      "white",
		DrillDown: true,
	},
	Database: {
		Shape:     ShapeCylinder,
		Fill:      "lightyellow",
		DrillDown: true,
	},
	Planned: {
		Shape:    ShapeNote,
		Fill:     "honeydew",
		Dashed:   true,
		Editable: []string{"name"},
	},
}

// CapabilitiesOf returns the capability table entry for k. Unknown kinds
// get the Actual entry.
func CapabilitiesOf(k Kind) Capabilities {
	if !k.Valid() {
		k = Actual
	}
	c := capabilities[k]
	c.Editable = append([]string(nil), c.Editable...)
	return c
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool { return k >= Actual && k <= Planned }

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case Actual:
		return "actual"
	case Database:
		return "database"
	case Planned:
		return "planned"
	}
	return "unknown"
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "actual", "":
		return Actual, nil
	case "database", "db":
		return Database, nil
	case "planned":
		return Planned, nil
	}
	return Actual, errors.New(errors.ErrCodeInvalidInput, "unknown node kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
