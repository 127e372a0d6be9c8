package interaction

import (
	"encoding/json"
	"strings"

	"github.com/orakul/orakul/pkg/errors"
	"github.com/orakul/orakul/pkg/scene"
)

// Event is a user or host action handled by [Controller.Dispatch]. The set
// is closed: LevelChange, NodeActivate, SelectionChange, AddNode, Connect
// and Relayout.
type Event interface {
	// Type returns the wire name of the event.
	Type() string
	isEvent()
}

// LevelChange switches the active level.
type LevelChange struct{ Level scene.Level }

// NodeActivate is a double activation (drill-down request) on a node.
type NodeActivate struct{ ID string }

// SelectionChange replaces the selection. The first id becomes active.
type SelectionChange struct{ IDs []string }

// AddNode adds a planned node.
type AddNode struct{ Name string }

// Connect adds an edge between two existing nodes.
type Connect struct{ Source, Target string }

// Relayout re-runs the layout on the current session.
type Relayout struct{}

func (LevelChange) Type() string     { return "level" }
func (NodeActivate) Type() string    { return "activate" }
func (SelectionChange) Type() string { return "select" }
func (AddNode) Type() string         { return "add" }
func (Connect) Type() string         { return "connect" }
func (Relayout) Type() string        { return "relayout" }

func (LevelChange) isEvent()     {}
func (NodeActivate) isEvent()    {}
func (SelectionChange) isEvent() {}
func (AddNode) isEvent()         {}
func (Connect) isEvent()         {}
func (Relayout) isEvent()        {}

// wireEvent is the JSON form of an event:
//
//	{"type": "level", "level": "modules"}
//	{"type": "activate", "id": "billing"}
//	{"type": "select", "ids": ["billing"]}
//	{"type": "add", "name": "NewService"}
//	{"type": "connect", "source": "billing", "target": "auth"}
//	{"type": "relayout"}
type wireEvent struct {
	Type   string   `json:"type"`
	Level  string   `json:"level,omitempty"`
	ID     string   `json:"id,omitempty"`
	IDs    []string `json:"ids,omitempty"`
	Name   string   `json:"name,omitempty"`
	Source string   `json:"source,omitempty"`
	Target string   `json:"target,omitempty"`
}

// DecodeEvent parses the JSON form of an event.
func DecodeEvent(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "decode event")
	}

	switch strings.ToLower(w.Type) {
	case "level":
		level, err := scene.ParseLevel(w.Level)
		if err != nil {
			return nil, err
		}
		return LevelChange{Level: level}, nil
	case "activate":
		return NodeActivate{ID: w.ID}, nil
	case "select":
		return SelectionChange{IDs: w.IDs}, nil
	case "add":
		return AddNode{Name: w.Name}, nil
	case "connect":
		return Connect{Source: w.Source, Target: w.Target}, nil
	case "relayout":
		return Relayout{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidEvent, "unknown event type %q", w.Type)
}

// EncodeEvent returns the JSON form of ev.
func EncodeEvent(ev Event) ([]byte, error) {
	w := wireEvent{Type: ev.Type()}
	switch ev := ev.(type) {
	case LevelChange:
		w.Level = ev.Level.String()
	case NodeActivate:
		w.ID = ev.ID
	case SelectionChange:
		w.IDs = ev.IDs
	case AddNode:
		w.Name = ev.Name
	case Connect:
		w.Source, w.Target = ev.Source, ev.Target
	}
	return json.Marshal(w)
}
