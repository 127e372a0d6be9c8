// Package views implements the level selector shown next to a diagram.
//
// A [Selector] owns no state. It reads the current level from the host and
// reports change requests back to it; the host decides whether to call
// [interaction.Controller.SetLevel].
//
// [interaction.Controller.SetLevel]: github.com/orakul/orakul/pkg/interaction
package views

import "github.com/orakul/orakul/pkg/scene"

// Option is one entry of the selector.
type Option struct {
	Level  scene.Level `json:"level"`
	Label  string      `json:"label"`
	Active bool        `json:"active"`
}

// Selector exposes the three levels and forwards change requests.
type Selector struct {
	// Current returns the host's active level.
	Current func() scene.Level
	// OnChange is called with a requested level that differs from the
	// current one.
	OnChange func(scene.Level)
}

func (s Selector) current() scene.Level {
	if s.Current == nil {
		return scene.Abstract
	}
	return s.Current()
}

// Options lists every level, coarse to fine, marking the active one.
func (s Selector) Options() []Option {
	cur := s.current()
	out := make([]Option, len(scene.Levels))
	for i, l := range scene.Levels {
		out[i] = Option{Level: l, Label: l.Label(), Active: l == cur}
	}
	return out
}

// Request reports level upward and returns true, unless it is invalid or
// already active.
func (s Selector) Request(level scene.Level) bool {
	if !level.Valid() || level == s.current() {
		return false
	}
	if s.OnChange != nil {
		s.OnChange(level)
	}
	return true
}

// Next requests the next finer level, wrapping around.
func (s Selector) Next() bool {
	return s.Request(scene.Levels[(int(s.current())+1)%len(scene.Levels)])
}

// Prev requests the next coarser level, wrapping around.
func (s Selector) Prev() bool {
	n := len(scene.Levels)
	return s.Request(scene.Levels[(int(s.current())+n-1)%n])
}
