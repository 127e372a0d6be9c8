package scene

import (
	"strings"

	"github.com/orakul/orakul/pkg/errors"
)

// Direction is the flow of a layered drawing: the side sources are placed on
// and the side edges point to.
type Direction int

const (
	// TopToBottom places sources at the top. This is the default.
	TopToBottom Direction = iota
	// BottomToTop places sources at the bottom.
	BottomToTop
	// LeftToRight places sources on the left.
	LeftToRight
	// RightToLeft places sources on the right.
	RightToLeft
)

// Directions lists every direction.
var Directions = []Direction{TopToBottom, BottomToTop, LeftToRight, RightToLeft}

var directionNames = [...]string{
	TopToBottom: "TB",
	BottomToTop: "BT",
	LeftToRight: "LR",
	RightToLeft: "RL",
}

// String returns the Graphviz-style rank direction ("TB", "BT", "LR", "RL").
func (d Direction) String() string {
	if !d.Valid() {
		return "unknown"
	}
	return directionNames[d]
}

// Valid reports whether d is a defined direction.
func (d Direction) Valid() bool { return d >= TopToBottom && d <= RightToLeft }

// Horizontal reports whether layers advance along the x axis.
func (d Direction) Horizontal() bool { return d == LeftToRight || d == RightToLeft }

// Reversed reports whether layers advance towards negative coordinates.
func (d Direction) Reversed() bool { return d == BottomToTop || d == RightToLeft }

// ParseDirection parses "TB", "BT", "LR" or "RL" case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TB", "":
		return TopToBottom, nil
	case "BT":
		return BottomToTop, nil
	case "LR":
		return LeftToRight, nil
	case "RL":
		return RightToLeft, nil
	}
	return TopToBottom, errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q (want TB, BT, LR or RL)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidDirection, "invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
