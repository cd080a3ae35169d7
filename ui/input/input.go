// Package input turns raw key and pointer samples from any frontend into
// snake direction requests and touch gestures.
package input

import (
	"snake-game/game/types"
)

// KeyDirection maps w/a/s/d to a direction. Arrow keys are
// not mapped.
func KeyDirection(key rune) (types.Direction, bool) {
	switch key {
	case 'w', 'W':
		return types.Up, true
	case 'a', 'A':
		return types.Left, true
	case 's', 'S':
		return types.Down, true
	case 'd', 'D':
		return types.Right, true
	}
	return types.None, false
}

// Edge is a change in pointer button state
type Edge int

const (
	NoEdge Edge = iota
	Pressed
	Released
)

// Pointer tracks whether the primary button (or finger) is down and
// reports transitions, so frontends that only expose the current button
// state can still produce TouchDown/TouchUp pairs.
type Pointer struct {
	down bool
}

// Sample feeds the current button state and returns the edge it caused
func (p *Pointer) Sample(down bool) Edge {
	switch {
	case down && !p.down:
		p.down = true
		return Pressed
	case !down && p.down:
		p.down = false
		return Released
	}
	return NoEdge
}

// Toucher receives gestures; *game.Game implements it
type Toucher interface {
	TouchDown(x, y float64)
	TouchUp(x, y float64)
}

// Apply forwards an edge at (x, y) to t
func Apply(e Edge, x, y float64, t Toucher) {
	switch e {
	case Pressed:
		t.TouchDown(x, y)
	case Released:
		t.TouchUp(x, y)
	}
}
