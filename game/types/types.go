package types

import (
	"errors"
	"fmt"
)

// ErrEmptyGrid is returned when a grid has a zero dimension.
var ErrEmptyGrid = errors.New("grid dimensions must be at least 1x1")

// Grid represents the game grid dimensions
type Grid struct {
	Width  int
	Height int
}

// Cell is one position on the grid
type Cell struct {
	X, Y int
}

// Validate checks that both dimensions are positive
func (g Grid) Validate() error {
	if g.Width < 1 || g.Height < 1 {
		return fmt.Errorf("grid %dx%d: %w", g.Width, g.Height, ErrEmptyGrid)
	}
	return nil
}

// Area is the number of cells on the grid
func (g Grid) Area() int {
	return g.Width * g.Height
}

// Contains reports whether c lies on the grid
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Step moves one cell from c in direction d. Both axes wrap around.
func (g Grid) Step(c Cell, d Direction) Cell {
	switch d {
	case Up:
		if c.Y == 0 {
			c.Y = g.Height - 1
		} else {
			c.Y--
		}
	case Down:
		c.Y = (c.Y + 1) % g.Height
	case Left:
		if c.X == 0 {
			c.X = g.Width - 1
		} else {
			c.X--
		}
	case Right:
		c.X = (c.X + 1) % g.Width
	}
	return c
}

// Direction is a cardinal direction. None means no direction.
type Direction int

const (
	None Direction = iota
	Up
	Right
	Down
	Left
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "none"
	}
}

// Opposite reports whether a and b point in antiparallel directions.
func Opposite(a, b Direction) bool {
	switch a {
	case Up:
		return b == Down
	case Down:
		return b == Up
	case Left:
		return b == Right
	case Right:
		return b == Left
	}
	return false
}
