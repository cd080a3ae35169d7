package entity

import (
	"fmt"
	"math"

	"snake-game/game/manager"
	"snake-game/game/types"
)

// Colors handed to the Canvas for each kind of cell
const (
	HeadColor = "green"
	TailColor = "lightgreen"
	FoodColor = "red"
)

// touchEpsilon is the smallest horizontal travel that counts as a swipe
const touchEpsilon = 0.00000005

// Canvas paints grid cells. Implemented by the frontends in ui.
type Canvas interface {
	ClearAll()
	DrawCell(x, y int, color string)
}

// Snake is the whole state of one run: head, body, food and the
// direction queue. It is not safe for concurrent use.
type Snake struct {
	head types.Cell
	// tail is ordered nearest-to-head first
	tail []types.Cell
	food types.Cell
	grid types.Grid

	direction     types.Direction
	nextDirection types.Direction
	lastDirection types.Direction

	touchStartX float64
	touchStartY float64

	spawner   *manager.FoodManager
	collision *manager.CollisionManager
}

// NewSnake starts a run on grid with a random head and food. Head and food
// are drawn independently, so they may coincide on the first tick.
func NewSnake(grid types.Grid, spawner *manager.FoodManager) (*Snake, error) {
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("new snake: %w", err)
	}
	if spawner == nil {
		return nil, fmt.Errorf("new snake: nil food manager")
	}
	return spawn(grid, spawner, manager.NewCollisionManager()), nil
}

func spawn(grid types.Grid, spawner *manager.FoodManager, collision *manager.CollisionManager) *Snake {
	head := spawner.RandomCell(grid)
	food := spawner.RandomCell(grid)

	return &Snake{
		head:          head,
		tail:          make([]types.Cell, 0),
		food:          food,
		grid:          grid,
		direction:     types.None,
		nextDirection: types.None,
		lastDirection: types.Right,
		spawner:       spawner,
		collision:     collision,
	}
}

// ChangeDirection requests a turn. The first request in a tick is applied on
// the next Update, a second one is queued for the tick after. Reversals
// against the direction they would follow are dropped.
func (s *Snake) ChangeDirection(requested types.Direction) {
	if requested == types.None {
		return
	}

	if s.direction == types.None {
		if !types.Opposite(s.lastDirection, requested) {
			s.direction = requested
		}
		return
	}

	if !types.Opposite(s.direction, requested) {
		s.nextDirection = requested
	}
}

// TouchDown records where a swipe started
func (s *Snake) TouchDown(x, y float64) {
	s.touchStartX = x
	s.touchStartY = y
}

// TouchUp turns the swipe that started at the last TouchDown into a
// direction request.
func (s *Snake) TouchUp(x, y float64) {
	if d, ok := SwipeDirection(x-s.touchStartX, y-s.touchStartY); ok {
		s.ChangeDirection(d)
	}
}

// SwipeDirection maps a swipe vector to a direction by the quadrant of
// atan2(dy, dx). Swipes with no horizontal travel are ignored.
func SwipeDirection(dx, dy float64) (types.Direction, bool) {
	if math.Abs(dx) < touchEpsilon {
		return types.None, false
	}

	angle := math.Atan2(dy, dx)
	switch {
	case angle >= 0 && angle < math.Pi/2:
		return types.Right, true
	case angle >= math.Pi/2 && angle < math.Pi:
		return types.Up, true
	case angle == math.Pi || angle < -math.Pi/2:
		return types.Left, true
	default:
		return types.Down, true
	}
}

// Update advances the run by one tick and returns the snake to keep using.
// That is s itself, or a brand new snake on the same grid when the head ran
// into the body or the body filled the board.
func (s *Snake) Update() *Snake {
	direction := s.direction
	if direction == types.None {
		direction = s.lastDirection
	}
	s.lastDirection = direction

	newHead := s.grid.Step(s.head, direction)

	// Shift the body forward; the oldest segment is kept aside in case we eat
	s.tail = append(s.tail, types.Cell{})
	copy(s.tail[1:], s.tail)
	s.tail[0] = s.head
	dropped := s.tail[len(s.tail)-1]
	s.tail = s.tail[:len(s.tail)-1]

	if s.collision.HitsBody(newHead, s.tail) {
		return spawn(s.grid, s.spawner, s.collision)
	}

	s.head = newHead

	if s.collision.IsFoodCollision(s.head, s.food) {
		// dropped grows back onto the end, so food must avoid it too. On a
		// grid one cell thick the head can step onto itself; then dropped is
		// the head and there is nothing to grow.
		grow := dropped != s.head
		occupied := 1 + len(s.tail)
		if grow {
			occupied++
		}
		food, ok := s.spawner.Place(s.grid, occupied, func(c types.Cell) bool {
			return c == s.head || c == dropped || s.collision.HitsBody(c, s.tail)
		})
		if !ok {
			return spawn(s.grid, s.spawner, s.collision)
		}
		s.food = food
		if grow {
			s.tail = append(s.tail, dropped)
		}
	}

	s.direction = s.nextDirection
	s.nextDirection = types.None
	return s
}

// Draw paints head, then tail in order, then food. Later cells win where they overlap.
func (s *Snake) Draw(canvas Canvas) {
	canvas.ClearAll()
	canvas.DrawCell(s.head.X, s.head.Y, HeadColor)
	for _, c := range s.tail {
		canvas.DrawCell(c.X, c.Y, TailColor)
	}
	canvas.DrawCell(s.food.X, s.food.Y, FoodColor)
}

func (s *Snake) Head() types.Cell { return s.head }
func (s *Snake) Food() types.Cell { return s.food }
func (s *Snake) Grid() types.Grid { return s.grid }

// Tail returns a copy of the body, nearest segment first
func (s *Snake) Tail() []types.Cell {
	tail := make([]types.Cell, len(s.tail))
	copy(tail, s.tail)
	return tail
}

// Len is the number of body segments behind the head
func (s *Snake) Len() int { return len(s.tail) }

func (s *Snake) Direction() types.Direction     { return s.direction }
func (s *Snake) NextDirection() types.Direction { return s.nextDirection }
func (s *Snake) LastDirection() types.Direction { return s.lastDirection }
