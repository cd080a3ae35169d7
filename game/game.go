package game

import (
	"fmt"
	"time"

	"snake-game/game/entity"
	"snake-game/game/manager"
	"snake-game/game/types"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

// Game owns the live snake. Every input and tick goes through it, and
// it swaps in whatever snake Update hands back.
type Game struct {
	Grid      types.Grid
	StartTime time.Time

	snake   *entity.Snake
	spawner *manager.FoodManager
	stats   *Stats

	runID    string
	runStart time.Time
	runs     int
	ticks    int
}

func NewGame(grid types.Grid, seed uint64) (*Game, error) {
	spawner := manager.NewFoodManager(seed)
	snake, err := entity.NewSnake(grid, spawner)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	now := time.Now()
	g := &Game{
		Grid:      grid,
		StartTime: now,
		snake:     snake,
		spawner:   spawner,
		stats:     NewStats(),
		runID:     uuid.New().String(),
		runStart:  now,
		runs:      1,
	}
	glog.V(1).Infof("run %s started on %dx%d grid, head=%v food=%v",
		g.runID, grid.Width, grid.Height, snake.Head(), snake.Food())
	return g, nil
}

func (g *Game) ChangeDirection(d types.Direction) {
	glog.V(2).Infof("run %s: direction request %v", g.runID, d)
	g.snake.ChangeDirection(d)
}

func (g *Game) TouchDown(x, y float64) {
	g.snake.TouchDown(x, y)
}

func (g *Game) TouchUp(x, y float64) {
	g.snake.TouchUp(x, y)
}

// Update advances one tick and reports whether a new run started
func (g *Game) Update() bool {
	g.ticks++
	length := g.snake.Len()
	food := g.snake.Food()

	next := g.snake.Update()
	if next == g.snake {
		if next.Food() != food {
			glog.V(1).Infof("run %s: ate at %v, length %d, new food %v",
				g.runID, next.Head(), next.Len(), next.Food())
		}
		glog.V(2).Infof("run %s tick %d: head=%v dir=%v", g.runID, g.ticks, next.Head(), next.LastDirection())
		return false
	}

	g.endRun(length)
	g.snake = next
	g.runID = uuid.New().String()
	g.runs++
	glog.V(1).Infof("run %s started at %v", g.runID, next.Head())
	return true
}

func (g *Game) endRun(length int) {
	now := time.Now()
	record := RunRecord{
		RunID:     g.runID,
		StartTime: g.runStart,
		EndTime:   now,
		Score:     length,
		Ticks:     g.ticks,
	}
	g.stats.Add(record)
	glog.V(1).Infof("run %s ended: score %d after %d ticks in %v",
		record.RunID, record.Score, record.Ticks, record.Duration().Round(time.Millisecond))
	g.runStart = now
	g.ticks = 0
}

// Finish records the run in progress, for use when the player quits.
// The game should not be updated afterwards.
func (g *Game) Finish() {
	g.endRun(g.snake.Len())
}

// Draw paints the current snake
func (g *Game) Draw(canvas entity.Canvas) {
	g.snake.Draw(canvas)
}

// Tick is one loop iteration: update, then draw
func (g *Game) Tick(canvas entity.Canvas) bool {
	reset := g.Update()
	g.Draw(canvas)
	return reset
}

func (g *Game) Snake() *entity.Snake {
	return g.snake
}

func (g *Game) Stats() *Stats {
	return g.stats
}

func (g *Game) RunID() string {
	return g.runID
}

// Runs counts snakes started so far, including the current one
func (g *Game) Runs() int {
	return g.runs
}

// ElapsedTime returns seconds since the game was created
func (g *Game) ElapsedTime() float64 {
	return time.Since(g.StartTime).Seconds()
}
