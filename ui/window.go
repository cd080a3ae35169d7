package ui

import (
	"time"

	"snake-game/game"
	"snake-game/ui/input"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/golang/glog"
)

// keyRunes are the raylib key codes we care about, in polling order
var keyRunes = []struct {
	code int32
	key  rune
}{
	{rl.KeyW, 'w'},
	{rl.KeyA, 'a'},
	{rl.KeyS, 's'},
	{rl.KeyD, 'd'},
}

// RunWindow opens a raylib window and plays g until the window is closed
// or q is pressed. Everything runs on the calling goroutine, which must be
// the main one.
func RunWindow(g *game.Game, cellSize int32, interval time.Duration) error {
	renderer := NewRenderer(cellSize)
	width, height := renderer.WindowSize(g.Grid.Width, g.Grid.Height)

	rl.InitWindow(width, height, "Snake")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	glog.Infof("window %dx%d, grid %dx%d, tick %v", width, height, g.Grid.Width, g.Grid.Height, interval)

	pacer := game.NewPacer(interval, time.Now())
	var pointer input.Pointer

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		pollInput(g, renderer, &pointer)

		// Update game state at fixed interval
		if pacer.Due(time.Now()) {
			g.Update()
		}

		rl.BeginDrawing()
		g.Draw(renderer)
		rl.EndDrawing()
	}

	glog.Infof("window closed after %d runs, %.1fs", g.Runs(), g.ElapsedTime())
	return nil
}

func pollInput(g *game.Game, renderer *Renderer, pointer *input.Pointer) {
	for _, k := range keyRunes {
		if !rl.IsKeyPressed(k.code) {
			continue
		}
		if d, ok := input.KeyDirection(k.key); ok {
			g.ChangeDirection(d)
		}
	}

	// Touches arrive as the left mouse button
	pos := rl.GetMousePosition()
	edge := pointer.Sample(rl.IsMouseButtonDown(rl.MouseButtonLeft))
	if edge != input.NoEdge && glog.V(2) {
		if cell := renderer.CellAt(pos.X, pos.Y); g.Grid.Contains(cell) {
			glog.Infof("pointer edge %d at (%.0f, %.0f), cell %v", edge, pos.X, pos.Y, cell)
		} else {
			glog.Infof("pointer edge %d at (%.0f, %.0f), off the grid", edge, pos.X, pos.Y)
		}
	}
	input.Apply(edge, float64(pos.X), float64(pos.Y), g)
}
