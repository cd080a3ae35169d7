package ui

import (
	"image/color"

	"snake-game/game/types"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/golang/glog"
)

const borderPadding = 10 // Padding around game area

// palette maps the CSS color names the game uses onto raylib colors
var palette = map[string]color.RGBA{
	"green":      rl.Green,
	"lightgreen": rl.NewColor(144, 238, 144, 255),
	"red":        rl.Red,
}

// Renderer paints grid cells into the current raylib frame.
// Must be used between rl.BeginDrawing and rl.EndDrawing.
type Renderer struct {
	cellSize int32
	offsetX  int32
	offsetY  int32
}

func NewRenderer(cellSize int32) *Renderer {
	return &Renderer{
		cellSize: cellSize,
		offsetX:  borderPadding,
		offsetY:  borderPadding,
	}
}

// WindowSize returns the pixel size needed for a width x height grid
func (r *Renderer) WindowSize(width, height int) (int32, int32) {
	return int32(width)*r.cellSize + borderPadding*2, int32(height)*r.cellSize + borderPadding*2
}

// CellAt converts window coordinates into grid coordinates. The result may
// be off the grid when the pointer is over the padding.
func (r *Renderer) CellAt(x, y float32) types.Cell {
	return types.Cell{
		X: floorDiv(int32(x)-r.offsetX, r.cellSize),
		Y: floorDiv(int32(y)-r.offsetY, r.cellSize),
	}
}

func floorDiv(a, b int32) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return int(q)
}

func (r *Renderer) ClearAll() {
	rl.ClearBackground(rl.Black)
}

func (r *Renderer) DrawCell(x, y int, name string) {
	c, ok := palette[name]
	if !ok {
		glog.Warningf("unknown cell color %q", name)
		c = rl.Magenta
	}
	rl.DrawRectangle(
		r.offsetX+int32(x)*r.cellSize,
		r.offsetY+int32(y)*r.cellSize,
		r.cellSize, r.cellSize, c)
}
