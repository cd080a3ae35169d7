// Package terminal plays the game on a tcell screen, either the local
// terminal or one attached to an ssh session.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snake-game/game"
	"snake-game/game/types"
	"snake-game/ui/input"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/glog"
)

// cellWidth is the number of terminal columns per grid cell; terminal
// glyphs are about twice as tall as they are wide.
const cellWidth = 2

// Canvas draws grid cells as colored blocks inside a border
type Canvas struct {
	screen tcell.Screen
	grid   types.Grid
	title  string
}

func NewCanvas(screen tcell.Screen, grid types.Grid, title string) *Canvas {
	return &Canvas{screen: screen, grid: grid, title: title}
}

// Transform maps a grid cell to the screen position of its left column.
// Row 0 holds the title and row 1 the top border.
func (c *Canvas) Transform(x, y int) (int, int) {
	return 1 + x*cellWidth, 2 + y
}

func (c *Canvas) ClearAll() {
	c.screen.Clear()

	style := tcell.StyleDefault
	for i, r := range c.title {
		c.screen.SetContent(i, 0, r, nil, style)
	}

	right := 1 + c.grid.Width*cellWidth
	bottom := 2 + c.grid.Height
	c.screen.SetContent(0, 1, '+', nil, style)
	c.screen.SetContent(right, 1, '+', nil, style)
	c.screen.SetContent(0, bottom, '+', nil, style)
	c.screen.SetContent(right, bottom, '+', nil, style)
	for i := 1; i < right; i++ {
		c.screen.SetContent(i, 1, '-', nil, style)
		c.screen.SetContent(i, bottom, '-', nil, style)
	}
	for i := 2; i < bottom; i++ {
		c.screen.SetContent(0, i, '|', nil, style)
		c.screen.SetContent(right, i, '|', nil, style)
	}
}

func (c *Canvas) DrawCell(x, y int, name string) {
	color := tcell.GetColor(name)
	if color == tcell.ColorDefault {
		glog.Warningf("unknown cell color %q", name)
	}
	style := tcell.StyleDefault.Background(color).Foreground(color)
	sx, sy := c.Transform(x, y)
	for i := 0; i < cellWidth; i++ {
		c.screen.SetContent(sx+i, sy, ' ', nil, style)
	}
}

// session turns screen events into game inputs
type session struct {
	screen  tcell.Screen
	pointer input.Pointer
	log     string
}

// translate returns the input for ev, if any, and whether the session should end
func (s *session) translate(ev tcell.Event) (game.Input, bool) {
	switch evt := ev.(type) {
	case *tcell.EventError:
		glog.Warningf("%s: tcell error: %s", s.log, evt.Error())
		return nil, true
	case *tcell.EventResize:
		s.screen.Sync()
	case *tcell.EventKey:
		switch evt.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return nil, true
		case tcell.KeyRune:
			if d, ok := input.KeyDirection(evt.Rune()); ok {
				return func(g *game.Game) { g.ChangeDirection(d) }, false
			}
		}
	case *tcell.EventMouse:
		x, y := evt.Position()
		edge := s.pointer.Sample(evt.Buttons()&tcell.Button1 != 0)
		if edge != input.NoEdge {
			return func(g *game.Game) { input.Apply(edge, float64(x), float64(y), g) }, false
		}
	}
	return nil, false
}

// Play runs g on an initialized screen until the player presses Esc, the
// screen fails, or ctx is done. The caller still owns the screen and must
// Fini it.
func Play(ctx context.Context, screen tcell.Screen, g *game.Game, interval time.Duration, name string) error {
	screen.EnableMouse()
	screen.HideCursor()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	s := &session{screen: screen, log: name}
	inputs := make(chan game.Input)
	go func() {
		defer close(inputs)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				in, stop := s.translate(ev)
				if stop {
					return
				}
				if in == nil {
					continue
				}
				select {
				case inputs <- in:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	title := fmt.Sprintf("snake %dx%d  w/a/s/d to steer, esc to quit", g.Grid.Width, g.Grid.Height)
	canvas := NewCanvas(screen, g.Grid, title)

	glog.Infof("%s: playing run %s", name, g.RunID())
	err := g.Run(ctx, interval, inputs, canvas, screen.Show)
	glog.Infof("%s: left after %d runs, %.1fs", name, g.Runs(), g.ElapsedTime())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// RunTerminal plays g on the local terminal
func RunTerminal(ctx context.Context, g *game.Game, interval time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	return Play(ctx, screen, g, interval, "[terminal]")
}
