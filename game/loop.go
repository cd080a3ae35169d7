package game

import (
	"context"
	"time"

	"snake-game/game/entity"
)

// Input is a mutation delivered to the goroutine that owns the game
type Input func(*Game)

// Pacer gates updates in a frame loop that runs faster than the tick period.
type Pacer struct {
	Interval   time.Duration
	lastUpdate time.Time
}

func NewPacer(interval time.Duration, now time.Time) *Pacer {
	return &Pacer{Interval: interval, lastUpdate: now}
}

// Due reports whether a tick is owed at now, and if so starts the next period
func (p *Pacer) Due(now time.Time) bool {
	if now.Sub(p.lastUpdate) < p.Interval {
		return false
	}
	p.lastUpdate = now
	return true
}

// Run drives the game from a single goroutine. Inputs are applied as they
// arrive and the game ticks every interval; after, if set, runs after each
// draw. Run returns nil once inputs is closed, or ctx.Err() on cancellation.
func (g *Game) Run(ctx context.Context, interval time.Duration, inputs <-chan Input, canvas entity.Canvas, after func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	g.Draw(canvas)
	if after != nil {
		after()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case input, ok := <-inputs:
			if !ok {
				return nil
			}
			input(g)
		case <-ticker.C:
			g.Tick(canvas)
			if after != nil {
				after()
			}
		}
	}
}
