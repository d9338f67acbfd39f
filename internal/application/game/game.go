// Package game drives the current scene at a fixed step and handles scene
// transitions.
package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/movingsphere/internal/application/scene"
)

// Game implements ebiten.Game and manages Scene transitions.
type Game struct {
	current scene.Scene
	screenW int
	screenH int
	dt      float64
	closed  bool
}

// New creates a new Game with the given initial scene, stepped dt seconds
// per update. The initial scene's OnEnter is called immediately.
func New(initialScene scene.Scene, screenW, screenH int, dt float64) *Game {
	g := &Game{
		current: initialScene,
		screenW: screenW,
		screenH: screenH,
		dt:      dt,
	}
	g.current.OnEnter()
	return g
}

// Update updates the current scene and handles scene transitions.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	next, err := g.current.Update(g.dt)
	if err != nil {
		return err
	}

	if next != nil {
		g.current.OnExit()
		g.current = next
		g.current.OnEnter()
	}
	return nil
}

// Draw renders the current scene.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	g.current.Draw(screen)
}

// Layout returns the current scene's logical screen size, or the configured
// size when the scene has no preference.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if l, ok := g.current.(scene.Layouter); ok {
		return l.Layout(outsideWidth, outsideHeight)
	}
	return g.screenW, g.screenH
}

// Current returns the active scene.
func (g *Game) Current() scene.Scene {
	return g.current
}

// Close exits the current scene once the loop has stopped. Later calls do
// nothing.
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.closed = true
	g.current.OnExit()
}

// TPS returns the ticks per second matching the fixed step.
func (g *Game) TPS() int {
	if g.dt <= 0 {
		return ebiten.DefaultTPS
	}
	return int(1/g.dt + 0.5)
}
