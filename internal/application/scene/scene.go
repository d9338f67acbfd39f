// Package scene defines the screens hosted by the sandbox window.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene is one screen of the sandbox host. The host calls Update once per
// fixed physics step and Draw once per rendered frame.
type Scene interface {
	// Update advances the scene by dt seconds, the configured fixed step.
	// A non-nil next scene replaces this one; an error stops the host.
	Update(dt float64) (next Scene, err error)

	Draw(screen *ebiten.Image)

	// OnEnter runs each time the scene becomes current.
	OnEnter()

	// OnExit runs when the scene is replaced or the host shuts down.
	// Recordings are flushed here.
	OnExit()
}

// Layouter is implemented by scenes that choose their own logical screen
// size. Scenes without it use the host's configured size.
type Layouter interface {
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}
