// Package scene defines the Scene interface for the range viewer screens.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene is one screen of the viewer. The game loop delegates Update and Draw
// to the current scene and switches scenes when Update returns a new one.
type Scene interface {
	// Update advances the scene by dt seconds, one simulation tick.
	// A non-nil next scene replaces this one; an error stops the loop.
	Update(dt float64) (next Scene, err error)

	Draw(screen *ebiten.Image)

	// OnEnter is called each time the scene becomes current.
	OnEnter()

	// OnExit is called when the scene is replaced or the loop stops.
	OnExit()
}
