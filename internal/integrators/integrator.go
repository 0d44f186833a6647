// Package integrators advances a single body's kinematic state from the net
// force acting on it. Integrators hold no per-body state; anything a scheme
// needs between steps lives on the Body.
package integrators

import (
	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

type Integrator interface {
	Name() string

	// Integrate moves b forward by dt under force and appends the new
	// position to its trail. Fixed-position bodies are left untouched.
	Integrate(b *celestial.Body, force vector.Vector, dt float64)
}

func acceleration(b *celestial.Body, force vector.Vector) vector.Vector {
	return force.Div(b.Mass)
}
