package integrators

import (
	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

// Euler updates velocity before position, which makes it the semi-implicit
// (symplectic) variant.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Integrate(b *celestial.Body, force vector.Vector, dt float64) {
	if b.FixedPosition {
		return
	}
	prev := b.Position
	b.Acceleration = acceleration(b, force)
	b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	b.RecordStep(prev, dt)
}
