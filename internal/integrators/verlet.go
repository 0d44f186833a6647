package integrators

import (
	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

// Verlet is the position form x' = 2x - x_prev + a·dt². Velocity is not used
// to drive the update; it is back-derived as the central difference
// (x' - x_prev)/(2·dt) and therefore lags the position by one step.
//
// The history encodes the previous step length. When dt changes, the last
// displacement x - x_prev is rescaled to the new dt before stepping. A zero
// dt leaves the body untouched.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Integrate(b *celestial.Body, force vector.Vector, dt float64) {
	if b.FixedPosition || dt == 0 {
		return
	}
	acc := acceleration(b, force)
	dt2 := dt * dt

	prev := b.PreviousPosition
	switch last := b.StepLength(); {
	case !b.HistoryPrimed() || last == 0:
		// second-order Taylor seed for a body that has no step history yet
		prev = b.Position.Sub(b.Velocity.Mul(dt)).Add(acc.Mul(0.5 * dt2))
	case last != dt:
		prev = b.Position.Sub(b.Position.Sub(prev).Mul(dt / last))
	}

	old := b.Position
	next := old.Mul(2).Sub(prev).Add(acc.Mul(dt2))
	b.Velocity = next.Sub(prev).Div(2 * dt)

	b.Acceleration = acc
	b.Position = next
	b.RecordStep(old, dt)
}
