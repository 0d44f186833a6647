package integrators

import (
	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

// TwoStageRK combines two slopes with weights 1/3 and 2/3. Both velocity
// slopes use the force passed in; the state is never resampled at a midpoint,
// so this is not classical RK4.
type TwoStageRK struct{}

func NewTwoStageRK() *TwoStageRK {
	return &TwoStageRK{}
}

func (r *TwoStageRK) Name() string { return "rk2" }

func (r *TwoStageRK) Integrate(b *celestial.Body, force vector.Vector, dt float64) {
	if b.FixedPosition {
		return
	}
	acc := acceleration(b, force)

	k1v := acc.Mul(dt)
	k1p := b.Velocity.Mul(dt)

	k2v := acc.Mul(dt)
	k2p := b.Velocity.Add(k1v.Mul(0.5)).Mul(dt)

	prev := b.Position
	b.Velocity = b.Velocity.Add(k1v.Add(k2v.Mul(2)).Div(3))
	b.Position = b.Position.Add(k1p.Add(k2p.Mul(2)).Div(3))
	b.Acceleration = acc
	b.RecordStep(prev, dt)
}
