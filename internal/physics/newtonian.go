package physics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

type Newtonian struct {
	Gravity   float64
	Softening float64
}

func NewNewtonian() *Newtonian {
	return &Newtonian{
		Gravity:   celestial.G,
		Softening: DefaultSoftening,
	}
}

func (n *Newtonian) Name() string   { return "newtonian" }
func (n *Newtonian) G() float64     { return n.Gravity }
func (n *Newtonian) SetG(g float64) { n.Gravity = g }

func (n *Newtonian) PairForce(b1, b2 *celestial.Body) (vector.Vector, float64) {
	r := b2.Position.Sub(b1.Position)
	distance := r.Magnitude()

	eps2 := n.Softening * n.Softening
	d2 := distance*distance + eps2
	if d2 == 0 {
		return vector.Zero, distance
	}

	magnitude := n.Gravity * b1.Mass * b2.Mass / d2
	return r.Normalize().Mul(magnitude), distance
}

func (n *Newtonian) Forces(bodies []*celestial.Body) []vector.Vector {
	return accumulate(bodies, n.PairForce)
}

func (n *Newtonian) OrbitalVelocity(centralMass, distance float64) float64 {
	if distance <= 0 {
		return 0
	}
	return math.Sqrt(n.Gravity * centralMass / distance)
}
