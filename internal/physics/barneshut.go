package physics

import (
	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

// DefaultTheta is the opening angle below which a quadtree cell is treated as
// a single mass.
const DefaultTheta = 0.5

// BarnesHut approximates Newtonian forces with a quadtree, O(n log n) per
// tick instead of O(n²). Theta 0 opens every cell and gives the exact
// pairwise sum. Pair forces and orbital velocities are those of the wrapped
// Newtonian model.
type BarnesHut struct {
	newton *Newtonian
	Theta  float64
}

func NewBarnesHut() *BarnesHut {
	return &BarnesHut{newton: NewNewtonian(), Theta: DefaultTheta}
}

func (b *BarnesHut) Name() string   { return "barnes_hut" }
func (b *BarnesHut) G() float64     { return b.newton.Gravity }
func (b *BarnesHut) SetG(g float64) { b.newton.SetG(g) }

func (b *BarnesHut) Newtonian() *Newtonian { return b.newton }

func (b *BarnesHut) PairForce(b1, b2 *celestial.Body) (vector.Vector, float64) {
	return b.newton.PairForce(b1, b2)
}

func (b *BarnesHut) OrbitalVelocity(centralMass, distance float64) float64 {
	return b.newton.OrbitalVelocity(centralMass, distance)
}

// Forces builds a fresh quadtree every call. Bodies sharing a position share
// a leaf and interact through the softened pair force. Non-finite positions
// fall back to the exact sum.
func (b *BarnesHut) Forces(bodies []*celestial.Body) []vector.Vector {
	forces := make([]vector.Vector, len(bodies))
	if len(bodies) < 2 {
		return forces
	}
	root := buildTree(bodies)
	if root == nil {
		return b.newton.Forces(bodies)
	}
	for i := range bodies {
		forces[i] = root.forceOn(bodies, i, b.Theta, b.newton)
	}
	return forces
}
