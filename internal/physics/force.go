package physics

import (
	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

const (
	// SpeedOfLight in m/s.
	SpeedOfLight = 299792458.0

	// DefaultSoftening bounds the force between nearly coincident bodies.
	DefaultSoftening = 1e3

	// GammaCeiling replaces the Lorentz factor once relative speed reaches c.
	GammaCeiling = 1e10
)

// ForceModel computes the net gravitational force on every body.
type ForceModel interface {
	Name() string
	G() float64
	SetG(g float64)

	// PairForce returns the force on b1 due to b2 and their separation.
	PairForce(b1, b2 *celestial.Body) (vector.Vector, float64)

	// Forces returns one net force per body, index-aligned with bodies.
	Forces(bodies []*celestial.Body) []vector.Vector

	// OrbitalVelocity is the circular orbit speed at distance from centralMass.
	OrbitalVelocity(centralMass, distance float64) float64
}

type pairFunc func(b1, b2 *celestial.Body) (vector.Vector, float64)

// accumulate visits each unordered pair once and applies the pair force with
// opposite signs to both members.
func accumulate(bodies []*celestial.Body, pf pairFunc) []vector.Vector {
	n := len(bodies)
	forces := make([]vector.Vector, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			f, _ := pf(bodies[i], bodies[j])
			forces[i] = forces[i].Add(f)
			forces[j] = forces[j].Sub(f)
		}
	}
	return forces
}
