package physics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

// Relativistic scales each Newtonian pair force by
//
//	1 + (γ-1)/2 + (dilation-1)/10
//
// where γ is the Lorentz factor of the pair's relative speed and dilation is
// 1/√(1 - rs/d) for the Schwarzschild radius rs of the first body. Inside rs,
// or with time dilation disabled, the Newtonian force is used unchanged.
type Relativistic struct {
	newton *Newtonian

	C                   float64
	EnableTimeDilation  bool
	EnableFrameDragging bool
}

func NewRelativistic() *Relativistic {
	return &Relativistic{
		newton:             NewNewtonian(),
		C:                  SpeedOfLight,
		EnableTimeDilation: true,
	}
}

func (r *Relativistic) Name() string   { return "relativistic" }
func (r *Relativistic) G() float64     { return r.newton.Gravity }
func (r *Relativistic) SetG(g float64) { r.newton.SetG(g) }

// Newtonian exposes the wrapped model, e.g. to tune its softening.
func (r *Relativistic) Newtonian() *Newtonian { return r.newton }

func (r *Relativistic) PairForce(b1, b2 *celestial.Body) (vector.Vector, float64) {
	force, distance := r.newton.PairForce(b1, b2)
	if distance == 0 {
		return vector.Zero, 0
	}

	if !r.EnableTimeDilation {
		return force, distance
	}

	rs := r.SchwarzschildRadius(b1.Mass)
	if distance <= rs {
		return force, distance
	}

	gamma := r.LorentzFactor(b2.Velocity.Sub(b1.Velocity).Magnitude())
	dilation := 1 / math.Sqrt(1-rs/distance)
	correction := 1 + (gamma-1)*0.5 + (dilation-1)*0.1
	return force.Mul(correction), distance
}

func (r *Relativistic) Forces(bodies []*celestial.Body) []vector.Vector {
	return accumulate(bodies, r.PairForce)
}

func (r *Relativistic) OrbitalVelocity(centralMass, distance float64) float64 {
	return r.newton.OrbitalVelocity(centralMass, distance)
}

func (r *Relativistic) SchwarzschildRadius(mass float64) float64 {
	return 2 * r.newton.Gravity * mass / (r.C * r.C)
}

// LorentzFactor returns 1/√(1-β²), saturating at GammaCeiling for β ≥ 1.
func (r *Relativistic) LorentzFactor(speed float64) float64 {
	beta := speed / r.C
	if beta >= 1 {
		return GammaCeiling
	}
	return 1 / math.Sqrt(1-beta*beta)
}

// OrbitalPrecession is the perihelion advance per orbit in radians,
// 6πGM/(c²a(1-e²)). Unbound orbits yield 0.
func (r *Relativistic) OrbitalPrecession(centralMass, semiMajorAxis, eccentricity float64) float64 {
	if eccentricity >= 1 || semiMajorAxis <= 0 {
		return 0
	}
	return 6 * math.Pi * r.newton.Gravity * centralMass /
		(r.C * r.C * semiMajorAxis * (1 - eccentricity*eccentricity))
}
