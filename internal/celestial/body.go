package celestial

import (
	"math"

	"github.com/san-kum/orbitsim/internal/vector"
)

// Body is the physical and dynamical state of one celestial object.
//
// Orbital descriptors (SemiMajorAxis, Eccentricity, OrbitalPeriod,
// Inclination) are caches written by OrbitalElements and are not
// authoritative on their own.
type Body struct {
	Name    string
	Type    BodyType
	Mass    float64
	Radius  float64
	Density float64

	Position         vector.Vector
	Velocity         vector.Vector
	Acceleration     vector.Vector
	PreviousPosition vector.Vector

	Color Color

	// ParentName refers to another body of the same System by name. It never
	// keeps that body alive; use System.Parent to resolve it.
	ParentName string

	FixedPosition bool
	Collidable    bool
	Visible       bool

	SemiMajorAxis float64
	Eccentricity  float64
	OrbitalPeriod float64
	Inclination   float64

	trail    *Trail
	primed   bool
	lastStep float64
}

// OrbitalElements is the result of an orbital-element query.
type OrbitalElements struct {
	Eccentricity    float64
	SemiMajorAxis   float64
	AngularMomentum float64
}

func NewBody(name string, typ BodyType) *Body {
	return &Body{
		Name:       name,
		Type:       typ,
		Mass:       DefaultMass,
		Radius:     DefaultRadius,
		Density:    DefaultDensity,
		Color:      typ.ThemeColor(),
		Collidable: true,
		Visible:    true,
		trail:      NewTrail(DefaultTrailLength),
	}
}

func NewStar(name string, mass float64) *Body {
	b := NewBody(name, TypeStar)
	b.Mass = mass
	b.Density = 1408
	b.DeriveRadiusFromMass()
	return b
}

func NewPlanet(name string, mass float64) *Body {
	b := NewBody(name, TypePlanet)
	b.Mass = mass
	b.DeriveRadiusFromMass()
	return b
}

// NewBlackHole sizes the body at its Schwarzschild radius.
func NewBlackHole(name string, mass float64) *Body {
	b := NewBody(name, TypeBlackHole)
	b.Mass = mass
	b.Radius = 2 * G * mass / (299792458.0 * 299792458.0)
	b.Density = mass / (4.0 / 3.0 * math.Pi * b.Radius * b.Radius * b.Radius)
	b.Collidable = false
	return b
}

// Trail returns the position history, allocating one of DefaultTrailLength
// for bodies not built through a constructor.
func (b *Body) Trail() *Trail {
	if b.trail == nil {
		b.trail = NewTrail(DefaultTrailLength)
	}
	return b.trail
}

// Place sets position and velocity and forgets the integration history, so the
// next Verlet step re-seeds PreviousPosition from the new state.
func (b *Body) Place(pos, vel vector.Vector) {
	b.Position = pos
	b.Velocity = vel
	b.PreviousPosition = pos
	b.primed = false
	b.lastStep = 0
}

// HistoryPrimed reports whether PreviousPosition holds the position of the
// preceding integration step.
func (b *Body) HistoryPrimed() bool {
	return b.primed
}

// StepLength is the dt of the step recorded last, zero before any step.
func (b *Body) StepLength() float64 {
	return b.lastStep
}

// RecordStep is called by integrators after they move the body by dt: prev
// becomes PreviousPosition and the new Position is appended to the trail.
func (b *Body) RecordStep(prev vector.Vector, dt float64) {
	b.PreviousPosition = prev
	b.primed = true
	b.lastStep = dt
	b.Trail().Push(b.Position)
}

// SetParent links b to p by name; nil clears the link.
func (b *Body) SetParent(p *Body) {
	if p == nil {
		b.ParentName = ""
		return
	}
	b.ParentName = p.Name
}

// DeriveRadiusFromMass applies the sphere-volume relation. No-op when density ≤ 0.
func (b *Body) DeriveRadiusFromMass() {
	if b.Density <= 0 {
		return
	}
	volume := b.Mass / b.Density
	b.Radius = math.Cbrt(3 * volume / (4 * math.Pi))
}

// DeriveMassFromRadius is the inverse of DeriveRadiusFromMass.
func (b *Body) DeriveMassFromRadius() {
	if b.Density <= 0 {
		return
	}
	volume := 4.0 / 3.0 * math.Pi * b.Radius * b.Radius * b.Radius
	b.Mass = b.Density * volume
}

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.MagnitudeSq()
}

func (b *Body) Momentum() vector.Vector {
	return b.Velocity.Mul(b.Mass)
}

// OrbitalElements computes eccentricity, semi-major axis and specific angular
// momentum of b relative to central and caches them on b. It returns false
// when central is nil.
//
// The semi-major axis is skipped when the eccentricity is exactly 1; this is
// not a rigorous parabolic test and near-parabolic orbits yield very large
// values.
func (b *Body) OrbitalElements(central *Body) (OrbitalElements, bool) {
	if central == nil {
		return OrbitalElements{}, false
	}

	r := b.Position.Sub(central.Position)
	v := b.Velocity.Sub(central.Velocity)
	mu := G * (b.Mass + central.Mass)
	rMag := r.Magnitude()
	v2 := v.MagnitudeSq()

	h := math.Abs(r.Cross(v))

	eVec := r.Mul(v2 - mu/rMag).Sub(v.Mul(r.Dot(v))).Div(mu)
	b.Eccentricity = eVec.Magnitude()

	if b.Eccentricity != 1 {
		energy := v2/2 - mu/rMag
		b.SemiMajorAxis = -mu / (2 * energy)
		if b.SemiMajorAxis > 0 {
			b.OrbitalPeriod = 2 * math.Pi * math.Sqrt(b.SemiMajorAxis*b.SemiMajorAxis*b.SemiMajorAxis/mu)
		} else {
			b.OrbitalPeriod = 0
		}
	}

	return OrbitalElements{
		Eccentricity:    b.Eccentricity,
		SemiMajorAxis:   b.SemiMajorAxis,
		AngularMomentum: h,
	}, true
}

// Clone returns a deep copy, including the trail.
func (b *Body) Clone() *Body {
	c := *b
	c.trail = b.Trail().clone()
	return &c
}
