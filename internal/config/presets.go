package config

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
	"github.com/san-kum/orbitsim/internal/vector"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

// Preset builds a fresh system. Builders draw randomness and G from the
// engine so that seeded runs are reproducible.
type Preset struct {
	Description string
	Dt          float64
	Build       func(e *engine.Engine) (*celestial.System, error)
}

const (
	solarMass = 1.989e30
	earthMass = 5.972e24
)

var Presets = map[string]Preset{
	"default": {
		Description: "Sun, Earth, Mars and Jupiter on circular orbits",
		Dt:          3600,
		Build:       buildDefault,
	},
	"solar_system": {
		Description: "Sun and the eight planets, spread around the Sun",
		Dt:          3600,
		Build:       buildSolarSystem,
	},
	"binary_stars": {
		Description: "two solar-mass stars around their barycentre with a circumbinary planet",
		Dt:          1800,
		Build:       buildBinaryStars,
	},
	"empty": {
		Description: "a lone fixed Sun",
		Dt:          3600,
		Build:       buildEmpty,
	},
	"galaxy_core": {
		Description: "stars on eccentric orbits around a supermassive black hole",
		Dt:          3600,
		Build:       buildGalaxyCore,
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the named preset through e.
func Build(name string, e *engine.Engine) (*celestial.System, error) {
	p := GetPreset(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p.Build(e)
}

func sun() *celestial.Body {
	s := celestial.NewStar("Sun", solarMass)
	s.Place(vector.Zero, vector.Zero)
	return s
}

// planet sizes the body from Earth's radius and mass; color is "#rrggbb".
func planet(name string, mass float64, color string, typ celestial.BodyType) (*celestial.Body, error) {
	c, err := celestial.ParseHex(color)
	if err != nil {
		return nil, fmt.Errorf("config: colour of %s: %w", name, err)
	}
	p := celestial.NewPlanet(name, mass)
	p.Type = typ
	p.Color = c
	p.Radius = 6.371e6 * math.Cbrt(mass/earthMass)
	return p, nil
}

func buildDefault(_ *engine.Engine) (*celestial.System, error) {
	sys := celestial.NewSystem("Our Solar System")
	sys.AddBody(sun(), true)

	bodies := []struct {
		name     string
		mass     float64
		distance float64
		speed    float64
		typ      celestial.BodyType
		color    string
	}{
		{"Earth", 5.972e24, 1.496e11, 29780, celestial.TypePlanet, "#6496ff"},
		{"Mars", 6.39e23, 2.279e11, 24100, celestial.TypePlanet, "#ff6464"},
		{"Jupiter", 1.898e27, 7.785e11, 13070, celestial.TypeGasGiant, "#ffc864"},
	}
	for _, b := range bodies {
		p, err := planet(b.name, b.mass, b.color, b.typ)
		if err != nil {
			return nil, err
		}
		p.Place(vector.New(b.distance, 0), vector.New(0, b.speed))
		p.ParentName = "Sun"
		sys.AddBody(p, false)
	}
	return sys, nil
}

func buildSolarSystem(_ *engine.Engine) (*celestial.System, error) {
	sys := celestial.NewSystem("Complete Solar System")
	sys.AddBody(sun(), true)

	planets := []struct {
		name     string
		mass     float64
		distance float64
		speed    float64
		typ      celestial.BodyType
		color    string
	}{
		{"Mercury", 3.301e23, 5.791e10, 47360, celestial.TypePlanet, "#969696"},
		{"Venus", 4.867e24, 1.082e11, 35020, celestial.TypePlanet, "#ffc864"},
		{"Earth", 5.972e24, 1.496e11, 29780, celestial.TypePlanet, "#6496ff"},
		{"Mars", 6.39e23, 2.279e11, 24100, celestial.TypePlanet, "#ff6464"},
		{"Jupiter", 1.898e27, 7.785e11, 13070, celestial.TypeGasGiant, "#ffc864"},
		{"Saturn", 5.683e26, 1.433e12, 9690, celestial.TypeGasGiant, "#ffdc96"},
		{"Uranus", 8.681e25, 2.877e12, 6810, celestial.TypeGasGiant, "#96dcff"},
		{"Neptune", 1.024e26, 4.503e12, 5430, celestial.TypeGasGiant, "#6496ff"},
	}

	// planets are spread evenly in angle; the squashed position and the
	// damped radial velocity make the orbits mildly eccentric
	for i, pl := range planets {
		angle := float64(i) / float64(len(planets)) * 2 * math.Pi
		sin, cos := math.Sincos(angle)

		p, err := planet(pl.name, pl.mass, pl.color, pl.typ)
		if err != nil {
			return nil, err
		}
		p.Place(
			vector.New(pl.distance*cos, pl.distance*sin*0.9),
			vector.New(-pl.speed*sin*0.95, pl.speed*cos),
		)
		p.ParentName = "Sun"
		sys.AddBody(p, false)
	}
	return sys, nil
}

func buildBinaryStars(e *engine.Engine) (*celestial.System, error) {
	sys := celestial.NewSystem("Binary Stars")
	g := e.GravitationalConstant()

	const separation = 1.5e11
	alpha := celestial.NewStar("Alpha", solarMass)
	beta := celestial.NewStar("Beta", solarMass)
	var err error
	if beta.Color, err = celestial.ParseHex("#ffa050"); err != nil {
		return nil, err
	}

	// equal masses circle the barycentre at half the separation
	v := math.Sqrt(g * solarMass / (2 * separation))
	alpha.Place(vector.New(-separation/2, 0), vector.New(0, -v))
	beta.Place(vector.New(separation/2, 0), vector.New(0, v))

	// neither star is anchored
	sys.Bodies = append(sys.Bodies, alpha, beta)
	sys.SetCentral(alpha.Name)

	const orbit = 6 * separation
	p, err := planet("Tatooine", earthMass, "#d2b478", celestial.TypePlanet)
	if err != nil {
		return nil, err
	}
	p.Place(vector.New(0, orbit), vector.New(-math.Sqrt(g*2*solarMass/orbit), 0))
	sys.AddBody(p, false)
	return sys, nil
}

func buildEmpty(_ *engine.Engine) (*celestial.System, error) {
	sys := celestial.NewSystem("Empty System")
	sys.AddBody(sun(), true)
	return sys, nil
}

func buildGalaxyCore(e *engine.Engine) (*celestial.System, error) {
	sys := celestial.NewSystem("Galaxy Core")

	hole := celestial.NewBlackHole("Sagittarius A*", 4.1e6*solarMass)
	hole.Place(vector.Zero, vector.Zero)
	sys.AddBody(hole, true)

	const (
		stars   = 16
		inner   = 1.5e13
		outer   = 1.5e14
		maxEcc  = 0.6
		minMass = 0.5
		maxMass = 20.0
	)
	rng := e.Rand()
	for i := 0; i < stars; i++ {
		s := celestial.NewStar(fmt.Sprintf("S%d", i+1), (minMass+rng.Float64()*(maxMass-minMass))*solarMass)
		distance := inner + rng.Float64()*(outer-inner)
		ecc := rng.Float64() * maxEcc
		if err := e.CreateOrbit(hole, s, distance, ecc, true); err != nil {
			return nil, err
		}
		sys.AddBody(s, false)
	}
	return sys, nil
}
