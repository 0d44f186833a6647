package engine

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

// CreateOrbit places orbiting at distance from central at a random angle θ and
// gives it the vis-viva speed for an ellipse of the given eccentricity whose
// apoapsis is the starting point; eccentricity 0 yields a circular orbit. The
// velocity points along (-sin θ, cos θ) when clockwise is true and the
// opposite way otherwise, offset by central's velocity. orbiting's parent
// becomes central.
//
// On error neither body is modified.
func (e *Engine) CreateOrbit(central, orbiting *celestial.Body, distance, eccentricity float64, clockwise bool) error {
	if central == nil || orbiting == nil {
		return ErrMissingBody
	}
	if !(distance > 0) || math.IsInf(distance, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidDistance, distance)
	}
	if !(eccentricity >= 0 && eccentricity < 1) {
		return fmt.Errorf("%w: %g", ErrInvalidEccentricity, eccentricity)
	}

	angle := e.rng.Float64() * 2 * math.Pi
	sin, cos := math.Sincos(angle)
	pos := central.Position.Add(vector.New(distance*cos, distance*sin))

	mu := e.g * (central.Mass + orbiting.Mass)
	var speed float64
	if eccentricity == 0 {
		speed = math.Sqrt(mu / distance)
	} else {
		a := distance / (1 + eccentricity)
		speed = math.Sqrt(mu * (2/distance - 1/a))
	}

	dir := vector.New(-sin, cos)
	if !clockwise {
		dir = dir.Neg()
	}

	orbiting.Place(pos, central.Velocity.Add(dir.Mul(speed)))
	orbiting.SetParent(central)
	e.refresh()
	return nil
}
