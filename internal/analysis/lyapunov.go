package analysis

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
)

// Separation is the Euclidean distance between two systems in configuration
// space: the root of the summed squared position differences of matching
// bodies. Bodies are matched by index and must carry the same names.
func Separation(a, b *celestial.System) (float64, error) {
	if len(a.Bodies) != len(b.Bodies) {
		return 0, fmt.Errorf("%w: %d vs %d bodies", ErrMismatch, len(a.Bodies), len(b.Bodies))
	}
	sum := 0.0
	for i, ba := range a.Bodies {
		bb := b.Bodies[i]
		if ba.Name != bb.Name {
			return 0, fmt.Errorf("%w: body %d is %q vs %q", ErrMismatch, i, ba.Name, bb.Name)
		}
		sum += ba.Position.Sub(bb.Position).MagnitudeSq()
	}
	return math.Sqrt(sum), nil
}

// LyapunovExponent estimates the largest Lyapunov exponent, in 1/s, from two
// runs of the same system that start a small distance apart. Both engines are
// advanced steps ticks of dt in lockstep and the slope of ln(d(t)/d(0)) is
// fitted through the origin. No renormalisation is done, so the separation
// must stay small compared with the orbits for the estimate to hold.
func LyapunovExponent(ctx context.Context, a, b *engine.Engine, dt float64, steps int) (float64, error) {
	sa, sb := a.ActiveSystem(), b.ActiveSystem()
	if sa == nil || sb == nil {
		return 0, engine.ErrNoActiveSystem
	}
	d0, err := Separation(sa, sb)
	if err != nil {
		return 0, err
	}
	if d0 == 0 {
		return 0, ErrNoSeparation
	}

	for _, e := range []*engine.Engine{a, b} {
		e.Start()
		e.Resume()
	}
	t0 := sa.Time
	times := make([]float64, 0, steps)
	logs := make([]float64, 0, steps)
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		a.Update(dt)
		b.Update(dt)

		d, err := Separation(sa, sb)
		if err != nil {
			return 0, err
		}
		if d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d) {
			times = append(times, sa.Time-t0)
			logs = append(logs, math.Log(d/d0))
		}
	}
	if len(times) < 2 {
		return 0, fmt.Errorf("%w: %d usable samples", ErrTooShort, len(times))
	}
	return growthRate(times, logs), nil
}

// growthRate is the least-squares slope of y against t through the origin.
func growthRate(t, y []float64) float64 {
	_, beta := stat.LinearRegression(t, y, nil, true)
	return beta
}
