// Package metrics summarizes a run from the statistics the engine publishes
// after every tick.
package metrics

import "github.com/san-kum/orbitsim/internal/engine"

// Metric is an engine observer that folds every tick into one number.
// Observing the statistics of the untouched system once before the first
// tick fixes the baseline for drift metrics.
type Metric interface {
	engine.Observer
	Name() string
	Value() float64
	Reset()
}

// Attach registers every metric as an observer of e.
func Attach(e *engine.Engine, ms ...Metric) {
	for _, m := range ms {
		e.AddObserver(m)
	}
}

// Values maps metric names to their current values.
func Values(ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Defaults is the set reported by the run command.
func Defaults(boundRadius float64) []Metric {
	return []Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewAngularMomentumDrift(),
		NewStability(boundRadius),
	}
}
