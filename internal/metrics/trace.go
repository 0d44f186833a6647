package metrics

import (
	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
)

// Sample is one recorded point of a run.
type Sample struct {
	Tick            int64   `json:"tick"`
	Time            float64 `json:"time"`
	Energy          float64 `json:"energy"`
	AngularMomentum float64 `json:"angular_momentum"`
}

// Trace records a Sample every n ticks, plus any tick-0 baseline it is shown.
type Trace struct {
	every   int64
	samples []Sample
}

func NewTrace(every int) *Trace {
	if every < 1 {
		every = 1
	}
	return &Trace{every: int64(every)}
}

func (t *Trace) OnTick(_ *celestial.System, stats engine.Statistics) {
	if stats.Ticks%t.every != 0 {
		return
	}
	t.samples = append(t.samples, Sample{
		Tick:            stats.Ticks,
		Time:            stats.SimulationTime,
		Energy:          stats.TotalEnergy,
		AngularMomentum: stats.AngularMomentum,
	})
}

func (t *Trace) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

func (t *Trace) Energies() []float64 {
	out := make([]float64, len(t.samples))
	for i, s := range t.samples {
		out[i] = s.Energy
	}
	return out
}

func (t *Trace) Reset() {
	t.samples = t.samples[:0]
}
