package metrics

import (
	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
)

// Stability is the fraction of ticks on which every body stayed within
// radius of the system's central body. Systems without a central body count
// as stable.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) OnTick(sys *celestial.System, _ engine.Statistics) {
	s.samples++
	central := sys.Central()
	if central == nil || s.radius <= 0 {
		return
	}
	for _, b := range sys.Bodies {
		if b.Position.Distance(central.Position) > s.radius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
