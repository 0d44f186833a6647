package engine

import (
	"time"

	"github.com/san-kum/orbitsim/internal/celestial"
)

// Statistics is the read-only view consumed by presentation layers.
type Statistics struct {
	System              string        `json:"system"`
	FPS                 float64       `json:"fps"`
	ComputationTimeMs   float64       `json:"computation_time_ms"`
	TotalEnergy         float64       `json:"total_energy"`
	AngularMomentum     float64       `json:"angular_momentum"`
	BodyCount           int           `json:"body_count"`
	SimulationTime      float64       `json:"simulation_time"`
	SimulationTimeYears float64       `json:"simulation_time_years"`
	PhysicsModel        ModelKey      `json:"physics_model"`
	Integrator          IntegratorKey `json:"integrator"`
	Ticks               int64         `json:"ticks"`
	Running             bool          `json:"running"`
	Paused              bool          `json:"paused"`
}

func (e *Engine) Statistics() Statistics {
	s := Statistics{
		FPS:               e.fps,
		ComputationTimeMs: float64(e.computation) / float64(time.Millisecond),
		TotalEnergy:       e.totalEnergy,
		AngularMomentum:   e.angularMomentum,
		PhysicsModel:      e.model,
		Integrator:        e.integrator,
		Ticks:             e.ticks,
		Running:           e.running,
		Paused:            e.paused,
	}
	if e.active != nil {
		s.System = e.active.Name
		s.BodyCount = e.active.Len()
		s.SimulationTime = e.active.Time
		s.SimulationTimeYears = e.active.Time / celestial.SecondsPerYear
	}
	return s
}
