package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
)

const namespace = "orbitsim"

// Collector exports engine statistics as Prometheus series. It is an
// engine.Observer and must be attached to the engine it reports on.
type Collector struct {
	totalEnergy     *prometheus.GaugeVec
	angularMomentum *prometheus.GaugeVec
	bodies          *prometheus.GaugeVec
	simulationTime  *prometheus.GaugeVec
	ticks           *prometheus.CounterVec
	tickDuration    prometheus.Histogram
	fps             prometheus.Gauge
}

// NewCollector creates the series and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		totalEnergy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "total_energy_joules",
				Help:      "Kinetic plus potential energy of the active system",
			},
			[]string{"system"},
		),
		angularMomentum: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "angular_momentum",
				Help:      "Total angular momentum about the origin in kg·m²/s",
			},
			[]string{"system"},
		),
		bodies: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "bodies",
				Help:      "Number of bodies in the active system",
			},
			[]string{"system"},
		),
		simulationTime: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "simulation_time_seconds",
				Help:      "Simulated time elapsed in the active system",
			},
			[]string{"system"},
		),
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ticks_total",
				Help:      "Completed engine ticks",
			},
			[]string{"system", "model", "integrator"},
		),
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tick_duration_seconds",
				Help:      "Wall time spent computing forces and integrating one tick",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
		),
		fps: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ticks_per_second",
				Help:      "Rolling tick rate estimate",
			},
		),
	}

	for _, col := range []prometheus.Collector{
		c.totalEnergy, c.angularMomentum, c.bodies, c.simulationTime,
		c.ticks, c.tickDuration, c.fps,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) OnTick(sys *celestial.System, stats engine.Statistics) {
	name := sys.Name
	c.totalEnergy.WithLabelValues(name).Set(stats.TotalEnergy)
	c.angularMomentum.WithLabelValues(name).Set(stats.AngularMomentum)
	c.bodies.WithLabelValues(name).Set(float64(stats.BodyCount))
	c.simulationTime.WithLabelValues(name).Set(stats.SimulationTime)
	c.ticks.WithLabelValues(name, string(stats.PhysicsModel), string(stats.Integrator)).Inc()
	c.tickDuration.Observe(stats.ComputationTimeMs / 1000)
	c.fps.Set(stats.FPS)
}
