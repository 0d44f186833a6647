package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Observer is notified after every completed tick.
type Observer interface {
	OnTick(sys *celestial.System, stats Statistics)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(sys *celestial.System, stats Statistics)

func (f ObserverFunc) OnTick(sys *celestial.System, stats Statistics) { f(sys, stats) }

const fpsWindow = 60

type Engine struct {
	models      map[ModelKey]physics.ForceModel
	integrators map[IntegratorKey]integrators.Integrator
	model       ModelKey
	integrator  IntegratorKey

	systems []*celestial.System
	active  *celestial.System

	running   bool
	paused    bool
	timeScale float64
	g         float64

	ticks           int64
	started         time.Time
	fps             float64
	computation     time.Duration
	totalEnergy     float64
	angularMomentum float64

	observers []Observer
	rng       *rand.Rand
	now       func() time.Time
	log       *slog.Logger
}

// New returns a stopped engine with the Newtonian model and Verlet integrator
// selected.
func New() *Engine {
	e := &Engine{
		models:      make(map[ModelKey]physics.ForceModel),
		integrators: make(map[IntegratorKey]integrators.Integrator),
		model:       ModelNewtonian,
		integrator:  IntegratorVerlet,
		timeScale:   1.0,
		g:           celestial.G,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
		log:         slog.New(slog.DiscardHandler),
	}
	e.registerDefaults()
	e.started = e.now()
	return e
}

func (e *Engine) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	e.log = l
}

// SetRand replaces the source used to pick orbit angles.
func (e *Engine) SetRand(r *rand.Rand) { e.rng = r }

// Rand is the engine's random source, shared with system builders.
func (e *Engine) Rand() *rand.Rand { return e.rng }

// SetClock replaces the wall clock used for performance counters.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
	e.started = now()
}

func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// SetGravitationalConstant propagates g into every registered model.
func (e *Engine) SetGravitationalConstant(g float64) error {
	if !(g > 0) || math.IsInf(g, 0) {
		return fmt.Errorf("%w: G=%g", ErrInvalidParameter, g)
	}
	e.g = g
	for _, m := range e.models {
		m.SetG(g)
	}
	e.refresh()
	e.log.Info("gravitational constant changed", "G", g)
	return nil
}

func (e *Engine) GravitationalConstant() float64 { return e.g }

// AddSystem registers sys. It becomes active when setActive is true or when
// no system is active yet.
func (e *Engine) AddSystem(sys *celestial.System, setActive bool) {
	e.systems = append(e.systems, sys)
	if setActive || e.active == nil {
		e.activate(sys)
	}
}

// ActivateSystem makes the first registered system named name active.
func (e *Engine) ActivateSystem(name string) error {
	for _, s := range e.systems {
		if s.Name == name {
			e.activate(s)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownSystem, name)
}

func (e *Engine) activate(sys *celestial.System) {
	e.active = sys
	e.refresh()
	e.log.Info("activated system", "system", sys.Name, "bodies", sys.Len())
}

func (e *Engine) ActiveSystem() *celestial.System { return e.active }

func (e *Engine) Systems() []*celestial.System {
	out := make([]*celestial.System, len(e.systems))
	copy(out, e.systems)
	return out
}

// Bodies returns the active system's body slice, or nil. Callers must not
// hold it across Update.
func (e *Engine) Bodies() []*celestial.Body {
	if e.active == nil {
		return nil
	}
	return e.active.Bodies
}

func (e *Engine) AddBody(b *celestial.Body, setAsCentral bool) error {
	if b == nil {
		return ErrMissingBody
	}
	if e.active == nil {
		return ErrNoActiveSystem
	}
	e.active.AddBody(b, setAsCentral)
	e.refresh()
	return nil
}

func (e *Engine) RemoveBody(name string) bool {
	if e.active == nil {
		return false
	}
	removed := e.active.RemoveBody(name)
	if removed {
		e.refresh()
	}
	return removed
}

// Start sets the engine running and restarts the performance counters.
func (e *Engine) Start() {
	if e.running {
		return
	}
	e.running = true
	e.ticks = 0
	e.fps = 0
	e.started = e.now()
}

func (e *Engine) Stop()        { e.running = false }
func (e *Engine) Pause()       { e.paused = true }
func (e *Engine) Resume()      { e.paused = false }
func (e *Engine) TogglePause() { e.paused = !e.paused }

func (e *Engine) Running() bool { return e.running }
func (e *Engine) Paused() bool  { return e.paused }

// SetTimeScale sets the real-time multiplier applied to every dt. Zero freezes
// the clock and every body without pausing; integrators see a zero step.
func (e *Engine) SetTimeScale(s float64) error {
	if !(s >= 0) || math.IsInf(s, 0) {
		return fmt.Errorf("%w: time scale %g", ErrInvalidParameter, s)
	}
	e.timeScale = s
	return nil
}

func (e *Engine) TimeScale() float64 { return e.timeScale }

// Update performs one tick. It is a no-op unless a system is active and the
// engine is running and not paused.
func (e *Engine) Update(dt float64) {
	if e.active == nil || !e.running || e.paused {
		return
	}
	start := e.now()

	scaledDt := dt * e.timeScale * e.active.Timestep
	model := e.models[e.model]
	integ := e.integrators[e.integrator]

	bodies := e.active.Bodies
	forces := model.Forces(bodies)
	for i, b := range bodies {
		if b.FixedPosition {
			continue
		}
		integ.Integrate(b, forces[i], scaledDt)
	}
	e.active.Time += scaledDt

	e.computation = e.now().Sub(start)
	e.refresh()

	e.ticks++
	if e.ticks%fpsWindow == 0 {
		elapsed := e.now().Sub(e.started).Seconds()
		if elapsed > 0 {
			e.fps = float64(e.ticks) / elapsed
		} else {
			e.fps = 0
		}
	}

	if len(e.observers) > 0 {
		stats := e.Statistics()
		for _, o := range e.observers {
			o.OnTick(e.active, stats)
		}
	}
}

// Run starts the engine, clears any pause and performs steps ticks of dt,
// checking ctx between ticks. It returns the number of ticks performed.
func (e *Engine) Run(ctx context.Context, dt float64, steps int) (int, error) {
	if e.active == nil {
		return 0, ErrNoActiveSystem
	}
	if steps < 0 {
		return 0, fmt.Errorf("%w: steps %d", ErrInvalidParameter, steps)
	}
	e.Start()
	e.Resume()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return i, &RunError{Tick: i, Time: e.active.Time, Wrapped: ctx.Err()}
		default:
		}
		e.Update(dt)
	}
	return steps, nil
}

// ResetSimulation zeroes the active clock and clears every trail. Positions
// and velocities are kept.
func (e *Engine) ResetSimulation() {
	if e.active == nil {
		return
	}
	e.active.Time = 0
	e.active.ClearTrails()
	e.log.Info("reset simulation", "system", e.active.Name)
}

func (e *Engine) refresh() {
	if e.active == nil {
		e.totalEnergy = 0
		e.angularMomentum = 0
		return
	}
	e.totalEnergy = e.active.Energy(e.g)
	e.angularMomentum = e.active.AngularMomentum()
}
