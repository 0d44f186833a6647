package engine

import (
	"fmt"
	"sort"

	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
)

type ModelKey string

const (
	ModelNewtonian    ModelKey = "newtonian"
	ModelRelativistic ModelKey = "relativistic"
	ModelBarnesHut    ModelKey = "barnes_hut"
)

type IntegratorKey string

const (
	IntegratorEuler  IntegratorKey = "euler"
	IntegratorVerlet IntegratorKey = "verlet"
	IntegratorRK2    IntegratorKey = "rk2"
)

func (e *Engine) registerDefaults() {
	e.models[ModelNewtonian] = physics.NewNewtonian()
	e.models[ModelRelativistic] = physics.NewRelativistic()
	e.models[ModelBarnesHut] = physics.NewBarnesHut()

	e.integrators[IntegratorEuler] = integrators.NewEuler()
	e.integrators[IntegratorVerlet] = integrators.NewVerlet()
	e.integrators[IntegratorRK2] = integrators.NewTwoStageRK()
}

// RegisterForceModel adds or replaces a model. The engine's current
// gravitational constant is pushed into it.
func (e *Engine) RegisterForceModel(key ModelKey, m physics.ForceModel) {
	m.SetG(e.g)
	e.models[key] = m
}

func (e *Engine) RegisterIntegrator(key IntegratorKey, integ integrators.Integrator) {
	e.integrators[key] = integ
}

// SetForceModel selects a registered model. An unknown key leaves the current
// selection in place.
func (e *Engine) SetForceModel(key ModelKey) error {
	m, ok := e.models[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownModel, key)
	}
	m.SetG(e.g)
	e.model = key
	e.log.Info("switched force model", "model", key)
	return nil
}

// SetIntegrator selects a registered integrator. An unknown key leaves the
// current selection in place.
func (e *Engine) SetIntegrator(key IntegratorKey) error {
	if _, ok := e.integrators[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownIntegrator, key)
	}
	e.integrator = key
	e.log.Info("switched integrator", "integrator", key)
	return nil
}

func (e *Engine) ActiveModel() ModelKey           { return e.model }
func (e *Engine) ActiveIntegrator() IntegratorKey { return e.integrator }

func (e *Engine) ForceModel() physics.ForceModel     { return e.models[e.model] }
func (e *Engine) Integrator() integrators.Integrator { return e.integrators[e.integrator] }

// Model returns the registered model for key, selected or not.
func (e *Engine) Model(key ModelKey) (physics.ForceModel, bool) {
	m, ok := e.models[key]
	return m, ok
}

func (e *Engine) ModelKeys() []ModelKey {
	keys := make([]ModelKey, 0, len(e.models))
	for k := range e.models {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (e *Engine) IntegratorKeys() []IntegratorKey {
	keys := make([]IntegratorKey, 0, len(e.integrators))
	for k := range e.integrators {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
