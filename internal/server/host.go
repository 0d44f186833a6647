// Package server hosts an engine for concurrent readers. A single Host owns
// the engine; its tick loop and every HTTP handler take the same lock, so
// readers always observe the state between two completed ticks.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
)

// Options configures a Host.
type Options struct {
	// FPS is the tick rate of Loop; zero means 60.
	FPS int
	// Dt is the simulated step per tick before the engine's time scale.
	// Zero means one frame of wall time, 1/FPS seconds.
	Dt float64
	// PushEvery is the websocket statistics interval; zero means 100ms.
	PushEvery time.Duration
	Logger    *slog.Logger
}

type Host struct {
	mu  sync.Mutex
	eng *engine.Engine

	fps       int
	dt        float64
	pushEvery time.Duration
	limiter   *rate.Limiter
	log       *slog.Logger
}

func NewHost(eng *engine.Engine, opts Options) *Host {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Dt <= 0 {
		opts.Dt = 1 / float64(opts.FPS)
	}
	if opts.PushEvery <= 0 {
		opts.PushEvery = 100 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Host{
		eng:       eng,
		fps:       opts.FPS,
		dt:        opts.Dt,
		pushEvery: opts.PushEvery,
		limiter:   rate.NewLimiter(rate.Limit(opts.FPS), 1),
		log:       opts.Logger,
	}
}

// Step performs one tick under the lock.
func (h *Host) Step() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.eng.Update(h.dt)
}

// Loop starts the engine and ticks it at the configured rate until ctx is
// done. Cancellation is not an error.
func (h *Host) Loop(ctx context.Context) error {
	h.mu.Lock()
	h.eng.Start()
	h.mu.Unlock()
	h.log.Info("tick loop started", "fps", h.fps, "dt", h.dt)

	for {
		if err := h.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				h.log.Info("tick loop stopped")
				return nil
			}
			return err
		}
		h.Step()
	}
}

func (h *Host) Statistics() engine.Statistics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eng.Statistics()
}

// Snapshot deep-copies the active system, or returns nil when there is none.
func (h *Host) Snapshot() *celestial.System {
	h.mu.Lock()
	defer h.mu.Unlock()
	sys := h.eng.ActiveSystem()
	if sys == nil {
		return nil
	}
	return sys.Snapshot()
}

// Command is a control request, accepted as the body of POST /control and as
// a websocket text message.
type Command struct {
	Action    string  `json:"action"`
	Value     string  `json:"value,omitempty"`
	TimeScale float64 `json:"time_scale,omitempty"`
}

// Apply executes c under the lock. Rejected commands leave the engine as it
// was.
func (h *Host) Apply(c Command) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	e := h.eng
	switch strings.ToLower(c.Action) {
	case "start":
		e.Start()
	case "stop":
		e.Stop()
	case "pause":
		e.Pause()
	case "resume":
		e.Resume()
	case "toggle":
		e.TogglePause()
	case "reset":
		e.ResetSimulation()
	case "model":
		return e.SetForceModel(engine.ModelKey(c.Value))
	case "integrator":
		return e.SetIntegrator(engine.IntegratorKey(c.Value))
	case "time_scale":
		return e.SetTimeScale(c.TimeScale)
	case "system":
		return e.ActivateSystem(c.Value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, c.Action)
	}
	h.log.Debug("control", "action", c.Action)
	return nil
}
