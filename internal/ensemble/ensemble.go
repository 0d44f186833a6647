// Package ensemble advances independent engines side by side. Each engine
// belongs to exactly one goroutine for the duration of Run.
package ensemble

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/san-kum/orbitsim/internal/engine"
)

// Member is one engine of an ensemble. Engines must not be shared between
// members.
type Member struct {
	Name   string
	Engine *engine.Engine
}

type Result struct {
	Name   string
	Engine *engine.Engine
	Ticks  int
	Wall   time.Duration
	Err    error
}

// Run performs steps ticks of dt on every member, at most workers at a time
// (workers ≤ 0 means GOMAXPROCS). Results are index-aligned with members; a
// failed member does not stop the others.
func Run(ctx context.Context, members []Member, dt float64, steps, workers int) []Result {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(members))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, m := range members {
		wg.Add(1)
		go func(idx int, m Member) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			start := time.Now()
			ticks, err := m.Engine.Run(ctx, dt, steps)
			results[idx] = Result{
				Name:   m.Name,
				Engine: m.Engine,
				Ticks:  ticks,
				Wall:   time.Since(start),
				Err:    err,
			}
		}(i, m)
	}
	wg.Wait()
	return results
}

// FirstError returns the first member error, if any.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
