package ensemble

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
	"github.com/san-kum/orbitsim/internal/vector"
)

func newEngine(t *testing.T, integ engine.IntegratorKey) *engine.Engine {
	t.Helper()
	sys := celestial.NewSystem("Pair")
	sys.AddBody(celestial.NewStar("Sun", 1.989e30), true)
	p := celestial.NewPlanet("Earth", 5.972e24)
	p.Place(vector.New(celestial.AU, 0), vector.New(0, 29780))
	sys.AddBody(p, false)

	e := engine.New()
	if err := e.SetIntegrator(integ); err != nil {
		t.Fatal(err)
	}
	e.AddSystem(sys, true)
	return e
}

func TestRunMatchesSequential(t *testing.T) {
	keys := []engine.IntegratorKey{engine.IntegratorEuler, engine.IntegratorVerlet, engine.IntegratorRK2}
	members := make([]Member, len(keys))
	for i, k := range keys {
		members[i] = Member{Name: string(k), Engine: newEngine(t, k)}
	}

	results := Run(context.Background(), members, 3600, 200, 2)
	if err := FirstError(results); err != nil {
		t.Fatal(err)
	}

	for i, k := range keys {
		r := results[i]
		if r.Name != string(k) || r.Ticks != 200 {
			t.Errorf("result %d: %+v", i, r)
		}
		ref := newEngine(t, k)
		if _, err := ref.Run(context.Background(), 3600, 200); err != nil {
			t.Fatal(err)
		}
		got := r.Engine.ActiveSystem().Body("Earth").Position
		want := ref.ActiveSystem().Body("Earth").Position
		if got != want {
			t.Errorf("%s: concurrent run diverged: %v vs %v", k, got, want)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, []Member{{Name: "a", Engine: newEngine(t, engine.IntegratorVerlet)}}, 3600, 10, 0)
	var runErr *engine.RunError
	if !errors.As(results[0].Err, &runErr) || !errors.Is(results[0].Err, context.Canceled) {
		t.Fatalf("expected a cancelled RunError, got %v", results[0].Err)
	}
	if results[0].Ticks != 0 {
		t.Errorf("ticks = %d, want 0", results[0].Ticks)
	}
}

func TestRunReportsMemberErrors(t *testing.T) {
	bad := Member{Name: "empty", Engine: engine.New()}
	good := Member{Name: "ok", Engine: newEngine(t, engine.IntegratorEuler)}

	results := Run(context.Background(), []Member{bad, good}, 60, 5, 1)
	if !errors.Is(results[0].Err, engine.ErrNoActiveSystem) {
		t.Errorf("expected ErrNoActiveSystem, got %v", results[0].Err)
	}
	if results[1].Err != nil || results[1].Ticks != 5 {
		t.Errorf("healthy member affected: %+v", results[1])
	}
	if !errors.Is(FirstError(results), engine.ErrNoActiveSystem) {
		t.Error("FirstError should surface the failure")
	}
}
