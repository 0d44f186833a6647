package config

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
)

func TestGetPreset(t *testing.T) {
	p := GetPreset("default")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.Dt <= 0 {
		t.Errorf("expected positive dt, got %f", p.Dt)
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"binary_stars", "default", "empty", "galaxy_core", "solar_system"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
		}
	}
}

func TestBuildPresets(t *testing.T) {
	tests := []struct {
		name    string
		bodies  int
		central string
		fixed   bool
	}{
		{"default", 4, "Sun", true},
		{"solar_system", 9, "Sun", true},
		{"binary_stars", 3, "Alpha", false},
		{"empty", 1, "Sun", true},
		{"galaxy_core", 17, "Sagittarius A*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := engine.New()
			e.SetRand(rand.New(rand.NewSource(1)))
			sys, err := Build(tt.name, e)
			if err != nil {
				t.Fatalf("build failed: %v", err)
			}
			if sys.Len() != tt.bodies {
				t.Errorf("expected %d bodies, got %d", tt.bodies, sys.Len())
			}
			c := sys.Central()
			if c == nil || c.Name != tt.central {
				t.Fatalf("expected central %s, got %v", tt.central, c)
			}
			if c.FixedPosition != tt.fixed {
				t.Errorf("expected fixed=%v for central body", tt.fixed)
			}
			for _, b := range sys.Bodies {
				if b.Mass <= 0 || b.Radius <= 0 {
					t.Errorf("%s: non-positive mass or radius", b.Name)
				}
			}
		})
	}
}

func TestPresetColors(t *testing.T) {
	sys, err := Build("default", engine.New())
	if err != nil {
		t.Fatal(err)
	}
	if got := sys.Body("Earth").Color; got != celestial.RGB(100, 150, 255) {
		t.Errorf("Earth colour = %v, want #6496ff", got)
	}
	if _, err := planet("Nowhere", earthMass, "not-a-colour", celestial.TypePlanet); err == nil {
		t.Error("expected an error for a malformed colour")
	}
}

func TestBinaryStarsMomentum(t *testing.T) {
	sys, err := Build("binary_stars", engine.New())
	if err != nil {
		t.Fatal(err)
	}
	stars := sys.Bodies[0].Momentum().Add(sys.Bodies[1].Momentum())
	if stars.Magnitude() != 0 {
		t.Errorf("expected the stars' momenta to cancel, got %v", stars)
	}
}

func TestGalaxyCoreIsBound(t *testing.T) {
	e := engine.New()
	e.SetRand(rand.New(rand.NewSource(3)))
	sys, err := Build("galaxy_core", e)
	if err != nil {
		t.Fatal(err)
	}
	hole := sys.Central()
	for _, s := range sys.Children(hole.Name) {
		el, ok := s.OrbitalElements(hole)
		if !ok || el.Eccentricity >= 0.6+1e-9 {
			t.Errorf("%s: unexpected eccentricity %f", s.Name, el.Eccentricity)
		}
	}
	if len(sys.Children(hole.Name)) != 16 {
		t.Errorf("expected 16 stars parented to the hole, got %d", len(sys.Children(hole.Name)))
	}
}

func TestGalaxyCoreDeterministic(t *testing.T) {
	build := func() []float64 {
		e := engine.New()
		e.SetRand(rand.New(rand.NewSource(99)))
		sys, err := Build("galaxy_core", e)
		if err != nil {
			t.Fatal(err)
		}
		var out []float64
		for _, b := range sys.Bodies {
			out = append(out, b.Position.X, b.Velocity.Y, b.Mass)
		}
		return out
	}
	a, b := build(), build()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded builds differ at %d: %e vs %e", i, a[i], b[i])
		}
	}
}

func TestBuildUnknown(t *testing.T) {
	if _, err := Build("andromeda", engine.New()); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}
