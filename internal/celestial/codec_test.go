package celestial

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/orbitsim/internal/vector"
)

func threeBodySystem() *System {
	s := NewSystem("trio")
	s.Time = 42
	s.Timestep = 2

	moon := NewBody("moon", TypeMoon)
	moon.Mass = 7.3e22
	moon.Place(vector.New(1.5e11+3.8e8, 0), vector.New(0, 30800))
	moon.Color = RGBA(10, 20, 30, 40)

	sun := NewStar("sun", 1.989e30)
	earth := NewPlanet("earth", 5.972e24)
	earth.Place(vector.New(1.5e11, 0), vector.New(0, 29780))
	earth.Color = RGB(100, 150, 255)

	moon.SetParent(earth)
	s.AddBody(moon, false)
	s.AddBody(sun, false)
	s.AddBody(earth, false)
	return s
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			orig := threeBodySystem()

			var buf bytes.Buffer
			if err := Encode(&buf, orig, format); err != nil {
				t.Fatalf("encode failed: %v", err)
			}

			got, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}

			if got.Name != orig.Name || got.Time != orig.Time || got.Timestep != orig.Timestep {
				t.Errorf("system fields differ: %+v", got)
			}
			if got.Len() != 3 {
				t.Fatalf("expected 3 bodies, got %d", got.Len())
			}
			for i, ob := range orig.Bodies {
				gb := got.Bodies[i]
				if gb.Name != ob.Name || gb.Mass != ob.Mass || gb.Position != ob.Position ||
					gb.Velocity != ob.Velocity || gb.Color != ob.Color || gb.FixedPosition != ob.FixedPosition {
					t.Errorf("body %s differs: %+v vs %+v", ob.Name, gb, ob)
				}
			}

			moon := got.Body("moon")
			if p := got.Parent(moon); p == nil || p != got.Body("earth") {
				t.Error("parent declared after child was not resolved")
			}
			if got.Central() == nil || got.Central().Name != "sun" {
				t.Error("central star not restored")
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"syntax", `{"name": "x", "bodies": [`},
		{"no name", `{"name": "", "bodies": []}`},
		{"zero mass", `{"name": "x", "bodies": [{"name": "a", "body_type": "planet", "mass": 0, "radius": 1, "position": [0,0], "velocity": [0,0], "color": [1,2,3]}]}`},
		{"short position", `{"name": "x", "bodies": [{"name": "a", "body_type": "planet", "mass": 1, "radius": 1, "position": [0], "velocity": [0,0], "color": [1,2,3]}]}`},
		{"bad color", `{"name": "x", "bodies": [{"name": "a", "body_type": "planet", "mass": 1, "radius": 1, "position": [0,0], "velocity": [0,0], "color": [1,2]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode(strings.NewReader(tt.in), FormatJSON)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
			if s != nil {
				t.Error("expected no system on failure")
			}
		})
	}
}

func TestDecodeToleratesUnknownTypeAndDanglingParent(t *testing.T) {
	in := `{"name": "x", "time": 0, "timestep": 1, "central_star": "ghost", "bodies": [
		{"name": "a", "body_type": "wormhole", "mass": 1, "radius": 1, "position": [0,0], "velocity": [0,0], "color": [1,2,3], "fixed_position": false, "parent": "nobody"}]}`

	s, err := Decode(strings.NewReader(in), FormatJSON)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	a := s.Body("a")
	if a.Type != BodyType("wormhole") {
		t.Errorf("expected raw type kept, got %s", a.Type)
	}
	if a.ParentName != "" || s.Parent(a) != nil {
		t.Error("expected dangling parent dropped")
	}
	if s.Central() != nil {
		t.Error("expected no central for unknown name")
	}
	if a.Density != DefaultDensity {
		t.Errorf("expected default density, got %f", a.Density)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadFile(bad)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saves", "trio.yaml")

	if err := SaveFile(path, threeBodySystem()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("expected 3 bodies, got %d", s.Len())
	}
}
