package celestial

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/vector"
)

func TestNewBodyDefaults(t *testing.T) {
	b := NewBody("rock", TypeAsteroid)
	if b.Mass <= 0 || b.Radius <= 0 {
		t.Fatalf("expected positive mass and radius, got %v %v", b.Mass, b.Radius)
	}
	if b.Color != TypeAsteroid.ThemeColor() {
		t.Errorf("expected themed colour, got %v", b.Color)
	}
	if b.Trail().Cap() != DefaultTrailLength {
		t.Errorf("expected trail cap %d, got %d", DefaultTrailLength, b.Trail().Cap())
	}
}

func TestUnknownTypeFallsBack(t *testing.T) {
	b := NewBody("x", BodyType("quasar"))
	if BodyType("quasar").Known() {
		t.Error("quasar should not be a known type")
	}
	if b.Color != RGB(255, 255, 255) {
		t.Errorf("expected white fallback, got %v", b.Color)
	}
}

func TestRadiusMassRoundTrip(t *testing.T) {
	b := NewBody("earth", TypePlanet)
	b.Mass = 5.972e24
	b.DeriveRadiusFromMass()

	want := math.Cbrt(3 * (b.Mass / b.Density) / (4 * math.Pi))
	if math.Abs(b.Radius-want)/want > 1e-12 {
		t.Errorf("expected radius %e, got %e", want, b.Radius)
	}

	b.Mass = 0
	b.DeriveMassFromRadius()
	if math.Abs(b.Mass-5.972e24)/5.972e24 > 1e-9 {
		t.Errorf("expected mass restored, got %e", b.Mass)
	}
}

func TestDerivationIgnoresNonPositiveDensity(t *testing.T) {
	b := NewBody("x", TypePlanet)
	b.Density = 0
	r, m := b.Radius, b.Mass
	b.DeriveRadiusFromMass()
	b.DeriveMassFromRadius()
	if b.Radius != r || b.Mass != m {
		t.Error("expected no change with zero density")
	}
}

func TestOrbitalElementsNoCentral(t *testing.T) {
	b := NewPlanet("earth", 5.972e24)
	if _, ok := b.OrbitalElements(nil); ok {
		t.Error("expected no result without central body")
	}
}

func TestOrbitalElementsCircular(t *testing.T) {
	sun := NewStar("sun", 1.989e30)
	earth := NewPlanet("earth", 5.972e24)

	r := AU
	speed := math.Sqrt(G * (sun.Mass + earth.Mass) / r)
	earth.Place(vector.New(r, 0), vector.New(0, speed))

	el, ok := earth.OrbitalElements(sun)
	if !ok {
		t.Fatal("expected result")
	}
	if el.Eccentricity > 1e-9 {
		t.Errorf("expected circular orbit, got e=%e", el.Eccentricity)
	}
	if math.Abs(el.SemiMajorAxis-r)/r > 1e-9 {
		t.Errorf("expected a=%e, got %e", r, el.SemiMajorAxis)
	}
	if math.Abs(el.AngularMomentum-r*speed)/(r*speed) > 1e-12 {
		t.Errorf("expected h=%e, got %e", r*speed, el.AngularMomentum)
	}

	if earth.Eccentricity != el.Eccentricity || earth.SemiMajorAxis != el.SemiMajorAxis {
		t.Error("expected cached descriptors to match result")
	}
	year := 2 * math.Pi * math.Sqrt(r*r*r/(G*(sun.Mass+earth.Mass)))
	if math.Abs(earth.OrbitalPeriod-year)/year > 1e-9 {
		t.Errorf("expected period %e, got %e", year, earth.OrbitalPeriod)
	}
}

func TestRecordStepPushesTrail(t *testing.T) {
	b := NewBody("x", TypeComet)
	b.Trail().SetCap(2)
	prev := b.Position

	for i := 1; i <= 3; i++ {
		b.Position = vector.New(float64(i), 0)
		b.RecordStep(prev, 60)
		prev = b.Position
	}

	if !b.HistoryPrimed() {
		t.Error("expected primed history")
	}
	if b.PreviousPosition.X != 2 {
		t.Errorf("expected previous x=2, got %v", b.PreviousPosition.X)
	}
	if b.Trail().Len() != 2 {
		t.Errorf("expected trail capped at 2, got %d", b.Trail().Len())
	}
	if b.StepLength() != 60 {
		t.Errorf("expected step length 60, got %v", b.StepLength())
	}

	b.Place(vector.New(5, 5), vector.Zero)
	if b.HistoryPrimed() || b.StepLength() != 0 {
		t.Error("expected Place to reset history")
	}
}

func TestColorComponents(t *testing.T) {
	tests := []struct {
		in      []int
		wantErr bool
	}{
		{[]int{1, 2, 3}, false},
		{[]int{1, 2, 3, 4}, false},
		{[]int{1, 2}, true},
		{[]int{1, 2, 300}, true},
	}
	for _, tt := range tests {
		c, err := ColorFromComponents(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%v: unexpected error state %v", tt.in, err)
			continue
		}
		if err == nil && len(c.Components()) != len(tt.in) {
			t.Errorf("%v: components not preserved: %v", tt.in, c.Components())
		}
	}

	if RGB(255, 0, 0).Hex() != "#ff0000" {
		t.Errorf("unexpected hex %s", RGB(255, 0, 0).Hex())
	}
	if RGB(10, 20, 30).Trail().A != 100 {
		t.Error("expected trail alpha 100")
	}
	c, err := ParseHex("#64c8ff")
	if err != nil || c != RGB(100, 200, 255) {
		t.Errorf("unexpected parse result %v %v", c, err)
	}
	if _, err := ParseHex("blue"); err == nil {
		t.Error("expected an error for a non-hex colour")
	}
}

func TestColorFade(t *testing.T) {
	c := RGBA(200, 100, 50, 80)
	if got := c.Fade(0); got.R != 200 || got.G != 100 || got.B != 50 {
		t.Errorf("Fade(0) changed the colour: %v", got)
	}
	if got := c.Fade(1); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("Fade(1) should be black, got %v", got)
	}
	half := c.Fade(0.5)
	if half.R >= c.R || half.G >= c.G || half.A != 80 || !half.HasAlpha {
		t.Errorf("Fade(0.5) should darken and keep alpha: %v", half)
	}
}
