package physics

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

func cluster(n int, seed int64) []*celestial.Body {
	rng := rand.New(rand.NewSource(seed))
	bodies := make([]*celestial.Body, n)
	for i := range bodies {
		pos := vector.New(rng.NormFloat64()*celestial.AU, rng.NormFloat64()*celestial.AU)
		bodies[i] = body("s", 1e29*(1+rng.Float64()), pos, vector.Zero)
	}
	return bodies
}

func TestBarnesHutExactAtZeroTheta(t *testing.T) {
	bodies := cluster(50, 1)
	exact := NewNewtonian().Forces(bodies)
	bh := NewBarnesHut()
	bh.Theta = 0
	got := bh.Forces(bodies)

	for i := range bodies {
		if got[i].Sub(exact[i]).Magnitude() > exact[i].Magnitude()*1e-9 {
			t.Errorf("body %d: got %v, want %v", i, got[i], exact[i])
		}
	}
}

func TestBarnesHutApproximation(t *testing.T) {
	tests := []struct {
		n   int
		tol float64
	}{
		{3, 0.05},
		{10, 0.05},
		{50, 0.02},
		{300, 0.02},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			bodies := cluster(tt.n, 2)
			exact := NewNewtonian().Forces(bodies)
			got := NewBarnesHut().Forces(bodies)

			var errSum, sum float64
			for i := range bodies {
				errSum += got[i].Sub(exact[i]).Magnitude()
				sum += exact[i].Magnitude()
			}
			if rel := errSum / sum; rel > tt.tol {
				t.Errorf("mean relative error %.4f exceeds %.0f%%", rel, tt.tol*100)
			}
		})
	}
}

func TestQuadtreeMassWeighting(t *testing.T) {
	bodies := []*celestial.Body{
		body("light", 1e29, vector.New(0, 0), vector.Zero),
		body("heavy", 3e29, vector.New(4, 0), vector.Zero),
	}
	root := buildTree(bodies)
	if math.Abs(root.mass-4e29) > 1e17 {
		t.Errorf("root mass = %g, want 4e29", root.mass)
	}
	if com := root.centerOfMass(); math.Abs(com.X-3) > 1e-12 || com.Y != 0 {
		t.Errorf("centre of mass = %v, want (3, 0)", com)
	}
}

func TestBarnesHutDistantCluster(t *testing.T) {
	// a tight pair far from a test body acts as one mass at its centre of mass
	pair := []*celestial.Body{
		body("a", 1e29, vector.New(0, 0), vector.Zero),
		body("b", 3e29, vector.New(1e6, 0), vector.Zero),
		body("far", 1e20, vector.New(1e13, 0), vector.Zero),
	}
	bh := NewBarnesHut()
	got := bh.Forces(pair)[2]

	d := 1e13 - 0.75e6
	want := -bh.G() * 1e20 * 4e29 / (d*d + DefaultSoftening*DefaultSoftening)
	if math.Abs(got.X-want) > math.Abs(want)*1e-9 || got.Y != 0 {
		t.Errorf("force on far body = %v, want (%g, 0)", got, want)
	}
}

func TestBarnesHutCoincidentBodies(t *testing.T) {
	bodies := cluster(10, 3)
	bodies = append(bodies, body("twin", 1e29, bodies[0].Position, vector.Zero))
	forces := NewBarnesHut().Forces(bodies)
	for i, f := range forces {
		if math.IsNaN(f.X) || math.IsNaN(f.Y) || math.IsInf(f.X, 0) || math.IsInf(f.Y, 0) {
			t.Fatalf("body %d: non-finite force %v", i, f)
		}
	}
}

func TestBarnesHutSmallInputs(t *testing.T) {
	bh := NewBarnesHut()
	if got := bh.Forces(nil); len(got) != 0 {
		t.Errorf("expected no forces, got %v", got)
	}
	one := bh.Forces([]*celestial.Body{body("a", 1e30, vector.Zero, vector.Zero)})
	if len(one) != 1 || !one[0].IsZero() {
		t.Errorf("lone body should feel no force, got %v", one)
	}
}

func BenchmarkBarnesHut(b *testing.B) {
	bodies := cluster(500, 4)
	bh := NewBarnesHut()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bh.Forces(bodies)
	}
}
