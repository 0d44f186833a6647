package integrators

import (
	"testing"

	"github.com/san-kum/orbitsim/internal/vector"
)

func benchmarkIntegrator(b *testing.B, integ Integrator) {
	body := newBody(5.972e24, vector.New(1.496e11, 0), vector.New(0, 29780))
	force := vector.New(-3.5e22, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Integrate(body, force, 3600)
	}
}

func BenchmarkEuler(b *testing.B) {
	benchmarkIntegrator(b, NewEuler())
}

func BenchmarkVerlet(b *testing.B) {
	benchmarkIntegrator(b, NewVerlet())
}

func BenchmarkTwoStageRK(b *testing.B) {
	benchmarkIntegrator(b, NewTwoStageRK())
}
