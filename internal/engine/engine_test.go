package engine_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
	"github.com/san-kum/orbitsim/internal/vector"
)

const (
	sunMass   = 1.989e30
	earthMass = 5.972e24
	au        = 1.496e11
)

func sunEarth() (*celestial.System, *celestial.Body, *celestial.Body) {
	sys := celestial.NewSystem("sun-earth")
	sun := celestial.NewStar("Sun", sunMass)
	sys.AddBody(sun, true)

	earth := celestial.NewPlanet("Earth", earthMass)
	earth.Place(vector.New(au, 0), vector.New(0, 29780))
	sys.AddBody(earth, false)
	return sys, sun, earth
}

func maxEnergyDrift(key engine.IntegratorKey, dt float64, steps int) float64 {
	sys, _, _ := sunEarth()
	e := engine.New()
	e.AddSystem(sys, true)
	Expect(e.SetIntegrator(key)).To(Succeed())
	e.Start()

	e0 := e.Statistics().TotalEnergy
	Expect(e0).To(BeNumerically("<", 0))

	drift := 0.0
	for i := 0; i < steps; i++ {
		e.Update(dt)
		d := math.Abs(e.Statistics().TotalEnergy-e0) / math.Abs(e0)
		drift = math.Max(drift, d)
	}
	return drift
}

var _ = Describe("Engine", func() {
	var (
		e     *engine.Engine
		sys   *celestial.System
		sun   *celestial.Body
		earth *celestial.Body
	)

	BeforeEach(func() {
		e = engine.New()
		e.SetRand(rand.New(rand.NewSource(42)))
		sys, sun, earth = sunEarth()
	})

	Describe("defaults", func() {
		It("selects newtonian and verlet", func() {
			Expect(e.ActiveModel()).To(Equal(engine.ModelNewtonian))
			Expect(e.ActiveIntegrator()).To(Equal(engine.IntegratorVerlet))
			Expect(e.ModelKeys()).To(ConsistOf(engine.ModelBarnesHut, engine.ModelNewtonian, engine.ModelRelativistic))
			Expect(e.IntegratorKeys()).To(ConsistOf(engine.IntegratorEuler, engine.IntegratorVerlet, engine.IntegratorRK2))
			Expect(e.Running()).To(BeFalse())
			Expect(e.TimeScale()).To(Equal(1.0))
		})
	})

	Describe("strategy selection", func() {
		It("keeps the previous integrator on an unknown key", func() {
			Expect(e.SetIntegrator(engine.IntegratorEuler)).To(Succeed())
			err := e.SetIntegrator("rk45")
			Expect(errors.Is(err, engine.ErrUnknownIntegrator)).To(BeTrue())
			Expect(e.ActiveIntegrator()).To(Equal(engine.IntegratorEuler))
			Expect(e.Integrator().Name()).To(Equal("euler"))
		})

		It("keeps the previous model on an unknown key", func() {
			Expect(e.SetForceModel(engine.ModelRelativistic)).To(Succeed())
			err := e.SetForceModel("mond")
			Expect(errors.Is(err, engine.ErrUnknownModel)).To(BeTrue())
			Expect(e.ActiveModel()).To(Equal(engine.ModelRelativistic))
			Expect(e.ForceModel().Name()).To(Equal("relativistic"))
		})

		It("still ticks after a rejected selection", func() {
			e.AddSystem(sys, true)
			e.Start()
			_ = e.SetIntegrator("bogus")
			before := earth.Position
			e.Update(3600)
			Expect(earth.Position).NotTo(Equal(before))
		})

		It("propagates G into every model", func() {
			Expect(e.SetGravitationalConstant(1.0)).To(Succeed())
			Expect(e.GravitationalConstant()).To(Equal(1.0))
			for _, key := range e.ModelKeys() {
				Expect(e.SetForceModel(key)).To(Succeed())
				Expect(e.ForceModel().G()).To(Equal(1.0))
			}
		})

		It("rejects a non-positive G", func() {
			err := e.SetGravitationalConstant(0)
			Expect(errors.Is(err, engine.ErrInvalidParameter)).To(BeTrue())
			Expect(e.GravitationalConstant()).To(Equal(celestial.G))
		})
	})

	Describe("systems", func() {
		It("activates the first system even when not asked to", func() {
			e.AddSystem(sys, false)
			Expect(e.ActiveSystem()).To(BeIdenticalTo(sys))
		})

		It("switches by name", func() {
			other := celestial.NewSystem("other")
			e.AddSystem(sys, true)
			e.AddSystem(other, false)
			Expect(e.ActiveSystem()).To(BeIdenticalTo(sys))

			Expect(e.ActivateSystem("other")).To(Succeed())
			Expect(e.ActiveSystem()).To(BeIdenticalTo(other))
			Expect(e.Systems()).To(HaveLen(2))

			err := e.ActivateSystem("missing")
			Expect(errors.Is(err, engine.ErrUnknownSystem)).To(BeTrue())
			Expect(e.ActiveSystem()).To(BeIdenticalTo(other))
		})

		It("mirrors body add and remove onto the active system", func() {
			Expect(e.AddBody(celestial.NewPlanet("Mars", 6.39e23), false)).To(MatchError(engine.ErrNoActiveSystem))
			Expect(e.RemoveBody("Earth")).To(BeFalse())

			e.AddSystem(sys, true)
			Expect(e.AddBody(celestial.NewPlanet("Mars", 6.39e23), false)).To(Succeed())
			Expect(e.Bodies()).To(HaveLen(3))
			Expect(e.RemoveBody("Mars")).To(BeTrue())
			Expect(e.Bodies()).To(HaveLen(2))
			Expect(e.AddBody(nil, false)).To(MatchError(engine.ErrMissingBody))
		})
	})

	Describe("Update", func() {
		It("does nothing without an active system", func() {
			e.Start()
			Expect(func() { e.Update(1) }).NotTo(Panic())
			Expect(e.Statistics().Ticks).To(BeZero())
		})

		It("does nothing while stopped or paused", func() {
			e.AddSystem(sys, true)
			before := earth.Position

			e.Update(3600)
			Expect(earth.Position).To(Equal(before))

			e.Start()
			e.Pause()
			e.Update(3600)
			Expect(earth.Position).To(Equal(before))
			Expect(sys.Time).To(BeZero())

			e.TogglePause()
			e.Update(3600)
			Expect(earth.Position).NotTo(Equal(before))
		})

		It("scales dt by time scale and system timestep", func() {
			sys.Timestep = 3
			e.AddSystem(sys, true)
			Expect(e.SetTimeScale(2)).To(Succeed())
			e.Start()
			e.Update(10)
			Expect(sys.Time).To(Equal(60.0))
		})

		It("keeps Verlet orbits at their speed across time scale changes", func() {
			e.AddSystem(sys, true)
			e.Start()
			for i := 0; i < 3; i++ {
				e.Update(3600)
			}

			Expect(e.SetTimeScale(0)).To(Succeed())
			frozen, clock := earth.Position, sys.Time
			for i := 0; i < 10; i++ {
				e.Update(3600)
			}
			Expect(earth.Position).To(Equal(frozen))
			Expect(sys.Time).To(Equal(clock))

			Expect(e.SetTimeScale(0.5)).To(Succeed())
			for i := 0; i < 20; i++ {
				before := earth.Position
				e.Update(3600)
				speed := earth.Position.Distance(before) / 1800
				Expect(speed).To(BeNumerically("~", 29780, 300))
				Expect(earth.Velocity.Magnitude()).To(BeNumerically("~", 29780, 300))
			}

			Expect(e.SetTimeScale(4)).To(Succeed())
			before := earth.Position
			e.Update(3600)
			Expect(earth.Position.Distance(before) / 14400).To(BeNumerically("~", 29780, 300))
		})

		It("rejects a negative time scale", func() {
			Expect(e.SetTimeScale(-1)).To(MatchError(engine.ErrInvalidParameter))
			Expect(e.TimeScale()).To(Equal(1.0))
		})

		It("integrates bodies built as struct literals", func() {
			e.AddSystem(sys, true)
			rock := &celestial.Body{Name: "rock", Mass: 1e24, Radius: 1e6, Visible: true}
			rock.Place(vector.New(2*au, 0), vector.New(0, 21000))
			Expect(e.AddBody(rock, false)).To(Succeed())
			e.Start()

			Expect(func() { e.Update(60) }).NotTo(Panic())
			Expect(rock.Trail().Len()).To(Equal(1))
			Expect(func() { e.ResetSimulation() }).NotTo(Panic())
			Expect(rock.Trail().Len()).To(BeZero())
		})

		It("never moves a fixed body", func() {
			e.AddSystem(sys, true)
			e.Start()
			for i := 0; i < 10; i++ {
				e.Update(86400)
			}
			Expect(sun.Position).To(Equal(vector.Zero))
			Expect(sun.Velocity).To(Equal(vector.Zero))
			Expect(sun.Trail().Len()).To(BeZero())
			Expect(earth.Trail().Len()).To(Equal(10))
		})

		It("notifies observers once per tick", func() {
			e.AddSystem(sys, true)
			var ticks []int64
			e.AddObserver(engine.ObserverFunc(func(s *celestial.System, st engine.Statistics) {
				Expect(s).To(BeIdenticalTo(sys))
				ticks = append(ticks, st.Ticks)
			}))
			e.Start()
			e.Update(60)
			e.Update(60)
			Expect(ticks).To(Equal([]int64{1, 2}))
		})

		It("estimates fps every 60 ticks", func() {
			now := time.Unix(0, 0)
			e.SetClock(func() time.Time {
				now = now.Add(time.Millisecond)
				return now
			})
			e.AddSystem(sys, true)
			e.Start()
			for i := 0; i < 59; i++ {
				e.Update(1)
			}
			Expect(e.Statistics().FPS).To(BeZero())
			e.Update(1)
			Expect(e.Statistics().FPS).To(BeNumerically(">", 0))
		})

		DescribeTable("conserves total momentum of free bodies",
			func(key engine.IntegratorKey) {
				binary := celestial.NewSystem("binary")
				a := celestial.NewStar("A", 1e30)
				b := celestial.NewStar("B", 1e30)
				binary.AddBody(a, false)
				binary.AddBody(b, false)
				a.FixedPosition = false
				a.Place(vector.New(-1e11, 0), vector.New(0, -1e4))
				b.Place(vector.New(1e11, 0), vector.New(0, 1e4))

				e.AddSystem(binary, true)
				Expect(e.SetIntegrator(key)).To(Succeed())
				e.Start()
				for i := 0; i < 200; i++ {
					e.Update(3600)
				}
				p := binary.TotalMomentum()
				Expect(p.Magnitude()).To(BeNumerically("<", 1e30*1e4*1e-9))
			},
			Entry("euler", engine.IntegratorEuler),
			Entry("verlet", engine.IntegratorVerlet),
			Entry("rk2", engine.IntegratorRK2),
		)
	})

	Describe("energy retention", func() {
		It("Verlet outperforms Euler on the Sun/Earth pair", func() {
			euler := maxEnergyDrift(engine.IntegratorEuler, 86400, 1000)
			verlet := maxEnergyDrift(engine.IntegratorVerlet, 86400, 1000)

			Expect(euler).To(BeNumerically("<", 1e-3))
			Expect(verlet).To(BeNumerically("<", 1e-4))
			Expect(verlet).To(BeNumerically("<", euler))
		})
	})

	Describe("CreateOrbit", func() {
		BeforeEach(func() {
			e.AddSystem(sys, true)
		})

		It("places a circular orbit", func() {
			Expect(e.CreateOrbit(sun, earth, au, 0, true)).To(Succeed())

			r := earth.Position.Sub(sun.Position)
			v := earth.Velocity.Sub(sun.Velocity)
			Expect(r.Magnitude()).To(BeNumerically("~", au, 1))
			Expect(v.Magnitude()).To(BeNumerically("~", math.Sqrt(celestial.G*(sunMass+earthMass)/au), 1e-6))
			Expect(math.Abs(r.Dot(v)) / (r.Magnitude() * v.Magnitude())).To(BeNumerically("<", 1e-12))
			Expect(r.Cross(v)).To(BeNumerically(">", 0))
			Expect(sys.Parent(earth)).To(BeIdenticalTo(sun))

			el, ok := earth.OrbitalElements(sun)
			Expect(ok).To(BeTrue())
			Expect(el.Eccentricity).To(BeNumerically("<", 1e-9))
		})

		It("reverses direction when not clockwise", func() {
			Expect(e.CreateOrbit(sun, earth, au, 0, true)).To(Succeed())
			forward := earth.Velocity

			e.SetRand(rand.New(rand.NewSource(42)))
			Expect(e.CreateOrbit(sun, earth, au, 0, false)).To(Succeed())
			Expect(earth.Velocity.X).To(BeNumerically("~", -forward.X, 1e-9))
			Expect(earth.Velocity.Y).To(BeNumerically("~", -forward.Y, 1e-9))
		})

		It("starts an eccentric orbit at apoapsis", func() {
			Expect(e.CreateOrbit(sun, earth, au, 0.5, true)).To(Succeed())
			el, ok := earth.OrbitalElements(sun)
			Expect(ok).To(BeTrue())
			Expect(el.Eccentricity).To(BeNumerically("~", 0.5, 1e-9))
			Expect(el.SemiMajorAxis).To(BeNumerically("~", au/1.5, au*1e-9))
		})

		It("adds the central body's velocity", func() {
			sun.Velocity = vector.New(1000, -500)
			Expect(e.CreateOrbit(sun, earth, au, 0, true)).To(Succeed())
			rel := earth.Velocity.Sub(sun.Velocity)
			Expect(rel.Magnitude()).To(BeNumerically("~", math.Sqrt(celestial.G*(sunMass+earthMass)/au), 1e-6))
		})

		DescribeTable("leaves the body untouched on invalid input",
			func(distance, ecc float64, want error) {
				pos, vel := earth.Position, earth.Velocity
				err := e.CreateOrbit(sun, earth, distance, ecc, true)
				Expect(errors.Is(err, want)).To(BeTrue())
				Expect(earth.Position).To(Equal(pos))
				Expect(earth.Velocity).To(Equal(vel))
				Expect(earth.ParentName).To(BeEmpty())
			},
			Entry("zero distance", 0.0, 0.0, engine.ErrInvalidDistance),
			Entry("negative distance", -au, 0.0, engine.ErrInvalidDistance),
			Entry("NaN distance", math.NaN(), 0.0, engine.ErrInvalidDistance),
			Entry("unbound eccentricity", au, 1.0, engine.ErrInvalidEccentricity),
			Entry("negative eccentricity", au, -0.1, engine.ErrInvalidEccentricity),
		)

		It("keeps a circular Verlet orbit circular for 1000 steps", func() {
			Expect(e.CreateOrbit(sun, earth, au, 0, true)).To(Succeed())
			e.Start()

			worst := 0.0
			for i := 0; i < 1000; i++ {
				e.Update(1800)
				el, ok := earth.OrbitalElements(sun)
				Expect(ok).To(BeTrue())
				worst = math.Max(worst, el.Eccentricity)
			}
			Expect(worst).To(BeNumerically("<", 1e-3))
		})
	})

	Describe("ResetSimulation", func() {
		It("zeroes the clock and clears trails but keeps state", func() {
			e.AddSystem(sys, true)
			e.Start()
			for i := 0; i < 5; i++ {
				e.Update(3600)
			}
			pos := earth.Position
			e.ResetSimulation()

			Expect(sys.Time).To(BeZero())
			Expect(earth.Trail().Len()).To(BeZero())
			Expect(earth.Position).To(Equal(pos))
		})
	})

	Describe("Statistics", func() {
		It("reports the active system", func() {
			Expect(e.Statistics().BodyCount).To(BeZero())

			e.AddSystem(sys, true)
			sys.Time = celestial.SecondsPerYear
			st := e.Statistics()
			Expect(st.System).To(Equal("sun-earth"))
			Expect(st.BodyCount).To(Equal(2))
			Expect(st.SimulationTimeYears).To(BeNumerically("~", 1.0, 1e-12))
			Expect(st.PhysicsModel).To(Equal(engine.ModelNewtonian))
			Expect(st.Integrator).To(Equal(engine.IntegratorVerlet))
			Expect(st.TotalEnergy).To(BeNumerically("~", sys.Energy(celestial.G), 1))
		})
	})

	Describe("Run", func() {
		It("requires an active system", func() {
			_, err := e.Run(context.Background(), 1, 10)
			Expect(err).To(MatchError(engine.ErrNoActiveSystem))
		})

		It("performs the requested ticks", func() {
			e.AddSystem(sys, true)
			e.Pause()
			n, err := e.Run(context.Background(), 60, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(10))
			Expect(sys.Time).To(Equal(600.0))
		})

		It("stops on cancellation", func() {
			e.AddSystem(sys, true)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			n, err := e.Run(ctx, 60, 10)
			Expect(n).To(BeZero())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			var runErr *engine.RunError
			Expect(errors.As(err, &runErr)).To(BeTrue())
			Expect(runErr.Tick).To(BeZero())
		})
	})
})
