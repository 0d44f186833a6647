package celestial

import "github.com/san-kum/orbitsim/internal/vector"

// System is an ordered collection of bodies sharing a simulation clock.
//
// Body names are expected to be unique; lookups and removals act on the first
// match when they are not.
type System struct {
	Name     string
	Bodies   []*Body
	Time     float64
	Timestep float64

	central *Body
}

func NewSystem(name string) *System {
	return &System{
		Name:     name,
		Bodies:   make([]*Body, 0),
		Timestep: 1.0,
	}
}

func (s *System) Len() int { return len(s.Bodies) }

// AddBody appends b. It becomes the central body, with its position pinned,
// when setAsCentral is true or when it is the first star added.
func (s *System) AddBody(b *Body, setAsCentral bool) {
	s.Bodies = append(s.Bodies, b)
	if setAsCentral || (b.Type == TypeStar && s.central == nil) {
		s.central = b
		b.FixedPosition = true
	}
}

// RemoveBody drops the first body named name and reports whether one was found.
func (s *System) RemoveBody(name string) bool {
	for i, b := range s.Bodies {
		if b.Name != name {
			continue
		}
		s.Bodies = append(s.Bodies[:i], s.Bodies[i+1:]...)
		if s.central == b {
			s.central = nil
		}
		return true
	}
	return false
}

// Body returns the first body named name, or nil.
func (s *System) Body(name string) *Body {
	for _, b := range s.Bodies {
		if b.Name == name {
			return b
		}
	}
	return nil
}

func (s *System) Central() *Body {
	return s.central
}

// SetCentral marks an existing body as central without touching its flags.
func (s *System) SetCentral(name string) bool {
	b := s.Body(name)
	if b == nil {
		return false
	}
	s.central = b
	return true
}

// Parent resolves b's parent link, yielding nil for no parent or a dangling name.
func (s *System) Parent(b *Body) *Body {
	if b == nil || b.ParentName == "" {
		return nil
	}
	return s.Body(b.ParentName)
}

func (s *System) Children(name string) []*Body {
	var out []*Body
	for _, b := range s.Bodies {
		if b.ParentName == name {
			out = append(out, b)
		}
	}
	return out
}

// TotalEnergy is Energy evaluated with the standard gravitational constant.
func (s *System) TotalEnergy() float64 {
	return s.Energy(G)
}

// Energy sums kinetic energy and pairwise potential energy. Coincident pairs
// are skipped.
func (s *System) Energy(g float64) float64 {
	ke := 0.0
	pe := 0.0
	n := len(s.Bodies)
	for i := 0; i < n; i++ {
		bi := s.Bodies[i]
		ke += bi.KineticEnergy()
		for j := i + 1; j < n; j++ {
			bj := s.Bodies[j]
			d := bi.Position.Distance(bj.Position)
			if d > 0 {
				pe -= g * bi.Mass * bj.Mass / d
			}
		}
	}
	return ke + pe
}

// CenterOfMass returns the mass-weighted mean position and the total mass.
func (s *System) CenterOfMass() (vector.Vector, float64) {
	total := 0.0
	sum := vector.Zero
	for _, b := range s.Bodies {
		total += b.Mass
		sum = sum.Add(b.Position.Mul(b.Mass))
	}
	if total == 0 {
		return vector.Zero, 0
	}
	return sum.Div(total), total
}

func (s *System) TotalMomentum() vector.Vector {
	p := vector.Zero
	for _, b := range s.Bodies {
		p = p.Add(b.Momentum())
	}
	return p
}

// AngularMomentum is Σ m·(r×v) about the origin.
func (s *System) AngularMomentum() float64 {
	l := 0.0
	for _, b := range s.Bodies {
		l += b.Mass * b.Position.Cross(b.Velocity)
	}
	return l
}

func (s *System) ClearTrails() {
	for _, b := range s.Bodies {
		b.Trail().Clear()
	}
}

// Snapshot deep-copies the system so a reader can hold it while the original
// keeps advancing.
func (s *System) Snapshot() *System {
	c := &System{
		Name:     s.Name,
		Bodies:   make([]*Body, len(s.Bodies)),
		Time:     s.Time,
		Timestep: s.Timestep,
	}
	for i, b := range s.Bodies {
		c.Bodies[i] = b.Clone()
		if b == s.central {
			c.central = c.Bodies[i]
		}
	}
	return c
}
