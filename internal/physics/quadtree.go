package physics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

// maxDepth stops subdivision; a leaf at this depth keeps every body pushed
// into it, which is how coincident bodies end up sharing a leaf.
const maxDepth = 48

type quadrant uint8

// bit 0 is the X axis, bit 1 the Y axis; a set bit means ≥ centre
const (
	lowLow quadrant = iota
	highLow
	lowHigh
	highHigh
)

type bounds struct {
	center vector.Vector
	width  float64
}

func (b bounds) contains(p vector.Vector) bool {
	h := b.width / 2
	return b.center.X-h <= p.X && p.X <= b.center.X+h &&
		b.center.Y-h <= p.Y && p.Y <= b.center.Y+h
}

// child is the bounds of quadrant q: half the width, centred a quarter width
// away from the parent's centre on each axis.
func (b bounds) child(q quadrant) bounds {
	q4 := b.width / 4
	dx, dy := -q4, -q4
	if q&highLow != 0 {
		dx = q4
	}
	if q&lowHigh != 0 {
		dy = q4
	}
	return bounds{center: b.center.Add(vector.New(dx, dy)), width: b.width / 2}
}

func quadrantOf(center, p vector.Vector) quadrant {
	var q quadrant
	if p.X >= center.X {
		q |= highLow
	}
	if p.Y >= center.Y {
		q |= lowHigh
	}
	return q
}

// node is a quadtree cell. Leaves list their bodies; internal nodes have
// children. Both carry the total mass and the mass moment Σm·x of everything
// below them.
type node struct {
	bounds   bounds
	children *[4]*node
	members  []int
	mass     float64
	moment   vector.Vector
}

func (n *node) centerOfMass() vector.Vector {
	if n.mass == 0 {
		return n.bounds.center
	}
	return n.moment.Div(n.mass)
}

func (n *node) insert(bodies []*celestial.Body, i, depth int) {
	b := bodies[i]
	n.mass += b.Mass
	n.moment = n.moment.Add(b.Position.Mul(b.Mass))

	if n.children != nil {
		n.push(bodies, i, depth)
		return
	}
	n.members = append(n.members, i)
	if len(n.members) == 1 || depth >= maxDepth {
		return
	}

	// split: the leaf becomes internal and hands its bodies down
	n.children = new([4]*node)
	members := n.members
	n.members = nil
	for _, j := range members {
		n.push(bodies, j, depth)
	}
}

func (n *node) push(bodies []*celestial.Body, i, depth int) {
	q := quadrantOf(n.bounds.center, bodies[i].Position)
	if n.children[q] == nil {
		n.children[q] = &node{bounds: n.bounds.child(q)}
	}
	n.children[q].insert(bodies, i, depth+1)
}

// buildTree returns the root of a quadtree holding bodies, or nil when a
// position is not finite.
func buildTree(bodies []*celestial.Body) *node {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, b := range bodies {
		p := b.Position
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	width := math.Max(maxX-minX, maxY-minY) * 1.01
	if width == 0 {
		width = 1
	}
	root := &node{bounds: bounds{
		center: vector.New((minX+maxX)/2, (minY+maxY)/2),
		width:  width,
	}}
	for i := range bodies {
		root.insert(bodies, i, 0)
	}
	return root
}

// forceOn walks the tree for body i. A cell is used as a single mass at its
// centre of mass when width/distance < theta and it does not contain the
// body; leaves are always summed body by body.
func (n *node) forceOn(bodies []*celestial.Body, i int, theta float64, newton *Newtonian) vector.Vector {
	b := bodies[i]
	if n.children == nil {
		f := vector.Zero
		for _, j := range n.members {
			if j == i {
				continue
			}
			pf, _ := newton.PairForce(b, bodies[j])
			f = f.Add(pf)
		}
		return f
	}

	com := n.centerOfMass()
	r := com.Sub(b.Position)
	d := r.Magnitude()
	if !n.bounds.contains(b.Position) && d > 0 && n.bounds.width/d < theta {
		eps2 := newton.Softening * newton.Softening
		magnitude := newton.Gravity * b.Mass * n.mass / (d*d + eps2)
		return r.Div(d).Mul(magnitude)
	}

	f := vector.Zero
	for _, c := range n.children {
		if c != nil {
			f = f.Add(c.forceOn(bodies, i, theta, newton))
		}
	}
	return f
}
