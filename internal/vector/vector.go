// Package vector provides the planar value type shared by the simulation
// packages. Every operation returns a new Vector; operands are never mutated.
package vector

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector is a 2-component position, velocity, acceleration or force.
type Vector struct {
	X, Y float64
}

// Zero is the additive identity.
var Zero = Vector{}

func New(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (v Vector) r2() r2.Vec { return r2.Vec(v) }

func (v Vector) Add(o Vector) Vector {
	return Vector(r2.Add(v.r2(), o.r2()))
}

func (v Vector) Sub(o Vector) Vector {
	return Vector(r2.Sub(v.r2(), o.r2()))
}

func (v Vector) Mul(s float64) Vector {
	return Vector(r2.Scale(s, v.r2()))
}

// Div scales by 1/s. Division by zero follows IEEE semantics.
func (v Vector) Div(s float64) Vector {
	return Vector{X: v.X / s, Y: v.Y / s}
}

func (v Vector) Neg() Vector {
	return Vector{X: -v.X, Y: -v.Y}
}

func (v Vector) Magnitude() float64 {
	return r2.Norm(v.r2())
}

func (v Vector) MagnitudeSq() float64 {
	return r2.Norm2(v.r2())
}

// Normalize returns the unit vector, or Zero when v has zero length.
func (v Vector) Normalize() Vector {
	mag := v.Magnitude()
	if mag == 0 {
		return Zero
	}
	return v.Div(mag)
}

func (v Vector) Distance(o Vector) float64 {
	return r2.Norm(r2.Sub(v.r2(), o.r2()))
}

func (v Vector) Dot(o Vector) float64 {
	return r2.Dot(v.r2(), o.r2())
}

// Cross is the z component of the 3-D cross product of v and o.
func (v Vector) Cross(o Vector) float64 {
	return r2.Cross(v.r2(), o.r2())
}

// Rotate turns v counter-clockwise about the origin by angle radians.
func (v Vector) Rotate(angle float64) Vector {
	return Vector(r2.Rotate(v.r2(), angle, r2.Vec{}))
}

func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Array returns the components in the [x, y] order used by the file schema.
func (v Vector) Array() [2]float64 {
	return [2]float64{v.X, v.Y}
}

func (v Vector) String() string {
	return fmt.Sprintf("Vector(%.2e, %.2e)", v.X, v.Y)
}
