// Package physics provides the gravitational force models used by the engine.
//
// Each model implements [ForceModel], producing one net force per body from
// the current positions:
//
//   - [Newtonian]: softened inverse-square gravity, all pairs
//   - [Relativistic]: Newtonian pair force scaled by a velocity and
//     time-dilation correction
//   - [BarnesHut]: Newtonian gravity through a mass-weighted quadtree
//
// The relativistic correction is a heuristic, not a solution of the field
// equations. It wraps a [Newtonian] value and shares its softening and
// distance computation.
//
// # Example
//
//	model := physics.NewNewtonian()
//	forces := model.Forces(system.Bodies)
package physics
