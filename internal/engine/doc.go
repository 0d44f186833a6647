// Package engine advances a set of celestial systems through time.
//
// An Engine owns the force models and integrators it can switch between, the
// registered systems, and the per-tick protocol: all forces are computed from
// the same pre-tick positions before any body is integrated.
//
// Engine is not safe for concurrent use. Hosts that read bodies from another
// goroutine must serialize access around Update, or hand readers a
// System.Snapshot taken after a completed tick (see internal/server).
package engine
