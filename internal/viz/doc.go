// Package viz renders engine state for terminals: lipgloss statistics and
// body tables, asciigraph plots, a braille orbit map and the bubbletea watch
// model that ties them together.
//
// # Watch keys
//
//	Space - pause/resume
//	R     - reset clock and trails
//	M / I - cycle force model / integrator
//	+ / - - double / halve the time scale
//	O / C - toggle orbit map / trails
//	F     - refit the map
//	T     - cycle colour themes
//	?     - help
//	Q     - quit
package viz
