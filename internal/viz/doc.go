// Package viz renders a live terminal view of a running simulation using
// Bubble Tea.
//
// The view plots the v1 marginal of one configuration cell on a braille
// [Canvas] next to step statistics, with the spectral energy history drawn
// by asciigraph below.
//
// # Key Bindings
//
//	Space      - Pause/Resume
//	R          - Restart from the initial distribution
//	Tab/Arrows - Select configuration cell
//	T          - Cycle color themes
//	?          - Show help
package viz
