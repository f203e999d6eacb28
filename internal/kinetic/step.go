package kinetic

import "time"

// StepInfo describes one completed advance. Slices alias engine-owned
// buffers and are valid only until the next advance.
type StepInfo struct {
	Step     int
	Time     float64
	Elapsed  time.Duration
	Spectrum []complex128
	Ex, Ey   []float64
}
