package spectral

import "math"

// Phasor returns the unit complex number (cos phi, sin phi).
func Phasor(phi float64) complex128 {
	s, c := math.Sincos(phi)
	return complex(c, s)
}

// Rotate advances the phase of v by phi, preserving its magnitude.
func Rotate(v complex128, phi float64) complex128 {
	return v * Phasor(phi)
}

// RotateBlock multiplies block elementwise by phasors.
func RotateBlock(block, phasors []complex128) {
	for k := range block {
		block[k] *= phasors[k]
	}
}

// fillPhasors writes Phasor(scale*lam[k]) into dst.
func fillPhasors(dst []complex128, lam []float64, scale float64) {
	for k, l := range lam {
		dst[k] = Phasor(scale * l)
	}
}
