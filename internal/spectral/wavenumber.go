package spectral

import (
	"math"

	"github.com/san-kum/vlasim/internal/kinetic"
)

// Wavenumbers holds the per-coefficient velocity wavenumbers of one
// half-spectrum block. Entry j*nv1/2 + i belongs to v1 index i and v2 index j.
type Wavenumbers struct {
	Lam1, Lam2 []float64
	Dl1, Dl2   float64
}

// FrequencySteps returns the wavenumber spacing of each velocity axis. The
// v1 step uses nv1-2 because the usable v1 range excludes a 2-cell margin.
func FrequencySteps(g kinetic.Grid) (dl1, dl2 float64) {
	dl1 = 2. * math.Pi / float64(g.NV1-2) / g.DV1
	dl2 = 2. * math.Pi / float64(g.NV2) / g.DV2
	return dl1, dl2
}

// WrappedFrequency maps index j of an n-point transform to its signed
// frequency: j*step up to n/2, (j-n)*step past it.
func WrappedFrequency(j, n int, step float64) float64 {
	if j <= n/2 {
		return float64(j) * step
	}
	return float64(j-n) * step
}

func NewWavenumbers(g kinetic.Grid) Wavenumbers {
	dl1, dl2 := FrequencySteps(g)
	half := g.NV1 / 2

	w := Wavenumbers{
		Lam1: make([]float64, g.HalfSpectrum()),
		Lam2: make([]float64, g.HalfSpectrum()),
		Dl1:  dl1,
		Dl2:  dl2,
	}
	for j := 0; j < g.NV2; j++ {
		l2 := WrappedFrequency(j, g.NV2, dl2)
		for i := 0; i < half; i++ {
			w.Lam1[j*half+i] = float64(i) * dl1
			w.Lam2[j*half+i] = l2
		}
	}
	return w
}
