package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/vlasim/internal/config"
	"github.com/san-kum/vlasim/internal/kinetic"
)

// Velocity returns the physical velocity of index i on an axis with n
// points and spacing dv, centred on zero.
func Velocity(i, n int, dv float64) float64 {
	return float64(i-n/2) * dv
}

func maxwellian(v, drift, vt float64) float64 {
	d := v - drift
	return math.Exp(-d*d/(2*vt*vt)) / (math.Sqrt(2*math.Pi) * vt)
}

// InitialDistribution samples the configured distribution over the local
// window of g. The result holds LocalCells consecutive nv2 x nv1 blocks
// with v1 fastest.
func InitialDistribution(dc config.DistributionConfig, g kinetic.Grid) ([]float64, error) {
	vt := dc.Thermal
	if vt <= 0 {
		vt = config.DefaultThermal
	}

	var profile func(v1, v2 float64) float64
	switch dc.Kind {
	case "", "maxwellian":
		profile = func(v1, v2 float64) float64 {
			return maxwellian(v1, dc.Drift, vt) * maxwellian(v2, 0, vt)
		}
	case "two_stream":
		profile = func(v1, v2 float64) float64 {
			return 0.5 * (maxwellian(v1, dc.Drift, vt) + maxwellian(v1, -dc.Drift, vt)) * maxwellian(v2, 0, vt)
		}
	case "uniform":
		profile = func(_, _ float64) float64 { return 1 }
	default:
		return nil, fmt.Errorf("unknown distribution kind: %s", dc.Kind)
	}

	block := make([]float64, g.NV1*g.NV2)
	for j := 0; j < g.NV2; j++ {
		v2 := Velocity(j, g.NV2, g.DV2)
		for i := 0; i < g.NV1; i++ {
			block[j*g.NV1+i] = profile(Velocity(i, g.NV1, g.DV1), v2)
		}
	}

	k1 := 2 * math.Pi * float64(dc.Mode) / (float64(g.NX1) * g.DX1)
	cells := g.LocalCells()
	out := make([]float64, cells*len(block))
	for c := 0; c < cells; c++ {
		x1 := float64(c%g.NX1) * g.DX1
		amp := 1 + dc.Perturbation*math.Cos(k1*x1)
		dst := out[c*len(block) : (c+1)*len(block)]
		for n, v := range block {
			dst[n] = amp * v
		}
	}
	return out, nil
}
