package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/vlasim/internal/config"
	"github.com/san-kum/vlasim/internal/kinetic"
)

type ZeroPotential struct{}

func (ZeroPotential) Potential(_ int, _ float64, dst []float64) {
	clear(dst)
}

// LinearPotential is phi = S1*x1 + S2*x2 over the full grid.
type LinearPotential struct {
	Slope    [2]float64
	NX1      int
	DX1, DX2 float64
}

func (l LinearPotential) Potential(_ int, _ float64, dst []float64) {
	for k := range dst {
		i, j := k%l.NX1, k/l.NX1
		dst[k] = l.Slope[0]*float64(i)*l.DX1 + l.Slope[1]*float64(j)*l.DX2
	}
}

// WavePotential is a travelling wave A*cos(k1*x1 + k2*x2 - omega*t) whose
// wavenumbers are whole modes of the configuration box.
type WavePotential struct {
	Amplitude float64
	K1, K2    float64
	Omega     float64
	NX1       int
	DX1, DX2  float64
}

func NewWavePotential(g kinetic.Grid, amplitude float64, modeX, modeY int, omega float64) WavePotential {
	return WavePotential{
		Amplitude: amplitude,
		K1:        2 * math.Pi * float64(modeX) / (float64(g.NX1) * g.DX1),
		K2:        2 * math.Pi * float64(modeY) / (float64(g.NX2) * g.DX2),
		Omega:     omega,
		NX1:       g.NX1,
		DX1:       g.DX1,
		DX2:       g.DX2,
	}
}

func (w WavePotential) Potential(_ int, t float64, dst []float64) {
	for k := range dst {
		x1 := float64(k%w.NX1) * w.DX1
		x2 := float64(k/w.NX1) * w.DX2
		dst[k] = w.Amplitude * math.Cos(w.K1*x1+w.K2*x2-w.Omega*t)
	}
}

// NewPotential builds the source described by pc for grid g.
func NewPotential(pc config.PotentialConfig, g kinetic.Grid) (PotentialSource, error) {
	switch pc.Kind {
	case "", "zero":
		return ZeroPotential{}, nil
	case "linear":
		return LinearPotential{
			Slope: [2]float64{pc.Amplitude * float64(pc.ModeX), pc.Amplitude * float64(pc.ModeY)},
			NX1:   g.NX1,
			DX1:   g.DX1,
			DX2:   g.DX2,
		}, nil
	case "wave":
		return NewWavePotential(g, pc.Amplitude, pc.ModeX, pc.ModeY, pc.Omega), nil
	default:
		return nil, fmt.Errorf("unknown potential kind: %s", pc.Kind)
	}
}
