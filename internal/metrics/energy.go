package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/vlasim/internal/kinetic"
)

// SpectralEnergy is the sum of squared magnitudes of buf. Phase rotation
// leaves it unchanged.
func SpectralEnergy(buf []complex128) float64 {
	sum := 0.0
	for _, c := range buf {
		sum += real(c)*real(c) + imag(c)*imag(c)
	}
	return sum
}

// FieldEnergy is 0.5 * sum(Ex^2 + Ey^2) * dx1 * dx2.
func FieldEnergy(ex, ey []float64, dx1, dx2 float64) float64 {
	return 0.5 * (floats.Dot(ex, ex) + floats.Dot(ey, ey)) * dx1 * dx2
}

// MaxAbs returns the infinity norm of e, or 0 for an empty slice.
func MaxAbs(e []float64) float64 {
	if len(e) == 0 {
		return 0
	}
	return floats.Norm(e, math.Inf(1))
}

type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(info kinetic.StepInfo) {
	energy := SpectralEnergy(info.Spectrum)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

type MeanFieldEnergy struct {
	name     string
	dx1, dx2 float64
	total    float64
	samples  int
}

func NewMeanFieldEnergy(dx1, dx2 float64) *MeanFieldEnergy {
	return &MeanFieldEnergy{name: "field_energy", dx1: dx1, dx2: dx2}
}

func (m *MeanFieldEnergy) Name() string { return m.name }

func (m *MeanFieldEnergy) Observe(info kinetic.StepInfo) {
	m.total += FieldEnergy(info.Ex, info.Ey, m.dx1, m.dx2)
	m.samples++
}

func (m *MeanFieldEnergy) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanFieldEnergy) Reset() {
	m.total = 0
	m.samples = 0
}

type PeakField struct {
	name string
	peak float64
}

func NewPeakField() *PeakField {
	return &PeakField{name: "peak_field"}
}

func (p *PeakField) Name() string { return p.name }

func (p *PeakField) Observe(info kinetic.StepInfo) {
	p.peak = math.Max(p.peak, math.Max(MaxAbs(info.Ex), MaxAbs(info.Ey)))
}

func (p *PeakField) Value() float64 { return p.peak }
func (p *PeakField) Reset()         { p.peak = 0 }
