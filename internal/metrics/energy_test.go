package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/vlasim/internal/kinetic"
)

func TestSpectralEnergy(t *testing.T) {
	buf := []complex128{complex(3, 4), 1i, 0}
	if got := SpectralEnergy(buf); got != 26 {
		t.Errorf("SpectralEnergy = %v, want 26", got)
	}
}

func TestFieldEnergyAndMaxAbs(t *testing.T) {
	ex := []float64{1, -2}
	ey := []float64{0, 3}
	if got := FieldEnergy(ex, ey, 0.5, 2); math.Abs(got-7) > 1e-12 {
		t.Errorf("FieldEnergy = %v, want 7", got)
	}
	if got := MaxAbs(ex); got != 2 {
		t.Errorf("MaxAbs = %v, want 2", got)
	}
	if got := MaxAbs(nil); got != 0 {
		t.Errorf("MaxAbs(nil) = %v, want 0", got)
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	m.Observe(kinetic.StepInfo{Spectrum: []complex128{2}})
	m.Observe(kinetic.StepInfo{Spectrum: []complex128{2i}})
	if m.Value() != 0 {
		t.Errorf("expected zero drift for a pure rotation, got %v", m.Value())
	}

	m.Observe(kinetic.StepInfo{Spectrum: []complex128{complex(math.Sqrt(5), 0)}})
	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected drift 0.25, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestMeanFieldEnergy(t *testing.T) {
	m := NewMeanFieldEnergy(1, 1)
	m.Observe(kinetic.StepInfo{Ex: []float64{2}, Ey: []float64{0}})
	m.Observe(kinetic.StepInfo{Ex: []float64{0}, Ey: []float64{0}})
	if math.Abs(m.Value()-1) > 1e-12 {
		t.Errorf("expected mean 1, got %v", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestPeakField(t *testing.T) {
	p := NewPeakField()
	p.Observe(kinetic.StepInfo{Ex: []float64{1, -4}, Ey: []float64{2}})
	p.Observe(kinetic.StepInfo{Ex: []float64{1}, Ey: []float64{-3}})
	if p.Value() != 4 {
		t.Errorf("expected peak 4, got %v", p.Value())
	}
}
