package sim

import "github.com/san-kum/vlasim/internal/kinetic"

// PotentialSource fills dst with the full nx1*nx2 potential for the given
// step and simulation time.
type PotentialSource interface {
	Potential(step int, t float64, dst []float64)
}

type Metric interface {
	Name() string
	Observe(info kinetic.StepInfo)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(info kinetic.StepInfo)
}

type ObserverFunc func(info kinetic.StepInfo)

func (f ObserverFunc) OnStep(info kinetic.StepInfo) { f(info) }

type Config struct {
	Dt    float64
	Steps int
}

type Result struct {
	StepsTaken  int
	Times       []float64
	Energy      []float64
	FieldEnergy []float64
	MaxEx       []float64
	MaxEy       []float64
	EnergyDrift float64
	Metrics     map[string]float64
	Final       []float64
}
