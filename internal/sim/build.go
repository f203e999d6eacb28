package sim

import (
	"github.com/san-kum/vlasim/internal/compute"
	"github.com/san-kum/vlasim/internal/config"
	"github.com/san-kum/vlasim/internal/spectral"
)

// FromConfig builds the engine, potential source and initial distribution
// a configuration describes. Extra options apply after alpha and backend.
func FromConfig(cfg *config.Config, opts ...spectral.Option) (*Simulator, []float64, error) {
	g, err := cfg.Grid()
	if err != nil {
		return nil, nil, err
	}

	backend := compute.ByName(cfg.Backend, cfg.Workers)
	if !backend.Available() {
		backend = compute.ByName("cpu", cfg.Workers)
	}

	base := []spectral.Option{spectral.WithAlpha(cfg.Alpha), spectral.WithBackend(backend)}
	engine, err := spectral.NewFromGrid(g, cfg.Dt, append(base, opts...)...)
	if err != nil {
		return nil, nil, err
	}

	source, err := NewPotential(cfg.Potential, g)
	if err != nil {
		return nil, nil, err
	}

	s, err := New(engine, source)
	if err != nil {
		return nil, nil, err
	}

	f0, err := InitialDistribution(cfg.Distribution, g)
	if err != nil {
		return nil, nil, err
	}
	return s, f0, nil
}
