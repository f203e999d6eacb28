package automation

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/vlasim/internal/analysis"
	"github.com/san-kum/vlasim/internal/config"
	"github.com/san-kum/vlasim/internal/metrics"
	"github.com/san-kum/vlasim/internal/sim"
)

// ParameterSweep runs Base once per evenly spaced value of Param in
// [Min, Max].
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min, Max float64
	Points   int
	Parallel int
}

type SweepResult struct {
	Value       float64
	EnergyDrift float64
	PeakField   float64
	GrowthRate  float64
}

// SweepParams lists the names SetParam accepts.
var SweepParams = []string{"dt", "alpha", "amplitude", "omega", "thermal", "drift", "perturbation"}

// SetParam assigns one named scalar of cfg.
func SetParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "dt":
		cfg.Dt = v
	case "alpha":
		cfg.Alpha = v
	case "amplitude":
		cfg.Potential.Amplitude = v
	case "omega":
		cfg.Potential.Omega = v
	case "thermal":
		cfg.Distribution.Thermal = v
	case "drift":
		cfg.Distribution.Drift = v
	case "perturbation":
		cfg.Distribution.Perturbation = v
	default:
		return fmt.Errorf("unknown sweep parameter: %s (available: %v)", name, SweepParams)
	}
	return nil
}

// Values returns the sample points of the sweep.
func (sw *ParameterSweep) Values() ([]float64, error) {
	if sw.Points < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 points, got %d", sw.Points)
	}
	step := (sw.Max - sw.Min) / float64(sw.Points-1)
	vals := make([]float64, sw.Points)
	for i := range vals {
		vals[i] = sw.Min + float64(i)*step
	}
	return vals, nil
}

// RunSweep runs every point, at most Parallel at a time, and returns the
// results in value order. The first failing point cancels the rest.
func RunSweep(ctx context.Context, sw *ParameterSweep) ([]SweepResult, error) {
	vals, err := sw.Values()
	if err != nil {
		return nil, err
	}
	if err := SetParam(&config.Config{}, sw.Param, 0); err != nil {
		return nil, err
	}

	limit := sw.Parallel
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]SweepResult, len(vals))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, v := range vals {
		g.Go(func() error {
			cfg := *sw.Base
			_ = SetParam(&cfg, sw.Param, v)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("%s=%g: %w", sw.Param, v, err)
			}

			s, f0, err := sim.FromConfig(&cfg)
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sw.Param, v, err)
			}
			peak := metrics.NewPeakField()
			s.AddMetric(peak)

			res, err := s.Run(ctx, f0, sim.Config{Dt: cfg.Dt, Steps: cfg.Steps})
			if err != nil {
				return fmt.Errorf("%s=%g: %w", sw.Param, v, err)
			}

			growth := math.NaN()
			if len(res.FieldEnergy) > 1 {
				growth = analysis.GrowthRate(res.Times[1:], res.FieldEnergy)
			}
			results[i] = SweepResult{
				Value:       v,
				EnergyDrift: res.EnergyDrift,
				PeakField:   peak.Value(),
				GrowthRate:  growth,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Best returns the result minimising score, skipping NaN scores.
func Best(results []SweepResult, score func(SweepResult) float64) (SweepResult, bool) {
	best, bestScore, found := SweepResult{}, math.Inf(1), false
	for _, r := range results {
		s := score(r)
		if math.IsNaN(s) {
			continue
		}
		if s < bestScore {
			best, bestScore, found = r, s, true
		}
	}
	return best, found
}
