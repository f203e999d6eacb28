package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/vlasim/internal/config"
	"github.com/san-kum/vlasim/internal/sim"
	"github.com/san-kum/vlasim/internal/storage"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset, or the default configuration when
// Preset is empty, and applies any non-zero overrides.
type ScenarioStep struct {
	Preset string  `yaml:"preset"`
	Dt     float64 `yaml:"dt"`
	Steps  int     `yaml:"steps"`
	Alpha  float64 `yaml:"alpha"`
	SaveAs string  `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the configuration the step runs with.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Steps != 0 {
		cfg.Steps = s.Steps
	}
	if s.Alpha != 0 {
		cfg.Alpha = s.Alpha
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, cfg.Validate()
}

// RunScenario executes every step in order. When st is non-nil each
// result is stored and its run id returned alongside.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, log *logrus.Entry) ([]*sim.Result, []string, error) {
	results := make([]*sim.Result, 0, len(scenario.Steps))
	ids := make([]string, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, ids, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.WithFields(logrus.Fields{"step": i + 1, "of": len(scenario.Steps), "config": cfg.Name}).Info("scenario step")

		s, f0, err := sim.FromConfig(cfg)
		if err != nil {
			return results, ids, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		s.SetLogger(log.WithField("config", cfg.Name))

		result, err := s.Run(ctx, f0, sim.Config{Dt: cfg.Dt, Steps: cfg.Steps})
		if err != nil {
			return results, ids, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, result)

		if st == nil {
			continue
		}
		id, err := st.Save(storage.RunMetadata{
			Name:         cfg.Name,
			Params:       cfg.Params,
			Dt:           cfg.Dt,
			Alpha:        cfg.Alpha,
			Backend:      s.Engine().Backend().Name(),
			Potential:    cfg.Potential.Kind,
			Distribution: cfg.Distribution.Kind,
		}, result)
		if err != nil {
			return results, ids, fmt.Errorf("step %d save: %w", i+1, err)
		}
		ids = append(ids, id)
	}

	return results, ids, nil
}
