package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/vlasim/internal/kinetic"
)

const (
	DefaultDt      = 0.05
	DefaultSteps   = 100
	DefaultAlpha   = 0.4
	DefaultBackend = "auto"
	DefaultThermal = 1.0
)

type Config struct {
	Name         string             `yaml:"name"`
	Params       kinetic.Parameters `yaml:"params"`
	Dt           float64            `yaml:"dt"`
	Steps        int                `yaml:"steps"`
	Alpha        float64            `yaml:"alpha"`
	Backend      string             `yaml:"backend"`
	Workers      int                `yaml:"workers"`
	DumpFields   bool               `yaml:"dump_fields"`
	Potential    PotentialConfig    `yaml:"potential"`
	Distribution DistributionConfig `yaml:"distribution"`
}

// PotentialConfig selects the externally supplied potential used by the driver.
type PotentialConfig struct {
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude"`
	ModeX     int     `yaml:"mode_x"`
	ModeY     int     `yaml:"mode_y"`
	Omega     float64 `yaml:"omega"`
}

// DistributionConfig describes the initial distribution in physical velocity space.
type DistributionConfig struct {
	Kind         string  `yaml:"kind"`
	Thermal      float64 `yaml:"thermal"`
	Drift        float64 `yaml:"drift"`
	Perturbation float64 `yaml:"perturbation"`
	Mode         int     `yaml:"mode"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "default",
		Params: kinetic.Parameters{
			N:        [2]int{16, 16},
			NAll:     [4]int{16, 16, 32, 32},
			NDev:     1,
			Interval: [4]float64{0.5, 0.5, 0.2, 0.2},
			NGhost:   [4]int{0, 0, 2, 2},
		},
		Dt:      DefaultDt,
		Steps:   DefaultSteps,
		Alpha:   DefaultAlpha,
		Backend: DefaultBackend,
		Potential: PotentialConfig{
			Kind:      "wave",
			Amplitude: 0.1,
			ModeX:     1,
		},
		Distribution: DistributionConfig{
			Kind:         "maxwellian",
			Thermal:      DefaultThermal,
			Perturbation: 0.01,
			Mode:         1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the grid and the run settings.
func (c *Config) Validate() error {
	if _, err := kinetic.NewGrid(c.Params); err != nil {
		return err
	}
	if c.Dt <= 0 || math.IsInf(c.Dt, 0) || math.IsNaN(c.Dt) {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	if math.IsNaN(c.Alpha) || math.IsInf(c.Alpha, 0) {
		return fmt.Errorf("alpha must be finite, got %f", c.Alpha)
	}
	switch c.Potential.Kind {
	case "", "zero", "linear", "wave":
	default:
		return fmt.Errorf("unknown potential kind: %s", c.Potential.Kind)
	}
	switch c.Distribution.Kind {
	case "", "maxwellian", "two_stream", "uniform":
	default:
		return fmt.Errorf("unknown distribution kind: %s", c.Distribution.Kind)
	}
	return nil
}

// Grid returns the validated grid descriptor.
func (c *Config) Grid() (kinetic.Grid, error) {
	return kinetic.NewGrid(c.Params)
}
