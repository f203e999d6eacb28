package config

import (
	"sort"

	"github.com/san-kum/vlasim/internal/kinetic"
)

var Presets = map[string]*Config{
	"minimal": {
		Name: "minimal", Dt: 1, Steps: 1, Alpha: DefaultAlpha,
		Params: kinetic.Parameters{
			N: [2]int{4, 4}, NAll: [4]int{4, 4, 8, 8}, NDev: 1,
			Interval: [4]float64{1, 1, 1, 1}, NGhost: [4]int{0, 0, 2, 2},
		},
		Potential:    PotentialConfig{Kind: "zero"},
		Distribution: DistributionConfig{Kind: "uniform"},
	},
	"landau": {
		Name: "landau", Dt: 0.05, Steps: 200, Alpha: DefaultAlpha,
		Params: kinetic.Parameters{
			N: [2]int{32, 32}, NAll: [4]int{32, 32, 36, 20}, NDev: 1,
			Interval: [4]float64{0.375, 0.375, 0.35, 0.35}, NGhost: [4]int{0, 0, 2, 2},
		},
		Potential:    PotentialConfig{Kind: "wave", Amplitude: 0.05, ModeX: 1},
		Distribution: DistributionConfig{Kind: "maxwellian", Thermal: 1, Perturbation: 0.01, Mode: 1},
	},
	"two_stream": {
		Name: "two_stream", Dt: 0.02, Steps: 300, Alpha: DefaultAlpha,
		Params: kinetic.Parameters{
			N: [2]int{32, 16}, NAll: [4]int{32, 16, 40, 24}, NDev: 1,
			Interval: [4]float64{0.4, 0.5, 0.25, 0.25}, NGhost: [4]int{0, 0, 2, 2},
		},
		Potential:    PotentialConfig{Kind: "wave", Amplitude: 0.1, ModeX: 2, Omega: 0.5},
		Distribution: DistributionConfig{Kind: "two_stream", Thermal: 0.5, Drift: 2, Perturbation: 0.05, Mode: 2},
	},
	"partitioned": {
		Name: "partitioned", Dt: 0.05, Steps: 50, Alpha: DefaultAlpha,
		Params: kinetic.Parameters{
			N: [2]int{16, 16}, NAll: [4]int{16, 16, 24, 24}, NDev: 2,
			Interval: [4]float64{0.5, 0.5, 0.2, 0.2}, NGhost: [4]int{0, 0, 2, 2},
		},
		Potential:    PotentialConfig{Kind: "linear", Amplitude: 0.2, ModeX: 1, ModeY: 1},
		Distribution: DistributionConfig{Kind: "maxwellian", Thermal: 1},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
