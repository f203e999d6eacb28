package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/vlasim/internal/config"
	"github.com/san-kum/vlasim/internal/storage"
)

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := `name: pair
description: two short runs
steps:
  - preset: minimal
    steps: 2
    save_as: first
  - preset: partitioned
    steps: 1
    dt: 0.1
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "pair" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}

	cfg, err := sc.Steps[0].Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "first" || cfg.Steps != 2 {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	cfg, err = sc.Steps[1].Config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dt != 0.1 || cfg.Params.NDev != 2 {
		t.Errorf("unexpected second config: dt %v ndev %d", cfg.Dt, cfg.Params.NDev)
	}
}

func TestLoadScenarioEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: empty\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for a scenario without steps")
	}
}

func TestScenarioStepUnknownPreset(t *testing.T) {
	if _, err := (ScenarioStep{Preset: "nope"}).Config(); err == nil {
		t.Error("expected error")
	}
}

func TestRunScenario(t *testing.T) {
	st := storage.New(t.TempDir())
	sc := &Scenario{
		Name: "pair",
		Steps: []ScenarioStep{
			{Preset: "minimal", Steps: 3},
			{Preset: "minimal", Steps: 1, SaveAs: "again"},
		},
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	results, ids, err := RunScenario(context.Background(), sc, st, logrus.NewEntry(log))
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if len(results) != 2 || len(ids) != 2 {
		t.Fatalf("expected 2 results and ids, got %d and %d", len(results), len(ids))
	}
	if results[0].StepsTaken != 3 {
		t.Errorf("first step took %d steps", results[0].StepsTaken)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[1].Name != "again" {
		t.Errorf("unexpected stored runs: %+v", runs)
	}
}

func TestSetParam(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, name := range SweepParams {
		if err := SetParam(cfg, name, 0.25); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if cfg.Dt != 0.25 || cfg.Distribution.Drift != 0.25 {
		t.Errorf("parameters not applied: %+v", cfg)
	}
	if err := SetParam(cfg, "bogus", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestRunSweep(t *testing.T) {
	base := config.GetPreset("minimal")
	base.Steps = 4
	base.Potential = config.PotentialConfig{Kind: "wave", Amplitude: 0.1, ModeX: 1}

	sw := &ParameterSweep{Base: base, Param: "amplitude", Min: 0.1, Max: 0.3, Points: 3, Parallel: 2}
	results, err := RunSweep(context.Background(), sw)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, want := range []float64{0.1, 0.2, 0.3} {
		if math.Abs(results[i].Value-want) > 1e-12 {
			t.Errorf("result %d value = %v, want %v", i, results[i].Value, want)
		}
		if results[i].EnergyDrift > 1e-12 {
			t.Errorf("result %d drift = %e", i, results[i].EnergyDrift)
		}
	}
	if base.Potential.Amplitude != 0.1 {
		t.Error("sweep mutated the base configuration")
	}
}

func TestRunSweepErrors(t *testing.T) {
	base := config.GetPreset("minimal")

	if _, err := RunSweep(context.Background(), &ParameterSweep{Base: base, Param: "dt", Min: 1, Max: 2, Points: 1}); err == nil {
		t.Error("expected error for a single point")
	}
	if _, err := RunSweep(context.Background(), &ParameterSweep{Base: base, Param: "bogus", Min: 1, Max: 2, Points: 2}); err == nil {
		t.Error("expected error for an unknown parameter")
	}
	if _, err := RunSweep(context.Background(), &ParameterSweep{Base: base, Param: "dt", Min: -1, Max: 0, Points: 2}); err == nil {
		t.Error("expected error for invalid dt values")
	}
}

func TestBest(t *testing.T) {
	results := []SweepResult{
		{Value: 1, GrowthRate: math.NaN()},
		{Value: 2, GrowthRate: -0.5},
		{Value: 3, GrowthRate: 0.1},
	}
	best, ok := Best(results, func(r SweepResult) float64 { return r.GrowthRate })
	if !ok || best.Value != 2 {
		t.Errorf("Best = %+v, %v", best, ok)
	}
	if _, ok := Best(nil, func(r SweepResult) float64 { return r.Value }); ok {
		t.Error("expected no result for an empty slice")
	}
}
