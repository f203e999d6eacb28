package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/vlasim/internal/compute"
	"github.com/san-kum/vlasim/internal/config"
	"github.com/san-kum/vlasim/internal/kinetic"
	"github.com/san-kum/vlasim/internal/sim"
	"github.com/san-kum/vlasim/internal/spectral"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(10, 10)

	if c.Grid[0][0] != rune(brailleBlank|0x1) {
		t.Errorf("cell 0 = %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != rune(brailleBlank|0x80) {
		t.Errorf("cell 1 = %U", c.Grid[0][1])
	}

	c.Clear()
	if c.String() != string([]rune{brailleBlank, brailleBlank})+"\n" {
		t.Errorf("canvas not cleared: %q", c.String())
	}
}

func TestCanvasPlotEndpoints(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Plot([]float64{0, 1})

	// Lowest value maps to the bottom-left dot, highest to the top-right.
	if c.Grid[1][0]&0x40 == 0 {
		t.Error("expected bottom-left dot set")
	}
	if c.Grid[0][3]&0x8 == 0 {
		t.Error("expected top-right dot set")
	}
}

func TestMarginal(t *testing.T) {
	block := []float64{1, 2, 3, 10, 20, 30}
	got := Marginal(block, 3, 2)
	want := []float64{11, 22, 33}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Marginal = %v, want %v", got, want)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}, 2); got != "▁█" {
		t.Errorf("Sparkline = %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("empty Sparkline = %q", got)
	}
}

func TestNextTheme(t *testing.T) {
	defer SetTheme(ThemePlasma.Name)
	SetTheme(ThemePlasma.Name)
	NextTheme()
	if CurrentTheme.Name != ThemeRetroGreen.Name {
		t.Errorf("expected retro, got %s", CurrentTheme.Name)
	}
}

func newTestModel(t *testing.T, maxSteps int) Model {
	t.Helper()
	p := kinetic.Parameters{
		N:        [2]int{8, 4},
		NAll:     [4]int{8, 4, 8, 8},
		NDev:     1,
		Interval: [4]float64{0.5, 0.5, 0.1, 0.1},
		NGhost:   [4]int{0, 0, 2, 2},
	}
	engine, err := spectral.New(p, 0.05, spectral.WithBackend(compute.NewCPUBackendWithWorkers(1)))
	if err != nil {
		t.Fatal(err)
	}
	s, err := sim.New(engine, sim.ZeroPotential{})
	if err != nil {
		t.Fatal(err)
	}
	f0, err := sim.InitialDistribution(config.DistributionConfig{Kind: "maxwellian", Thermal: 0.5}, engine.Grid())
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewModel(s, f0, 0.05, maxSteps, "test")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestModelStepsOnTick(t *testing.T) {
	m := newTestModel(t, 2)

	for i := 0; i < 3; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}

	if m.sess.StepCount() != 2 {
		t.Errorf("expected 2 steps, got %d", m.sess.StepCount())
	}
	if m.running {
		t.Error("expected model to pause at the step limit")
	}
	if len(m.energyHistory) != 2 {
		t.Errorf("expected 2 energy samples, got %d", len(m.energyHistory))
	}

	view := m.View()
	if !strings.Contains(view, "TEST") || !strings.Contains(view, "spectral energy") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t, 0)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(Model)
	if m.running {
		t.Error("space should pause")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	if want := m.sim.Engine().Grid().LocalCells() - 1; m.cell != want {
		t.Errorf("left from cell 0 = %d, want %d", m.cell, want)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t, 0)
	next, _ := m.Update(TickMsg{})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	if m.sess.StepCount() != 0 || len(m.energyHistory) != 0 {
		t.Errorf("reset left step %d and %d samples", m.sess.StepCount(), len(m.energyHistory))
	}
}
