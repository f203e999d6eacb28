package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vlasim/internal/kinetic"
	"github.com/san-kum/vlasim/internal/metrics"
	"github.com/san-kum/vlasim/internal/sim"
)

const (
	canvasWidth     = 48
	canvasHeight    = 10
	historyCapacity = 600
)

type TickMsg time.Time

// Model drives a simulation session and renders the v1 marginal of one
// configuration cell alongside energy and field histories.
type Model struct {
	sim      *sim.Simulator
	sess     *sim.Session
	f0       []float64
	dist     []float64
	dt       float64
	maxSteps int
	name     string

	running  bool
	showHelp bool
	cell     int
	canvas   *Canvas
	err      error

	energy0       float64
	energyHistory []float64
	fieldHistory  []float64
	last          kinetic.StepInfo
}

// NewModel starts a session from f0. maxSteps <= 0 runs until quit.
func NewModel(s *sim.Simulator, f0 []float64, dt float64, maxSteps int, name string) (Model, error) {
	sess, err := s.NewSession(f0, dt)
	if err != nil {
		return Model{}, err
	}
	return Model{
		sim:           s,
		sess:          sess,
		f0:            f0,
		dist:          make([]float64, len(f0)),
		dt:            dt,
		maxSteps:      maxSteps,
		name:          name,
		running:       true,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		energy0:       metrics.SpectralEnergy(sess.Spectrum()),
		energyHistory: make([]float64, 0, historyCapacity),
		fieldHistory:  make([]float64, 0, historyCapacity),
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab", "right", "l":
			m.cycleCell(1)
		case "shift+tab", "left", "h":
			m.cycleCell(-1)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.maxSteps > 0 && m.sess.StepCount() >= m.maxSteps {
		m.running = false
		return
	}
	info, err := m.sess.Step()
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.last = info
	m.energyHistory = appendCapped(m.energyHistory, metrics.SpectralEnergy(info.Spectrum))
	m.fieldHistory = appendCapped(m.fieldHistory, math.Max(metrics.MaxAbs(info.Ex), metrics.MaxAbs(info.Ey)))
}

func (m *Model) reset() {
	sess, err := m.sim.NewSession(m.f0, m.dt)
	if err != nil {
		m.err = err
		return
	}
	m.sess = sess
	m.err = nil
	m.last = kinetic.StepInfo{}
	m.energyHistory = m.energyHistory[:0]
	m.fieldHistory = m.fieldHistory[:0]
	m.running = true
}

func (m *Model) cycleCell(dir int) {
	n := m.sim.Engine().Grid().LocalCells()
	m.cell = ((m.cell+dir)%n + n) % n
}

func appendCapped(h []float64, v float64) []float64 {
	if len(h) == historyCapacity {
		copy(h, h[1:])
		h = h[:len(h)-1]
	}
	return append(h, v)
}

// Marginal sums an nv2 x nv1 block over v2.
func Marginal(block []float64, nv1, nv2 int) []float64 {
	out := make([]float64, nv1)
	for j := 0; j < nv2; j++ {
		for i, v := range block[j*nv1 : (j+1)*nv1] {
			out[i] += v
		}
	}
	return out
}

func (m Model) marginal() []float64 {
	g := m.sim.Engine().Grid()
	if err := m.sess.Distribution(m.dist); err != nil {
		return nil
	}
	size := g.NV1 * g.NV2
	return Marginal(m.dist[m.cell*size:(m.cell+1)*size], g.NV1, g.NV2)
}

func (m Model) View() string {
	g := m.sim.Engine().Grid()
	var s strings.Builder

	s.WriteString(headerStyle().Render(strings.ToUpper(m.name)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(statusStyle(m.running).Render(status) + "\n\n")

	m.canvas.Plot(m.marginal())
	plot := panelStyle().Render(fmt.Sprintf("f(v1), cell %d (%d,%d)\n%s", m.cell, m.cell%g.NX1, m.cell/g.NX1, m.canvas.String()))

	drift := 0.0
	if n := len(m.energyHistory); n > 0 && m.energy0 != 0 {
		drift = math.Abs(m.energyHistory[n-1]-m.energy0) / m.energy0
	}
	row := func(label, value string) string {
		return labelStyle().Render(label) + valueStyle().Render(value) + "\n"
	}
	var stats strings.Builder
	stats.WriteString(row("step", fmt.Sprintf("%d", m.sess.StepCount())))
	stats.WriteString(row("time", fmt.Sprintf("%.4f", m.sess.Time())))
	stats.WriteString(row("drift", fmt.Sprintf("%.2e", drift)))
	stats.WriteString(row("max |E|", fmt.Sprintf("%.4e", math.Max(metrics.MaxAbs(m.last.Ex), metrics.MaxAbs(m.last.Ey)))))
	stats.WriteString(row("advance", m.last.Elapsed.String()))
	stats.WriteString(row("backend", m.sim.Engine().Backend().Name()))
	if m.maxSteps > 0 {
		stats.WriteString(ProgressBar(float64(m.sess.StepCount())/float64(m.maxSteps), 20) + "\n")
	}
	stats.WriteString("\nfield " + Sparkline(m.fieldHistory, 24) + "\n")

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, plot, "  ", panelStyle().Render(stats.String())) + "\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(5), asciigraph.Width(60), asciigraph.Caption("spectral energy"))
		s.WriteString("\n" + chart + "\n")
	}

	if m.err != nil {
		s.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render("error: "+m.err.Error()) + "\n")
	}

	if m.showHelp {
		s.WriteString(helpStyle().Render("space pause/resume  r reset  tab/left/right change cell  t theme  ? help  q quit") + "\n")
	} else {
		s.WriteString(helpStyle().Render("? help  q quit") + "\n")
	}
	return s.String()
}

// Run starts the interactive program and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
