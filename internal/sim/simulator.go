package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/vlasim/internal/kinetic"
	"github.com/san-kum/vlasim/internal/metrics"
	"github.com/san-kum/vlasim/internal/spectral"
)

type Simulator struct {
	engine    *spectral.Engine
	plan      *spectral.Plan
	source    PotentialSource
	log       *logrus.Entry
	metrics   []Metric
	observers []Observer
}

func New(engine *spectral.Engine, source PotentialSource) (*Simulator, error) {
	plan, err := spectral.PlanFor(engine.Grid())
	if err != nil {
		return nil, err
	}
	if source == nil {
		source = ZeroPotential{}
	}
	return &Simulator{
		engine:  engine,
		plan:    plan,
		source:  source,
		log:     logrus.WithField("component", "sim"),
		metrics: make([]Metric, 0),
	}, nil
}

func (s *Simulator) SetLogger(l *logrus.Entry)   { s.log = l }
func (s *Simulator) AddMetric(m Metric)          { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)      { s.observers = append(s.observers, o) }
func (s *Simulator) Engine() *spectral.Engine    { return s.engine }
func (s *Simulator) Plan() *spectral.Plan        { return s.plan }
func (s *Simulator) Source() PotentialSource     { return s.source }
func (s *Simulator) SetSource(p PotentialSource) { s.source = p }

// Session owns the spectral state of one run and advances it step by step.
type Session struct {
	sim       *Simulator
	spectrum  []complex128
	potential []float64
	step      int
	t         float64
	dt        float64
}

// NewSession transforms f0, LocalCells real velocity blocks, into the
// spectral layout the engine advances.
func (s *Simulator) NewSession(f0 []float64, dt float64) (*Session, error) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: dt must be positive, got %f", kinetic.ErrInvalidTimestep, dt)
	}
	g := s.engine.Grid()
	sess := &Session{
		sim:       s,
		spectrum:  make([]complex128, g.SpectralLen()),
		potential: make([]float64, g.PotentialSize()),
		dt:        dt,
	}
	if err := s.plan.ForwardCells(sess.spectrum, f0, g.LocalCells()); err != nil {
		return nil, fmt.Errorf("initial transform: %w", err)
	}
	return sess, nil
}

func (ss *Session) StepCount() int          { return ss.step }
func (ss *Session) Time() float64           { return ss.t }
func (ss *Session) Spectrum() []complex128  { return ss.spectrum }
func (ss *Session) PotentialBuf() []float64 { return ss.potential }

// Step evaluates the potential at the current time and advances once.
func (ss *Session) Step() (kinetic.StepInfo, error) {
	s := ss.sim
	s.source.Potential(ss.step, ss.t, ss.potential)

	start := time.Now()
	if err := s.engine.Advance(ss.spectrum, ss.potential, ss.dt); err != nil {
		return kinetic.StepInfo{}, fmt.Errorf("step %d: %w", ss.step, err)
	}
	elapsed := time.Since(start)

	info := kinetic.StepInfo{
		Step:     ss.step,
		Time:     ss.t + ss.dt,
		Elapsed:  elapsed,
		Spectrum: ss.spectrum,
		Ex:       s.engine.Ex(),
		Ey:       s.engine.Ey(),
	}
	ss.step++
	ss.t = info.Time

	for _, m := range s.metrics {
		m.Observe(info)
	}
	for _, obs := range s.observers {
		obs.OnStep(info)
	}
	return info, nil
}

// Distribution writes the real-space distribution of the local window into dst.
func (ss *Session) Distribution(dst []float64) error {
	g := ss.sim.engine.Grid()
	return ss.sim.plan.InverseCells(dst, ss.spectrum, g.LocalCells())
}

func (s *Simulator) Run(ctx context.Context, f0 []float64, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	sess, err := s.NewSession(f0, cfg.Dt)
	if err != nil {
		return nil, err
	}

	g := s.engine.Grid()
	result := &Result{
		Times:       make([]float64, 0, cfg.Steps+1),
		Energy:      make([]float64, 0, cfg.Steps+1),
		FieldEnergy: make([]float64, 0, cfg.Steps),
		MaxEx:       make([]float64, 0, cfg.Steps),
		MaxEy:       make([]float64, 0, cfg.Steps),
		Metrics:     make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	initialEnergy := metrics.SpectralEnergy(sess.spectrum)
	result.Times = append(result.Times, 0)
	result.Energy = append(result.Energy, initialEnergy)

	s.log.WithFields(logrus.Fields{
		"steps":   cfg.Steps,
		"dt":      cfg.Dt,
		"cells":   g.LocalCells(),
		"backend": s.engine.Backend().Name(),
	}).Info("run started")

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.log.WithField("step", i).Warn("run canceled")
			return result, fmt.Errorf("%w at step %d: %w", kinetic.ErrCanceled, i, ctx.Err())
		default:
		}

		info, err := sess.Step()
		if err != nil {
			return result, err
		}
		result.StepsTaken++

		energy := metrics.SpectralEnergy(info.Spectrum)
		result.Times = append(result.Times, info.Time)
		result.Energy = append(result.Energy, energy)
		result.FieldEnergy = append(result.FieldEnergy, metrics.FieldEnergy(info.Ex, info.Ey, g.DX1, g.DX2))
		result.MaxEx = append(result.MaxEx, metrics.MaxAbs(info.Ex))
		result.MaxEy = append(result.MaxEy, metrics.MaxAbs(info.Ey))

		s.log.WithFields(logrus.Fields{
			"step":    info.Step,
			"time":    info.Time,
			"energy":  energy,
			"max_ex":  result.MaxEx[i],
			"max_ey":  result.MaxEy[i],
			"elapsed": info.Elapsed,
		}).Debug("advanced")
	}

	finalEnergy := result.Energy[len(result.Energy)-1]
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	result.Final = make([]float64, len(f0))
	if err := sess.Distribution(result.Final); err != nil {
		return result, fmt.Errorf("final transform: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"steps": result.StepsTaken,
		"drift": result.EnergyDrift,
	}).Info("run finished")
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", kinetic.ErrInvalidTimestep, cfg.Dt)
	}
	if cfg.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", cfg.Steps)
	}
	return nil
}
