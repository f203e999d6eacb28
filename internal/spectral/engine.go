package spectral

import (
	"fmt"
	"math"

	"github.com/san-kum/vlasim/internal/compute"
	"github.com/san-kum/vlasim/internal/field"
	"github.com/san-kum/vlasim/internal/kinetic"
)

// DefaultAlpha is the fraction of the timestep applied by each rotation.
const DefaultAlpha = 0.4

// FieldHook receives the freshly solved field components. The slices are
// owned by the engine and valid only until the next solve.
type FieldHook func(ex, ey []float64) error

type Option func(*Engine)

func WithAlpha(alpha float64) Option {
	return func(e *Engine) { e.alpha = alpha }
}

func WithBackend(b compute.Backend) Option {
	return func(e *Engine) { e.backend = b }
}

func WithFieldHook(h FieldHook) Option {
	return func(e *Engine) { e.hook = h }
}

// Engine performs the velocity-space update of one partition.
type Engine struct {
	grid    kinetic.Grid
	alpha   float64
	dt      float64
	backend compute.Backend
	hook    FieldHook

	solver *field.Solver
	phi    []float64
	ex, ey []float64
	waves  Wavenumbers

	rotA, rotB []complex128
	rotStep    float64
	rotReady   bool
}

// New builds an engine from raw parameters with default timestep dt.
func New(p kinetic.Parameters, dt float64, opts ...Option) (*Engine, error) {
	g, err := kinetic.NewGrid(p)
	if err != nil {
		return nil, err
	}
	return NewFromGrid(g, dt, opts...)
}

func NewFromGrid(g kinetic.Grid, dt float64, opts ...Option) (*Engine, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		grid:  g,
		alpha: DefaultAlpha,
		dt:    dt,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.backend == nil {
		e.backend = compute.GetBackend()
	}
	if math.IsNaN(e.alpha) || math.IsInf(e.alpha, 0) {
		return nil, fmt.Errorf("%w: alpha must be finite, got %v", kinetic.ErrInvalidGrid, e.alpha)
	}

	in := g.Interior()
	solver, err := field.NewSolver(in, [2]int{field.HalfWidth, field.HalfWidth}, [2]float64{g.DX1, g.DX2}, e.backend)
	if err != nil {
		return nil, err
	}
	e.solver = solver

	size := g.InteriorSize()
	e.phi = make([]float64, size)
	e.ex = make([]float64, size)
	e.ey = make([]float64, size)

	e.waves = NewWavenumbers(g)
	e.rotA = make([]complex128, g.HalfSpectrum())
	e.rotB = make([]complex128, g.HalfSpectrum())

	return e, nil
}

func (e *Engine) Grid() kinetic.Grid       { return e.grid }
func (e *Engine) Alpha() float64           { return e.alpha }
func (e *Engine) Dt() float64              { return e.dt }
func (e *Engine) Backend() compute.Backend { return e.backend }
func (e *Engine) Wavenumbers() Wavenumbers { return e.waves }
func (e *Engine) SetFieldHook(h FieldHook) { e.hook = h }
func (e *Engine) Ex() []float64            { return e.ex }
func (e *Engine) Ey() []float64            { return e.ey }
func (e *Engine) FieldShape() [2]int       { return e.grid.Interior() }

// Step advances with the construction-time timestep.
func (e *Engine) Step(buf []complex128, potential []float64) error {
	return e.Advance(buf, potential, e.dt)
}

// Advance solves the field from potential and rotates every half-spectrum
// block of the local window [0, nx1*nx2loc) of buf in place: first by
// alpha*timestep*lam1, then by alpha*timestep*lam2. Coefficients past the
// window are never touched.
func (e *Engine) Advance(buf []complex128, potential []float64, timestep float64) error {
	if need := e.grid.SpectralLen(); len(buf) < need {
		return &kinetic.ContractError{Op: "advance spectral buffer", Want: need, Got: len(buf), Wrapped: kinetic.ErrBufferTooShort}
	}
	if err := kinetic.CheckLen("advance potential", e.grid.PotentialSize(), len(potential)); err != nil {
		return err
	}
	if math.IsNaN(timestep) || math.IsInf(timestep, 0) {
		return fmt.Errorf("advance: %w: must be finite, got %v", kinetic.ErrInvalidTimestep, timestep)
	}

	if err := e.SolveField(potential); err != nil {
		return err
	}

	e.preparePhasors(timestep)

	h := e.grid.HalfSpectrum()
	rotA, rotB := e.rotA, e.rotB
	return e.backend.Map(e.grid.LocalCells(), func(start, end int) {
		for c := start; c < end; c++ {
			block := buf[c*h : (c+1)*h]
			RotateBlock(block, rotA)
			RotateBlock(block, rotB)
		}
	})
}

// SolveField copies the interior window of the full potential and solves
// Ex, Ey over it. The field hook, if any, runs after a successful solve.
func (e *Engine) SolveField(potential []float64) error {
	if err := kinetic.CheckLen("solve field potential", e.grid.PotentialSize(), len(potential)); err != nil {
		return err
	}

	in := e.grid.Interior()
	nx1, bd1, bd2 := e.grid.NX1, e.grid.NX1Bd, e.grid.NX2Bd
	phi := e.phi
	if err := e.backend.Map(len(phi), func(start, end int) {
		for k := start; k < end; k++ {
			i, j := k%in[0], k/in[0]
			phi[k] = potential[(j+bd2)*nx1+i+bd1]
		}
	}); err != nil {
		return err
	}

	if err := e.solver.Solve(phi, e.ex, e.ey); err != nil {
		return err
	}

	if e.hook != nil {
		if err := e.hook(e.ex, e.ey); err != nil {
			return fmt.Errorf("field hook: %w", err)
		}
	}
	return nil
}

func (e *Engine) preparePhasors(timestep float64) {
	if e.rotReady && e.rotStep == timestep {
		return
	}
	scale := e.alpha * timestep
	fillPhasors(e.rotA, e.waves.Lam1, scale)
	fillPhasors(e.rotB, e.waves.Lam2, scale)
	e.rotStep = timestep
	e.rotReady = true
}
