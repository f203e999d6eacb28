// Package field computes the electric field components of a 2D potential
// with a fourth-order 5-point central difference applied along each axis.
//
// Axis 0 is contiguous and differenced in place. Axis 1 is reached by
// transposing the potential into a scratch buffer, differencing it with the
// same stencil, and transposing the result back so both outputs keep the
// caller's axis order. Cells within the boundary margin of either axis are
// overwritten with exactly zero in both components.
package field

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/vlasim/internal/compute"
	"github.com/san-kum/vlasim/internal/kinetic"
	"github.com/san-kum/vlasim/internal/reorder"
)

// HalfWidth is the reach of the stencil on each side of the output cell.
const HalfWidth = 2

type Solver struct {
	n        [2]int
	nbd      [2]int
	interval [2]float64
	ntot     int
	backend  compute.Backend

	fwd, back *reorder.Reorder
	phiT, eT  []float64
}

// NewSolver allocates the transpose scratch buffers for an n[0] x n[1] grid.
// Margins narrower than the stencil or wider than half an axis are rejected.
func NewSolver(n, nbd [2]int, interval [2]float64, backend compute.Backend) (*Solver, error) {
	for a := 0; a < 2; a++ {
		if n[a] <= 0 || interval[a] <= 0 {
			return nil, fmt.Errorf("%w: axis %d extent %d spacing %g", kinetic.ErrInvalidGrid, a, n[a], interval[a])
		}
		if nbd[a] < HalfWidth || 2*nbd[a] > n[a] {
			return nil, &kinetic.ContractError{
				Op:      fmt.Sprintf("field solver axis %d margin", a),
				Want:    HalfWidth,
				Got:     nbd[a],
				Wrapped: kinetic.ErrInsufficientMargin,
			}
		}
	}
	if backend == nil {
		backend = compute.GetBackend()
	}

	fwd, err := reorder.Transpose2D(n[0], n[1])
	if err != nil {
		return nil, err
	}
	back, err := reorder.Transpose2D(n[1], n[0])
	if err != nil {
		return nil, err
	}

	ntot := n[0] * n[1]
	return &Solver{
		n:        n,
		nbd:      nbd,
		interval: interval,
		ntot:     ntot,
		backend:  backend,
		fwd:      fwd,
		back:     back,
		phiT:     make([]float64, ntot),
		eT:       make([]float64, ntot),
	}, nil
}

func (s *Solver) Shape() [2]int  { return s.n }
func (s *Solver) Margin() [2]int { return s.nbd }
func (s *Solver) Size() int      { return s.ntot }

// Solve writes the axis-0 component into e0 and the axis-1 component into e1.
// On error both outputs are in an undefined state.
func (s *Solver) Solve(phi, e0, e1 []float64) error {
	if err := kinetic.CheckLen("field solve potential", s.ntot, len(phi)); err != nil {
		return err
	}
	if err := kinetic.CheckLen("field solve e0", s.ntot, len(e0)); err != nil {
		return err
	}
	if err := kinetic.CheckLen("field solve e1", s.ntot, len(e1)); err != nil {
		return err
	}

	var g errgroup.Group
	g.Go(func() error {
		if err := s.stencil(phi, e0, s.interval[0]); err != nil {
			return err
		}
		return s.zeroMargins(e0)
	})
	g.Go(func() error {
		if err := s.transpose(s.fwd, s.phiT, phi); err != nil {
			return err
		}
		if err := s.stencil(s.phiT, s.eT, s.interval[1]); err != nil {
			return err
		}
		if err := s.transpose(s.back, e1, s.eT); err != nil {
			return err
		}
		return s.zeroMargins(e1)
	})
	return g.Wait()
}

// stencil evaluates the difference at every flat index in [2, ntot-2) of a
// contiguous-axis view. Indices whose neighbours wrap into the adjacent row
// fall inside the margin and are zeroed afterwards.
func (s *Solver) stencil(p, e []float64, h float64) error {
	c := 1. / 12. / h
	return s.backend.Map(s.ntot-2*HalfWidth, func(start, end int) {
		for k := start + HalfWidth; k < end+HalfWidth; k++ {
			e[k] = c * (-p[k-2] + 8*p[k-1] - 8*p[k+1] + p[k+2])
		}
	})
}

func (s *Solver) transpose(r *reorder.Reorder, dst, src []float64) error {
	return s.backend.Map(r.Size(), func(start, end int) {
		r.CopyRange(dst, src, start, end)
	})
}

// zeroMargins clears the left and right slabs of axis 0 (stride n[0]) and
// the low and high slabs of axis 1 (one contiguous block each).
func (s *Solver) zeroMargins(e []float64) error {
	n0, n1 := s.n[0], s.n[1]
	b0, b1 := s.nbd[0], s.nbd[1]

	views := []reorder.StridedChunks{
		reorder.NewStridedChunks(0, s.ntot, n0, b0),
		reorder.NewStridedChunks(n0-b0, s.ntot, n0, b0),
		reorder.NewStridedChunks(0, b1*n0, s.ntot, b1*n0),
		reorder.NewStridedChunks((n1-b1)*n0, s.ntot, s.ntot, b1*n0),
	}
	for _, v := range views {
		view := v
		if err := s.backend.Map(view.Len(), func(start, end int) {
			for k := start; k < end; k++ {
				e[view.At(k)] = 0
			}
		}); err != nil {
			return err
		}
	}
	return nil
}
