package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/san-kum/vlasim/internal/kinetic"
)

// Plan transforms between a real nv2 x nv1 velocity block (v1 fastest) and
// the nv1*nv2/2 half-spectrum layout used by Engine. The v1 Nyquist column
// is dropped on the way forward and restored as zero on the way back.
type Plan struct {
	nv1, nv2 int
	half     int

	rows *fourier.FFT
	cols *fourier.CmplxFFT

	rowC   []complex128
	rowR   []float64
	col    []complex128
	colOut []complex128
	tmp    []complex128
}

func NewPlan(nv1, nv2 int) (*Plan, error) {
	if nv1 <= 0 || nv1%2 != 0 || nv2 <= 0 {
		return nil, fmt.Errorf("%w: plan needs even nv1 and positive nv2, got %dx%d", kinetic.ErrInvalidGrid, nv1, nv2)
	}
	half := nv1 / 2
	return &Plan{
		nv1:    nv1,
		nv2:    nv2,
		half:   half,
		rows:   fourier.NewFFT(nv1),
		cols:   fourier.NewCmplxFFT(nv2),
		rowC:   make([]complex128, half+1),
		rowR:   make([]float64, nv1),
		col:    make([]complex128, nv2),
		colOut: make([]complex128, nv2),
		tmp:    make([]complex128, half*nv2),
	}, nil
}

// PlanFor builds the plan matching a grid's velocity extents.
func PlanFor(g kinetic.Grid) (*Plan, error) {
	return NewPlan(g.NV1, g.NV2)
}

func (p *Plan) RealLen() int     { return p.nv1 * p.nv2 }
func (p *Plan) SpectralLen() int { return p.half * p.nv2 }

// Forward writes the unnormalised half spectrum of src into dst.
func (p *Plan) Forward(dst []complex128, src []float64) error {
	if err := kinetic.CheckLen("plan forward src", p.RealLen(), len(src)); err != nil {
		return err
	}
	if err := kinetic.CheckLen("plan forward dst", p.SpectralLen(), len(dst)); err != nil {
		return err
	}

	for j := 0; j < p.nv2; j++ {
		p.rows.Coefficients(p.rowC, src[j*p.nv1:(j+1)*p.nv1])
		copy(p.tmp[j*p.half:(j+1)*p.half], p.rowC[:p.half])
	}
	for i := 0; i < p.half; i++ {
		for j := 0; j < p.nv2; j++ {
			p.col[j] = p.tmp[j*p.half+i]
		}
		p.cols.Coefficients(p.colOut, p.col)
		for j := 0; j < p.nv2; j++ {
			dst[j*p.half+i] = p.colOut[j]
		}
	}
	return nil
}

// Inverse reconstructs the real block from its half spectrum, normalised so
// Inverse(Forward(f)) == f for f without v1 Nyquist content.
func (p *Plan) Inverse(dst []float64, src []complex128) error {
	if err := kinetic.CheckLen("plan inverse src", p.SpectralLen(), len(src)); err != nil {
		return err
	}
	if err := kinetic.CheckLen("plan inverse dst", p.RealLen(), len(dst)); err != nil {
		return err
	}

	norm := 1. / float64(p.nv1*p.nv2)
	for i := 0; i < p.half; i++ {
		for j := 0; j < p.nv2; j++ {
			p.col[j] = src[j*p.half+i]
		}
		p.cols.Sequence(p.colOut, p.col)
		for j := 0; j < p.nv2; j++ {
			p.tmp[j*p.half+i] = p.colOut[j]
		}
	}
	for j := 0; j < p.nv2; j++ {
		copy(p.rowC[:p.half], p.tmp[j*p.half:(j+1)*p.half])
		p.rowC[p.half] = 0
		p.rows.Sequence(p.rowR, p.rowC)
		row := dst[j*p.nv1 : (j+1)*p.nv1]
		for i, v := range p.rowR {
			row[i] = v * norm
		}
	}
	return nil
}

// ForwardCells transforms cells consecutive velocity blocks.
func (p *Plan) ForwardCells(dst []complex128, src []float64, cells int) error {
	if err := kinetic.CheckLen("plan forward cells src", cells*p.RealLen(), len(src)); err != nil {
		return err
	}
	if len(dst) < cells*p.SpectralLen() {
		return &kinetic.ContractError{Op: "plan forward cells dst", Want: cells * p.SpectralLen(), Got: len(dst), Wrapped: kinetic.ErrBufferTooShort}
	}
	r, s := p.RealLen(), p.SpectralLen()
	for c := 0; c < cells; c++ {
		if err := p.Forward(dst[c*s:(c+1)*s], src[c*r:(c+1)*r]); err != nil {
			return err
		}
	}
	return nil
}

// InverseCells is the inverse of ForwardCells.
func (p *Plan) InverseCells(dst []float64, src []complex128, cells int) error {
	if err := kinetic.CheckLen("plan inverse cells dst", cells*p.RealLen(), len(dst)); err != nil {
		return err
	}
	if len(src) < cells*p.SpectralLen() {
		return &kinetic.ContractError{Op: "plan inverse cells src", Want: cells * p.SpectralLen(), Got: len(src), Wrapped: kinetic.ErrBufferTooShort}
	}
	r, s := p.RealLen(), p.SpectralLen()
	for c := 0; c < cells; c++ {
		if err := p.Inverse(dst[c*r:(c+1)*r], src[c*s:(c+1)*s]); err != nil {
			return err
		}
	}
	return nil
}
