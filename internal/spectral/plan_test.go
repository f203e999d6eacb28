package spectral

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/san-kum/vlasim/internal/kinetic"
)

func TestPlan_SingleMode(t *testing.T) {
	nv1, nv2 := 8, 4
	p, err := NewPlan(nv1, nv2)
	if err != nil {
		t.Fatal(err)
	}

	src := make([]float64, nv1*nv2)
	for j := 0; j < nv2; j++ {
		for i := 0; i < nv1; i++ {
			src[j*nv1+i] = math.Cos(2 * math.Pi * float64(i) / float64(nv1))
		}
	}
	dst := make([]complex128, p.SpectralLen())
	if err := p.Forward(dst, src); err != nil {
		t.Fatalf("forward failed: %v", err)
	}

	half := nv1 / 2
	for j := 0; j < nv2; j++ {
		for i := 0; i < half; i++ {
			want := complex128(0)
			if i == 1 && j == 0 {
				want = complex(float64(nv1*nv2)/2, 0)
			}
			if got := dst[j*half+i]; cmplx.Abs(got-want) > 1e-12 {
				t.Errorf("coefficient (%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestPlan_RoundTrip(t *testing.T) {
	nv1, nv2 := 16, 12
	p, err := NewPlan(nv1, nv2)
	if err != nil {
		t.Fatal(err)
	}

	src := make([]float64, nv1*nv2)
	for j := 0; j < nv2; j++ {
		v2 := 2 * math.Pi * float64(j) / float64(nv2)
		for i := 0; i < nv1; i++ {
			v1 := 2 * math.Pi * float64(i) / float64(nv1)
			src[j*nv1+i] = 1 + math.Cos(v1) + 0.5*math.Sin(3*v1+2*v2) - 0.25*math.Cos(5*v2)
		}
	}

	coeffs := make([]complex128, p.SpectralLen())
	out := make([]float64, len(src))
	if err := p.Forward(coeffs, src); err != nil {
		t.Fatal(err)
	}
	if err := p.Inverse(out, coeffs); err != nil {
		t.Fatal(err)
	}

	for k := range src {
		if math.Abs(out[k]-src[k]) > 1e-12 {
			t.Fatalf("round trip differs at %d: %v != %v", k, out[k], src[k])
		}
	}
}

func TestPlan_Cells(t *testing.T) {
	p, _ := NewPlan(4, 4)
	cells := 3
	src := make([]float64, cells*p.RealLen())
	for c := 0; c < cells; c++ {
		for k := 0; k < p.RealLen(); k++ {
			src[c*p.RealLen()+k] = float64(c + 1)
		}
	}

	coeffs := make([]complex128, cells*p.SpectralLen())
	if err := p.ForwardCells(coeffs, src, cells); err != nil {
		t.Fatal(err)
	}
	for c := 0; c < cells; c++ {
		if got, want := coeffs[c*p.SpectralLen()], complex(16*float64(c+1), 0); cmplx.Abs(got-want) > 1e-12 {
			t.Errorf("cell %d DC = %v, want %v", c, got, want)
		}
	}

	out := make([]float64, len(src))
	if err := p.InverseCells(out, coeffs, cells); err != nil {
		t.Fatal(err)
	}
	for k := range src {
		if math.Abs(out[k]-src[k]) > 1e-12 {
			t.Fatalf("cells round trip differs at %d", k)
		}
	}
}

func TestPlan_Contract(t *testing.T) {
	if _, err := NewPlan(5, 4); !errors.Is(err, kinetic.ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid for odd nv1, got %v", err)
	}

	p, _ := NewPlan(4, 4)
	if err := p.Forward(make([]complex128, 8), make([]float64, 15)); !errors.Is(err, kinetic.ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
	if err := p.ForwardCells(make([]complex128, 15), make([]float64, 32), 2); !errors.Is(err, kinetic.ErrBufferTooShort) {
		t.Errorf("expected ErrBufferTooShort, got %v", err)
	}
}
