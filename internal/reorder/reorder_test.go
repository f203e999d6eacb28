package reorder

import (
	"errors"
	"testing"

	"github.com/san-kum/vlasim/internal/kinetic"
)

func TestTranspose2D(t *testing.T) {
	n0, n1 := 3, 2
	r, err := Transpose2D(n0, n1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src := make([]float64, n0*n1)
	for j := 0; j < n1; j++ {
		for i := 0; i < n0; i++ {
			src[j*n0+i] = float64(10*j + i)
		}
	}

	dst := make([]float64, n0*n1)
	if err := r.Copy(dst, src); err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	// transposed layout: axis 1 fastest, element (j, i) at i*n1 + j
	for i := 0; i < n0; i++ {
		for j := 0; j < n1; j++ {
			if got, want := dst[i*n1+j], src[j*n0+i]; got != want {
				t.Errorf("dst[%d] = %v, want %v", i*n1+j, got, want)
			}
		}
	}

	if out := r.OutShape(); out[0] != n1 || out[1] != n0 {
		t.Errorf("OutShape() = %v", out)
	}
}

func TestTranspose2D_RoundTrip(t *testing.T) {
	n0, n1 := 5, 7
	fwd, _ := Transpose2D(n0, n1)
	back, _ := Transpose2D(n1, n0)

	src := make([]float64, n0*n1)
	for i := range src {
		src[i] = float64(i) * 0.5
	}
	mid := make([]float64, len(src))
	out := make([]float64, len(src))
	if err := fwd.Copy(mid, src); err != nil {
		t.Fatal(err)
	}
	if err := back.Copy(out, mid); err != nil {
		t.Fatal(err)
	}
	for i := range src {
		if out[i] != src[i] {
			t.Fatalf("round trip differs at %d: %v != %v", i, out[i], src[i])
		}
	}
}

func TestReorder3D(t *testing.T) {
	shape := []int{2, 3, 4}
	r, err := New(shape, []int{2, 0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.OutShape(); got[0] != 4 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("OutShape() = %v", got)
	}

	// output element (c, a, b) reads input element (a, b, c)
	for c := 0; c < 4; c++ {
		for a := 0; a < 2; a++ {
			for b := 0; b < 3; b++ {
				out := c + 4*(a+2*b)
				in := a + 2*(b+3*c)
				if got := r.Index(out); got != in {
					t.Errorf("Index(%d) = %d, want %d", out, got, in)
				}
			}
		}
	}
}

func TestReorder_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		shape []int
		order []int
	}{
		{"rank mismatch", []int{2, 2}, []int{0}},
		{"repeated axis", []int{2, 2}, []int{0, 0}},
		{"axis out of range", []int{2, 2}, []int{0, 2}},
		{"zero extent", []int{0, 2}, []int{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.shape, tt.order); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestReorder_CopySizeMismatch(t *testing.T) {
	r, _ := Transpose2D(2, 2)
	err := r.Copy(make([]float64, 4), make([]float64, 3))
	if !errors.Is(err, kinetic.ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestStridedChunks(t *testing.T) {
	tests := []struct {
		name                      string
		begin, end, stride, chunk int
		want                      []int
	}{
		{"left slabs", 0, 12, 4, 1, []int{0, 4, 8}},
		{"right slabs", 2, 12, 4, 2, []int{2, 3, 6, 7, 10, 11}},
		{"truncated tail", 0, 10, 4, 3, []int{0, 1, 2, 4, 5, 6, 8, 9}},
		{"single block", 4, 12, 12, 8, []int{4, 5, 6, 7, 8, 9, 10, 11}},
		{"empty", 3, 3, 4, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStridedChunks(tt.begin, tt.end, tt.stride, tt.chunk)
			if s.Len() != len(tt.want) {
				t.Fatalf("Len() = %d, want %d", s.Len(), len(tt.want))
			}
			for k, idx := range tt.want {
				if got := s.At(k); got != idx {
					t.Errorf("At(%d) = %d, want %d", k, got, idx)
				}
			}
		})
	}
}

func TestStridedChunks_Fill(t *testing.T) {
	data := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	NewStridedChunks(0, 8, 4, 1).Fill(data, 0)
	want := []float64{0, 1, 1, 1, 0, 1, 1, 1}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("data[%d] = %v, want %v", i, data[i], want[i])
		}
	}
}
