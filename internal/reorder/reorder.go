// Package reorder provides the two layout helpers the field solver is built
// on: an out-of-place axis permutation of a flattened array and a strided
// view over every Nth contiguous block of one.
package reorder

import (
	"fmt"

	"github.com/san-kum/vlasim/internal/kinetic"
)

// Reorder permutes the axis order of a flattened array. Shapes are listed
// fastest axis first; output axis k is input axis order[k].
type Reorder struct {
	shape    []int
	order    []int
	outShape []int
	inStride []int
	size     int
}

// New validates the permutation and precomputes strides.
func New(shape, order []int) (*Reorder, error) {
	if len(shape) != len(order) || len(shape) == 0 {
		return nil, fmt.Errorf("reorder: shape %v and order %v differ in rank", shape, order)
	}

	seen := make([]bool, len(order))
	for _, a := range order {
		if a < 0 || a >= len(order) || seen[a] {
			return nil, fmt.Errorf("reorder: %v is not a permutation", order)
		}
		seen[a] = true
	}

	r := &Reorder{
		shape:    append([]int(nil), shape...),
		order:    append([]int(nil), order...),
		outShape: make([]int, len(shape)),
		inStride: make([]int, len(shape)),
		size:     1,
	}
	for a, n := range shape {
		if n <= 0 {
			return nil, fmt.Errorf("reorder: non-positive extent in %v", shape)
		}
		r.inStride[a] = r.size
		r.size *= n
	}
	for k, a := range order {
		r.outShape[k] = shape[a]
	}
	return r, nil
}

// Transpose2D is the {1,0} permutation of an n0 x n1 array.
func Transpose2D(n0, n1 int) (*Reorder, error) {
	return New([]int{n0, n1}, []int{1, 0})
}

func (r *Reorder) Size() int       { return r.size }
func (r *Reorder) OutShape() []int { return append([]int(nil), r.outShape...) }

// Index maps a flat output index to the flat input index it reads from.
func (r *Reorder) Index(out int) int {
	in := 0
	for k, n := range r.outShape {
		in += (out % n) * r.inStride[r.order[k]]
		out /= n
	}
	return in
}

// CopyRange writes dst[o] = src[Index(o)] for o in [start, end).
func (r *Reorder) CopyRange(dst, src []float64, start, end int) {
	for o := start; o < end; o++ {
		dst[o] = src[r.Index(o)]
	}
}

// Copy performs the full permutation serially.
func (r *Reorder) Copy(dst, src []float64) error {
	if err := kinetic.CheckLen("reorder src", r.size, len(src)); err != nil {
		return err
	}
	if err := kinetic.CheckLen("reorder dst", r.size, len(dst)); err != nil {
		return err
	}
	r.CopyRange(dst, src, 0, r.size)
	return nil
}
