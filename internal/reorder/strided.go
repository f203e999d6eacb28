package reorder

// StridedChunks addresses chunk contiguous elements every stride elements,
// starting at begin and stopping before end.
type StridedChunks struct {
	begin, end    int
	stride, chunk int
}

func NewStridedChunks(begin, end, stride, chunk int) StridedChunks {
	return StridedChunks{begin: begin, end: end, stride: stride, chunk: chunk}
}

// Len is the number of addressed elements.
func (s StridedChunks) Len() int {
	if s.chunk <= 0 || s.stride <= 0 || s.begin >= s.end {
		return 0
	}
	span := s.end - s.begin
	full := span / s.stride
	n := full * s.chunk
	if rem := span - full*s.stride; rem > 0 {
		n += min(rem, s.chunk)
	}
	return n
}

// At returns the flat index of the k-th addressed element.
func (s StridedChunks) At(k int) int {
	return s.begin + (k/s.chunk)*s.stride + k%s.chunk
}

// Fill overwrites every addressed element of data with v.
func (s StridedChunks) Fill(data []float64, v float64) {
	n := s.Len()
	for k := 0; k < n; k++ {
		data[s.At(k)] = v
	}
}
