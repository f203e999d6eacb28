package compute

// Backend executes bulk data-parallel maps. Map splits [0, n) into
// contiguous ranges and calls fn on each; ranges may run concurrently and in
// any order, and Map returns only after every range has finished.
type Backend interface {
	Name() string
	Available() bool
	Map(n int, fn func(start, end int)) error
	Cleanup()
}

var activeBackend Backend

func init() {
	// Auto-select best available backend (CUDA if available, else CPU)
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

func AutoSelectBackend() Backend {
	cuda := NewCUDABackend()
	if cuda.Available() {
		return cuda
	}
	return NewCPUBackend()
}

// ByName resolves a backend from configuration; "auto" and "" pick the best available.
func ByName(name string, workers int) Backend {
	switch name {
	case "cuda":
		return NewCUDABackend()
	case "cpu":
		if workers > 0 {
			return NewCPUBackendWithWorkers(workers)
		}
		return NewCPUBackend()
	case "serial":
		return NewCPUBackendWithWorkers(1)
	default:
		return AutoSelectBackend()
	}
}
