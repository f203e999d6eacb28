// Package compute provides the data-parallel execution backends used by the
// field solver and the spectral advance.
//
// The package automatically selects the best available backend:
//
//   - CUDA: built with -tags cuda against libcudart; it detects the device
//     and runs ranges on host workers. Without the tag a stub reports
//     itself unavailable and delegates to the CPU
//   - CPU: splits each map across runtime.NumCPU() goroutines
//
// # Usage
//
// Every elementwise stage is expressed as one Map call:
//
//	backend := compute.GetBackend()
//	err := backend.Map(len(out), func(start, end int) {
//	    for i := start; i < end; i++ {
//	        out[i] = f(in[i])
//	    }
//	})
//
// Ranges within one Map are unordered. Dependent stages must be issued as
// separate Map calls; the second begins only after the first returns.
//
// # Failures
//
// A panic inside a range is recovered and returned as an error wrapping
// kinetic.ErrDeviceExecution. Partially written outputs must not be trusted.
package compute
