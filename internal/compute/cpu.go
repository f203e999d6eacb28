package compute

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/san-kum/vlasim/internal/kinetic"
)

// minChunk is the smallest range handed to a worker goroutine.
const minChunk = 256

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func NewCPUBackendWithWorkers(workers int) *CPUBackend {
	if workers < 1 {
		workers = 1
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}
func (c *CPUBackend) Workers() int    { return c.workers }

func (c *CPUBackend) Map(n int, fn func(start, end int)) error {
	if n <= 0 {
		return nil
	}

	workers := c.workers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		return c.run(fn, 0, n)
	}

	errs := make([]error, workers)
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(worker, s, e int) {
			defer wg.Done()
			errs[worker] = c.run(fn, s, e)
		}(w, start, end)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// run converts a panic inside fn into ErrDeviceExecution.
func (c *CPUBackend) run(fn func(start, end int), start, end int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s range [%d,%d): %v", kinetic.ErrDeviceExecution, c.Name(), start, end, r)
		}
	}()
	fn(start, end)
	return nil
}
