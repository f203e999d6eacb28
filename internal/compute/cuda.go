//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -lcudart
#include <stdlib.h>
#include <string.h>
#include <cuda_runtime.h>

static int cuda_device_count() {
	int n = 0;
	if (cudaGetDeviceCount(&n) != cudaSuccess) {
		return 0;
	}
	return n;
}

static void cuda_device_name(char* dst, int len) {
	struct cudaDeviceProp prop;
	dst[0] = 0;
	if (cudaGetDeviceProperties(&prop, 0) == cudaSuccess) {
		strncpy(dst, prop.name, len - 1);
		dst[len - 1] = 0;
	}
}
*/
import "C"
import "unsafe"

// CUDABackend reports the first CUDA device. Map callbacks are Go closures,
// so ranges still run on host workers sized for the device build.
type CUDABackend struct {
	available  bool
	deviceName string
	host       *CPUBackend
}

func NewCUDABackend() *CUDABackend {
	count := int(C.cuda_device_count())
	name := ""
	if count > 0 {
		buf := (*C.char)(C.malloc(256))
		defer C.free(unsafe.Pointer(buf))
		C.cuda_device_name(buf, 256)
		name = C.GoString(buf)
	}
	return &CUDABackend{
		available:  count > 0,
		deviceName: name,
		host:       NewCPUBackend(),
	}
}

func (c *CUDABackend) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDABackend) Available() bool { return c.available }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) Map(n int, fn func(start, end int)) error {
	return c.host.Map(n, fn)
}
