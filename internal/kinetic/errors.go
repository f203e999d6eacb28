package kinetic

import (
	"errors"
	"fmt"
)

// Domain errors for the velocity-space update.
var (
	// ErrInvalidGrid indicates extents, spacings or ghost widths outside their valid range.
	ErrInvalidGrid = errors.New("kinetic: invalid grid descriptor")

	// ErrSizeMismatch indicates an array whose length disagrees with the grid.
	ErrSizeMismatch = errors.New("kinetic: array size does not match grid")

	// ErrInsufficientMargin indicates a boundary margin narrower than the stencil half-width.
	ErrInsufficientMargin = errors.New("kinetic: boundary margin too small for stencil")

	// ErrBufferTooShort indicates a spectral buffer shorter than the local cell window.
	ErrBufferTooShort = errors.New("kinetic: spectral buffer shorter than required")

	// ErrInvalidTimestep indicates a NaN, infinite or non-positive timestep.
	ErrInvalidTimestep = errors.New("kinetic: invalid timestep")

	// ErrDeviceExecution indicates a fatal failure inside a compute backend.
	ErrDeviceExecution = errors.New("kinetic: device execution failed")

	// ErrCanceled indicates a run interrupted through its context.
	ErrCanceled = errors.New("kinetic: run canceled by context")
)

// ContractError wraps a contract violation with the operation and the sizes involved.
type ContractError struct {
	Op      string
	Want    int
	Got     int
	Wrapped error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %v (want %d, got %d)", e.Op, e.Wrapped, e.Want, e.Got)
}

func (e *ContractError) Unwrap() error {
	return e.Wrapped
}

// CheckLen returns a ContractError wrapping ErrSizeMismatch when got != want.
func CheckLen(op string, want, got int) error {
	if want != got {
		return &ContractError{Op: op, Want: want, Got: got, Wrapped: ErrSizeMismatch}
	}
	return nil
}
