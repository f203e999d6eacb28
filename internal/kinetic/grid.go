package kinetic

import "fmt"

// Parameters mirrors the options recognised at construction. Velocity axes
// come first in every array: index 0,1 are v1,v2 and index 2,3 are x1,x2.
type Parameters struct {
	N        [2]int     `yaml:"n" json:"n"`
	NAll     [4]int     `yaml:"n_all" json:"n_all"`
	NDev     int        `yaml:"n_dev" json:"n_dev"`
	Interval [4]float64 `yaml:"interval" json:"interval"`
	NGhost   [4]int     `yaml:"n_ghost" json:"n_ghost"`
}

// Grid is the immutable descriptor of one engine instance.
type Grid struct {
	NX1, NX2, NX2Loc int
	NX1Bd, NX2Bd     int
	NV1, NV2         int
	DX1, DX2         float64
	DV1, DV2         float64
	NDev             int
}

// NewGrid builds and validates a grid from raw parameters.
func NewGrid(p Parameters) (Grid, error) {
	ndev := p.NDev
	if ndev == 0 {
		ndev = 1
	}
	g := Grid{
		NV1:   p.N[0],
		NV2:   p.N[1],
		NX1:   p.NAll[2],
		NX2:   p.NAll[3],
		DV1:   p.Interval[0],
		DV2:   p.Interval[1],
		DX1:   p.Interval[2],
		DX2:   p.Interval[3],
		NX1Bd: p.NGhost[2],
		NX2Bd: p.NGhost[3],
		NDev:  ndev,
	}
	if ndev > 0 {
		g.NX2Loc = g.NX2 / ndev
	}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// Validate checks the descriptor invariants.
func (g Grid) Validate() error {
	switch {
	case g.NX1 <= 0 || g.NX2 <= 0:
		return fmt.Errorf("%w: configuration extents must be positive, got %dx%d", ErrInvalidGrid, g.NX1, g.NX2)
	case g.NV1 <= 0 || g.NV2 <= 0:
		return fmt.Errorf("%w: velocity extents must be positive, got %dx%d", ErrInvalidGrid, g.NV1, g.NV2)
	case g.NV1%2 != 0:
		return fmt.Errorf("%w: nv1 must be even for half-spectrum storage, got %d", ErrInvalidGrid, g.NV1)
	case g.NV1 <= 2:
		return fmt.Errorf("%w: nv1 must exceed its 2-cell margin, got %d", ErrInvalidGrid, g.NV1)
	case g.DX1 <= 0 || g.DX2 <= 0 || g.DV1 <= 0 || g.DV2 <= 0:
		return fmt.Errorf("%w: spacings must be positive", ErrInvalidGrid)
	case g.NX1Bd < 0 || 2*g.NX1Bd >= g.NX1:
		return fmt.Errorf("%w: ghost width %d invalid for nx1=%d", ErrInvalidGrid, g.NX1Bd, g.NX1)
	case g.NX2Bd < 0 || 2*g.NX2Bd >= g.NX2:
		return fmt.Errorf("%w: ghost width %d invalid for nx2=%d", ErrInvalidGrid, g.NX2Bd, g.NX2)
	case g.NDev <= 0 || g.NX2%g.NDev != 0:
		return fmt.Errorf("%w: nx2=%d not divisible into %d partitions", ErrInvalidGrid, g.NX2, g.NDev)
	}
	return nil
}

// Interior returns the configuration extent with ghost cells removed.
func (g Grid) Interior() [2]int {
	return [2]int{g.NX1 - 2*g.NX1Bd, g.NX2 - 2*g.NX2Bd}
}

func (g Grid) InteriorSize() int {
	in := g.Interior()
	return in[0] * in[1]
}

// PotentialSize is the length of the full potential field, ghosts included.
func (g Grid) PotentialSize() int { return g.NX1 * g.NX2 }

// HalfSpectrum is the number of complex coefficients stored per cell.
func (g Grid) HalfSpectrum() int { return g.NV1 * g.NV2 / 2 }

// LocalCells is the number of configuration cells owned by one partition.
func (g Grid) LocalCells() int { return g.NX1 * g.NX2Loc }

// SpectralLen is the minimum spectral buffer length for one partition.
func (g Grid) SpectralLen() int { return g.LocalCells() * g.HalfSpectrum() }
