// Package kinetic holds the primitives shared by the velocity-space update:
// the grid descriptor, the raw simulation parameters it is built from, and
// the domain errors returned across package boundaries.
//
//   - [Parameters]: the recognised construction options (n, n_all, n_dev, interval, n_ghost)
//   - [Grid]: validated, immutable extents and spacings of one engine instance
//   - [ContractError]: a size or margin violation detected before any buffer is written
//
// # Layout
//
// Configuration space is stored axis 0 fastest: cell (i, j) lives at j*nx1 + i.
// Velocity space is stored as half-spectrum blocks of nv1*nv2/2 complex
// coefficients, one block per configuration cell, block c at offset c*nv1*nv2/2.
//
// # Thread Safety
//
// Grid values are immutable and safe to share. Buffers derived from a grid
// are not synchronised; callers serialise access per engine.
package kinetic
