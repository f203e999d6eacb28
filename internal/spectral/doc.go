// Package spectral advances the velocity-space distribution held as complex
// half-spectrum coefficients, one block of nv1*nv2/2 coefficients per
// configuration cell.
//
//   - [Wavenumbers]: the lam1/lam2 lookup tables, built once per grid
//   - [Phasor], [Rotate]: phase rotation as multiplication by a unit complex number
//   - [Engine]: solves the electric field, then applies two sequential
//     rotations to every block of the local cell window
//   - [Plan]: forward/inverse transform between a real velocity block and
//     its half-spectrum layout
//
// # Example
//
//	eng, _ := spectral.New(params, dt)
//	plan, _ := spectral.NewPlan(nv1, nv2)
//	_ = plan.ForwardCells(buf, f, cells)
//	_ = eng.Advance(buf, phi, dt)
//	_ = plan.InverseCells(f, buf, cells)
//
// # Thread Safety
//
// An Engine owns its field buffers and phase tables; calls to Advance on one
// engine must be serialised by the caller. Plans are not safe for concurrent use.
package spectral
